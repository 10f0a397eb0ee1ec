package constants

// TermType categorizes a fine-grained extracted term.
type TermType string

const (
	TermAmount     TermType = "amount"
	TermDate       TermType = "date"
	TermSection    TermType = "section"
	TermReference  TermType = "reference"
	TermPercentage TermType = "percentage"
	TermOther      TermType = "other"
)

// PageBreak separates pages in extracted text (pdftotext emits it between pages).
const PageBreak = "\f"
