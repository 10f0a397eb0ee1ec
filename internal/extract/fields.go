package extract

import "regexp"

// Field names as they appear in ExtractedContractTerms JSON and in the confidence map.
const (
	FieldEffectiveDate     = "effectiveDate"
	FieldExpirationDate    = "expirationDate"
	FieldAmount            = "amount"
	FieldParties           = "parties"
	FieldPaymentTerms      = "paymentTerms"
	FieldTerminationClause = "terminationClause"
	FieldAutomaticRenewal  = "automaticRenewal"
	FieldGoverningLaw      = "governingLaw"
	FieldDisputeResolution = "disputeResolution"
	FieldConfidentiality   = "confidentiality"
)

// MaxClauseLen caps clause-like field values, in characters.
const MaxClauseLen = 250

// fieldRule is one row of the extraction table. Patterns are tried in order and the
// first one matching anywhere in the text supplies capture group Group as the value.
type fieldRule struct {
	Name     string
	Patterns []*regexp.Regexp
	Group    int
	MaxLen   int
}

const (
	monthName = `(?:jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|june?|july?|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)\.?`
	anyDate   = `(?:` + monthName + `\s+\d{1,2}(?:st|nd|rd|th)?,?\s+\d{4}` +
		`|\d{1,2}(?:st|nd|rd|th)?\s+(?:day\s+of\s+)?` + monthName + `,?\s+\d{4}` +
		`|\d{1,2}/\d{1,2}/(?:\d{4}|\d{2})` +
		`|\d{4}-\d{2}-\d{2})`

	money = `(?:(?:[$€£]\s?|(?:usd|eur|gbp)\s?)(?:\d{1,3}(?:,\d{3})+|\d+)(?:\.\d{2})?` +
		`|(?:\d{1,3}(?:,\d{3})+|\d+)(?:\.\d{2})?\s?(?:usd|eur|gbp|dollars|euros|pounds)\b)`

	// A clause body: the rest of the line plus continuation lines, stopping at a blank
	// line or a line that starts with a capital letter.
	clauseBody = `([^\n]+(?:\n[^\nA-Z][^\n]*)*)`

	partyName  = `[A-Z][A-Za-z0-9&'.\-]*(?:[ \t]+[A-Z][A-Za-z0-9&'.\-]*){0,5}`
	partyRoles = `party\s+[ab12]|client|contractor|consultant|company|customer|vendor|supplier|provider|licensor|licensee|employer|employee|landlord|tenant|buyer|seller|lessor|lessee`
)

// heading matches a heading or keyword and captures the clause text that follows it.
func heading(keywords string) *regexp.Regexp {
	return regexp.MustCompile(`(?i:\b(?:` + keywords + `))[ \t]*[:.\-]?\s*` + clauseBody)
}

// phrase captures a clause starting at the keyword itself.
func phrase(keywords string) *regexp.Regexp {
	return regexp.MustCompile(`((?i:\b(?:` + keywords + `))[^\n]*(?:\n[^\nA-Z][^\n]*)*)`)
}

// fieldRules is evaluated top to bottom; parties are handled separately because every
// match contributes.
var fieldRules = []fieldRule{
	{
		Name: FieldEffectiveDate,
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\beffective\s+(?:as\s+of\s+|date\s*(?:of|is|:)?\s*|from\s+|on\s+)?(` + anyDate + `)`),
			regexp.MustCompile(`(?i)\b(?:dated|made(?:\s+and\s+entered\s+into)?\s+(?:as\s+of|on))\s+(` + anyDate + `)`),
			regexp.MustCompile(`(?i)\b(?:commenc\w*|start\w*|begin\w*)\s+(?:on\s+|from\s+)?(` + anyDate + `)`),
		},
		Group: 1,
	},
	{
		Name: FieldExpirationDate,
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(?:expir\w*|terminat\w*|end(?:s|ing)?)\s+(?:on\s+)?(` + anyDate + `)`),
			regexp.MustCompile(`(?i)\buntil\s+(` + anyDate + `)`),
			regexp.MustCompile(`(?i)\bthrough\s+(` + anyDate + `)`),
		},
		Group: 1,
	},
	{
		Name: FieldAmount,
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\btotal(?:\s+(?:amount|price|fee|value|consideration|sum))?\s*(?:of|is|:|equal\s+to)?\s*(` + money + `)`),
			regexp.MustCompile(`(?i)\b(?:fees?|price|payments?|compensation|sum|amount)\s+(?:of|is|:|equal\s+to)?\s*(` + money + `)`),
			regexp.MustCompile(`(?i)(` + money + `)`),
		},
		Group: 1,
	},
	{
		Name: FieldPaymentTerms,
		Patterns: []*regexp.Regexp{
			heading(`payment\s+terms?|terms\s+of\s+payment|payment\s+schedule`),
			phrase(`(?:payments?|invoices?)\s+(?:is|are|shall\s+be|will\s+be)\s+(?:due|payable|made)|net\s+\d{1,3}\s+days`),
		},
		Group:  1,
		MaxLen: MaxClauseLen,
	},
	{
		Name: FieldTerminationClause,
		Patterns: []*regexp.Regexp{
			heading(`termination(?:\s+of\s+(?:this\s+)?agreement)?`),
			phrase(`(?:either|any)\s+party\s+may\s+terminate|may\s+be\s+terminated`),
		},
		Group:  1,
		MaxLen: MaxClauseLen,
	},
	{
		Name: FieldAutomaticRenewal,
		Patterns: []*regexp.Regexp{
			phrase(`automatic(?:ally)?\s+renew\w*|auto-renew\w*`),
			heading(`renewal(?:\s+term)?`),
		},
		Group:  1,
		MaxLen: MaxClauseLen,
	},
	{
		Name: FieldGoverningLaw,
		Patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\bgoverned\s+by(?:\s+and\s+construed\s+in\s+accordance\s+with)?\s+the\s+laws?\s+of\s+(?:the\s+)?([^.\n,;]+)`),
			heading(`governing\s+law|choice\s+of\s+law|applicable\s+law`),
		},
		Group:  1,
		MaxLen: MaxClauseLen,
	},
	{
		Name: FieldDisputeResolution,
		Patterns: []*regexp.Regexp{
			heading(`dispute\s+resolution|arbitration`),
			phrase(`(?:any\s+)?disputes?\s+(?:arising|shall|will)`),
		},
		Group:  1,
		MaxLen: MaxClauseLen,
	},
	{
		Name: FieldConfidentiality,
		Patterns: []*regexp.Regexp{
			heading(`confidentiality|non-disclosure|nondisclosure`),
			phrase(`confidential\s+information`),
		},
		Group:  1,
		MaxLen: MaxClauseLen,
	},
}

// partyPatterns each yield one or more names; every non-empty group of every match counts.
var partyPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i:\bbetween)\s+(` + partyName + `)\s*(?:\([^)\n]*\))?,?\s+(?i:and)\s+(` + partyName + `)`),
	regexp.MustCompile(`(?m)^[ \t]*(?i:` + partyRoles + `)[ \t]*:[ \t]*(` + partyName + `)`),
	regexp.MustCompile(`(` + partyName + `)[ \t]*\([ \t]*(?i:the[ \t]+)?["“]?(?i:` + partyRoles + `)["”]?[ \t]*\)`),
}
