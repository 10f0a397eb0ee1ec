package ocr

import (
	"archive/zip"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fineprint/contract-analyzer/constants"
	"github.com/fineprint/contract-analyzer/internal/entity"
)

const docxBody = "word/document.xml"

func (e *Extractor) extractDOCX(path string) (ExtractionResult, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return ExtractionResult{}, fmt.Errorf("open docx: %w", err)
	}
	defer func() {
		if err := zr.Close(); err != nil {
			e.logger.Warn("ocr.docx.close_failed", "path", path, "error", err)
		}
	}()

	for _, f := range zr.File {
		if f.Name != docxBody {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return ExtractionResult{}, fmt.Errorf("open %s: %w", docxBody, err)
		}
		text, err := docxText(rc)
		_ = rc.Close()
		if err != nil {
			return ExtractionResult{}, err
		}
		return ExtractionResult{
			Document:   entity.RawDocument{Text: Normalize(text)},
			Method:     "docx-xml",
			Confidence: 1,
		}, nil
	}
	return ExtractionResult{}, fmt.Errorf("docx: %s not found", docxBody)
}

// docxText flattens WordprocessingML: paragraphs become lines, tabs stay tabs and explicit
// page breaks become form feeds.
func docxText(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)
	var b strings.Builder
	inText := false
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("docx: parse xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				b.WriteByte('\t')
			case "br", "cr":
				if isPageBreak(t) {
					b.WriteString("\n" + constants.PageBreak + "\n")
				} else {
					b.WriteByte('\n')
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				b.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				b.Write(t)
			}
		}
	}
	return b.String(), nil
}

func isPageBreak(el xml.StartElement) bool {
	for _, a := range el.Attr {
		if a.Name.Local == "type" && a.Value == "page" {
			return true
		}
	}
	return false
}
