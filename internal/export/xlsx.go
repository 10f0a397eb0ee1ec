package export

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/fineprint/contract-analyzer/internal/entity"
)

const (
	SheetContracts = "Contracts"
	SheetTerms     = "Terms"
	SheetClauses   = "Clauses"
)

var (
	termHeaders   = []string{"Report ID", "Page", "Type", "Value", "Confidence", "Start", "End", "Context"}
	clauseHeaders = []string{"Report ID", "Type", "Risk Level", "Risk Factors", "Content"}
)

// WriteWorkbook renders reports as an XLSX workbook with one sheet per concern.
func WriteWorkbook(reports []*entity.Report) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SheetContracts); err != nil {
		return nil, err
	}
	for _, s := range []string{SheetTerms, SheetClauses} {
		if _, err := f.NewSheet(s); err != nil {
			return nil, err
		}
	}

	contracts := make([][]any, 0, len(reports))
	var terms, clauses [][]any
	for _, r := range reports {
		row := reportRow(r)
		cells := make([]any, len(row))
		for i, v := range row {
			cells[i] = v
		}
		cells[14] = r.Analysis.RiskScore
		contracts = append(contracts, cells)

		id := r.ID.String()
		for _, t := range r.Analysis.Terms {
			terms = append(terms, []any{id, t.Page, string(t.Type), t.Value, t.Confidence, t.Position.Start, t.Position.End, t.Context})
		}
		for _, c := range r.Analysis.Clauses {
			clauses = append(clauses, []any{id, string(c.Type), string(c.RiskLevel), strings.Join(c.RiskFactors, ", "), c.Content})
		}
	}

	if err := writeSheet(f, SheetContracts, CSVHeader, contracts); err != nil {
		return nil, err
	}
	if err := writeSheet(f, SheetTerms, termHeaders, terms); err != nil {
		return nil, err
	}
	if err := writeSheet(f, SheetClauses, clauseHeaders, clauses); err != nil {
		return nil, err
	}

	_ = f.SetColWidth(SheetContracts, "A", "A", 38) // id
	_ = f.SetColWidth(SheetContracts, "B", "D", 24)
	_ = f.SetColWidth(SheetContracts, "H", "N", 40) // parties and clause text
	_ = f.SetColWidth(SheetTerms, "D", "D", 24)
	_ = f.SetColWidth(SheetTerms, "H", "H", 80)
	_ = f.SetColWidth(SheetClauses, "D", "D", 40)
	_ = f.SetColWidth(SheetClauses, "E", "E", 80)

	idx, err := f.GetSheetIndex(SheetContracts)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(idx)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSheet(f *excelize.File, sheet string, headers []string, rows [][]any) error {
	hdr := make([]any, len(headers))
	for i, h := range headers {
		hdr[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &hdr); err != nil {
		return fmt.Errorf("%s header: %w", sheet, err)
	}
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &r); err != nil {
			return fmt.Errorf("%s row %d: %w", sheet, i+2, err)
		}
	}
	return nil
}
