package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fineprint/contract-analyzer/constants"
	"github.com/fineprint/contract-analyzer/internal/entity"
	"github.com/fineprint/contract-analyzer/internal/utils"
)

// CSVHeader is the column order of the contracts CSV.
var CSVHeader = []string{
	"id",
	"title",
	"source",
	"extractedAt",
	"effectiveDate",
	"expirationDate",
	"amount",
	"parties",
	"paymentTerms",
	"terminationClause",
	"automaticRenewal",
	"governingLaw",
	"disputeResolution",
	"confidentiality",
	"riskScore",
	"riskLevel",
}

// ContractRow is one parsed line of the contracts CSV.
type ContractRow struct {
	ID        uuid.UUID
	Title     string
	Terms     entity.ExtractedContractTerms
	RiskScore float64
	RiskLevel constants.RiskLevel
}

// JoinParties encodes party names as one semicolon-separated field. Names holding a
// semicolon, quote or newline are quoted with doubled inner quotes.
func JoinParties(parties []string) string {
	if len(parties) == 0 {
		return ""
	}
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Comma = ';'
	_ = w.Write(parties)
	w.Flush()
	return strings.TrimRight(buf.String(), "\r\n")
}

// ParseParties inverts JoinParties.
func ParseParties(s string) ([]string, error) {
	if s == "" {
		return nil, nil
	}
	r := csv.NewReader(strings.NewReader(s))
	r.Comma = ';'
	r.FieldsPerRecord = -1
	rec, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("parse parties: %w", err)
	}
	if _, err := r.Read(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse parties: trailing data in %q", s)
	}
	return rec, nil
}

func reportRow(r *entity.Report) []string {
	t := r.Terms
	extractedAt := ""
	if !t.ExtractedAt.IsZero() {
		extractedAt = t.ExtractedAt.UTC().Format(time.RFC3339Nano)
	}
	return []string{
		r.ID.String(),
		r.Document.Title,
		t.Source,
		extractedAt,
		utils.StrOrEmpty(t.EffectiveDate),
		utils.StrOrEmpty(t.ExpirationDate),
		utils.StrOrEmpty(t.Amount),
		JoinParties(t.Parties),
		utils.StrOrEmpty(t.PaymentTerms),
		utils.StrOrEmpty(t.TerminationClause),
		utils.StrOrEmpty(t.AutomaticRenewal),
		utils.StrOrEmpty(t.GoverningLaw),
		utils.StrOrEmpty(t.DisputeResolution),
		utils.StrOrEmpty(t.Confidentiality),
		strconv.FormatFloat(r.Analysis.RiskScore, 'f', -1, 64),
		string(r.Analysis.RiskLevel),
	}
}

// WriteCSV writes the header and one row per report.
func WriteCSV(w io.Writer, reports []*entity.Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for _, r := range reports {
		if err := cw.Write(reportRow(r)); err != nil {
			return fmt.Errorf("write row %s: %w", r.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses a contracts CSV produced by WriteCSV. Empty cells become nil fields.
func ReadCSV(r io.Reader) ([]ContractRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(CSVHeader)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i, h := range CSVHeader {
		if header[i] != h {
			return nil, fmt.Errorf("unexpected column %d: %q, want %q", i+1, header[i], h)
		}
	}

	var rows []ContractRow
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return nil, err
		}
		row, err := parseRow(rec)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
}

func parseRow(rec []string) (ContractRow, error) {
	var row ContractRow
	id, err := uuid.Parse(rec[0])
	if err != nil {
		return row, fmt.Errorf("id %q: %w", rec[0], err)
	}
	parties, err := ParseParties(rec[7])
	if err != nil {
		return row, err
	}
	var score float64
	if rec[14] != "" {
		if score, err = strconv.ParseFloat(rec[14], 64); err != nil {
			return row, fmt.Errorf("riskScore %q: %w", rec[14], err)
		}
	}
	var extractedAt time.Time
	if rec[3] != "" {
		if extractedAt, err = time.Parse(time.RFC3339Nano, rec[3]); err != nil {
			return row, fmt.Errorf("extractedAt %q: %w", rec[3], err)
		}
	}

	row = ContractRow{
		ID:    id,
		Title: rec[1],
		Terms: entity.ExtractedContractTerms{
			Source:            rec[2],
			ExtractedAt:       extractedAt,
			EffectiveDate:     utils.StrPtr(rec[4]),
			ExpirationDate:    utils.StrPtr(rec[5]),
			Amount:            utils.StrPtr(rec[6]),
			Parties:           parties,
			PaymentTerms:      utils.StrPtr(rec[8]),
			TerminationClause: utils.StrPtr(rec[9]),
			AutomaticRenewal:  utils.StrPtr(rec[10]),
			GoverningLaw:      utils.StrPtr(rec[11]),
			DisputeResolution: utils.StrPtr(rec[12]),
			Confidentiality:   utils.StrPtr(rec[13]),
		},
		RiskScore: score,
		RiskLevel: constants.RiskLevel(rec[15]),
	}
	return row, nil
}
