package extract

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/fineprint/contract-analyzer/internal/common"
	"github.com/fineprint/contract-analyzer/internal/entity"
	"github.com/fineprint/contract-analyzer/internal/utils"
)

// DefaultFieldConfidence is the score ConstantScorer assigns when none is configured.
const DefaultFieldConfidence = 0.85

// ConfidenceScorer assigns a [0,1] score to an extracted field value.
type ConfidenceScorer interface {
	Score(field, value string) float64
}

// ConstantScorer gives every present field the same score.
type ConstantScorer float64

func (c ConstantScorer) Score(_, _ string) float64 {
	switch v := float64(c); {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

// TermExtractor pulls contract-level fields out of document text. It holds no
// mutable state and is safe for concurrent use.
type TermExtractor struct {
	Logger *slog.Logger
	Scorer ConfidenceScorer
	now    func() time.Time
}

func NewTermExtractor(logger *slog.Logger, scorer ConfidenceScorer) *TermExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	if scorer == nil {
		scorer = ConstantScorer(DefaultFieldConfidence)
	}
	return &TermExtractor{Logger: logger, Scorer: scorer, now: time.Now}
}

// Extract runs the field table over text. Fields with no matching pattern stay nil;
// that is the normal "not present" outcome and never an error.
func (e *TermExtractor) Extract(ctx context.Context, text, source string) entity.ExtractedContractTerms {
	log := common.LoggerFromContext(ctx, e.Logger)

	terms := entity.ExtractedContractTerms{
		Confidence:  map[string]float64{},
		Source:      source,
		ExtractedAt: e.now().UTC(),
	}

	values := make(map[string]*string, len(fieldRules))
	for _, rule := range fieldRules {
		v, idx := rule.match(text)
		if v == nil {
			continue
		}
		values[rule.Name] = v
		log.Debug("extract.field.match", "field", rule.Name, "pattern", idx, "len", len(*v))
	}

	terms.EffectiveDate = values[FieldEffectiveDate]
	terms.ExpirationDate = values[FieldExpirationDate]
	terms.Amount = values[FieldAmount]
	terms.PaymentTerms = values[FieldPaymentTerms]
	terms.TerminationClause = values[FieldTerminationClause]
	terms.AutomaticRenewal = values[FieldAutomaticRenewal]
	terms.GoverningLaw = values[FieldGoverningLaw]
	terms.DisputeResolution = values[FieldDisputeResolution]
	terms.Confidentiality = values[FieldConfidentiality]
	terms.Parties = extractParties(text)

	for name, v := range values {
		terms.Confidence[name] = e.Scorer.Score(name, *v)
	}
	if len(terms.Parties) > 0 {
		terms.Confidence[FieldParties] = e.Scorer.Score(FieldParties, strings.Join(terms.Parties, ";"))
	}

	log.Debug("extract.terms.ok", "fields", len(terms.Confidence), "parties", len(terms.Parties))
	return terms
}

// match returns the value of the first pattern that matches and its index in the rule.
func (r fieldRule) match(text string) (*string, int) {
	for i, re := range r.Patterns {
		m := re.FindStringSubmatch(text)
		if m == nil || r.Group >= len(m) {
			continue
		}
		v := strings.TrimSpace(m[r.Group])
		if r.MaxLen > 0 {
			v = strings.TrimSpace(utils.TruncateRunes(v, r.MaxLen))
		}
		if v == "" {
			continue
		}
		return &v, i
	}
	return nil, -1
}

// extractParties collects every non-empty group of every party pattern match,
// deduplicated by exact string, in first-seen order.
func extractParties(text string) []string {
	var parties []string
	seen := map[string]struct{}{}
	for _, re := range partyPatterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			for _, g := range m[1:] {
				name := strings.TrimSpace(g)
				if name == "" {
					continue
				}
				if _, dup := seen[name]; dup {
					continue
				}
				seen[name] = struct{}{}
				parties = append(parties, name)
			}
		}
	}
	return parties
}
