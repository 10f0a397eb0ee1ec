package risk

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fineprint/contract-analyzer/constants"
	"github.com/fineprint/contract-analyzer/internal/common"
	"github.com/fineprint/contract-analyzer/internal/entity"
	"github.com/fineprint/contract-analyzer/internal/llm"
)

type stubClassifier struct {
	clauses []entity.Clause
	err     error
	delay   time.Duration
	calls   int
}

func (s *stubClassifier) ClassifyClauses(ctx context.Context, _ llm.ClassifyRequest) ([]entity.Clause, []byte, error) {
	s.calls++
	if s.delay > 0 {
		select {
		case <-ctx.Done():
			return nil, nil, ctx.Err()
		case <-time.After(s.delay):
		}
	}
	return s.clauses, nil, s.err
}

const contractText = "The parties agree to keep all Confidential Information secret. " +
	"Either party may terminate this agreement on 30 days notice. " +
	"This agreement is subject to the governing law of Delaware."

func intPtr(i int) *int { return &i }

func TestLevelFor_Boundaries(t *testing.T) {
	assert.Equal(t, constants.RiskLow, LevelFor(0))
	assert.Equal(t, constants.RiskLow, LevelFor(32.9))
	assert.Equal(t, constants.RiskMedium, LevelFor(33.0))
	assert.Equal(t, constants.RiskMedium, LevelFor(65.9))
	assert.Equal(t, constants.RiskHigh, LevelFor(66.0))
	assert.Equal(t, constants.RiskHigh, LevelFor(100))
}

func TestScore(t *testing.T) {
	clauses := []entity.Clause{
		{RiskLevel: constants.RiskHigh},
		{RiskLevel: constants.RiskMedium},
		{RiskLevel: constants.RiskLow},
	}
	// (0.1*5 + 0.05*4 + 0.3 + 0.2 + 0.1) * 20
	assert.InDelta(t, 26.0, Score(5, intPtr(4), clauses), 1e-9)
	// page contribution caps at 1
	assert.InDelta(t, 20.0, Score(0, intPtr(500), nil), 1e-9)
	// unknown page count contributes nothing
	assert.InDelta(t, 2.0, Score(1, nil, nil), 1e-9)
	// clamped at 100
	assert.Equal(t, 100.0, Score(1000, nil, nil))
	assert.Equal(t, 0.0, Score(0, nil, nil))
}

func TestHeuristicClassifier(t *testing.T) {
	clauses := HeuristicClassifier{}.Classify(context.Background(), contractText)

	require.Len(t, clauses, 3)
	assert.Equal(t, constants.Confidentiality, clauses[0].Type)
	assert.Equal(t, constants.Termination, clauses[1].Type)
	assert.Equal(t, constants.Jurisdiction, clauses[2].Type)
	for _, c := range clauses {
		assert.Equal(t, constants.RiskMedium, c.RiskLevel)
		assert.Equal(t, constants.RiskFactors(c.Type), c.RiskFactors)
		assert.NotEmpty(t, c.Content)
	}
	assert.Contains(t, clauses[1].Content, "terminate")
	assert.False(t, strings.HasPrefix(clauses[1].Content, "..."))
	assert.True(t, strings.HasPrefix(clauses[2].Content, "..."))
}

func TestHeuristicClassifier_Empty(t *testing.T) {
	assert.Empty(t, HeuristicClassifier{}.Classify(context.Background(), "nothing to see here"))
}

func TestClassify_Paths(t *testing.T) {
	remote := []entity.Clause{{Type: constants.Warranty, Content: "as is", RiskLevel: constants.RiskHigh, RiskFactors: []string{"disclaimers"}}}

	cases := []struct {
		name       string
		classifier llm.ClauseClassifier
		wantSource constants.ClauseSource
		wantLen    int
	}{
		{"remote ok", &stubClassifier{clauses: remote}, constants.ClauseSourceRemote, 1},
		{"rate limited", &stubClassifier{err: fmt.Errorf("call: %w", llm.ErrRateLimited)}, constants.ClauseSourceHeuristic, 3},
		{"unavailable", &stubClassifier{err: llm.ErrUnavailable}, constants.ClauseSourceHeuristic, 3},
		{"no classifier", nil, constants.ClauseSourceHeuristic, 3},
		{"malformed", &stubClassifier{err: fmt.Errorf("%w: junk", llm.ErrMalformedResponse)}, constants.ClauseSourceNone, 0},
		{"other", &stubClassifier{err: errors.New("connection reset")}, constants.ClauseSourceNone, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a := NewAnalyzer(nil, tc.classifier, Config{})
			clauses, source := a.Classify(context.Background(), contractText)
			assert.Equal(t, tc.wantSource, source)
			assert.Len(t, clauses, tc.wantLen)
			assert.NotNil(t, clauses)
		})
	}
}

func TestClassify_TimeoutFallsBack(t *testing.T) {
	stub := &stubClassifier{delay: time.Second}
	a := NewAnalyzer(nil, stub, Config{Timeout: 20 * time.Millisecond})

	clauses, source := a.Classify(context.Background(), contractText)
	assert.Equal(t, constants.ClauseSourceHeuristic, source)
	assert.Len(t, clauses, 3)
	assert.Equal(t, 1, stub.calls)
}

func TestAnalyze_NoContent(t *testing.T) {
	a := NewAnalyzer(nil, nil, Config{})
	_, err := a.Analyze(context.Background(), entity.RawDocument{Text: "  \n\t "}, nil)
	assert.ErrorIs(t, err, common.ErrNoContent)
}

func TestAnalyze_HeuristicDeterministic(t *testing.T) {
	a := NewAnalyzer(nil, nil, Config{})
	doc := entity.RawDocument{Text: contractText, Metadata: entity.DocumentMetadata{Title: "nda.txt", PageCount: intPtr(2)}}
	terms := []entity.ExtractedTerm{
		{Value: "30", Type: constants.TermOther},
		{Value: "2024-01-01", Type: constants.TermDate},
		{Value: "4.2", Type: constants.TermSection},
	}

	first, err := a.Analyze(context.Background(), doc, terms)
	require.NoError(t, err)
	second, err := a.Analyze(context.Background(), doc, terms)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, constants.ClauseSourceHeuristic, first.ClauseSource)
	// (0.3 + 0.1 + 3*0.2) * 20
	assert.InDelta(t, 20.0, first.RiskScore, 1e-9)
	assert.Equal(t, constants.RiskLow, first.RiskLevel)
	assert.Equal(t,
		"Document analysis found 3 terms: 1 dates, 0 amounts and 1 legal terms. "+
			"Identified 3 clauses (0 high risk, 3 medium risk, 0 low risk). Overall risk level: low.",
		first.Summary)
}

func TestAnalyze_MalformedStillScores(t *testing.T) {
	a := NewAnalyzer(nil, &stubClassifier{err: llm.ErrMalformedResponse}, Config{})
	out, err := a.Analyze(context.Background(), entity.RawDocument{Text: contractText}, nil)
	require.NoError(t, err)
	assert.Empty(t, out.Clauses)
	assert.NotNil(t, out.Terms)
	assert.Equal(t, 0.0, out.RiskScore)
	assert.Equal(t, constants.ClauseSourceNone, out.ClauseSource)
}
