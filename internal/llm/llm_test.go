package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fineprint/contract-analyzer/constants"
)

func TestNormalizeClausesJSON(t *testing.T) {
	raw := "```json\n" + `{"clauses":[
		{"type":"NDA","content":"  keep it secret ","riskLevel":"HIGH","riskFactors":["Duration of obligations","made up"],"extra":1},
		{"type":"astrology","content":"x","riskLevel":"low","riskFactors":[]},
		{"type":"force_majeure","content":"storms","riskLevel":"severe"}
	]}` + "\n```"

	out, notes, err := NormalizeClausesJSON([]byte(raw), nil)
	require.NoError(t, err)
	assert.NotEmpty(t, notes)

	var resp ClassifyResponse
	require.NoError(t, json.Unmarshal(out, &resp))
	require.Len(t, resp.Clauses, 2)

	assert.Equal(t, "confidentiality", resp.Clauses[0].Type)
	assert.Equal(t, "keep it secret", resp.Clauses[0].Content)
	assert.Equal(t, "high", resp.Clauses[0].RiskLevel)
	assert.Equal(t, []string{"duration of obligations"}, resp.Clauses[0].RiskFactors)

	assert.Equal(t, "force majeure", resp.Clauses[1].Type)
	assert.Equal(t, "medium", resp.Clauses[1].RiskLevel)
	assert.Empty(t, resp.Clauses[1].RiskFactors)
}

func TestNormalizeClausesJSON_BareArray(t *testing.T) {
	out, _, err := NormalizeClausesJSON([]byte(`[{"type":"warranty","content":"as is","riskLevel":"low","riskFactors":["disclaimers"]}]`), nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"clauses":[{"type":"warranty","content":"as is","riskLevel":"low","riskFactors":["disclaimers"]}]}`, string(out))
}

func TestNormalizeClausesJSON_Rejects(t *testing.T) {
	for _, raw := range []string{`not json`, `{"answer":"none"}`, `"clauses"`, `{"clauses":"none"}`} {
		_, _, err := NormalizeClausesJSON([]byte(raw), nil)
		assert.Error(t, err, raw)
	}
}

func TestParseClauses_ValidatesSchema(t *testing.T) {
	schema, err := CompileSchema(BuildClauseJSONSchema(constants.ClauseTypesAsStrings()))
	require.NoError(t, err)

	clauses, _, err := ParseClauses([]byte(`{"clauses":[{"type":"termination","content":"30 days notice","riskLevel":"Low","riskFactors":["notice period"]}]}`), schema, nil)
	require.NoError(t, err)
	require.Len(t, clauses, 1)
	assert.Equal(t, constants.Termination, clauses[0].Type)
	assert.Equal(t, constants.RiskLow, clauses[0].RiskLevel)
	assert.Equal(t, []string{"notice period"}, clauses[0].RiskFactors)

	_, _, err = ParseClauses([]byte(`{"clauses":7}`), schema, nil)
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestSchemaRejectsUnknownLevel(t *testing.T) {
	schema := BuildClauseJSONSchema([]string{"termination"})
	err := ValidateJSONAgainstSchema(schema, []byte(`{"clauses":[{"type":"termination","content":"","riskLevel":"extreme","riskFactors":[]}]}`))
	assert.Error(t, err)
	err = ValidateJSONAgainstSchema(schema, []byte(`{"clauses":[]}`))
	assert.NoError(t, err)
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindNone, KindOf(nil))
	assert.Equal(t, KindRateLimited, KindOf(fmt.Errorf("call: %w", ErrRateLimited)))
	assert.Equal(t, KindRateLimited, KindOf(&StatusError{Status: http.StatusTooManyRequests}))
	assert.Equal(t, KindOther, KindOf(&StatusError{Status: http.StatusInternalServerError}))
	assert.Equal(t, KindMalformed, KindOf(fmt.Errorf("%w: bad", ErrMalformedResponse)))
	assert.Equal(t, KindUnavailable, KindOf(ErrUnavailable))
	assert.Equal(t, KindUnavailable, KindOf(fmt.Errorf("post: %w", context.DeadlineExceeded)))
	assert.Equal(t, KindOther, KindOf(errors.New("boom")))
	assert.Equal(t, "rate_limited", KindRateLimited.String())
}

func TestBuildUserPrompt_Truncates(t *testing.T) {
	p := BuildUserPrompt(ClassifyRequest{Title: "nda.pdf", Text: strings.Repeat("x", 50), MaxChars: 10})
	assert.Contains(t, p, "Document: nda.pdf")
	assert.Contains(t, p, strings.Repeat("x", 10)+"\n…(truncated)")
	assert.NotContains(t, p, strings.Repeat("x", 11))
}

func TestBuildSystemPrompt_ListsTaxonomy(t *testing.T) {
	p := BuildSystemPrompt(ClassifyRequest{})
	for _, ct := range constants.ClauseTypesAsStrings() {
		assert.Contains(t, p, ct)
	}
	assert.Contains(t, p, "liability cap")
}

func TestSendJSON(t *testing.T) {
	var gotReqID, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotReqID = r.Header.Get("X-Request-ID")
		gotAuth = r.Header.Get("Authorization")
		if strings.HasSuffix(r.URL.Path, "/limited") {
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":"slow down"}`))
			return
		}
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	raw, status, err := SendJSON(context.Background(), srv.Client(), srv.URL+"/ok", map[string]any{"a": 1}, map[string]string{"Authorization": "Bearer k"}, nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"ok":true}`, string(raw))
	assert.NotEmpty(t, gotReqID)
	assert.Equal(t, "Bearer k", gotAuth)

	raw, status, err = SendJSON(context.Background(), srv.Client(), srv.URL+"/limited", map[string]any{}, nil, nil)
	assert.Equal(t, http.StatusTooManyRequests, status)
	assert.ErrorIs(t, err, ErrRateLimited)
	assert.Contains(t, string(raw), "slow down")
}
