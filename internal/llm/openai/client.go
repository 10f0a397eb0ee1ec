package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/fineprint/contract-analyzer/constants"
	"github.com/fineprint/contract-analyzer/internal/entity"
	"github.com/fineprint/contract-analyzer/internal/llm"
)

// ClassifyClauses implements llm.ClauseClassifier using text-only chat/completions in
// JSON mode. Errors wrap llm.ErrRateLimited, llm.ErrUnavailable or llm.ErrMalformedResponse
// where the failure kind is known.
func (c *Client) ClassifyClauses(ctx context.Context, req llm.ClassifyRequest) ([]entity.Clause, []byte, error) {
	start := time.Now()
	if len(req.AllowedTypes) == 0 {
		req.AllowedTypes = constants.ClauseTypesAsStrings()
	}
	if req.MaxChars <= 0 {
		req.MaxChars = c.cfg.MaxPromptChars
	}

	c.log.Info("llm.classify.start",
		"model", c.cfg.Model,
		"temp", c.cfg.Temperature,
		"text_len", len(req.Text),
		"title", req.Title,
	)

	body := map[string]any{
		"model":           c.cfg.Model,
		"temperature":     c.cfg.Temperature,
		"response_format": map[string]any{"type": "json_object"},
		"messages": []map[string]any{
			{"role": "system", "content": llm.BuildSystemPrompt(req)},
			{"role": "user", "content": llm.BuildUserPrompt(req)},
		},
	}
	headers := map[string]string{}
	if c.cfg.APIKey != "" {
		headers["Authorization"] = "Bearer " + c.cfg.APIKey
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	raw, status, err := llm.SendJSON(ctx, c.http, endpoint, body, headers, c.log)
	if err != nil {
		err = classifyTransportError(ctx, err)
		c.log.Warn("llm.classify.http_error",
			"status", status, "error", err, "kind", llm.KindOf(err).String(),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, raw, err
	}

	var cc struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &cc); err != nil {
		c.log.Error("llm.classify.decode_error", "error", err, "raw_bytes", len(raw))
		return nil, raw, fmt.Errorf("%w: decode response: %v", llm.ErrMalformedResponse, err)
	}
	if len(cc.Choices) == 0 {
		c.log.Error("llm.classify.no_choices", "raw_bytes", len(raw))
		return nil, raw, fmt.Errorf("%w: no choices in response", llm.ErrMalformedResponse)
	}

	content := []byte(strings.TrimSpace(cc.Choices[0].Message.Content))
	clauses, cleaned, err := llm.ParseClauses(content, c.schema, c.log)
	if err != nil {
		c.log.Error("llm.classify.schema_validation_failed", "error", err, "content_bytes", len(content))
		return nil, cleaned, err
	}

	c.log.Info("llm.classify.ok",
		"clauses", len(clauses),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return clauses, cleaned, nil
}

// classifyTransportError tags deadline and timeout failures as unavailable. HTTP 429 is
// already recognizable through llm.StatusError.
func classifyTransportError(ctx context.Context, err error) error {
	if errors.Is(err, llm.ErrRateLimited) {
		return err
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", llm.ErrUnavailable, err)
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return fmt.Errorf("%w: %v", llm.ErrUnavailable, err)
	}
	return err
}
