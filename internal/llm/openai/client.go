// Package openai implements llm.Gateway against an OpenAI-compatible
// chat/completions endpoint.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/equipment-config/internal/llm"
)

// ExtractDatasheet pulls equipment parameters from raw datasheet text.
func (c *Client) ExtractDatasheet(ctx context.Context, req llm.DatasheetRequest) (llm.Record, error) {
	rid := uuid.New().String()
	start := time.Now()

	c.log.Info("llm.datasheet.start",
		"req_id", rid,
		"model", c.cfg.Model,
		"equipment", req.Equipment,
		"combination", req.Combination,
		"text_len", len(req.SourceText),
	)

	rec, err := c.complete(ctx, rid, datasheetSystemPrompt(req), datasheetUserPrompt(req))
	if err != nil {
		c.log.Error("llm.datasheet.error",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, err
	}

	c.log.Info("llm.datasheet.ok",
		"req_id", rid,
		"keys", len(rec),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return rec, nil
}

// MapToSchema maps an extracted record onto a schema-derived template.
func (c *Client) MapToSchema(ctx context.Context, req llm.MappingRequest) (llm.Record, error) {
	rid := uuid.New().String()
	start := time.Now()

	c.log.Info("llm.map_schema.start",
		"req_id", rid,
		"model", c.cfg.Model,
		"equipment", req.Equipment,
		"source_keys", len(req.Source),
		"template_keys", len(req.Template),
	)

	rec, err := c.complete(ctx, rid, mappingSystemPrompt(req), mappingUserPrompt(req))
	if err != nil {
		c.log.Error("llm.map_schema.error",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, err
	}

	c.log.Info("llm.map_schema.ok",
		"req_id", rid,
		"keys", len(rec),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return rec, nil
}

// MapFunctionArgs assembles the argument mapping for one calculation.
func (c *Client) MapFunctionArgs(ctx context.Context, req llm.ArgsRequest) (llm.Record, error) {
	rid := uuid.New().String()
	start := time.Now()

	c.log.Info("llm.map_args.start",
		"req_id", rid,
		"model", c.cfg.Model,
		"function", req.FunctionName,
		"params", len(req.Params),
	)

	rec, err := c.complete(ctx, rid, argsSystemPrompt(), argsUserPrompt(req))
	if err != nil {
		c.log.Error("llm.map_args.error",
			"req_id", rid, "function", req.FunctionName, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, err
	}

	c.log.Info("llm.map_args.ok",
		"req_id", rid,
		"function", req.FunctionName,
		"args", len(rec),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return rec, nil
}

// MergeCalculations folds calculation results into the base configuration.
func (c *Client) MergeCalculations(ctx context.Context, req llm.MergeRequest) (llm.Record, error) {
	rid := uuid.New().String()
	start := time.Now()

	c.log.Info("llm.merge.start",
		"req_id", rid,
		"model", c.cfg.Model,
		"base_keys", len(req.BaseConfig),
		"calculations", len(req.Calculations),
	)

	rec, err := c.complete(ctx, rid, mergeSystemPrompt(), mergeUserPrompt(req))
	if err != nil {
		c.log.Error("llm.merge.error",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, err
	}

	c.log.Info("llm.merge.ok",
		"req_id", rid,
		"keys", len(rec),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return rec, nil
}

// complete runs one chat completion and decodes the enveloped payload.
func (c *Client) complete(ctx context.Context, rid, sys, user string) (llm.Record, error) {
	body := map[string]any{
		"model":           c.cfg.Model,
		"temperature":     c.cfg.Temperature,
		"response_format": map[string]any{"type": "json_object"},
		"messages": []map[string]any{
			{"role": "system", "content": sys},
			{"role": "user", "content": user},
		},
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	raw, err := c.post(ctx, endpoint, body)
	if err != nil {
		return nil, err
	}

	var cc struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &cc); err != nil {
		return nil, fmt.Errorf("decode openai response: %w", err)
	}
	if len(cc.Choices) == 0 {
		return nil, fmt.Errorf("no choices in openai response")
	}

	rec, err := llm.DecodeEnvelope(cc.Choices[0].Message.Content)
	if err != nil {
		c.log.Warn("llm.envelope.invalid", "req_id", rid, "content_len", len(cc.Choices[0].Message.Content))
		return nil, err
	}
	return rec, nil
}

func (c *Client) post(ctx context.Context, url string, body map[string]any) ([]byte, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("openai http error: %w", err)
	}
	defer func(Body io.ReadCloser) {
		err := Body.Close()
		if err != nil {
			c.log.Warn("openai response body close error", "error", err)
		}
	}(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		buf := new(bytes.Buffer)
		_, _ = buf.ReadFrom(resp.Body)
		return nil, fmt.Errorf("openai status %d: %s", resp.StatusCode, buf.String())
	}

	buf := new(bytes.Buffer)
	_, _ = buf.ReadFrom(resp.Body)
	return buf.Bytes(), nil
}
