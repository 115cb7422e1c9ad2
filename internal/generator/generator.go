// Package generator produces exercises through the Gemini generateContent API.
package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/verte-zerg/tuitoeic/internal/exercise"
	"github.com/verte-zerg/tuitoeic/internal/logger"
	"github.com/verte-zerg/tuitoeic/internal/model"
)

// Defaults for the generation service.
const (
	DefaultBaseURL        = "https://generativelanguage.googleapis.com/v1beta/models"
	DefaultModel          = "gemini-2.0-flash"
	DefaultTimeoutSeconds = 120
)

const maxLoggedBody = 2048

// Client talks to the generation service.
type Client struct {
	apiKey  string
	model   string
	baseURL string
	http    *http.Client
	log     *logger.Logger
}

// New returns a client. A missing API key yields ErrMissingAPIKey.
func New(cfg model.GeneratorConfig, log *logger.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}
	if log == nil {
		log = logger.Nop()
	}
	c := &Client{
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{},
		log:     log.With("component", "generator"),
	}
	if c.model == "" {
		c.model = DefaultModel
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if cfg.TimeoutSeconds > 0 {
		c.http.Timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	return c, nil
}

// GenerateExercise asks for a Part 7 exercise. Blocking validation issues are
// reported as parse errors; warnings are logged.
func (c *Client) GenerateExercise(ctx context.Context, hint string) (model.Exercise, error) {
	text, err := c.generateContent(ctx, ExercisePrompt(hint))
	if err != nil {
		return model.Exercise{}, err
	}
	ex, err := ParseExercise(text)
	if err != nil {
		c.log.Error("failed to parse generated exercise", "error", err, "raw", text)
		return model.Exercise{}, parseErr(err)
	}
	issues := exercise.Validate(ex)
	for _, w := range issues.Warnings() {
		c.log.Warn("generated exercise warning", "issue", w.String())
	}
	if err := issues.Err(); err != nil {
		c.log.Error("generated exercise rejected", "error", err, "raw", text)
		return model.Exercise{}, parseErr(err)
	}
	c.log.Info("generated exercise", "title", ex.Passage.Title, "questions", len(ex.Questions))
	return ex, nil
}

// GenerateSentence asks for a Part 5 sentence-completion question.
func (c *Client) GenerateSentence(ctx context.Context, hint string) (model.SentenceQuestion, error) {
	text, err := c.generateContent(ctx, SentencePrompt(hint))
	if err != nil {
		return model.SentenceQuestion{}, err
	}
	sq, err := ParseSentence(text)
	if err != nil {
		c.log.Error("failed to parse generated sentence question", "error", err, "raw", text)
		return model.SentenceQuestion{}, parseErr(err)
	}
	if _, err := exercise.FromSentence(sq); err != nil {
		c.log.Error("generated sentence question rejected", "error", err, "raw", text)
		return model.SentenceQuestion{}, parseErr(err)
	}
	return sq, nil
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	ResponseMimeType string `json:"responseMimeType"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

func (c *Client) generateContent(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Contents:         []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: generationConfig{ResponseMimeType: "application/json"},
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}
	endpoint := fmt.Sprintf("%s/%s:generateContent?key=%s", c.baseURL, c.model, url.QueryEscape(c.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Error("generation request failed", "error", redactKey(err.Error(), c.apiKey))
		return "", upstreamErr("request failed: %s", redactKey(err.Error(), c.apiKey))
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", upstreamErr("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		c.log.Error("unexpected generation status", "status", resp.StatusCode, "body", truncate(string(raw), maxLoggedBody))
		return "", upstreamErr("unexpected status: %s", resp.Status)
	}
	var payload generateResponse
	if err := json.Unmarshal(raw, &payload); err != nil {
		c.log.Error("failed to decode generation envelope", "error", err, "body", truncate(string(raw), maxLoggedBody))
		return "", upstreamErr("failed to decode response: %w", err)
	}
	if len(payload.Candidates) == 0 || len(payload.Candidates[0].Content.Parts) == 0 {
		return "", upstreamErr("empty response")
	}
	c.log.Debug("generation response", "model", c.model, "elapsed_ms", time.Since(started).Milliseconds())
	return payload.Candidates[0].Content.Parts[0].Text, nil
}

func redactKey(s, key string) string {
	if key == "" {
		return s
	}
	s = strings.ReplaceAll(s, url.QueryEscape(key), "[REDACTED]")
	return strings.ReplaceAll(s, key, "[REDACTED]")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// Disabled stands in for a client that could not be configured. Every call
// returns Err.
type Disabled struct {
	Err error
}

// GenerateExercise returns d.Err.
func (d Disabled) GenerateExercise(context.Context, string) (model.Exercise, error) {
	return model.Exercise{}, d.Err
}

// GenerateSentence returns d.Err.
func (d Disabled) GenerateSentence(context.Context, string) (model.SentenceQuestion, error) {
	return model.SentenceQuestion{}, d.Err
}
