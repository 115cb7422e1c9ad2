package generator

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/verte-zerg/tuitoeic/internal/model"
)

const exerciseJSON = `{
  "passage": {
    "title": "Staff Memo",
    "meta": [{"label": "From", "value": "HR"}],
    "content": [
      {"type": "paragraph", "text": "The office will close early on Friday."},
      {"type": "table", "headers": ["Day", "Hours"], "rows": [["Friday", "9-3"]]}
    ]
  },
  "questions": [
    {"id": 1, "text": "When will the office close early?", "correct": "C", "explanation": "金曜日です。",
     "options": [{"id": "A", "text": "Monday"}, {"id": "B", "text": "Wednesday"}, {"id": "C", "text": "Friday"}, {"id": "D", "text": "Sunday"}]}
  ]
}`

func geminiReply(text string) string {
	data, _ := json.Marshal(map[string]any{
		"candidates": []any{
			map[string]any{"content": map[string]any{"parts": []any{map[string]any{"text": text}}}},
		},
	})
	return string(data)
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := New(model.GeneratorConfig{APIKey: "test-key", BaseURL: srv.URL, Model: "test-model", TimeoutSeconds: 5}, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestNewRequiresAPIKey(t *testing.T) {
	_, err := New(model.GeneratorConfig{}, nil)
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigError, got %v", err)
	}
	if cfgErr.UserMessage() != "GEMINI_API_KEY is not set" {
		t.Fatalf("unexpected message %q", cfgErr.UserMessage())
	}
}

func TestGenerateExerciseSendsPromptAndParses(t *testing.T) {
	var gotPath, gotKey, gotPrompt, gotMime string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("key")
		body, _ := io.ReadAll(r.Body)
		var req generateRequest
		if err := json.Unmarshal(body, &req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if len(req.Contents) == 1 && len(req.Contents[0].Parts) == 1 {
			gotPrompt = req.Contents[0].Parts[0].Text
		}
		gotMime = req.GenerationConfig.ResponseMimeType
		_, _ = io.WriteString(w, geminiReply("```json\n"+exerciseJSON+"\n```"))
	})

	ex, err := c.GenerateExercise(context.Background(), "travel")
	if err != nil {
		t.Fatalf("GenerateExercise: %v", err)
	}
	if gotPath != "/test-model:generateContent" || gotKey != "test-key" {
		t.Fatalf("unexpected request path %q key %q", gotPath, gotKey)
	}
	if !strings.Contains(gotPrompt, "TOEIC Part 7") || !strings.Contains(gotPrompt, "travel") {
		t.Fatalf("unexpected prompt: %s", gotPrompt)
	}
	if gotMime != "application/json" {
		t.Fatalf("unexpected mime %q", gotMime)
	}
	if ex.Passage.Title != "Staff Memo" || len(ex.Questions) != 1 || ex.Questions[0].Correct != "C" {
		t.Fatalf("unexpected exercise: %+v", ex)
	}
	if _, ok := ex.Passage.Content[1].(model.Table); !ok {
		t.Fatalf("expected table block, got %T", ex.Passage.Content[1])
	}
}

func TestGenerateExerciseParseError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, geminiReply("Sorry, here is your quiz: {not json"))
	})
	_, err := c.GenerateExercise(context.Background(), "")
	var genErr *GenerationError
	if !errors.As(err, &genErr) || genErr.Reason != ReasonParse {
		t.Fatalf("expected parse error, got %v", err)
	}
	if strings.Contains(genErr.UserMessage(), "not json") {
		t.Fatalf("user message leaks raw text: %q", genErr.UserMessage())
	}
}

func TestGenerateExerciseRejectsInvalidStructure(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, geminiReply(`{"passage": {"title": "x", "content": []}, "questions": []}`))
	})
	_, err := c.GenerateExercise(context.Background(), "")
	var genErr *GenerationError
	if !errors.As(err, &genErr) || genErr.Reason != ReasonParse {
		t.Fatalf("expected parse error for empty questions, got %v", err)
	}
}

func TestGenerateExerciseUpstreamStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": {"message": "quota exceeded"}}`, http.StatusTooManyRequests)
	})
	_, err := c.GenerateExercise(context.Background(), "")
	var genErr *GenerationError
	if !errors.As(err, &genErr) || genErr.Reason != ReasonUpstream {
		t.Fatalf("expected upstream error, got %v", err)
	}
}

func TestGenerateExerciseEmptyCandidates(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"candidates": []}`)
	})
	_, err := c.GenerateExercise(context.Background(), "")
	var genErr *GenerationError
	if !errors.As(err, &genErr) || genErr.Reason != ReasonUpstream {
		t.Fatalf("expected upstream error, got %v", err)
	}
}

func TestGenerateExerciseUnreachable(t *testing.T) {
	c, err := New(model.GeneratorConfig{APIKey: "secret-key", BaseURL: "http://127.0.0.1:1"}, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, err = c.GenerateExercise(context.Background(), "")
	var genErr *GenerationError
	if !errors.As(err, &genErr) || genErr.Reason != ReasonUpstream {
		t.Fatalf("expected upstream error, got %v", err)
	}
	if strings.Contains(err.Error(), "secret-key") {
		t.Fatalf("error leaks api key: %v", err)
	}
}

func TestGenerateSentence(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, geminiReply(`{"question": "Please submit the form _______ Friday.", "options": ["by", "at", "on", "in"], "answer": "by", "explanation": "期限の by です。"}`))
	})
	sq, err := c.GenerateSentence(context.Background(), "")
	if err != nil {
		t.Fatalf("GenerateSentence: %v", err)
	}
	if sq.Answer != "by" || len(sq.Options) != 4 {
		t.Fatalf("unexpected sentence question: %+v", sq)
	}
}

func TestGenerateSentenceRejectsUnknownAnswer(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, geminiReply(`{"question": "q", "options": ["a", "b", "c", "d"], "answer": "e"}`))
	})
	_, err := c.GenerateSentence(context.Background(), "")
	var genErr *GenerationError
	if !errors.As(err, &genErr) || genErr.Reason != ReasonParse {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestStripFences(t *testing.T) {
	cases := map[string]string{
		"```json\n{\"a\":1}\n```": `{"a":1}`,
		"```\n{\"a\":1}\n```":     `{"a":1}`,
		"  {\"a\":1}  ":           `{"a":1}`,
		"```json{\"a\":1}```":     `{"a":1}`,
	}
	for in, want := range cases {
		if got := StripFences(in); got != want {
			t.Fatalf("StripFences(%q): expected %q, got %q", in, want, got)
		}
	}
}

func TestPromptHint(t *testing.T) {
	if ExercisePrompt("") != exercisePrompt {
		t.Fatalf("expected unchanged prompt without hint")
	}
	if !strings.HasSuffix(SentencePrompt(" logistics "), "logistics.") {
		t.Fatalf("expected hint suffix")
	}
}

func TestDisabledReturnsError(t *testing.T) {
	d := Disabled{Err: ErrMissingAPIKey}
	if _, err := d.GenerateExercise(context.Background(), ""); !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("expected missing key error, got %v", err)
	}
}
