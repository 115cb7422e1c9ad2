package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/verte-zerg/tuitoeic/internal/catalog"
	"github.com/verte-zerg/tuitoeic/internal/exercise"
	"github.com/verte-zerg/tuitoeic/internal/generator"
	"github.com/verte-zerg/tuitoeic/internal/model"
)

const maxBodyBytes = 1 << 16

type generateRequest struct {
	Topic string `json:"topic"`
}

type part7Response struct {
	model.Exercise
	SavedToFile string `json:"savedToFile"`
}

type keysResponse struct {
	Keys []string `json:"keys"`
}

// GeneratePart7Handler generates a Part 7 exercise, saves it and returns it.
func GeneratePart7Handler(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := decodeRequest(w, r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad json")
			return
		}
		ex, err := deps.Gen.GenerateExercise(r.Context(), req.Topic)
		if err != nil {
			deps.Log.Error("failed to generate exercise", "error", err)
			writeError(w, statusFor(err), userMessage(err))
			return
		}
		key, err := deps.Catalog.Save(r.Context(), ex)
		if err != nil {
			deps.Log.Error("failed to save exercise", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to save exercise")
			return
		}
		deps.Log.Info("exercise saved", "key", key, "questions", len(ex.Questions))
		writeJSON(w, http.StatusOK, part7Response{Exercise: ex, SavedToFile: key + ".json"})
	}
}

// QuizHandler generates a Part 5 sentence question.
func QuizHandler(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := decodeRequest(w, r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad json")
			return
		}
		sq, err := deps.Gen.GenerateSentence(r.Context(), req.Topic)
		if err != nil {
			deps.Log.Error("failed to generate sentence question", "error", err)
			writeError(w, statusFor(err), userMessage(err))
			return
		}
		writeJSON(w, http.StatusOK, sq)
	}
}

// ListPart7Handler lists saved exercise keys, most recent first.
func ListPart7Handler(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		keys, err := deps.Catalog.List(r.Context())
		if err != nil {
			deps.Log.Error("failed to list exercises", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to list exercises")
			return
		}
		if keys == nil {
			keys = []string{}
		}
		writeJSON(w, http.StatusOK, keysResponse{Keys: keys})
	}
}

// GetPart7Handler returns one saved exercise.
func GetPart7Handler(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := strings.TrimSuffix(chi.URLParam(r, "key"), ".json")
		ex, err := deps.Catalog.Get(r.Context(), key)
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not found")
			return
		}
		if err != nil {
			deps.Log.Error("failed to load exercise", "key", key, "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to load exercise")
			return
		}
		if issues := exercise.Validate(ex).Warnings(); len(issues) > 0 {
			deps.Log.Warn("saved exercise has warnings", "key", key, "issues", issues.String())
		}
		writeJSON(w, http.StatusOK, ex)
	}
}

// decodeRequest accepts an empty body.
func decodeRequest(w http.ResponseWriter, r *http.Request) (generateRequest, error) {
	var req generateRequest
	if r.Body == nil {
		return req, nil
	}
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		return req, err
	}
	req.Topic = strings.TrimSpace(req.Topic)
	return req, nil
}

func statusFor(err error) int {
	var genErr *generator.GenerationError
	if errors.As(err, &genErr) && genErr.Reason == generator.ReasonUpstream {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func userMessage(err error) string {
	var um interface{ UserMessage() string }
	if errors.As(err, &um) {
		return um.UserMessage()
	}
	return "Internal Server Error"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
