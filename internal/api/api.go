// Package api exposes the spell checker over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"spellcheck/internal/annotation"
	"spellcheck/internal/corrector"
)

// Checker is what the handlers need from the spell checker.
type Checker interface {
	CheckText(ctx context.Context, text string) (*corrector.Result, error)
	Correct(ctx context.Context, text string, autoCorrect bool) (*corrector.Correction, error)
	CheckSpellingItems(ctx context.Context, items []corrector.SpellingItem) ([]corrector.ItemResult, error)
	AddCustomWord(ctx context.Context, word string) error
	RemoveCustomWord(ctx context.Context, word string) error
	CustomWords() []string
}

const (
	DefaultTimeout = 8 * time.Second
	maxTimeout     = 5 * time.Minute
	// DefaultMaxBody bounds request bodies, batches included.
	DefaultMaxBody = 8 << 20
)

type Server struct {
	checker Checker
	log     zerolog.Logger
	timeout time.Duration
	maxBody int64
}

func New(checker Checker, log zerolog.Logger, timeout time.Duration) *Server {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Server{checker: checker, log: log, timeout: timeout, maxBody: DefaultMaxBody}
}

// decode reads a JSON body of at most maxBody bytes into v.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, s.maxBody)).Decode(v)
}

// Handler returns the routed mux.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/check", s.handleCheck)
	mux.HandleFunc("/api/v1/correct", s.handleCorrect)
	mux.HandleFunc("/api/v1/items", s.handleItems)
	mux.HandleFunc("/api/v1/custom-word", s.handleCustomWord)
	mux.HandleFunc("/api/v1/custom-word/", s.handleCustomWordDelete)
	mux.HandleFunc("/health", s.handleHealth)
	return s.withRequestID(mux)
}

type ctxKey struct{}

func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		l := s.log.With().Str("request", id).Str("path", r.URL.Path).Logger()
		start := time.Now()
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, l)))
		l.Debug().Dur("elapsed", time.Since(start)).Msg("request served")
	})
}

func (s *Server) logger(r *http.Request) zerolog.Logger {
	if l, ok := r.Context().Value(ctxKey{}).(zerolog.Logger); ok {
		return l
	}
	return s.log
}

type textRequest struct {
	Text        string `json:"text"`
	AutoCorrect bool   `json:"auto_correct,omitempty"`
	Timeout     int    `json:"timeout,omitempty"` // seconds
}

// context bounds a request by the client's timeout or the server default.
func (s *Server) context(r *http.Request, seconds int) (context.Context, context.CancelFunc) {
	d := s.timeout
	if seconds > 0 {
		d = min(time.Duration(seconds)*time.Second, maxTimeout)
	}
	return context.WithTimeout(r.Context(), d)
}

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req textRequest
	if err := s.decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	ctx, cancel := s.context(r, req.Timeout)
	defer cancel()
	res, err := s.checker.CheckText(ctx, req.Text)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleCorrect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req textRequest
	if err := s.decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	ctx, cancel := s.context(r, req.Timeout)
	defer cancel()
	c, err := s.checker.Correct(ctx, req.Text, req.AutoCorrect)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"original":  c.Original,
		"corrected": c.Corrected,
		"edits":     c.Edits,
		"errors":    c.Result.Errors,
	})
}

func (s *Server) handleItems(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req struct {
		Items   []corrector.SpellingItem `json:"items"`
		Timeout int                      `json:"timeout,omitempty"`
	}
	if err := s.decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	ctx, cancel := s.context(r, req.Timeout)
	defer cancel()
	results, err := s.checker.CheckSpellingItems(ctx, req.Items)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}

func (s *Server) handleCustomWord(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, map[string]any{"words": s.checker.CustomWords()})
	case http.MethodPost:
		var req struct {
			Word string `json:"word"`
		}
		if err := s.decode(w, r, &req); err != nil || strings.TrimSpace(req.Word) == "" {
			writeError(w, http.StatusBadRequest, "invalid request")
			return
		}
		if err := s.checker.AddCustomWord(r.Context(), req.Word); err != nil {
			s.fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{"status": "ok"})
	default:
		http.NotFound(w, r)
	}
}

func (s *Server) handleCustomWordDelete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.NotFound(w, r)
		return
	}
	word := strings.TrimPrefix(r.URL.Path, "/api/v1/custom-word/")
	if word == "" {
		writeError(w, http.StatusBadRequest, "word is required")
		return
	}
	if err := s.checker.RemoveCustomWord(r.Context(), word); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "spellcheck"})
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	code := corrector.Classify(err)
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, annotation.ErrEmptyInput), errors.Is(err, annotation.ErrInvalidSpan):
		status = http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
	}
	l := s.logger(r)
	l.Error().Err(err).Str("code", code).Int("status", status).Msg("request failed")
	writeJSON(w, status, map[string]string{"error": err.Error(), "code": code})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
