// Package api exposes single-student scoring over HTTP.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"github.com/aptitude-lab/modelscore/internal/catalog"
	"github.com/aptitude-lab/modelscore/internal/scoring"
	"github.com/aptitude-lab/modelscore/internal/source"
)

// maxBodyBytes bounds evaluate request bodies.
const maxBodyBytes = 1 << 20

var validate = validator.New()

// AnswerInput is one raw student answer.
type AnswerInput struct {
	QuestionID int    `json:"question_id" validate:"gt=0"`
	Answer     string `json:"answer"`
}

// EvaluateRequest is the body of POST /v1/evaluate.
type EvaluateRequest struct {
	Student string        `json:"student,omitempty"`
	Answers []AnswerInput `json:"answers" validate:"required,dive"`
}

// BucketCount is one non-empty accumulator cell.
type BucketCount struct {
	Bucket string `json:"bucket"`
	Count  int    `json:"count"`
}

// EvaluateResponse is the result of POST /v1/evaluate.
type EvaluateResponse struct {
	Student   string        `json:"student,omitempty"`
	Score     int           `json:"score"`
	Questions int           `json:"questions"`
	Evaluated int           `json:"evaluated"`
	Best      []string      `json:"best"`
	Buckets   []BucketCount `json:"buckets"`
	Warnings  []string      `json:"warnings"`
	Error     string        `json:"error,omitempty"`
}

// QuestionsResponse is the result of GET /v1/questions.
type QuestionsResponse struct {
	Catalog   string `json:"catalog"`
	Questions []int  `json:"questions"`
}

// Handler ties HTTP routes to a read-only catalog.
type Handler struct {
	cat    *catalog.Catalog
	scorer *scoring.Scorer
}

// NewHandler creates a Handler scoring against cat.
func NewHandler(cat *catalog.Catalog) *Handler {
	return &Handler{cat: cat, scorer: scoring.New(cat)}
}

// Routes returns the router for all endpoints.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", h.Health)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/questions", h.ListQuestions)
		r.Post("/evaluate", h.Evaluate)
	})
	return r
}

// NewServer wraps Routes in an http.Server listening on addr.
func NewServer(addr string, h *Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           h.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ListQuestions returns the catalog's question ids in order.
func (h *Handler) ListQuestions(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, QuestionsResponse{Catalog: h.cat.Name, Questions: h.cat.IDs()})
}

// Evaluate scores one student's answers.
func (h *Handler) Evaluate(w http.ResponseWriter, r *http.Request) {
	var req EvaluateRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		h.respondError(w, http.StatusUnprocessableEntity, err)
		return
	}

	raw := make([]source.RawAnswer, len(req.Answers))
	for i, a := range req.Answers {
		raw[i] = source.RawAnswer{QuestionID: a.QuestionID, Text: a.Answer}
	}
	h.respondJSON(w, http.StatusOK, toResponse(h.scorer.Score(req.Student, raw)))
}

func toResponse(sr scoring.StudentResult) EvaluateResponse {
	resp := EvaluateResponse{
		Student:   sr.Student,
		Score:     sr.Result.Score,
		Questions: sr.Result.Questions,
		Evaluated: sr.Result.Evaluated,
		Best:      make([]string, 0, len(sr.Result.Best)),
		Buckets:   []BucketCount{},
		Warnings:  sr.Warnings,
	}
	if resp.Warnings == nil {
		resp.Warnings = []string{}
	}
	for _, b := range sr.Result.Best {
		resp.Best = append(resp.Best, b.String())
	}
	for _, bc := range sr.Result.Counts {
		if bc.Count > 0 {
			resp.Buckets = append(resp.Buckets, BucketCount{Bucket: bc.Bucket.String(), Count: bc.Count})
		}
	}
	if sr.Err != nil {
		resp.Error = sr.Err.Error()
	}
	return resp
}

func (h *Handler) respondJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func (h *Handler) respondError(w http.ResponseWriter, code int, err error) {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		fields := make(map[string]string, len(ve))
		for _, fe := range ve {
			fields[fe.Namespace()] = fe.Tag()
		}
		h.respondJSON(w, code, map[string]any{"error": "invalid request", "fields": fields})
		return
	}
	h.respondJSON(w, code, map[string]string{"error": err.Error()})
}
