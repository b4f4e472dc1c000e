// Package http exposes the submission workflow over a thin JSON API. There is
// no HTML, no cookie session and no user store here: participant identity is
// expected to be established upstream and arrives in the request body.
package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"path/filepath"
	"strconv"

	"eduquiz-service/internal/app"
	"eduquiz-service/internal/domain"
)

type Handler struct {
	service *app.SubmissionService
	writer  app.CatalogWriter // nil when the catalog backend is read-only
}

func NewHandler(service *app.SubmissionService, writer app.CatalogWriter) *Handler {
	return &Handler{service: service, writer: writer}
}

// Register attaches all routes to the mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/submit", h.Submit)
	mux.HandleFunc("/leaderboard", h.Leaderboard)
	mux.HandleFunc("/certificate", h.Certificate)
	mux.HandleFunc("/questions", h.AddQuestion)
}

type submitRequest struct {
	Name    string            `json:"name"`
	Email   string            `json:"email"`
	Topic   string            `json:"topic"`
	Answers map[string]string `json:"answers"` // 1-based question position -> answer
}

type submitResponse struct {
	Score        int    `json:"score"`
	Total        int    `json:"total"`
	Notification string `json:"notification"`
	Certificate  string `json:"certificate,omitempty"`
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Name == "" || req.Email == "" || req.Topic == "" {
		http.Error(w, "name, email and topic are required", http.StatusBadRequest)
		return
	}

	answers := make(map[int]string, len(req.Answers))
	for key, value := range req.Answers {
		pos, err := strconv.Atoi(key)
		if err != nil || pos < 1 {
			http.Error(w, "answer keys must be 1-based question positions", http.StatusBadRequest)
			return
		}
		answers[pos] = value
	}

	outcome, err := h.service.Submit(r.Context(), app.SubmitRequest{
		Name:    req.Name,
		Email:   req.Email,
		Topic:   req.Topic,
		Answers: answers,
	})
	if err != nil {
		log.Printf("submit failed: %v", err)
		http.Error(w, "submission failed", http.StatusInternalServerError)
		return
	}

	writeJSON(w, submitResponse{
		Score:        outcome.Result.Score,
		Total:        outcome.Result.Total,
		Notification: string(outcome.Notification),
		Certificate:  outcome.CertificatePath,
	})
}

func (h *Handler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	entries, err := h.service.Leaderboard(r.Context(), r.URL.Query().Get("topic"))
	if err != nil {
		log.Printf("leaderboard query failed: %v", err)
		status := http.StatusInternalServerError
		if errors.Is(err, domain.ErrCorruptLeaderboard) {
			status = http.StatusServiceUnavailable
		}
		http.Error(w, "leaderboard unavailable", status)
		return
	}
	if entries == nil {
		entries = []domain.LeaderboardEntry{}
	}
	writeJSON(w, entries)
}

// Certificate regenerates the certificate for (name, topic, score, total) and
// serves it as a download. The embedded date is the download date, which can
// differ from the originally emailed copy.
func (h *Handler) Certificate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query()
	name, topic := q.Get("name"), q.Get("topic")
	if name == "" || topic == "" {
		http.Error(w, "name and topic are required", http.StatusBadRequest)
		return
	}
	score, err := strconv.Atoi(q.Get("score"))
	if err != nil {
		http.Error(w, "score must be an integer", http.StatusBadRequest)
		return
	}
	total, err := strconv.Atoi(q.Get("total"))
	if err != nil {
		http.Error(w, "total must be an integer", http.StatusBadRequest)
		return
	}

	path, err := h.service.Certificate(name, topic, score, total)
	if err != nil {
		log.Printf("certificate generation failed: %v", err)
		http.Error(w, "certificate unavailable", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filepath.Base(path)+`"`)
	http.ServeFile(w, r, path)
}

type addQuestionRequest struct {
	Topic    string   `json:"topic"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   string   `json:"answer"`
}

// AddQuestion is the admin collaborator: it appends a question to a topic and
// the catalog persists it back to its own source.
func (h *Handler) AddQuestion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if h.writer == nil {
		http.Error(w, "catalog backend is read-only", http.StatusNotImplemented)
		return
	}

	var req addQuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Topic == "" || req.Question == "" || req.Answer == "" || len(req.Options) != 4 {
		http.Error(w, "topic, question, answer and exactly 4 options are required", http.StatusBadRequest)
		return
	}

	err := h.writer.AddQuestion(r.Context(), req.Topic, domain.Question{
		Text:    req.Question,
		Options: req.Options,
		Answer:  req.Answer,
	})
	if err != nil {
		log.Printf("add question failed: %v", err)
		http.Error(w, "could not persist question", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}
