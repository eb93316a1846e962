package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"timed-quiz-service/internal/app"
	"timed-quiz-service/internal/domain"
)

// AuthoringHandler exposes quiz authoring and live-session administration over REST.
type AuthoringHandler struct {
	service *app.QuizService
}

func NewAuthoringHandler(service *app.QuizService) *AuthoringHandler {
	return &AuthoringHandler{service: service}
}

// Routes mounts the authoring and session administration endpoints.
func (h *AuthoringHandler) Routes(r chi.Router) {
	r.Route("/quizzes", func(r chi.Router) {
		r.Post("/", h.createQuiz)
		r.Get("/", h.listQuizzes)
		r.Route("/{name}", func(r chi.Router) {
			r.Post("/questions", h.addQuestion)
			r.Patch("/questions/{number}", h.editQuestion)
			r.Get("/preview", h.preview)
		})
	})
	r.Get("/sessions", h.listSessions)
	r.Delete("/sessions/{id}", h.abandonSession)
	r.Post("/catalog/import", h.importCatalog)
}

type createQuizRequest struct {
	Name string `json:"name"`
}

type quizSummary struct {
	Name      string `json:"name"`
	Questions int    `json:"questions"`
}

type sessionSummary struct {
	ID        string    `json:"id"`
	QuizName  string    `json:"quizName"`
	StartedAt time.Time `json:"startedAt"`
}

func (h *AuthoringHandler) createQuiz(w http.ResponseWriter, r *http.Request) {
	var req createQuizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	quiz, err := h.service.CreateQuiz(req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, quizSummary{Name: quiz.Name(), Questions: quiz.Len()})
}

func (h *AuthoringHandler) listQuizzes(w http.ResponseWriter, r *http.Request) {
	summaries := []quizSummary{}
	for _, name := range h.service.QuizNames() {
		quiz, err := h.service.Quiz(name)
		if err != nil {
			continue
		}
		summaries = append(summaries, quizSummary{Name: name, Questions: quiz.Len()})
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (h *AuthoringHandler) addQuestion(w http.ResponseWriter, r *http.Request) {
	var draft domain.QuestionDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	name := chi.URLParam(r, "name")
	if err := h.service.AddQuestion(name, draft); err != nil {
		writeError(w, err)
		return
	}
	quiz, err := h.service.Quiz(name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, quizSummary{Name: name, Questions: quiz.Len()})
}

func (h *AuthoringHandler) editQuestion(w http.ResponseWriter, r *http.Request) {
	number, err := strconv.Atoi(chi.URLParam(r, "number"))
	if err != nil {
		http.Error(w, "question number must be an integer", http.StatusBadRequest)
		return
	}
	var edit app.QuestionEdit
	if err := json.NewDecoder(r.Body).Decode(&edit); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.service.EditQuestion(chi.URLParam(r, "name"), number, edit); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthoringHandler) preview(w http.ResponseWriter, r *http.Request) {
	text, err := h.service.Preview(chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(text))
}

func (h *AuthoringHandler) listSessions(w http.ResponseWriter, r *http.Request) {
	summaries := []sessionSummary{}
	for _, live := range h.service.ActiveSessions() {
		summaries = append(summaries, sessionSummary{ID: live.ID, QuizName: live.QuizName, StartedAt: live.StartedAt})
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (h *AuthoringHandler) abandonSession(w http.ResponseWriter, r *http.Request) {
	if err := h.service.AbandonSession(chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthoringHandler) importCatalog(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.ImportCatalog(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), errorPayload{Message: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrIndexOutOfRange),
		errors.Is(err, domain.ErrTypeMismatch):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrDuplicateName):
		return http.StatusConflict
	case errors.Is(err, domain.ErrQuizNotFound),
		errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrEmptyQuiz):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
