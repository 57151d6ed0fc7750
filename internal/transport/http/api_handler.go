package http

import (
	"encoding/json"
	"net/http"

	"nanonerds-quiz-service/internal/app"
	"nanonerds-quiz-service/internal/domain"
	"nanonerds-quiz-service/internal/logger"
)

// APIHandler exposes the engine and the registration service as JSON endpoints.
type APIHandler struct {
	engine        *app.QuizEngine
	registrations *app.RegistrationService
	log           *logger.Logger
}

func NewAPIHandler(engine *app.QuizEngine, registrations *app.RegistrationService, log *logger.Logger) *APIHandler {
	return &APIHandler{
		engine:        engine,
		registrations: registrations,
		log:           log.With("component", "api"),
	}
}

// Register mounts every route on mux.
func (h *APIHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /quizzes", h.listQuizzes)
	mux.HandleFunc("GET /quizzes/{id}", h.getQuiz)

	mux.HandleFunc("GET /session", h.currentSession)
	mux.HandleFunc("POST /session", h.startQuiz)
	mux.HandleFunc("POST /session/answers", h.recordAnswer)
	mux.HandleFunc("POST /session/tick", h.tick)
	mux.HandleFunc("POST /session/submit", h.submit)
	mux.HandleFunc("POST /session/reset", h.reset)

	mux.HandleFunc("GET /history", h.history)
	mux.HandleFunc("GET /stats", h.stats)

	mux.HandleFunc("GET /registrations", h.pendingRegistrations)
	mux.HandleFunc("POST /registrations", h.submitRegistration)
	mux.HandleFunc("POST /registrations/{id}/approve", h.approveRegistration)
	mux.HandleFunc("POST /registrations/{id}/reject", h.rejectRegistration)
	mux.HandleFunc("GET /members", h.listMembers)
	mux.HandleFunc("POST /members", h.addMember)
	mux.HandleFunc("PATCH /members/{id}", h.updateMember)
	mux.HandleFunc("DELETE /members/{id}", h.removeMember)
}

type sessionResponse struct {
	Active  bool            `json:"active"`
	Session *domain.Session `json:"session,omitempty"`
}

type tickResponse struct {
	Session *domain.Session `json:"session,omitempty"`
	Result  *domain.Result  `json:"result,omitempty"`
}

func (h *APIHandler) listQuizzes(w http.ResponseWriter, r *http.Request) {
	quizzes, err := h.engine.Catalog(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, quizzes)
}

func (h *APIHandler) getQuiz(w http.ResponseWriter, r *http.Request) {
	quiz, err := h.engine.Quiz(r.Context(), r.PathValue("id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, quiz)
}

func (h *APIHandler) currentSession(w http.ResponseWriter, r *http.Request) {
	session, ok, err := h.engine.Current(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if !ok {
		writeJSON(w, http.StatusOK, sessionResponse{})
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{Active: true, Session: &session})
}

func (h *APIHandler) startQuiz(w http.ResponseWriter, r *http.Request) {
	var payload startPayload
	if err := decodeJSON(r, &payload); err != nil || payload.QuizID == "" {
		h.fail(w, r, errBadPayload)
		return
	}
	session, err := h.engine.StartQuiz(r.Context(), payload.QuizID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

func (h *APIHandler) recordAnswer(w http.ResponseWriter, r *http.Request) {
	var payload answerPayload
	if err := decodeJSON(r, &payload); err != nil || payload.OptionIndex == nil {
		h.fail(w, r, errBadPayload)
		return
	}
	session, err := h.engine.RecordAnswer(r.Context(), payload.QuestionID, *payload.OptionIndex)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (h *APIHandler) tick(w http.ResponseWriter, r *http.Request) {
	session, result, err := h.engine.Tick(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	resp := tickResponse{Result: result}
	if result == nil {
		resp.Session = &session
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *APIHandler) submit(w http.ResponseWriter, r *http.Request) {
	result, err := h.engine.Submit(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *APIHandler) reset(w http.ResponseWriter, r *http.Request) {
	if err := h.engine.Reset(r.Context()); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *APIHandler) history(w http.ResponseWriter, r *http.Request) {
	results, err := h.engine.History(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if results == nil {
		results = []domain.Result{}
	}
	writeJSON(w, http.StatusOK, results)
}

func (h *APIHandler) stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.engine.Stats(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *APIHandler) pendingRegistrations(w http.ResponseWriter, r *http.Request) {
	regs, err := h.registrations.Pending(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if regs == nil {
		regs = []domain.Registration{}
	}
	writeJSON(w, http.StatusOK, regs)
}

func (h *APIHandler) submitRegistration(w http.ResponseWriter, r *http.Request) {
	var applicant domain.Applicant
	if err := decodeJSON(r, &applicant); err != nil {
		h.fail(w, r, errBadPayload)
		return
	}
	reg, err := h.registrations.Submit(r.Context(), applicant)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, reg)
}

func (h *APIHandler) approveRegistration(w http.ResponseWriter, r *http.Request) {
	member, err := h.registrations.Approve(r.Context(), r.PathValue("id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, member)
}

func (h *APIHandler) rejectRegistration(w http.ResponseWriter, r *http.Request) {
	if err := h.registrations.Reject(r.Context(), r.PathValue("id")); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *APIHandler) listMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.registrations.Members(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if members == nil {
		members = []domain.Member{}
	}
	writeJSON(w, http.StatusOK, members)
}

func (h *APIHandler) addMember(w http.ResponseWriter, r *http.Request) {
	var applicant domain.Applicant
	if err := decodeJSON(r, &applicant); err != nil {
		h.fail(w, r, errBadPayload)
		return
	}
	member, err := h.registrations.AddMember(r.Context(), applicant)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, member)
}

func (h *APIHandler) updateMember(w http.ResponseWriter, r *http.Request) {
	var update domain.MemberUpdate
	if err := decodeJSON(r, &update); err != nil {
		h.fail(w, r, errBadPayload)
		return
	}
	member, err := h.registrations.UpdateMember(r.Context(), r.PathValue("id"), update)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, member)
}

func (h *APIHandler) removeMember(w http.ResponseWriter, r *http.Request) {
	if err := h.registrations.RemoveMember(r.Context(), r.PathValue("id")); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *APIHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.log.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	return dec.Decode(dst)
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
