package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"nanonerds-quiz-service/internal/app"
	"nanonerds-quiz-service/internal/domain"
	"nanonerds-quiz-service/internal/infra/memory"
	"nanonerds-quiz-service/internal/logger"
)

func TestAPISessionLifecycle(t *testing.T) {
	server := newTestServer()
	defer server.Close()

	var idle sessionResponse
	doJSON(t, server, http.MethodGet, "/session", nil, http.StatusOK, &idle)
	if idle.Active || idle.Session != nil {
		t.Fatalf("expected idle, got %+v", idle)
	}

	var session domain.Session
	doJSON(t, server, http.MethodPost, "/session", map[string]any{"quizId": "gate-ece-mock"}, http.StatusCreated, &session)
	if session.RemainingSeconds != 3600 || session.TotalQuestions != 1 {
		t.Fatalf("unexpected session %+v", session)
	}

	doJSON(t, server, http.MethodPost, "/session", map[string]any{"quizId": "basic-electronics"}, http.StatusConflict, nil)
	doJSON(t, server, http.MethodPost, "/session/answers", map[string]any{"questionId": "q1", "optionIndex": 9}, http.StatusConflict, nil)
	doJSON(t, server, http.MethodPost, "/session/answers", map[string]any{"questionId": "q1"}, http.StatusBadRequest, nil)
	doJSON(t, server, http.MethodPost, "/session/answers", map[string]any{"questionId": "q1", "optionIndex": 0}, http.StatusOK, &session)

	var ticked tickResponse
	doJSON(t, server, http.MethodPost, "/session/tick", nil, http.StatusOK, &ticked)
	if ticked.Result != nil || ticked.Session == nil || ticked.Session.RemainingSeconds != 3599 {
		t.Fatalf("unexpected tick %+v", ticked)
	}

	var result domain.Result
	doJSON(t, server, http.MethodPost, "/session/submit", nil, http.StatusOK, &result)
	if result.Score != 100 || !result.Passed() {
		t.Fatalf("unexpected result %+v", result)
	}

	doJSON(t, server, http.MethodPost, "/session/submit", nil, http.StatusConflict, nil)
	doJSON(t, server, http.MethodPost, "/session/reset", nil, http.StatusConflict, nil)

	var history []domain.Result
	doJSON(t, server, http.MethodGet, "/history", nil, http.StatusOK, &history)
	if len(history) != 1 || history[0].QuizID != "gate-ece-mock" {
		t.Fatalf("unexpected history %+v", history)
	}
	var stats domain.Stats
	doJSON(t, server, http.MethodGet, "/stats", nil, http.StatusOK, &stats)
	if stats.Count != 1 || stats.Best == nil || *stats.Best != 100 || stats.PassedCount != 1 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}

func TestAPICatalogRoutes(t *testing.T) {
	server := newTestServer()
	defer server.Close()

	var quizzes []domain.QuizDefinition
	doJSON(t, server, http.MethodGet, "/quizzes", nil, http.StatusOK, &quizzes)
	if len(quizzes) != 2 {
		t.Fatalf("expected 2 quizzes, got %d", len(quizzes))
	}
	var quiz domain.QuizDefinition
	doJSON(t, server, http.MethodGet, "/quizzes/basic-electronics", nil, http.StatusOK, &quiz)
	if len(quiz.Questions) != 2 {
		t.Fatalf("unexpected quiz %+v", quiz)
	}
	doJSON(t, server, http.MethodGet, "/quizzes/missing", nil, http.StatusNotFound, nil)
	doJSON(t, server, http.MethodPost, "/session", map[string]any{"quizId": "missing"}, http.StatusNotFound, nil)

	var stats domain.Stats
	doJSON(t, server, http.MethodGet, "/stats", nil, http.StatusOK, &stats)
	if stats.Count != 0 || stats.Average != nil || stats.Best != nil {
		t.Fatalf("expected empty stats, got %+v", stats)
	}
}

func TestAPIResetReturnsToIdle(t *testing.T) {
	server := newTestServer()
	defer server.Close()

	doJSON(t, server, http.MethodPost, "/session", map[string]any{"quizId": "basic-electronics"}, http.StatusCreated, nil)
	doJSON(t, server, http.MethodPost, "/session/reset", nil, http.StatusNoContent, nil)

	var idle sessionResponse
	doJSON(t, server, http.MethodGet, "/session", nil, http.StatusOK, &idle)
	if idle.Active {
		t.Fatalf("expected idle after reset")
	}
	var history []domain.Result
	doJSON(t, server, http.MethodGet, "/history", nil, http.StatusOK, &history)
	if len(history) != 0 {
		t.Fatalf("reset must not record history, got %+v", history)
	}
}

func TestAPIRegistrationFlow(t *testing.T) {
	server := newTestServer()
	defer server.Close()

	var reg domain.Registration
	doJSON(t, server, http.MethodPost, "/registrations", map[string]any{
		"name":      "Asha",
		"email":     "asha@example.com",
		"branch":    "ECE",
		"interests": []string{"robotics"},
	}, http.StatusCreated, &reg)
	if reg.Status != domain.StatusPending || reg.ID == "" {
		t.Fatalf("unexpected registration %+v", reg)
	}

	var pending []domain.Registration
	doJSON(t, server, http.MethodGet, "/registrations", nil, http.StatusOK, &pending)
	if len(pending) != 1 {
		t.Fatalf("expected 1 pending, got %d", len(pending))
	}

	var member domain.Member
	doJSON(t, server, http.MethodPost, "/registrations/"+reg.ID+"/approve", nil, http.StatusOK, &member)
	if member.Status != domain.StatusActive || member.Name != "Asha" {
		t.Fatalf("unexpected member %+v", member)
	}
	doJSON(t, server, http.MethodPost, "/registrations/"+reg.ID+"/reject", nil, http.StatusNotFound, nil)

	var members []domain.Member
	doJSON(t, server, http.MethodGet, "/members", nil, http.StatusOK, &members)
	if len(members) != 1 {
		t.Fatalf("expected 1 member, got %d", len(members))
	}
	var edited domain.Member
	doJSON(t, server, http.MethodPatch, "/members/"+member.ID, map[string]any{
		"projects":     []string{"Solar tracker"},
		"achievements": []string{"Best hardware hack"},
	}, http.StatusOK, &edited)
	if len(edited.Projects) != 1 || len(edited.Achievements) != 1 || edited.Status != domain.StatusActive {
		t.Fatalf("unexpected edit %+v", edited)
	}
	doJSON(t, server, http.MethodPatch, "/members/"+member.ID, map[string]any{"status": "alumni"}, http.StatusUnprocessableEntity, nil)
	doJSON(t, server, http.MethodPatch, "/members/missing", map[string]any{}, http.StatusNotFound, nil)

	var direct domain.Member
	doJSON(t, server, http.MethodPost, "/members", map[string]any{"name": "Dev", "year": "3rd Year"}, http.StatusCreated, &direct)
	if direct.ID == "" || direct.Status != domain.StatusActive {
		t.Fatalf("unexpected direct member %+v", direct)
	}
	doJSON(t, server, http.MethodGet, "/members", nil, http.StatusOK, &members)
	if len(members) != 2 {
		t.Fatalf("expected 2 members, got %d", len(members))
	}

	doJSON(t, server, http.MethodDelete, "/members/"+member.ID, nil, http.StatusNoContent, nil)
	doJSON(t, server, http.MethodDelete, "/members/"+member.ID, nil, http.StatusNotFound, nil)
}

func newTestServer() *httptest.Server {
	registrations := app.NewRegistrationService(memory.NewRegistrationStore())
	return httptest.NewServer(NewRouter(newTestEngine(), registrations, logger.Nop()))
}

func doJSON(t *testing.T, server *httptest.Server, method, path string, body any, wantStatus int, out any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, server.URL+path, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	resp, err := server.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		raw, _ := io.ReadAll(resp.Body)
		t.Fatalf("%s %s: expected %d, got %d: %s", method, path, wantStatus, resp.StatusCode, raw)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s %s: %v", method, path, err)
		}
	}
}
