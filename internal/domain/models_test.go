package domain

import (
	"encoding/json"
	"testing"
	"time"
)

func TestSessionJSONIncludesAnsweredCount(t *testing.T) {
	session := Session{QuizID: "q", Answers: map[string]int{"q1": 0, "q2": 3}, TotalQuestions: 5, Active: true}
	raw, err := json.Marshal(session)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded["answeredCount"] != float64(2) || decoded["totalQuestions"] != float64(5) {
		t.Fatalf("unexpected json %s", raw)
	}

	var back Session
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatalf("unmarshal session: %v", err)
	}
	if back.Answers["q2"] != 3 || !back.Active {
		t.Fatalf("session did not survive encoding: %+v", back)
	}
}

func TestSessionCloneDoesNotShareAnswers(t *testing.T) {
	session := Session{Answers: map[string]int{"q1": 1}}
	clone := session.Clone()
	clone.Answers["q1"] = 2
	if session.Answers["q1"] != 1 {
		t.Fatalf("clone mutated original")
	}
}

func TestPromoteRegistration(t *testing.T) {
	joined := time.Date(2024, 9, 2, 10, 0, 0, 0, time.UTC)
	reg := Registration{ID: "r1", Applicant: Applicant{Name: "Ravi"}, Status: StatusPending}
	member := PromoteRegistration(reg, joined)
	if member.ID != "r1" || member.Status != StatusActive || !member.JoinedAt.Equal(joined) {
		t.Fatalf("unexpected member %+v", member)
	}
	if member.Projects == nil || member.Achievements == nil {
		t.Fatalf("expected empty, non-nil project and achievement lists")
	}
}

func TestResultPassedUsesRecordedThreshold(t *testing.T) {
	if !(Result{Score: 60, PassingScore: 60}).Passed() {
		t.Fatalf("score equal to threshold should pass")
	}
	if (Result{Score: 59, PassingScore: 60}).Passed() {
		t.Fatalf("score below threshold should fail")
	}
}
