package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"

	"nanonerds-quiz-service/internal/domain"
)

func TestHistoryStoreListsInAppendOrder(t *testing.T) {
	db, mock := newMockDB(t)
	completed := time.Date(2024, 10, 5, 14, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"id", "quiz_id", "quiz_title", "score", "total_questions", "correct_answers", "passing_score", "per_question", "completed_at"}).
		AddRow("r1", "basic-electronics", "Basic Electronics Quiz", 50, 2, 1, 60, []byte(`[{"questionId":"q1","selectedIndex":0,"correctIndex":0,"isCorrect":true,"explanation":""}]`), completed).
		AddRow("r2", "gate-ece-mock", "GATE ECE Mock Test", 100, 1, 1, 70, []byte(`[]`), completed.Add(time.Hour))
	mock.ExpectQuery(`FROM "quiz_results".+ORDER BY seq ASC`).WillReturnRows(rows)

	results, err := NewHistoryStore(db).List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(results) != 2 || results[0].ID != "r1" || results[1].ID != "r2" {
		t.Fatalf("unexpected order %+v", results)
	}
	if len(results[0].PerQuestion) != 1 || !results[0].PerQuestion[0].IsCorrect || *results[0].PerQuestion[0].SelectedIndex != 0 {
		t.Fatalf("per-question breakdown not decoded: %+v", results[0].PerQuestion)
	}
	if results[0].PassingScore != 60 || results[0].Passed() {
		t.Fatalf("unexpected threshold handling %+v", results[0])
	}
	expectationsMet(t, mock)
}

func TestHistoryStoreAppendInserts(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectExec(`INSERT INTO "quiz_results"`).WillReturnResult(sqlmock.NewResult(0, 1))

	err := NewHistoryStore(db).Append(context.Background(), domain.Result{ID: "r1", QuizID: "basic-electronics", Score: 50})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	expectationsMet(t, mock)
}

func TestPromoteRegistrationRunsInOneTransaction(t *testing.T) {
	db, mock := newMockDB(t)
	applied := time.Date(2024, 9, 28, 9, 0, 0, 0, time.UTC)
	joined := applied.Add(48 * time.Hour)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM "registrations".+id = 'r1'.+FOR UPDATE`).WillReturnRows(
		sqlmock.NewRows(registrationColumns()).
			AddRow("r1", "Meera", "meera@example.com", "22ECE001", "2nd Year", "ECE", "", []byte("{vlsi,iot}"), "", "", "", domain.StatusPending, applied),
	)
	mock.ExpectExec(`DELETE FROM "registrations".+id = 'r1'`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO "members"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	member, err := NewRegistrationStore(db).PromoteRegistration(context.Background(), "r1", joined)
	if err != nil {
		t.Fatalf("promote: %v", err)
	}
	if member.ID != "r1" || member.Status != domain.StatusActive || !member.JoinedAt.Equal(joined) {
		t.Fatalf("unexpected member %+v", member)
	}
	if len(member.Interests) != 2 || member.Interests[1] != "iot" || member.Projects == nil {
		t.Fatalf("unexpected member lists %+v", member)
	}
	expectationsMet(t, mock)
}

func TestPromoteUnknownRegistrationRollsBack(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM "registrations".+FOR UPDATE`).WillReturnRows(sqlmock.NewRows(registrationColumns()))
	mock.ExpectRollback()

	_, err := NewRegistrationStore(db).PromoteRegistration(context.Background(), "nope", time.Now())
	if !errors.Is(err, domain.ErrRegistrationNotFound) {
		t.Fatalf("expected ErrRegistrationNotFound, got %v", err)
	}
	expectationsMet(t, mock)
}

func TestUpdateMemberLocksAndWrites(t *testing.T) {
	db, mock := newMockDB(t)
	joined := time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM "members".+id = 'm1'.+FOR UPDATE`).WillReturnRows(memberRows("m1", joined))
	mock.ExpectExec(`UPDATE "members"`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	projects := []string{"Solar tracker"}
	update := domain.MemberUpdate{Projects: &projects}
	member, err := NewRegistrationStore(db).UpdateMember(context.Background(), "m1", update.Apply)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(member.Projects) != 1 || member.Name != "Kabir" || !member.JoinedAt.Equal(joined) {
		t.Fatalf("unexpected member %+v", member)
	}
	expectationsMet(t, mock)
}

func TestUpdateMemberRejectedEditRollsBack(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM "members".+FOR UPDATE`).WillReturnRows(memberRows("m1", time.Now()))
	mock.ExpectRollback()

	status := "alumni"
	update := domain.MemberUpdate{Status: &status}
	if _, err := NewRegistrationStore(db).UpdateMember(context.Background(), "m1", update.Apply); !errors.Is(err, domain.ErrInvalidMember) {
		t.Fatalf("expected ErrInvalidMember, got %v", err)
	}
	expectationsMet(t, mock)
}

func TestDeleteMemberReportsMissingRow(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectExec(`DELETE FROM "members".+id = 'ghost'`).WillReturnResult(sqlmock.NewResult(0, 0))

	if err := NewRegistrationStore(db).DeleteMember(context.Background(), "ghost"); !errors.Is(err, domain.ErrMemberNotFound) {
		t.Fatalf("expected ErrMemberNotFound, got %v", err)
	}
	expectationsMet(t, mock)
}

func newMockDB(t *testing.T) (*bun.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqldb, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	db := bun.NewDB(sqldb, pgdialect.New())
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func expectationsMet(t *testing.T, mock sqlmock.Sqlmock) {
	t.Helper()
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet sql expectations: %v", err)
	}
}

func registrationColumns() []string {
	return []string{"id", "name", "email", "roll_number", "year", "branch", "phone", "interests", "motivation", "previous_experience", "expectations", "status", "applied_at"}
}

func memberRows(id string, joined time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "email", "roll_number", "year", "branch", "phone", "interests", "motivation", "previous_experience", "expectations", "status", "joined_at", "projects", "achievements"}).
		AddRow(id, "Kabir", "", "", "3rd Year", "EEE", "", []byte("{}"), "", "", "", domain.StatusActive, joined, []byte("{}"), []byte("{}"))
}
