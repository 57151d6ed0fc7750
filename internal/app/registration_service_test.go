package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"nanonerds-quiz-service/internal/app"
	"nanonerds-quiz-service/internal/domain"
	"nanonerds-quiz-service/internal/infra/memory"
)

func TestRegistrationApproveFlow(t *testing.T) {
	ctx := context.Background()
	applied := time.Date(2024, 9, 28, 9, 0, 0, 0, time.UTC)
	service := app.NewRegistrationService(memory.NewRegistrationStore(),
		app.WithClock(func() time.Time { return applied }),
		app.WithIDGenerator(func() string { return "reg-1" }),
	)

	reg, err := service.Submit(ctx, domain.Applicant{
		Name:       "Rajesh Patel",
		Email:      "rajesh@example.com",
		RollNumber: "22ECE045",
		Year:       "2nd Year",
		Branch:     "ECE",
		Interests:  []string{"VLSI Design", "Analog Electronics"},
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if reg.ID != "reg-1" || reg.Status != domain.StatusPending || !reg.AppliedAt.Equal(applied) {
		t.Fatalf("unexpected registration %+v", reg)
	}

	pending, _ := service.Pending(ctx)
	if len(pending) != 1 {
		t.Fatalf("expected 1 pending, got %d", len(pending))
	}

	member, err := service.Approve(ctx, "reg-1")
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if member.Name != "Rajesh Patel" || member.Status != domain.StatusActive || len(member.Achievements) != 0 {
		t.Fatalf("unexpected member %+v", member)
	}

	pending, _ = service.Pending(ctx)
	members, _ := service.Members(ctx)
	if len(pending) != 0 || len(members) != 1 {
		t.Fatalf("expected promotion to move the record, got %d pending %d members", len(pending), len(members))
	}

	if err := service.RemoveMember(ctx, member.ID); err != nil {
		t.Fatalf("remove member: %v", err)
	}
}

func TestRegistrationRejectAndUnknownIDs(t *testing.T) {
	ctx := context.Background()
	service := app.NewRegistrationService(memory.NewRegistrationStore())

	reg, err := service.Submit(ctx, domain.Applicant{Name: "Neha Singh"})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if reg.ID == "" || reg.Interests == nil {
		t.Fatalf("expected generated id and non-nil interests, got %+v", reg)
	}
	if err := service.Reject(ctx, reg.ID); err != nil {
		t.Fatalf("reject: %v", err)
	}
	members, _ := service.Members(ctx)
	if len(members) != 0 {
		t.Fatalf("rejection must not create a member")
	}

	if err := service.Reject(ctx, reg.ID); !errors.Is(err, domain.ErrRegistrationNotFound) {
		t.Fatalf("expected ErrRegistrationNotFound, got %v", err)
	}
	if _, err := service.Approve(ctx, "nope"); !errors.Is(err, domain.ErrRegistrationNotFound) {
		t.Fatalf("expected ErrRegistrationNotFound, got %v", err)
	}
	if err := service.RemoveMember(ctx, "nope"); !errors.Is(err, domain.ErrMemberNotFound) {
		t.Fatalf("expected ErrMemberNotFound, got %v", err)
	}
}

func TestAddAndUpdateMember(t *testing.T) {
	ctx := context.Background()
	joined := time.Date(2024, 10, 3, 12, 0, 0, 0, time.UTC)
	service := app.NewRegistrationService(memory.NewRegistrationStore(),
		app.WithClock(func() time.Time { return joined }),
		app.WithIDGenerator(func() string { return "mem-1" }),
	)

	member, err := service.AddMember(ctx, domain.Applicant{Name: "Priya Sharma", Branch: "EEE"})
	if err != nil {
		t.Fatalf("add member: %v", err)
	}
	if member.ID != "mem-1" || member.Status != domain.StatusActive || !member.JoinedAt.Equal(joined) || member.Interests == nil {
		t.Fatalf("unexpected member %+v", member)
	}

	projects := []string{"Line follower robot"}
	achievements := []string{"Robocon 2024 finalist"}
	inactive := domain.StatusInactive
	updated, err := service.UpdateMember(ctx, "mem-1", domain.MemberUpdate{
		Projects:     &projects,
		Achievements: &achievements,
		Status:       &inactive,
	})
	if err != nil {
		t.Fatalf("update member: %v", err)
	}
	if updated.Status != domain.StatusInactive || len(updated.Projects) != 1 || updated.Achievements[0] != "Robocon 2024 finalist" {
		t.Fatalf("unexpected update %+v", updated)
	}
	if updated.Name != "Priya Sharma" || updated.Branch != "EEE" {
		t.Fatalf("unset fields must be kept, got %+v", updated)
	}

	members, _ := service.Members(ctx)
	if len(members) != 1 || len(members[0].Projects) != 1 {
		t.Fatalf("update not stored: %+v", members)
	}

	bogus := "alumni"
	if _, err := service.UpdateMember(ctx, "mem-1", domain.MemberUpdate{Status: &bogus}); !errors.Is(err, domain.ErrInvalidMember) {
		t.Fatalf("expected ErrInvalidMember, got %v", err)
	}
	members, _ = service.Members(ctx)
	if members[0].Status != domain.StatusInactive {
		t.Fatalf("rejected update changed the member: %+v", members[0])
	}
	if _, err := service.UpdateMember(ctx, "nope", domain.MemberUpdate{}); !errors.Is(err, domain.ErrMemberNotFound) {
		t.Fatalf("expected ErrMemberNotFound, got %v", err)
	}
}
