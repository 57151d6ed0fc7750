package app

import (
	"context"
	"time"

	"nanonerds-quiz-service/internal/domain"
	"nanonerds-quiz-service/internal/logger"
)

// RegistrationRepository stores pending registrations and the member roster.
// PromoteRegistration must remove the registration and add the member atomically.
type RegistrationRepository interface {
	AddRegistration(ctx context.Context, reg domain.Registration) error
	ListRegistrations(ctx context.Context) ([]domain.Registration, error)
	PromoteRegistration(ctx context.Context, id string, joinedAt time.Time) (domain.Member, error)
	DeleteRegistration(ctx context.Context, id string) error
	AddMember(ctx context.Context, member domain.Member) error
	ListMembers(ctx context.Context) ([]domain.Member, error)
	// UpdateMember runs apply on the stored member and saves the result; an apply error aborts the edit.
	UpdateMember(ctx context.Context, id string, apply func(*domain.Member) error) (domain.Member, error)
	DeleteMember(ctx context.Context, id string) error
}

// RegistrationService handles membership intake. It shares no state with the quiz engine.
type RegistrationService struct {
	repo  RegistrationRepository
	log   *logger.Logger
	now   func() time.Time
	newID func() string
}

func NewRegistrationService(repo RegistrationRepository, opts ...Option) *RegistrationService {
	o := applyOptions(opts)
	return &RegistrationService{
		repo:  repo,
		log:   o.log.With("component", "registrations"),
		now:   o.now,
		newID: o.newID,
	}
}

// Submit appends an applicant to the pending list.
func (s *RegistrationService) Submit(ctx context.Context, applicant domain.Applicant) (domain.Registration, error) {
	if applicant.Interests == nil {
		applicant.Interests = []string{}
	}
	reg := domain.Registration{
		ID:        s.newID(),
		Applicant: applicant,
		Status:    domain.StatusPending,
		AppliedAt: s.now(),
	}
	if err := s.repo.AddRegistration(ctx, reg); err != nil {
		return domain.Registration{}, err
	}
	s.log.Info("registration received", "registration_id", reg.ID, "email", applicant.Email)
	return reg, nil
}

// Pending lists registrations awaiting a decision, oldest first.
func (s *RegistrationService) Pending(ctx context.Context) ([]domain.Registration, error) {
	return s.repo.ListRegistrations(ctx)
}

// Approve promotes a pending registration to an active member.
func (s *RegistrationService) Approve(ctx context.Context, id string) (domain.Member, error) {
	member, err := s.repo.PromoteRegistration(ctx, id, s.now())
	if err != nil {
		return domain.Member{}, err
	}
	s.log.Info("registration approved", "registration_id", id)
	return member, nil
}

// Reject drops a pending registration without promotion.
func (s *RegistrationService) Reject(ctx context.Context, id string) error {
	if err := s.repo.DeleteRegistration(ctx, id); err != nil {
		return err
	}
	s.log.Info("registration rejected", "registration_id", id)
	return nil
}

// AddMember puts an applicant straight onto the roster as an active member.
func (s *RegistrationService) AddMember(ctx context.Context, applicant domain.Applicant) (domain.Member, error) {
	member := domain.NewMember(s.newID(), applicant, s.now())
	if err := s.repo.AddMember(ctx, member); err != nil {
		return domain.Member{}, err
	}
	s.log.Info("member added", "member_id", member.ID, "email", applicant.Email)
	return member, nil
}

// UpdateMember applies a partial edit, e.g. recording projects and achievements.
func (s *RegistrationService) UpdateMember(ctx context.Context, id string, update domain.MemberUpdate) (domain.Member, error) {
	member, err := s.repo.UpdateMember(ctx, id, update.Apply)
	if err != nil {
		return domain.Member{}, err
	}
	s.log.Info("member updated", "member_id", id, "status", member.Status)
	return member, nil
}

func (s *RegistrationService) Members(ctx context.Context) ([]domain.Member, error) {
	return s.repo.ListMembers(ctx)
}

func (s *RegistrationService) RemoveMember(ctx context.Context, id string) error {
	if err := s.repo.DeleteMember(ctx, id); err != nil {
		return err
	}
	s.log.Info("member removed", "member_id", id)
	return nil
}
