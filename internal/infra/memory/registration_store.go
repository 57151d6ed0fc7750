package memory

import (
	"context"
	"sync"
	"time"

	"nanonerds-quiz-service/internal/domain"
)

// RegistrationStore keeps pending registrations and members in process memory.
type RegistrationStore struct {
	mu            sync.RWMutex
	registrations []domain.Registration
	members       []domain.Member
}

func NewRegistrationStore() *RegistrationStore {
	return &RegistrationStore{}
}

func (s *RegistrationStore) AddRegistration(_ context.Context, reg domain.Registration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.registrations = append(s.registrations, reg)
	return nil
}

func (s *RegistrationStore) ListRegistrations(_ context.Context) ([]domain.Registration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Registration, len(s.registrations))
	copy(out, s.registrations)
	return out, nil
}

func (s *RegistrationStore) PromoteRegistration(_ context.Context, id string, joinedAt time.Time) (domain.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.registrationIndexLocked(id)
	if idx < 0 {
		return domain.Member{}, domain.ErrRegistrationNotFound
	}
	member := domain.PromoteRegistration(s.registrations[idx], joinedAt)
	s.registrations = append(s.registrations[:idx], s.registrations[idx+1:]...)
	s.members = append(s.members, member)
	return member, nil
}

func (s *RegistrationStore) DeleteRegistration(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.registrationIndexLocked(id)
	if idx < 0 {
		return domain.ErrRegistrationNotFound
	}
	s.registrations = append(s.registrations[:idx], s.registrations[idx+1:]...)
	return nil
}

func (s *RegistrationStore) ListMembers(_ context.Context) ([]domain.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Member, len(s.members))
	copy(out, s.members)
	return out, nil
}

func (s *RegistrationStore) AddMember(_ context.Context, member domain.Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.members = append(s.members, member)
	return nil
}

func (s *RegistrationStore) UpdateMember(_ context.Context, id string, apply func(*domain.Member) error) (domain.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, m := range s.members {
		if m.ID != id {
			continue
		}
		if err := apply(&m); err != nil {
			return domain.Member{}, err
		}
		s.members[i] = m
		return m, nil
	}
	return domain.Member{}, domain.ErrMemberNotFound
}

func (s *RegistrationStore) DeleteMember(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, m := range s.members {
		if m.ID == id {
			s.members = append(s.members[:i], s.members[i+1:]...)
			return nil
		}
	}
	return domain.ErrMemberNotFound
}

func (s *RegistrationStore) registrationIndexLocked(id string) int {
	for i, reg := range s.registrations {
		if reg.ID == id {
			return i
		}
	}
	return -1
}
