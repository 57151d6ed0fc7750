package domain

import (
	"fmt"
	"time"
)

const (
	StatusPending  = "pending"
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Applicant is the free-form record submitted through the registration form.
type Applicant struct {
	Name               string   `json:"name"`
	Email              string   `json:"email"`
	RollNumber         string   `json:"rollNumber"`
	Year               string   `json:"year"`
	Branch             string   `json:"branch"`
	Phone              string   `json:"phone"`
	Interests          []string `json:"interests"`
	Motivation         string   `json:"motivation,omitempty"`
	PreviousExperience string   `json:"previousExperience,omitempty"`
	Expectations       string   `json:"expectations,omitempty"`
}

// Registration is a pending application awaiting approval or rejection.
type Registration struct {
	ID string `json:"id"`
	Applicant
	Status    string    `json:"status"`
	AppliedAt time.Time `json:"appliedAt"`
}

// Member is an approved club member.
type Member struct {
	ID string `json:"id"`
	Applicant
	Status       string    `json:"status"`
	JoinedAt     time.Time `json:"joinedAt"`
	Projects     []string  `json:"projects"`
	Achievements []string  `json:"achievements"`
}

// PromoteRegistration builds the member record for an approved registration.
func PromoteRegistration(reg Registration, joinedAt time.Time) Member {
	return Member{
		ID:           reg.ID,
		Applicant:    reg.Applicant,
		Status:       StatusActive,
		JoinedAt:     joinedAt,
		Projects:     []string{},
		Achievements: []string{},
	}
}

// NewMember builds a member added directly to the roster, bypassing the registration queue.
func NewMember(id string, applicant Applicant, joinedAt time.Time) Member {
	if applicant.Interests == nil {
		applicant.Interests = []string{}
	}
	return PromoteRegistration(Registration{ID: id, Applicant: applicant}, joinedAt)
}

// MemberUpdate is a partial edit of a member. Nil fields are left unchanged.
type MemberUpdate struct {
	Name         *string   `json:"name,omitempty"`
	Email        *string   `json:"email,omitempty"`
	Year         *string   `json:"year,omitempty"`
	Branch       *string   `json:"branch,omitempty"`
	Phone        *string   `json:"phone,omitempty"`
	Status       *string   `json:"status,omitempty"`
	Interests    *[]string `json:"interests,omitempty"`
	Projects     *[]string `json:"projects,omitempty"`
	Achievements *[]string `json:"achievements,omitempty"`
}

// Apply writes the set fields onto m. Status must be active or inactive.
func (u MemberUpdate) Apply(m *Member) error {
	if u.Status != nil && *u.Status != StatusActive && *u.Status != StatusInactive {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidMember, *u.Status)
	}
	setString(&m.Name, u.Name)
	setString(&m.Email, u.Email)
	setString(&m.Year, u.Year)
	setString(&m.Branch, u.Branch)
	setString(&m.Phone, u.Phone)
	setString(&m.Status, u.Status)
	setList(&m.Interests, u.Interests)
	setList(&m.Projects, u.Projects)
	setList(&m.Achievements, u.Achievements)
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setList(dst *[]string, v *[]string) {
	if v == nil {
		return
	}
	out := make([]string, len(*v))
	copy(out, *v)
	*dst = out
}
