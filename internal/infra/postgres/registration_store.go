package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"nanonerds-quiz-service/internal/domain"
)

// ApplicantColumns is shared by the registrations and members tables.
type ApplicantColumns struct {
	Name               string   `bun:"name"`
	Email              string   `bun:"email"`
	RollNumber         string   `bun:"roll_number"`
	Year               string   `bun:"year"`
	Branch             string   `bun:"branch"`
	Phone              string   `bun:"phone"`
	Interests          []string `bun:"interests,array"`
	Motivation         string   `bun:"motivation"`
	PreviousExperience string   `bun:"previous_experience"`
	Expectations       string   `bun:"expectations"`
}

type registrationRow struct {
	bun.BaseModel `bun:"table:registrations,alias:r"`

	ID string `bun:"id,pk"`
	ApplicantColumns
	Status    string    `bun:"status"`
	AppliedAt time.Time `bun:"applied_at"`
}

type memberRow struct {
	bun.BaseModel `bun:"table:members,alias:m"`

	ID string `bun:"id,pk"`
	ApplicantColumns
	Status       string    `bun:"status"`
	JoinedAt     time.Time `bun:"joined_at"`
	Projects     []string  `bun:"projects,array"`
	Achievements []string  `bun:"achievements,array"`
}

// RegistrationStore keeps registrations and members in Postgres. Approval runs in one transaction.
type RegistrationStore struct {
	db *bun.DB
}

func NewRegistrationStore(db *bun.DB) *RegistrationStore {
	return &RegistrationStore{db: db}
}

func (s *RegistrationStore) AddRegistration(ctx context.Context, reg domain.Registration) error {
	row := registrationRow{
		ID:               reg.ID,
		ApplicantColumns: toColumns(reg.Applicant),
		Status:           reg.Status,
		AppliedAt:        reg.AppliedAt,
	}
	if _, err := s.db.NewInsert().Model(&row).Exec(ctx); err != nil {
		return fmt.Errorf("add registration: %w", err)
	}
	return nil
}

func (s *RegistrationStore) ListRegistrations(ctx context.Context) ([]domain.Registration, error) {
	var rows []registrationRow
	if err := s.db.NewSelect().Model(&rows).OrderExpr("seq ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	out := make([]domain.Registration, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (s *RegistrationStore) PromoteRegistration(ctx context.Context, id string, joinedAt time.Time) (domain.Member, error) {
	var member domain.Member
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var row registrationRow
		err := tx.NewSelect().Model(&row).Where("id = ?", id).For("UPDATE").Scan(ctx)
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrRegistrationNotFound
		}
		if err != nil {
			return err
		}
		if _, err := tx.NewDelete().Model((*registrationRow)(nil)).Where("id = ?", id).Exec(ctx); err != nil {
			return err
		}
		member = domain.PromoteRegistration(row.toDomain(), joinedAt)
		m := toMemberRow(member)
		_, err = tx.NewInsert().Model(&m).Exec(ctx)
		return err
	})
	if errors.Is(err, domain.ErrRegistrationNotFound) {
		return domain.Member{}, err
	}
	if err != nil {
		return domain.Member{}, fmt.Errorf("promote registration: %w", err)
	}
	return member, nil
}

func (s *RegistrationStore) DeleteRegistration(ctx context.Context, id string) error {
	return s.deleteByID(ctx, (*registrationRow)(nil), id, domain.ErrRegistrationNotFound)
}

func (s *RegistrationStore) ListMembers(ctx context.Context) ([]domain.Member, error) {
	var rows []memberRow
	if err := s.db.NewSelect().Model(&rows).OrderExpr("seq ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	out := make([]domain.Member, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (s *RegistrationStore) AddMember(ctx context.Context, member domain.Member) error {
	row := toMemberRow(member)
	if _, err := s.db.NewInsert().Model(&row).Exec(ctx); err != nil {
		return fmt.Errorf("add member: %w", err)
	}
	return nil
}

func (s *RegistrationStore) UpdateMember(ctx context.Context, id string, apply func(*domain.Member) error) (domain.Member, error) {
	var member domain.Member
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var row memberRow
		err := tx.NewSelect().Model(&row).Where("id = ?", id).For("UPDATE").Scan(ctx)
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrMemberNotFound
		}
		if err != nil {
			return err
		}
		member = row.toDomain()
		if err := apply(&member); err != nil {
			return err
		}
		updated := toMemberRow(member)
		_, err = tx.NewUpdate().Model(&updated).WherePK().Exec(ctx)
		return err
	})
	if errors.Is(err, domain.ErrMemberNotFound) || errors.Is(err, domain.ErrInvalidMember) {
		return domain.Member{}, err
	}
	if err != nil {
		return domain.Member{}, fmt.Errorf("update member: %w", err)
	}
	return member, nil
}

func (s *RegistrationStore) DeleteMember(ctx context.Context, id string) error {
	return s.deleteByID(ctx, (*memberRow)(nil), id, domain.ErrMemberNotFound)
}

func (s *RegistrationStore) deleteByID(ctx context.Context, model interface{}, id string, notFound error) error {
	res, err := s.db.NewDelete().Model(model).Where("id = ?", id).Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return notFound
	}
	return nil
}

func (row registrationRow) toDomain() domain.Registration {
	return domain.Registration{
		ID:        row.ID,
		Applicant: row.toApplicant(),
		Status:    row.Status,
		AppliedAt: row.AppliedAt.UTC(),
	}
}

func (row memberRow) toDomain() domain.Member {
	return domain.Member{
		ID:           row.ID,
		Applicant:    row.toApplicant(),
		Status:       row.Status,
		JoinedAt:     row.JoinedAt.UTC(),
		Projects:     nonNil(row.Projects),
		Achievements: nonNil(row.Achievements),
	}
}

func toMemberRow(member domain.Member) memberRow {
	return memberRow{
		ID:               member.ID,
		ApplicantColumns: toColumns(member.Applicant),
		Status:           member.Status,
		JoinedAt:         member.JoinedAt,
		Projects:         nonNil(member.Projects),
		Achievements:     nonNil(member.Achievements),
	}
}

func (c ApplicantColumns) toApplicant() domain.Applicant {
	return domain.Applicant{
		Name:               c.Name,
		Email:              c.Email,
		RollNumber:         c.RollNumber,
		Year:               c.Year,
		Branch:             c.Branch,
		Phone:              c.Phone,
		Interests:          nonNil(c.Interests),
		Motivation:         c.Motivation,
		PreviousExperience: c.PreviousExperience,
		Expectations:       c.Expectations,
	}
}

func toColumns(a domain.Applicant) ApplicantColumns {
	return ApplicantColumns{
		Name:               a.Name,
		Email:              a.Email,
		RollNumber:         a.RollNumber,
		Year:               a.Year,
		Branch:             a.Branch,
		Phone:              a.Phone,
		Interests:          nonNil(a.Interests),
		Motivation:         a.Motivation,
		PreviousExperience: a.PreviousExperience,
		Expectations:       a.Expectations,
	}
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
