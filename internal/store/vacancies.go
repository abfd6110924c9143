package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spigell/jobboard-ai/internal/utils"
)

const vacancyColumns = `id, owner_id, title, company, location, requirements, skills,
	salary_min, salary_max, work_type, urgent, status, created_at`

func scanVacancy(row pgx.Row) (Vacancy, error) {
	var v Vacancy
	if err := row.Scan(&v.ID, &v.OwnerID, &v.Title, &v.Company, &v.Location, &v.Requirements, &v.Skills,
		&v.SalaryMin, &v.SalaryMax, &v.WorkType, &v.Urgent, &v.Status, &v.CreatedAt); err != nil {
		return Vacancy{}, err
	}
	v.CreatedAt = v.CreatedAt.UTC()
	v.Skills = utils.CleanStrings(v.Skills)
	return v, nil
}

func normalizeVacancy(v Vacancy) Vacancy {
	v.Title = strings.TrimSpace(v.Title)
	v.Company = strings.TrimSpace(v.Company)
	v.Location = strings.TrimSpace(v.Location)
	v.WorkType = strings.TrimSpace(v.WorkType)
	v.Skills = utils.CleanStrings(v.Skills)
	if v.Status == "" {
		v.Status = VacancyStatusOpen
	}
	return v
}

// CreateVacancy stores a new vacancy owned by the calling employer. Admins may
// set any owner.
func (s *Store) CreateVacancy(ctx context.Context, caller Caller, v Vacancy) (Vacancy, error) {
	switch caller.Role {
	case RoleEmployer:
		v.OwnerID = caller.ID
	case RoleAdmin:
		if v.OwnerID == uuid.Nil {
			v.OwnerID = caller.ID
		}
	default:
		return Vacancy{}, fmt.Errorf("create vacancy: %w", ErrForbidden)
	}

	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	if v.CreatedAt.IsZero() {
		v.CreatedAt = time.Now().UTC()
	}
	v = normalizeVacancy(v)

	_, err := s.pool.Exec(ctx, `
INSERT INTO vacancies (`+vacancyColumns+`)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
`, v.ID, v.OwnerID, v.Title, v.Company, v.Location, v.Requirements, v.Skills,
		v.SalaryMin, v.SalaryMax, v.WorkType, v.Urgent, v.Status, v.CreatedAt)
	if err != nil {
		return Vacancy{}, fmt.Errorf("create vacancy: %w", err)
	}
	return v, nil
}

// GetVacancy returns a vacancy without scope checks.
func (s *Store) GetVacancy(ctx context.Context, id uuid.UUID) (Vacancy, error) {
	v, err := scanVacancy(s.pool.QueryRow(ctx, `SELECT `+vacancyColumns+` FROM vacancies WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Vacancy{}, fmt.Errorf("get vacancy %s: %w", id, ErrNotFound)
		}
		return Vacancy{}, fmt.Errorf("get vacancy %s: %w", id, err)
	}
	return v, nil
}

// GetVacancyForCaller applies the visibility rules: seekers see open
// vacancies only, employers see their own, admins see everything.
func (s *Store) GetVacancyForCaller(ctx context.Context, caller Caller, id uuid.UUID) (Vacancy, error) {
	v, err := s.GetVacancy(ctx, id)
	if err != nil {
		return Vacancy{}, err
	}
	if err := checkVacancyScope(caller, v); err != nil {
		return Vacancy{}, fmt.Errorf("get vacancy %s: %w", id, err)
	}
	return v, nil
}

func checkVacancyScope(caller Caller, v Vacancy) error {
	switch caller.Role {
	case RoleAdmin:
		return nil
	case RoleEmployer:
		if v.OwnerID != caller.ID {
			return ErrForbidden
		}
		return nil
	case RoleJobSeeker:
		if v.Status != VacancyStatusOpen {
			return ErrNotFound
		}
		return nil
	default:
		return ErrForbidden
	}
}

// ListOpenVacancies returns every open vacancy, newest first.
func (s *Store) ListOpenVacancies(ctx context.Context) ([]Vacancy, error) {
	return s.listVacancies(ctx, `SELECT `+vacancyColumns+` FROM vacancies WHERE status = $1 ORDER BY created_at DESC`, VacancyStatusOpen)
}

// ListVacanciesByOwner returns the vacancies of one employer, newest first.
func (s *Store) ListVacanciesByOwner(ctx context.Context, ownerID uuid.UUID) ([]Vacancy, error) {
	return s.listVacancies(ctx, `SELECT `+vacancyColumns+` FROM vacancies WHERE owner_id = $1 ORDER BY created_at DESC`, ownerID)
}

func (s *Store) listVacancies(ctx context.Context, query string, args ...any) ([]Vacancy, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list vacancies: %w", err)
	}
	defer rows.Close()

	res := []Vacancy{}
	for rows.Next() {
		v, err := scanVacancy(rows)
		if err != nil {
			return nil, fmt.Errorf("scan vacancy: %w", err)
		}
		res = append(res, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list vacancies: %w", err)
	}
	return res, nil
}

// UpdateVacancy overwrites the editable fields of a vacancy the caller manages.
func (s *Store) UpdateVacancy(ctx context.Context, caller Caller, v Vacancy) (Vacancy, error) {
	current, err := s.GetVacancy(ctx, v.ID)
	if err != nil {
		return Vacancy{}, err
	}
	if !caller.CanManage(current.OwnerID) {
		return Vacancy{}, fmt.Errorf("update vacancy %s: %w", v.ID, ErrForbidden)
	}

	v.OwnerID = current.OwnerID
	v.CreatedAt = current.CreatedAt
	v = normalizeVacancy(v)

	_, err = s.pool.Exec(ctx, `
UPDATE vacancies SET title = $2, company = $3, location = $4, requirements = $5, skills = $6,
	salary_min = $7, salary_max = $8, work_type = $9, urgent = $10, status = $11
WHERE id = $1
`, v.ID, v.Title, v.Company, v.Location, v.Requirements, v.Skills,
		v.SalaryMin, v.SalaryMax, v.WorkType, v.Urgent, v.Status)
	if err != nil {
		return Vacancy{}, fmt.Errorf("update vacancy %s: %w", v.ID, err)
	}
	return v, nil
}

// DeleteVacancy removes a vacancy the caller manages together with its applications.
func (s *Store) DeleteVacancy(ctx context.Context, caller Caller, id uuid.UUID) error {
	current, err := s.GetVacancy(ctx, id)
	if err != nil {
		return err
	}
	if !caller.CanManage(current.OwnerID) {
		return fmt.Errorf("delete vacancy %s: %w", id, ErrForbidden)
	}

	cmd, err := s.pool.Exec(ctx, `DELETE FROM vacancies WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete vacancy %s: %w", id, err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("delete vacancy %s: %w", id, ErrNotFound)
	}
	return nil
}
