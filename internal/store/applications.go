package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spigell/jobboard-ai/internal/ai"
)

const applicationColumns = `a.id, a.vacancy_id, a.job_seeker_id, a.status, a.match_score, a.applied_at`

func scanApplication(row pgx.Row) (Application, error) {
	var a Application
	if err := row.Scan(&a.ID, &a.VacancyID, &a.JobSeekerID, &a.Status, &a.MatchScore, &a.AppliedAt); err != nil {
		return Application{}, err
	}
	a.AppliedAt = a.AppliedAt.UTC()
	return a, nil
}

// CreateApplication applies the calling seeker to an open vacancy.
func (s *Store) CreateApplication(ctx context.Context, caller Caller, vacancyID uuid.UUID) (Application, error) {
	if caller.Role != RoleJobSeeker {
		return Application{}, fmt.Errorf("create application: %w", ErrForbidden)
	}
	if _, err := s.GetVacancyForCaller(ctx, caller, vacancyID); err != nil {
		return Application{}, fmt.Errorf("create application: %w", err)
	}

	a := Application{
		ID:          uuid.New(),
		VacancyID:   vacancyID,
		JobSeekerID: caller.ID,
		Status:      ApplicationStatusPending,
		AppliedAt:   time.Now().UTC(),
	}

	cmd, err := s.pool.Exec(ctx, `
INSERT INTO applications (id, vacancy_id, job_seeker_id, status, applied_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (vacancy_id, job_seeker_id) DO NOTHING
`, a.ID, a.VacancyID, a.JobSeekerID, a.Status, a.AppliedAt)
	if err != nil {
		return Application{}, fmt.Errorf("create application: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return Application{}, fmt.Errorf("create application: %w", ErrAlreadyApplied)
	}
	return a, nil
}

func (s *Store) GetApplication(ctx context.Context, id uuid.UUID) (Application, error) {
	a, err := scanApplication(s.pool.QueryRow(ctx, `SELECT `+applicationColumns+` FROM applications a WHERE a.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Application{}, fmt.Errorf("get application %s: %w", id, ErrNotFound)
		}
		return Application{}, fmt.Errorf("get application %s: %w", id, err)
	}
	return a, nil
}

// ListApplicationsBySeeker returns the applications of one job seeker, newest first.
func (s *Store) ListApplicationsBySeeker(ctx context.Context, seekerID uuid.UUID) ([]Application, error) {
	rows, err := s.pool.Query(ctx, `
SELECT `+applicationColumns+` FROM applications a
WHERE a.job_seeker_id = $1
ORDER BY a.applied_at DESC
`, seekerID)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	defer rows.Close()

	res := []Application{}
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("scan application: %w", err)
		}
		res = append(res, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	return res, nil
}

// ListCandidatesByVacancy returns the applications of a vacancy joined with
// the applicants' profiles. Scope is checked by the caller of this method.
func (s *Store) ListCandidatesByVacancy(ctx context.Context, vacancyID uuid.UUID) ([]Candidate, error) {
	rows, err := s.pool.Query(ctx, `
SELECT `+applicationColumns+`,
	COALESCE(p.full_name, ''), COALESCE(p.skills, '{}'), COALESCE(p.experience, ''),
	COALESCE(p.education, ''), COALESCE(p.bio, ''), COALESCE(p.updated_at, a.applied_at)
FROM applications a
LEFT JOIN profiles p ON p.user_id = a.job_seeker_id
WHERE a.vacancy_id = $1
ORDER BY a.applied_at DESC
`, vacancyID)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}
	defer rows.Close()

	res := []Candidate{}
	for rows.Next() {
		var c Candidate
		a := &c.Application
		p := &c.Profile
		if err := rows.Scan(&a.ID, &a.VacancyID, &a.JobSeekerID, &a.Status, &a.MatchScore, &a.AppliedAt,
			&p.FullName, &p.Skills, &p.Experience, &p.Education, &p.Bio, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan candidate: %w", err)
		}
		a.AppliedAt = a.AppliedAt.UTC()
		p.UserID = a.JobSeekerID
		p.UpdatedAt = p.UpdatedAt.UTC()
		res = append(res, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}
	return res, nil
}

// UpdateMatchScore stores the AI match score of an application.
func (s *Store) UpdateMatchScore(ctx context.Context, applicationID uuid.UUID, score int) error {
	cmd, err := s.pool.Exec(ctx, `UPDATE applications SET match_score = $2 WHERE id = $1`, applicationID, ai.ClampScore(score))
	if err != nil {
		return fmt.Errorf("update match score %s: %w", applicationID, err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("update match score %s: %w", applicationID, ErrNotFound)
	}
	return nil
}

// UpdateApplicationStatus is used by the vacancy owner to move an application
// through review.
func (s *Store) UpdateApplicationStatus(ctx context.Context, caller Caller, applicationID uuid.UUID, status string) error {
	if err := ValidateApplicationStatus(status); err != nil {
		return fmt.Errorf("update application %s: %w", applicationID, err)
	}
	a, err := s.GetApplication(ctx, applicationID)
	if err != nil {
		return err
	}
	v, err := s.GetVacancy(ctx, a.VacancyID)
	if err != nil {
		return err
	}
	if !caller.CanManage(v.OwnerID) {
		return fmt.Errorf("update application %s: %w", applicationID, ErrForbidden)
	}

	if _, err := s.pool.Exec(ctx, `UPDATE applications SET status = $2 WHERE id = $1`, applicationID, status); err != nil {
		return fmt.Errorf("update application %s: %w", applicationID, err)
	}
	return nil
}

// DeleteApplication lets a seeker withdraw their own application. Admins may
// delete any application.
func (s *Store) DeleteApplication(ctx context.Context, caller Caller, applicationID uuid.UUID) error {
	a, err := s.GetApplication(ctx, applicationID)
	if err != nil {
		return err
	}
	if !caller.IsAdmin() && (caller.Role != RoleJobSeeker || a.JobSeekerID != caller.ID) {
		return fmt.Errorf("delete application %s: %w", applicationID, ErrForbidden)
	}

	if _, err := s.pool.Exec(ctx, `DELETE FROM applications WHERE id = $1`, applicationID); err != nil {
		return fmt.Errorf("delete application %s: %w", applicationID, err)
	}
	return nil
}
