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

func (s *Store) GetProfile(ctx context.Context, userID uuid.UUID) (Profile, error) {
	var p Profile
	err := s.pool.QueryRow(ctx, `
SELECT user_id, full_name, skills, experience, education, bio, updated_at
FROM profiles WHERE user_id = $1
`, userID).Scan(&p.UserID, &p.FullName, &p.Skills, &p.Experience, &p.Education, &p.Bio, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Profile{}, fmt.Errorf("get profile %s: %w", userID, ErrNotFound)
		}
		return Profile{}, fmt.Errorf("get profile %s: %w", userID, err)
	}
	p.Skills = utils.CleanStrings(p.Skills)
	p.UpdatedAt = p.UpdatedAt.UTC()
	return p, nil
}

// UpsertProfile writes the caller's own profile. Admins may write any profile.
func (s *Store) UpsertProfile(ctx context.Context, caller Caller, p Profile) (Profile, error) {
	if p.UserID == uuid.Nil {
		p.UserID = caller.ID
	}
	if !caller.IsAdmin() && p.UserID != caller.ID {
		return Profile{}, fmt.Errorf("upsert profile %s: %w", p.UserID, ErrForbidden)
	}

	p.FullName = strings.TrimSpace(p.FullName)
	p.Skills = utils.CleanStrings(p.Skills)
	p.UpdatedAt = time.Now().UTC()

	_, err := s.pool.Exec(ctx, `
INSERT INTO profiles (user_id, full_name, skills, experience, education, bio, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (user_id) DO UPDATE SET
	full_name = EXCLUDED.full_name,
	skills = EXCLUDED.skills,
	experience = EXCLUDED.experience,
	education = EXCLUDED.education,
	bio = EXCLUDED.bio,
	updated_at = EXCLUDED.updated_at
`, p.UserID, p.FullName, p.Skills, p.Experience, p.Education, p.Bio, p.UpdatedAt)
	if err != nil {
		return Profile{}, fmt.Errorf("upsert profile %s: %w", p.UserID, err)
	}
	return p, nil
}

func (s *Store) DeleteProfile(ctx context.Context, caller Caller, userID uuid.UUID) error {
	if !caller.IsAdmin() && userID != caller.ID {
		return fmt.Errorf("delete profile %s: %w", userID, ErrForbidden)
	}

	cmd, err := s.pool.Exec(ctx, `DELETE FROM profiles WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("delete profile %s: %w", userID, err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("delete profile %s: %w", userID, ErrNotFound)
	}
	return nil
}
