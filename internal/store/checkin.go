// internal/store/checkin.go
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"supplement-workers/internal/models"

	"github.com/google/uuid"
)

type CheckInStore struct {
	db *sql.DB
}

func NewCheckInStore(db *sql.DB) *CheckInStore {
	return &CheckInStore{db: db}
}

// Upsert stores c, replacing an earlier check-in for the same week. ID and
// CreatedAt are filled from the stored row.
func (s *CheckInStore) Upsert(ctx context.Context, c *models.CheckIn) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO weekly_checkins (
			id, user_id, week_start, energy_level, sleep_quality, stress_level,
			mood, adherence_percent, notes, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		ON CONFLICT (user_id, week_start) DO UPDATE SET
			energy_level = EXCLUDED.energy_level,
			sleep_quality = EXCLUDED.sleep_quality,
			stress_level = EXCLUDED.stress_level,
			mood = EXCLUDED.mood,
			adherence_percent = EXCLUDED.adherence_percent,
			notes = EXCLUDED.notes
		RETURNING id, created_at`,
		c.ID, c.UserID, c.WeekStart, c.EnergyLevel, c.SleepQuality, c.StressLevel,
		c.Mood, c.AdherencePercent, nullString(c.Notes),
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return fmt.Errorf("upsert check-in: %w", err)
	}
	return nil
}

// Previous returns the latest check-in strictly before weekStart, or
// ErrNotFound.
func (s *CheckInStore) Previous(ctx context.Context, userID, weekStart string) (*models.CheckIn, error) {
	var (
		c     models.CheckIn
		notes sql.NullString
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, to_char(week_start, 'YYYY-MM-DD'), energy_level, sleep_quality,
		       stress_level, mood, adherence_percent, notes, created_at
		FROM weekly_checkins
		WHERE user_id = $1 AND week_start < $2
		ORDER BY week_start DESC
		LIMIT 1`, userID, weekStart).
		Scan(&c.ID, &c.UserID, &c.WeekStart, &c.EnergyLevel, &c.SleepQuality,
			&c.StressLevel, &c.Mood, &c.AdherencePercent, &notes, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load previous check-in: %w", err)
	}
	c.Notes = notes.String
	return &c, nil
}
