// internal/store/profile.go
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"supplement-workers/internal/common/logger"
	"supplement-workers/internal/models"

	"github.com/lib/pq"
	"github.com/redis/go-redis/v9"
)

const profileKeyPrefix = "user:profile:"

type ProfileStore struct {
	db    *sql.DB
	cache jsonCache
}

func NewProfileStore(db *sql.DB, rdb *redis.Client, ttl time.Duration, log logger.Logger) *ProfileStore {
	return &ProfileStore{
		db:    db,
		cache: jsonCache{rdb: rdb, name: "profile", ttl: ttl, logger: log},
	}
}

func ProfileCacheKey(userID string) string {
	return profileKeyPrefix + userID
}

// Get returns the stored profile, reading through the cache. A missing row
// yields ErrNotFound.
func (s *ProfileStore) Get(ctx context.Context, userID string) (*models.UserProfile, error) {
	var p models.UserProfile
	if s.cache.get(ctx, ProfileCacheKey(userID), &p) {
		return &p, nil
	}

	var (
		weight       sql.NullFloat64
		age          sql.NullInt64
		email, phone sql.NullString
		symptoms     pq.StringArray
		goals        pq.StringArray
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT user_id, symptoms, health_goals, sleep_quality, stress_level,
		       exercise_frequency, weight, age, email, phone
		FROM user_profiles WHERE user_id = $1`, userID).
		Scan(&p.UserID, &symptoms, &goals, &p.SleepQuality, &p.StressLevel,
			&p.ExerciseFrequency, &weight, &age, &email, &phone)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load profile %s: %w", userID, err)
	}

	p.Symptoms = []string(symptoms)
	p.HealthGoals = []string(goals)
	p.Weight = weight.Float64
	p.Age = int(age.Int64)
	p.Email = email.String
	p.Phone = phone.String

	s.cache.set(ctx, ProfileCacheKey(userID), p)
	return &p, nil
}

// Save upserts the profile and drops its cache entry.
func (s *ProfileStore) Save(ctx context.Context, p *models.UserProfile) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_profiles (
			user_id, symptoms, health_goals, sleep_quality, stress_level,
			exercise_frequency, weight, age, email, phone, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			symptoms = EXCLUDED.symptoms,
			health_goals = EXCLUDED.health_goals,
			sleep_quality = EXCLUDED.sleep_quality,
			stress_level = EXCLUDED.stress_level,
			exercise_frequency = EXCLUDED.exercise_frequency,
			weight = EXCLUDED.weight,
			age = EXCLUDED.age,
			email = EXCLUDED.email,
			phone = EXCLUDED.phone,
			updated_at = NOW()`,
		p.UserID,
		pq.Array(p.Symptoms),
		pq.Array(p.HealthGoals),
		p.SleepQuality,
		p.StressLevel,
		p.ExerciseFrequency,
		nullFloat(p.Weight),
		nullInt(p.Age),
		nullString(p.Email),
		nullString(p.Phone),
	)
	if err != nil {
		return fmt.Errorf("save profile %s: %w", p.UserID, err)
	}

	s.cache.del(ctx, ProfileCacheKey(p.UserID))
	return nil
}

func nullFloat(v float64) sql.NullFloat64 {
	return sql.NullFloat64{Float64: v, Valid: v > 0}
}

func nullInt(v int) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(v), Valid: v > 0}
}

func nullString(v string) sql.NullString {
	return sql.NullString{String: v, Valid: v != ""}
}
