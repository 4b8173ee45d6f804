// internal/store/recommendation.go
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"supplement-workers/internal/common/database"
	"supplement-workers/internal/models"

	"github.com/google/uuid"
)

type RecommendationStore struct {
	db *sql.DB
}

func NewRecommendationStore(db *sql.DB) *RecommendationStore {
	return &RecommendationStore{db: db}
}

// Replace deletes the user's current recommendations and inserts recs in
// rank order, returning the new row IDs.
func (s *RecommendationStore) Replace(ctx context.Context, userID string, recs []models.Recommendation) ([]string, error) {
	ids := make([]string, 0, len(recs))
	now := time.Now().UTC()

	err := database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM recommendations WHERE user_id = $1`, userID); err != nil {
			return fmt.Errorf("delete recommendations: %w", err)
		}

		for rank, r := range recs {
			id := uuid.New().String()
			_, err := tx.ExecContext(ctx, `
				INSERT INTO recommendations (
					id, user_id, supplement_id, supplement_name, recommended_dosage,
					dosage_unit, timing, confidence, reasoning, priority, rank, created_at
				) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
				id, userID, r.SupplementID, r.SupplementName, r.RecommendedDosage,
				r.DosageUnit, r.Timing, r.Confidence, r.Reasoning, r.Priority, rank+1, now,
			)
			if err != nil {
				return fmt.Errorf("insert recommendation %s: %w", r.SupplementID, err)
			}
			ids = append(ids, id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (s *RecommendationStore) ListByUser(ctx context.Context, userID string) ([]models.Recommendation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT supplement_id, supplement_name, recommended_dosage, dosage_unit,
		       timing, confidence, reasoning, priority
		FROM recommendations
		WHERE user_id = $1
		ORDER BY rank`, userID)
	if err != nil {
		return nil, fmt.Errorf("query recommendations: %w", err)
	}
	defer rows.Close()

	out := []models.Recommendation{}
	for rows.Next() {
		var r models.Recommendation
		if err := rows.Scan(&r.SupplementID, &r.SupplementName, &r.RecommendedDosage, &r.DosageUnit,
			&r.Timing, &r.Confidence, &r.Reasoning, &r.Priority); err != nil {
			return nil, fmt.Errorf("scan recommendation: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
