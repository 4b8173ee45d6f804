// internal/store/catalog.go
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"supplement-workers/internal/common/database"
	"supplement-workers/internal/common/logger"
	"supplement-workers/internal/models"

	"github.com/lib/pq"
	"github.com/redis/go-redis/v9"
)

const (
	SupplementsCacheKey = "catalog:supplements"
	ProtocolsCacheKey   = "catalog:protocols"
)

// CatalogStore serves the supplement and protocol catalogs in dataset order.
type CatalogStore struct {
	db    *sql.DB
	cache jsonCache
}

func NewCatalogStore(db *sql.DB, rdb *redis.Client, ttl time.Duration, log logger.Logger) *CatalogStore {
	return &CatalogStore{
		db:    db,
		cache: jsonCache{rdb: rdb, name: "catalog", ttl: ttl, logger: log},
	}
}

func (s *CatalogStore) Supplements(ctx context.Context) ([]models.Supplement, error) {
	var out []models.Supplement
	if s.cache.get(ctx, SupplementsCacheKey, &out) {
		return out, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, category, target_symptoms, benefits, dosage_min,
		       dosage_max, dosage_unit, timing, evidence_level
		FROM supplements
		ORDER BY position, id`)
	if err != nil {
		return nil, fmt.Errorf("query supplements: %w", err)
	}
	defer rows.Close()

	out = []models.Supplement{}
	for rows.Next() {
		var (
			sup      models.Supplement
			targets  pq.StringArray
			benefits pq.StringArray
		)
		if err := rows.Scan(&sup.ID, &sup.Name, &sup.Category, &targets, &benefits,
			&sup.DosageMin, &sup.DosageMax, &sup.DosageUnit, &sup.Timing, &sup.EvidenceLevel); err != nil {
			return nil, fmt.Errorf("scan supplement: %w", err)
		}
		sup.TargetSymptoms = []string(targets)
		sup.Benefits = []string(benefits)
		out = append(out, sup)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate supplements: %w", err)
	}

	s.cache.set(ctx, SupplementsCacheKey, out)
	return out, nil
}

func (s *CatalogStore) Protocols(ctx context.Context) ([]models.TherapeuticProtocol, error) {
	var out []models.TherapeuticProtocol
	if s.cache.get(ctx, ProtocolsCacheKey, &out) {
		return out, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, condition, supplement_combination, synergy_description, expected_efficacy
		FROM therapeutic_protocols
		ORDER BY position, id`)
	if err != nil {
		return nil, fmt.Errorf("query protocols: %w", err)
	}
	defer rows.Close()

	out = []models.TherapeuticProtocol{}
	for rows.Next() {
		var (
			p           models.TherapeuticProtocol
			combination []byte
		)
		if err := rows.Scan(&p.ID, &p.Condition, &combination, &p.SynergyDescription, &p.ExpectedEfficacy); err != nil {
			return nil, fmt.Errorf("scan protocol: %w", err)
		}
		if len(combination) > 0 {
			if err := json.Unmarshal(combination, &p.SupplementCombination); err != nil {
				return nil, fmt.Errorf("decode combination of protocol %s: %w", p.ID, err)
			}
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate protocols: %w", err)
	}

	s.cache.set(ctx, ProtocolsCacheKey, out)
	return out, nil
}

// ReplaceAll makes the tables match the dataset in one transaction: rows are
// upserted with their dataset position and rows absent from the dataset are
// deleted. Both catalog caches are dropped afterwards.
func (s *CatalogStore) ReplaceAll(ctx context.Context, ds *models.CatalogDataset) error {
	err := database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		supplementIDs := make([]string, 0, len(ds.Supplements))
		for i, sup := range ds.Supplements {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO supplements (
					id, name, category, target_symptoms, benefits, dosage_min,
					dosage_max, dosage_unit, timing, evidence_level, position, updated_at
				) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW())
				ON CONFLICT (id) DO UPDATE SET
					name = EXCLUDED.name,
					category = EXCLUDED.category,
					target_symptoms = EXCLUDED.target_symptoms,
					benefits = EXCLUDED.benefits,
					dosage_min = EXCLUDED.dosage_min,
					dosage_max = EXCLUDED.dosage_max,
					dosage_unit = EXCLUDED.dosage_unit,
					timing = EXCLUDED.timing,
					evidence_level = EXCLUDED.evidence_level,
					position = EXCLUDED.position,
					updated_at = NOW()`,
				sup.ID, sup.Name, sup.Category, pq.Array(sup.TargetSymptoms), pq.Array(sup.Benefits),
				sup.DosageMin, sup.DosageMax, sup.DosageUnit, sup.Timing, sup.EvidenceLevel, i,
			)
			if err != nil {
				return fmt.Errorf("upsert supplement %s: %w", sup.ID, err)
			}
			supplementIDs = append(supplementIDs, sup.ID)
		}
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM supplements WHERE NOT (id = ANY($1))`, pq.Array(supplementIDs)); err != nil {
			return fmt.Errorf("prune supplements: %w", err)
		}

		protocolIDs := make([]string, 0, len(ds.Protocols))
		for i, p := range ds.Protocols {
			combination, err := json.Marshal(p.SupplementCombination)
			if err != nil {
				return fmt.Errorf("encode combination of protocol %s: %w", p.ID, err)
			}
			_, err = tx.ExecContext(ctx, `
				INSERT INTO therapeutic_protocols (
					id, condition, supplement_combination, synergy_description,
					expected_efficacy, position, updated_at
				) VALUES ($1, $2, $3, $4, $5, $6, NOW())
				ON CONFLICT (id) DO UPDATE SET
					condition = EXCLUDED.condition,
					supplement_combination = EXCLUDED.supplement_combination,
					synergy_description = EXCLUDED.synergy_description,
					expected_efficacy = EXCLUDED.expected_efficacy,
					position = EXCLUDED.position,
					updated_at = NOW()`,
				p.ID, p.Condition, combination, p.SynergyDescription, p.ExpectedEfficacy, i,
			)
			if err != nil {
				return fmt.Errorf("upsert protocol %s: %w", p.ID, err)
			}
			protocolIDs = append(protocolIDs, p.ID)
		}
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM therapeutic_protocols WHERE NOT (id = ANY($1))`, pq.Array(protocolIDs)); err != nil {
			return fmt.Errorf("prune protocols: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.cache.del(ctx, SupplementsCacheKey, ProtocolsCacheKey)
	return nil
}
