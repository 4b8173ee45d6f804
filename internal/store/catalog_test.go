package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"supplement-workers/internal/common/logger"
	"supplement-workers/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var supplementColumns = []string{
	"id", "name", "category", "target_symptoms", "benefits", "dosage_min",
	"dosage_max", "dosage_unit", "timing", "evidence_level",
}

func TestCatalogStore_SupplementsCached(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	mr, rdb := newMiniRedis(t)

	mock.ExpectQuery("FROM supplements").
		WillReturnRows(sqlmock.NewRows(supplementColumns).
			AddRow("magnesio", "Magnésio", "mineral", "{Insônia,Ansiedade}", "{Relaxamento}",
				200.0, 400.0, "mg", "evening", "strong").
			AddRow("vitamina-d", "Vitamina D", "vitamin", "{Fadiga}", "{}",
				1000.0, 2000.0, "UI", "morning", "moderate"))

	s := NewCatalogStore(db, rdb, time.Hour, logger.NewTestLogger(t))

	sups, err := s.Supplements(context.Background())
	require.NoError(t, err)
	require.Len(t, sups, 2)
	assert.Equal(t, "magnesio", sups[0].ID)
	assert.Equal(t, []string{"Insônia", "Ansiedade"}, sups[0].TargetSymptoms)
	assert.Equal(t, models.TimingMorning, sups[1].Timing)
	assert.True(t, mr.Exists(SupplementsCacheKey))

	cached, err := s.Supplements(context.Background())
	require.NoError(t, err)
	assert.Equal(t, sups, cached)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogStore_ProtocolsDecodeCombination(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("FROM therapeutic_protocols").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "condition", "supplement_combination", "synergy_description", "expected_efficacy",
		}).AddRow("insonia", "Insônia",
			`[{"name":"Magnésio","agent":"GABA","evidenceGrade":"A","mechanism":"relaxamento"}]`,
			"Sinergia", "Melhora de 30-45%"))

	s := NewCatalogStore(db, nil, time.Hour, logger.NewTestLogger(t))
	protocols, err := s.Protocols(context.Background())

	require.NoError(t, err)
	require.Len(t, protocols, 1)
	require.Len(t, protocols[0].SupplementCombination, 1)
	assert.Equal(t, "A", protocols[0].SupplementCombination[0].EvidenceGrade)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogStore_ReplaceAll(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	mr, rdb := newMiniRedis(t)
	require.NoError(t, mr.Set(SupplementsCacheKey, "[]"))
	require.NoError(t, mr.Set(ProtocolsCacheKey, "[]"))

	ds := &models.CatalogDataset{
		Supplements: []models.Supplement{
			{ID: "magnesio", Name: "Magnésio", DosageMin: 200, DosageMax: 400},
			{ID: "zinco", Name: "Zinco", DosageMin: 15, DosageMax: 30},
		},
		Protocols: []models.TherapeuticProtocol{
			{ID: "insonia", Condition: "Insônia"},
		},
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO supplements").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO supplements").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM supplements").WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("INSERT INTO therapeutic_protocols").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM therapeutic_protocols").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	s := NewCatalogStore(db, rdb, time.Hour, logger.NewTestLogger(t))
	require.NoError(t, s.ReplaceAll(context.Background(), ds))

	assert.False(t, mr.Exists(SupplementsCacheKey))
	assert.False(t, mr.Exists(ProtocolsCacheKey))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogStore_ReplaceAllRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	mr, rdb := newMiniRedis(t)
	require.NoError(t, mr.Set(SupplementsCacheKey, "[]"))

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO supplements").WillReturnError(errors.New("constraint violation"))
	mock.ExpectRollback()

	s := NewCatalogStore(db, rdb, time.Hour, logger.NewTestLogger(t))
	err = s.ReplaceAll(context.Background(), &models.CatalogDataset{
		Supplements: []models.Supplement{{ID: "magnesio"}},
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "magnesio")
	assert.True(t, mr.Exists(SupplementsCacheKey))
	assert.NoError(t, mock.ExpectationsWereMet())
}
