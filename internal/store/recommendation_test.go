package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"supplement-workers/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecommendationStore_Replace(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	recs := []models.Recommendation{
		{SupplementID: "magnesio", SupplementName: "Magnésio", RecommendedDosage: 300, Confidence: 70, Priority: models.PriorityHigh},
		{SupplementID: "zinco", SupplementName: "Zinco", RecommendedDosage: 22.5, Confidence: 36, Priority: models.PriorityLow},
	}

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM recommendations").WithArgs("user-1").WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectExec("INSERT INTO recommendations").
		WithArgs(sqlmock.AnyArg(), "user-1", "magnesio", "Magnésio", 300.0, "", models.Timing(""), 70, "", models.PriorityHigh, 1, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO recommendations").
		WithArgs(sqlmock.AnyArg(), "user-1", "zinco", "Zinco", 22.5, "", models.Timing(""), 36, "", models.PriorityLow, 2, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	ids, err := NewRecommendationStore(db).Replace(context.Background(), "user-1", recs)

	require.NoError(t, err)
	require.Len(t, ids, 2)
	for _, id := range ids {
		_, err := uuid.Parse(id)
		assert.NoError(t, err)
	}
	assert.NotEqual(t, ids[0], ids[1])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecommendationStore_ReplaceFailureRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM recommendations").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO recommendations").WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	ids, err := NewRecommendationStore(db).Replace(context.Background(), "user-1", []models.Recommendation{{SupplementID: "magnesio"}})

	assert.Error(t, err)
	assert.Nil(t, ids)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecommendationStore_ListByUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("FROM recommendations").
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{
			"supplement_id", "supplement_name", "recommended_dosage", "dosage_unit",
			"timing", "confidence", "reasoning", "priority",
		}).AddRow("magnesio", "Magnésio", 300.0, "mg", "evening", 70, "Sintomas: Insônia", "high"))

	recs, err := NewRecommendationStore(db).ListByUser(context.Background(), "user-1")

	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, models.PriorityHigh, recs[0].Priority)
	assert.Equal(t, models.TimingEvening, recs[0].Timing)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckInStore_Upsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	created := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	mock.ExpectQuery("INSERT INTO weekly_checkins").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow("existing-id", created))

	c := &models.CheckIn{UserID: "user-1", WeekStart: "2026-03-02", EnergyLevel: 4, SleepQuality: 3, StressLevel: 2, Mood: 4, AdherencePercent: 80}
	require.NoError(t, NewCheckInStore(db).Upsert(context.Background(), c))

	assert.Equal(t, "existing-id", c.ID)
	assert.Equal(t, created, c.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckInStore_Previous(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	columns := []string{
		"id", "user_id", "week_start", "energy_level", "sleep_quality",
		"stress_level", "mood", "adherence_percent", "notes", "created_at",
	}
	mock.ExpectQuery("FROM weekly_checkins").
		WithArgs("user-1", "2026-03-09").
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow("c1", "user-1", "2026-03-02", 2, 3, 4, 3, 60, nil, time.Now()))
	mock.ExpectQuery("FROM weekly_checkins").
		WithArgs("user-1", "2026-03-02").
		WillReturnRows(sqlmock.NewRows(columns))

	s := NewCheckInStore(db)
	prev, err := s.Previous(context.Background(), "user-1", "2026-03-09")
	require.NoError(t, err)
	assert.Equal(t, "2026-03-02", prev.WeekStart)
	assert.Equal(t, 2, prev.EnergyLevel)
	assert.Empty(t, prev.Notes)

	_, err = s.Previous(context.Background(), "user-1", "2026-03-02")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationStore_Record(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO notifications").
		WithArgs("n1", "user-1", "recommendation_summary", "email", "sent",
			[]byte(`{"count":2}`), sqlmock.AnyArg(), "2026-03-02T09:00:00Z").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = NewNotificationStore(db).Record(context.Background(), &models.Notification{
		ID:        "n1",
		UserID:    "user-1",
		Type:      "recommendation_summary",
		Channel:   "email",
		Status:    "sent",
		Payload:   map[string]interface{}{"count": 2},
		SentAt:    "2026-03-02T09:00:00Z",
		CreatedAt: "2026-03-02T09:00:00Z",
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
