// internal/scoring/engine_test.go
package scoring

import (
	"testing"

	"supplement-workers/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecommend_FatigueAndPoorSleep(t *testing.T) {
	catalog := []models.Supplement{
		testSupplement("complexo-b", "Complexo B", "Fadiga"),
		testSupplement("magnesio", "Magnésio"),
		testSupplement("melatonina", "Melatonina"),
		testSupplement("l-teanina", "L-Teanina"),
	}
	profile := models.UserProfile{Symptoms: []string{"Fadiga"}, SleepQuality: 1}

	recs := NewDefaultEngine().Recommend(profile, catalog, nil)

	require.Len(t, recs, 4)
	assert.Equal(t, "complexo-b", recs[0].SupplementID)
	assert.Equal(t, 40, recs[0].Confidence)
	assert.Equal(t, models.PriorityLow, recs[0].Priority)
	assert.Equal(t, "Sintomas: Fadiga", recs[0].Reasoning)

	for i, id := range []string{"magnesio", "melatonina", "l-teanina"} {
		rec := recs[i+1]
		assert.Equal(t, id, rec.SupplementID)
		assert.Equal(t, 36, rec.Confidence)
		assert.Equal(t, models.PriorityLow, rec.Priority)
		assert.Equal(t, "Qualidade do sono baixa", rec.Reasoning)
	}
}

func TestRecommend_SymptomAndGoalMerge(t *testing.T) {
	catalog := []models.Supplement{
		testSupplement("complexo-b", "Complexo B", "Fadiga"),
	}
	profile := models.UserProfile{
		Symptoms:    []string{"Fadiga"},
		HealthGoals: []string{"Mais energia"},
	}

	recs := NewDefaultEngine().Recommend(profile, catalog, nil)

	require.Len(t, recs, 1)
	assert.Equal(t, 70, recs[0].Confidence)
	assert.Equal(t, models.PriorityHigh, recs[0].Priority)
	assert.Equal(t, "Sintomas: Fadiga; Mais energia", recs[0].Reasoning)
}

func TestRecommend_EmptyProfile(t *testing.T) {
	recs := NewDefaultEngine().Recommend(models.UserProfile{}, testCatalog(), nil)

	assert.NotNil(t, recs)
	assert.Empty(t, recs)
}

func TestRecommend_EmptyCatalog(t *testing.T) {
	profile := models.UserProfile{
		Symptoms:     []string{"Fadiga"},
		HealthGoals:  []string{"Mais energia"},
		SleepQuality: 1,
		StressLevel:  5,
	}

	recs := NewDefaultEngine().Recommend(profile, nil, nil)

	assert.Empty(t, recs)
}

func TestRecommend_Properties(t *testing.T) {
	profile := models.UserProfile{
		Symptoms:          []string{"Fadiga", "Insônia", "Ansiedade", "Estresse"},
		HealthGoals:       []string{"Mais energia", "Redução do estresse", "Ganho de massa muscular"},
		SleepQuality:      1,
		StressLevel:       5,
		ExerciseFrequency: 5,
		Weight:            80,
		Age:               55,
	}
	engine := NewDefaultEngine()

	first := engine.Recommend(profile, testCatalog(), nil)
	second := engine.Recommend(profile, testCatalog(), nil)

	assert.Equal(t, first, second, "scoring must be deterministic")
	require.Len(t, first, MaxRecommendations)

	seen := make(map[string]bool)
	for i, rec := range first {
		assert.False(t, seen[rec.SupplementID], "duplicate supplement %s", rec.SupplementID)
		seen[rec.SupplementID] = true

		assert.GreaterOrEqual(t, rec.Confidence, 0)
		assert.LessOrEqual(t, rec.Confidence, MaxConfidence)
		assert.Equal(t, PriorityFor(rec.Confidence), rec.Priority)

		if i > 0 {
			assert.GreaterOrEqual(t, first[i-1].Confidence, rec.Confidence)
		}
	}
}

func TestGenerate_DiacriticInsensitiveSymptoms(t *testing.T) {
	catalog := []models.Supplement{testSupplement("magnesio", "Magnésio", "Insônia", "Cãibras")}
	profile := models.UserProfile{Symptoms: []string{"insonia", " CAIBRAS ", "Insônia"}}

	candidates := NewDefaultEngine().Generate(profile, catalog)

	require.Len(t, candidates, 1)
	assert.Equal(t, 4.0, candidates[0].Weight)
	assert.Equal(t, "Sintomas: insonia, CAIBRAS", candidates[0].Reason)
}

func TestGenerate_GoalSkipsMissingCatalogEntries(t *testing.T) {
	catalog := []models.Supplement{testSupplement("magnesio", "Magnésio")}
	profile := models.UserProfile{HealthGoals: []string{"Melhora do sono", "Objetivo desconhecido"}}

	candidates := NewDefaultEngine().Generate(profile, catalog)

	require.Len(t, candidates, 1)
	assert.Equal(t, "magnesio", candidates[0].Supplement.ID)
	assert.Equal(t, GoalWeight, candidates[0].Weight)
	assert.Equal(t, "Melhora do sono", candidates[0].Reason)
}

func TestGenerate_GoalNamesAreNormalized(t *testing.T) {
	catalog := []models.Supplement{testSupplement("ashwagandha", "Ashwagandha")}
	profile := models.UserProfile{HealthGoals: []string{"reducao do estresse"}}

	candidates := NewDefaultEngine().Generate(profile, catalog)

	require.Len(t, candidates, 1)
	assert.Equal(t, "Redução do estresse", candidates[0].Reason)
}

func TestGenerate_LifestyleThresholds(t *testing.T) {
	tests := []struct {
		name    string
		profile models.UserProfile
		want    int
	}{
		{"unanswered", models.UserProfile{}, 0},
		{"sleep at threshold", models.UserProfile{SleepQuality: 2}, 3},
		{"sleep above threshold", models.UserProfile{SleepQuality: 3}, 0},
		{"stress at threshold", models.UserProfile{StressLevel: 4}, 3},
		{"stress below threshold", models.UserProfile{StressLevel: 3}, 0},
		{"exercise at threshold", models.UserProfile{ExerciseFrequency: 4}, 3},
		{"all rules", models.UserProfile{SleepQuality: 1, StressLevel: 5, ExerciseFrequency: 5}, 9},
	}

	engine := NewDefaultEngine()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			candidates := engine.Generate(tt.profile, testCatalog())
			assert.Len(t, candidates, tt.want)
		})
	}
}

func TestAggregate_CapsConfidence(t *testing.T) {
	s := testSupplement("magnesio", "Magnésio")
	candidates := []models.RecommendationCandidate{
		{Supplement: &s, Reason: "a", Weight: 3},
		{Supplement: &s, Reason: "b", Weight: 3},
		{Supplement: nil, Reason: "ignored", Weight: 10},
	}

	recs := NewDefaultEngine().Aggregate(candidates, models.UserProfile{})

	require.Len(t, recs, 1)
	assert.Equal(t, MaxConfidence, recs[0].Confidence)
	assert.Equal(t, "a; b", recs[0].Reasoning)
}

func TestAggregate_StableTies(t *testing.T) {
	a := testSupplement("a", "A")
	b := testSupplement("b", "B")
	c := testSupplement("c", "C")
	candidates := []models.RecommendationCandidate{
		{Supplement: &a, Reason: "x", Weight: 1},
		{Supplement: &b, Reason: "x", Weight: 2},
		{Supplement: &c, Reason: "x", Weight: 1},
	}

	recs := NewDefaultEngine().Aggregate(candidates, models.UserProfile{})

	require.Len(t, recs, 3)
	assert.Equal(t, []string{"b", "a", "c"}, []string{recs[0].SupplementID, recs[1].SupplementID, recs[2].SupplementID})
}

func TestConfidenceAndPriority(t *testing.T) {
	assert.Equal(t, 0, Confidence(0))
	assert.Equal(t, 0, Confidence(-1))
	assert.Equal(t, 30, Confidence(1.5))
	assert.Equal(t, 70, Confidence(3.5))
	assert.Equal(t, 95, Confidence(10))

	assert.Equal(t, models.PriorityHigh, PriorityFor(70))
	assert.Equal(t, models.PriorityMedium, PriorityFor(69))
	assert.Equal(t, models.PriorityMedium, PriorityFor(50))
	assert.Equal(t, models.PriorityLow, PriorityFor(49))
}

func TestPersonalizeDosage(t *testing.T) {
	s := models.Supplement{DosageMin: 200, DosageMax: 400}

	tests := []struct {
		name    string
		profile models.UserProfile
		want    float64
	}{
		{"no weight or age", models.UserProfile{}, 300},
		{"reference weight", models.UserProfile{Weight: 70}, 300},
		{"heavier user", models.UserProfile{Weight: 84}, 360},
		{"age 50 is not senior", models.UserProfile{Age: 50}, 300},
		{"senior", models.UserProfile{Age: 51}, 270},
		{"senior lighter user", models.UserProfile{Weight: 60, Age: 65}, 231.43},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, PersonalizeDosage(s, tt.profile), 0.001)
		})
	}
}
