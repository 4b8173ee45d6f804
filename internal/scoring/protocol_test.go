// internal/scoring/protocol_test.go
package scoring

import (
	"testing"

	"supplement-workers/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreProtocol(t *testing.T) {
	protocols := testProtocols()

	tests := []struct {
		name     string
		profile  models.UserProfile
		protocol models.TherapeuticProtocol
		want     int
		matched  []string
	}{
		{
			name:     "condition match, grades A+B, efficacy band",
			profile:  models.UserProfile{Symptoms: []string{"Insônia"}},
			protocol: protocols[0],
			want:     100,
			matched:  []string{"Insônia"},
		},
		{
			name:     "no match, grades A+B, efficacy band",
			profile:  models.UserProfile{},
			protocol: protocols[0],
			want:     83,
		},
		{
			name:     "symptom contains condition",
			profile:  models.UserProfile{Symptoms: []string{"ansiedade generalizada"}},
			protocol: protocols[1],
			want:     93,
			matched:  []string{"ansiedade generalizada"},
		},
		{
			name:     "empty combination",
			profile:  models.UserProfile{},
			protocol: models.TherapeuticProtocol{ID: "x", Condition: "Enxaqueca"},
			want:     50,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score := ScoreProtocol(tt.profile, tt.protocol)
			assert.Equal(t, tt.want, score.Confidence)
			assert.Equal(t, tt.protocol.ID, score.ProtocolID)
			assert.Equal(t, tt.matched, score.MatchedSymptoms)
		})
	}
}

func TestRankProtocols(t *testing.T) {
	profile := models.UserProfile{Symptoms: []string{"Ansiedade"}}

	ranked := RankProtocols(profile, testProtocols(), 0)

	require.Len(t, ranked, 2)
	assert.Equal(t, "ansiedade", ranked[0].ProtocolID)
	assert.Equal(t, 93, ranked[0].Confidence)
	assert.Equal(t, "insonia", ranked[1].ProtocolID)
	assert.Equal(t, 83, ranked[1].Confidence)

	limited := RankProtocols(profile, testProtocols(), 1)
	require.Len(t, limited, 1)
	assert.Equal(t, "ansiedade", limited[0].ProtocolID)

	assert.Empty(t, RankProtocols(profile, nil, 5))
}
