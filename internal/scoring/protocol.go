// internal/scoring/protocol.go
package scoring

import (
	"math"
	"sort"
	"strings"

	"supplement-workers/internal/models"
)

const (
	protocolBaseScore        = 50.0
	protocolConditionBonus   = 30.0
	protocolEfficacyBonus    = 15.0
	protocolMaxConfidence    = 100
	TargetEfficacyBand       = "30-45%"
	evidenceGradeAPoints     = 20.0
	evidenceGradeBPoints     = 15.0
	evidenceGradeOtherPoints = 10.0
)

// ScoreProtocol rates how well a protocol fits the profile on a 0-100 scale.
func ScoreProtocol(profile models.UserProfile, p models.TherapeuticProtocol) models.ProtocolScore {
	score := protocolBaseScore

	matched := matchingSymptoms(profile.Symptoms, p.Condition)
	if len(matched) > 0 {
		score += protocolConditionBonus
	}

	score += averageEvidenceBonus(p.SupplementCombination)

	if hasTargetEfficacyBand(p.ExpectedEfficacy) {
		score += protocolEfficacyBonus
	}

	confidence := int(math.Round(score))
	if confidence > protocolMaxConfidence {
		confidence = protocolMaxConfidence
	}

	return models.ProtocolScore{
		ProtocolID:      p.ID,
		Condition:       p.Condition,
		Confidence:      confidence,
		MatchedSymptoms: matched,
	}
}

// RankProtocols scores every protocol and sorts by confidence, keeping input
// order for ties. limit <= 0 returns all of them.
func RankProtocols(profile models.UserProfile, protocols []models.TherapeuticProtocol, limit int) []models.ProtocolScore {
	scores := make([]models.ProtocolScore, 0, len(protocols))
	for _, p := range protocols {
		scores = append(scores, ScoreProtocol(profile, p))
	}
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Confidence > scores[j].Confidence
	})
	if limit > 0 && len(scores) > limit {
		scores = scores[:limit]
	}
	return scores
}

func averageEvidenceBonus(combination []models.ProtocolSupplement) float64 {
	if len(combination) == 0 {
		return 0
	}
	var total float64
	for _, s := range combination {
		total += evidencePoints(s.EvidenceGrade)
	}
	return total / float64(len(combination))
}

func evidencePoints(grade string) float64 {
	switch strings.ToUpper(strings.TrimSpace(grade)) {
	case "A":
		return evidenceGradeAPoints
	case "B":
		return evidenceGradeBPoints
	default:
		return evidenceGradeOtherPoints
	}
}

// hasTargetEfficacyBand is a free-text check on expected_efficacy.
// TODO: replace with a numeric efficacy range once the dataset carries one.
func hasTargetEfficacyBand(expectedEfficacy string) bool {
	return strings.Contains(expectedEfficacy, TargetEfficacyBand)
}
