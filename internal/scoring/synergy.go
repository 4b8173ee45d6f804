// internal/scoring/synergy.go
package scoring

import (
	"fmt"
	"strings"

	"supplement-workers/internal/models"
)

// Boost returns a copy of candidates where every candidate whose supplement
// appears in one or more of the given protocols gains
// SynergyBonusPerProtocol per protocol. It must run before Aggregate.
func Boost(candidates []models.RecommendationCandidate, protocols []models.TherapeuticProtocol) []models.RecommendationCandidate {
	out := make([]models.RecommendationCandidate, len(candidates))
	copy(out, candidates)
	if len(protocols) == 0 {
		return out
	}

	for i := range out {
		c := &out[i]
		if c.Supplement == nil {
			continue
		}
		var conditions []string
		for _, p := range protocols {
			if protocolContains(p, c.Supplement.Name) {
				conditions = append(conditions, p.Condition)
			}
		}
		if len(conditions) == 0 {
			continue
		}
		c.Weight += SynergyBonusPerProtocol * float64(len(conditions))
		c.Reason = fmt.Sprintf("%s (sinergia: %s)", c.Reason, strings.Join(conditions, ", "))
	}
	return out
}

// MatchProtocols keeps the protocols whose condition matches one of the
// profile's symptoms, preserving input order.
func MatchProtocols(profile models.UserProfile, protocols []models.TherapeuticProtocol) []models.TherapeuticProtocol {
	var matched []models.TherapeuticProtocol
	for _, p := range protocols {
		if len(matchingSymptoms(profile.Symptoms, p.Condition)) > 0 {
			matched = append(matched, p)
		}
	}
	return matched
}

func protocolContains(p models.TherapeuticProtocol, supplementName string) bool {
	name := strings.TrimSpace(supplementName)
	if name == "" {
		return false
	}
	for _, s := range p.SupplementCombination {
		if strings.EqualFold(strings.TrimSpace(s.Name), name) {
			return true
		}
	}
	return false
}

// matchingSymptoms returns the symptoms that contain the condition or are
// contained by it, after normalization.
func matchingSymptoms(symptoms []string, condition string) []string {
	cond := Normalize(condition)
	if cond == "" {
		return nil
	}
	keys, originals := uniqueNormalized(symptoms)
	var matched []string
	for i, k := range keys {
		if strings.Contains(cond, k) || strings.Contains(k, cond) {
			matched = append(matched, originals[i])
		}
	}
	return matched
}
