// internal/scoring/engine.go

// Package scoring maps a user profile to ranked supplement recommendations.
// Everything here is pure: catalogs and rule tables are passed in, nothing is
// read from storage or the environment.
package scoring

import (
	"math"
	"sort"
	"strings"

	"supplement-workers/internal/models"
)

type Engine struct {
	rules Rules
	goals map[string]GoalRule
}

func NewEngine(rules Rules) *Engine {
	goals := make(map[string]GoalRule, len(rules.Goals))
	for _, g := range rules.Goals {
		goals[Normalize(g.Goal)] = g
	}
	return &Engine{rules: rules, goals: goals}
}

func NewDefaultEngine() *Engine {
	return NewEngine(DefaultRules())
}

// Recommend runs the full pipeline. Protocols matching the profile's
// symptoms boost candidates before aggregation.
func (e *Engine) Recommend(profile models.UserProfile, supplements []models.Supplement, protocols []models.TherapeuticProtocol) []models.Recommendation {
	candidates := e.Generate(profile, supplements)
	if matched := MatchProtocols(profile, protocols); len(matched) > 0 {
		candidates = Boost(candidates, matched)
	}
	return e.Aggregate(candidates, profile)
}

// Generate produces unmerged candidates from the symptom, goal and
// lifestyle rule sets, in that order.
func (e *Engine) Generate(profile models.UserProfile, catalog []models.Supplement) []models.RecommendationCandidate {
	var candidates []models.RecommendationCandidate
	candidates = append(candidates, e.matchSymptoms(profile, catalog)...)

	byID := indexCatalog(catalog)
	candidates = append(candidates, e.matchGoals(profile, byID)...)
	candidates = append(candidates, e.matchLifestyle(profile, byID)...)
	return candidates
}

func (e *Engine) matchSymptoms(profile models.UserProfile, catalog []models.Supplement) []models.RecommendationCandidate {
	keys, originals := uniqueNormalized(profile.Symptoms)
	if len(keys) == 0 {
		return nil
	}

	var out []models.RecommendationCandidate
	for i := range catalog {
		s := &catalog[i]
		targets := make(map[string]bool, len(s.TargetSymptoms))
		for _, t := range s.TargetSymptoms {
			targets[Normalize(t)] = true
		}

		var matched []string
		for j, k := range keys {
			if targets[k] {
				matched = append(matched, originals[j])
			}
		}
		if len(matched) == 0 {
			continue
		}
		out = append(out, models.RecommendationCandidate{
			Supplement: s,
			Reason:     "Sintomas: " + strings.Join(matched, ", "),
			Weight:     SymptomWeight * float64(len(matched)),
		})
	}
	return out
}

func (e *Engine) matchGoals(profile models.UserProfile, byID map[string]*models.Supplement) []models.RecommendationCandidate {
	keys, _ := uniqueNormalized(profile.HealthGoals)

	var out []models.RecommendationCandidate
	for _, k := range keys {
		rule, ok := e.goals[k]
		if !ok {
			continue
		}
		for _, id := range rule.SupplementIDs {
			s, ok := byID[id]
			if !ok {
				continue
			}
			out = append(out, models.RecommendationCandidate{
				Supplement: s,
				Reason:     rule.Goal,
				Weight:     GoalWeight,
			})
		}
	}
	return out
}

func (e *Engine) matchLifestyle(profile models.UserProfile, byID map[string]*models.Supplement) []models.RecommendationCandidate {
	var out []models.RecommendationCandidate
	for _, rule := range e.rules.Lifestyle {
		if !rule.Applies(profile) {
			continue
		}
		for _, id := range rule.SupplementIDs {
			s, ok := byID[id]
			if !ok {
				continue
			}
			out = append(out, models.RecommendationCandidate{
				Supplement: s,
				Reason:     rule.Reason,
				Weight:     rule.Weight,
			})
		}
	}
	return out
}

type candidateGroup struct {
	supplement *models.Supplement
	total      float64
	reasons    []string
}

// Aggregate merges candidates per supplement and returns at most
// MaxRecommendations entries sorted by confidence, ties kept in
// first-occurrence order.
func (e *Engine) Aggregate(candidates []models.RecommendationCandidate, profile models.UserProfile) []models.Recommendation {
	var order []string
	groups := make(map[string]*candidateGroup)
	for _, c := range candidates {
		if c.Supplement == nil {
			continue
		}
		g, ok := groups[c.Supplement.ID]
		if !ok {
			g = &candidateGroup{supplement: c.Supplement}
			groups[c.Supplement.ID] = g
			order = append(order, c.Supplement.ID)
		}
		g.total += c.Weight
		g.reasons = append(g.reasons, c.Reason)
	}

	recs := make([]models.Recommendation, 0, len(order))
	for _, id := range order {
		g := groups[id]
		confidence := Confidence(g.total)
		recs = append(recs, models.Recommendation{
			SupplementID:      g.supplement.ID,
			SupplementName:    g.supplement.Name,
			RecommendedDosage: PersonalizeDosage(*g.supplement, profile),
			DosageUnit:        g.supplement.DosageUnit,
			Timing:            g.supplement.Timing,
			Confidence:        confidence,
			Reasoning:         strings.Join(g.reasons, "; "),
			Priority:          PriorityFor(confidence),
		})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Confidence > recs[j].Confidence
	})
	if len(recs) > MaxRecommendations {
		recs = recs[:MaxRecommendations]
	}
	return recs
}

// Confidence converts a summed rule weight into a 0-95 score.
func Confidence(totalWeight float64) int {
	c := int(math.Round(totalWeight * ConfidenceScale))
	if c > MaxConfidence {
		return MaxConfidence
	}
	if c < 0 {
		return 0
	}
	return c
}

func PriorityFor(confidence int) models.Priority {
	switch {
	case confidence >= HighPriorityThreshold:
		return models.PriorityHigh
	case confidence >= MediumPriorityThreshold:
		return models.PriorityMedium
	default:
		return models.PriorityLow
	}
}

// PersonalizeDosage scales the catalog midpoint by body weight (70 kg
// reference) and reduces it for users older than 50.
func PersonalizeDosage(s models.Supplement, profile models.UserProfile) float64 {
	base := (s.DosageMin + s.DosageMax) / 2
	weightFactor := 1.0
	if profile.Weight > 0 {
		weightFactor = profile.Weight / ReferenceWeightKg
	}
	ageFactor := 1.0
	if profile.Age > SeniorAgeThreshold {
		ageFactor = SeniorDosageFactor
	}
	return roundTo2(base * weightFactor * ageFactor)
}

func roundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}

func indexCatalog(catalog []models.Supplement) map[string]*models.Supplement {
	byID := make(map[string]*models.Supplement, len(catalog))
	for i := range catalog {
		if _, exists := byID[catalog[i].ID]; exists {
			continue
		}
		byID[catalog[i].ID] = &catalog[i]
	}
	return byID
}
