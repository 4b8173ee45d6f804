// internal/scoring/rules.go
package scoring

import "supplement-workers/internal/models"

// Fixed scoring constants. They are not configurable per request.
const (
	SymptomWeight = 2.0
	GoalWeight    = 1.5

	ConfidenceScale = 20.0
	MaxConfidence   = 95

	HighPriorityThreshold   = 70
	MediumPriorityThreshold = 50

	MaxRecommendations = 6

	ReferenceWeightKg  = 70.0
	SeniorAgeThreshold = 50
	SeniorDosageFactor = 0.9

	SynergyBonusPerProtocol = 2.0
)

type LifestyleFactor string

const (
	FactorSleepQuality      LifestyleFactor = "sleep_quality"
	FactorStressLevel       LifestyleFactor = "stress_level"
	FactorExerciseFrequency LifestyleFactor = "exercise_frequency"
)

func (f LifestyleFactor) value(p models.UserProfile) int {
	switch f {
	case FactorSleepQuality:
		return p.SleepQuality
	case FactorStressLevel:
		return p.StressLevel
	case FactorExerciseFrequency:
		return p.ExerciseFrequency
	}
	return 0
}

type Comparison int

const (
	AtMost Comparison = iota
	AtLeast
)

// LifestyleRule emits one candidate per supplement id when the profile's
// answer for Factor crosses Threshold. Unanswered factors (0) never match.
type LifestyleRule struct {
	Factor        LifestyleFactor
	Comparison    Comparison
	Threshold     int
	Weight        float64
	Reason        string
	SupplementIDs []string
}

func (r LifestyleRule) Applies(p models.UserProfile) bool {
	v := r.Factor.value(p)
	if v <= 0 {
		return false
	}
	if r.Comparison == AtLeast {
		return v >= r.Threshold
	}
	return v <= r.Threshold
}

type GoalRule struct {
	Goal          string
	SupplementIDs []string
}

// Rules holds the static mapping tables used by the candidate generator.
type Rules struct {
	Goals     []GoalRule
	Lifestyle []LifestyleRule
}

// DefaultRules returns the production goal and lifestyle tables.
func DefaultRules() Rules {
	return Rules{
		Goals: []GoalRule{
			{Goal: "Ganho de massa muscular", SupplementIDs: []string{"creatina", "whey-protein", "vitamina-d3"}},
			{Goal: "Redução do estresse", SupplementIDs: []string{"ashwagandha", "magnesio", "l-teanina"}},
			{Goal: "Melhora do sono", SupplementIDs: []string{"melatonina", "magnesio", "glicina"}},
			{Goal: "Mais energia", SupplementIDs: []string{"complexo-b", "coenzima-q10", "rhodiola"}},
			{Goal: "Fortalecimento da imunidade", SupplementIDs: []string{"vitamina-c", "zinco", "vitamina-d3"}},
			{Goal: "Melhora cognitiva", SupplementIDs: []string{"omega-3", "bacopa", "l-teanina"}},
			{Goal: "Saúde cardiovascular", SupplementIDs: []string{"omega-3", "coenzima-q10", "magnesio"}},
			{Goal: "Perda de peso", SupplementIDs: []string{"cha-verde", "l-carnitina"}},
		},
		Lifestyle: []LifestyleRule{
			{
				Factor:        FactorSleepQuality,
				Comparison:    AtMost,
				Threshold:     2,
				Weight:        1.8,
				Reason:        "Qualidade do sono baixa",
				SupplementIDs: []string{"magnesio", "melatonina", "l-teanina"},
			},
			{
				Factor:        FactorStressLevel,
				Comparison:    AtLeast,
				Threshold:     4,
				Weight:        1.7,
				Reason:        "Nível de estresse elevado",
				SupplementIDs: []string{"ashwagandha", "rhodiola", "magnesio"},
			},
			{
				Factor:        FactorExerciseFrequency,
				Comparison:    AtLeast,
				Threshold:     4,
				Weight:        1.3,
				Reason:        "Alta frequência de exercícios",
				SupplementIDs: []string{"creatina", "whey-protein", "coenzima-q10"},
			},
		},
	}
}
