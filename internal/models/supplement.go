// internal/models/supplement.go
package models

type SupplementCategory string

const (
	CategoryVitamin   SupplementCategory = "vitamin"
	CategoryMineral   SupplementCategory = "mineral"
	CategoryHerb      SupplementCategory = "herb"
	CategoryAminoAcid SupplementCategory = "amino_acid"
	CategoryOther     SupplementCategory = "other"
)

type Timing string

const (
	TimingMorning   Timing = "morning"
	TimingAfternoon Timing = "afternoon"
	TimingEvening   Timing = "evening"
	TimingWithMeals Timing = "with_meals"
	TimingAny       Timing = "any"
)

type EvidenceLevel string

const (
	EvidenceStrong   EvidenceLevel = "strong"
	EvidenceModerate EvidenceLevel = "moderate"
	EvidenceLimited  EvidenceLevel = "limited"
)

// Supplement is catalog reference data. It is never mutated during a scoring run.
type Supplement struct {
	ID             string             `json:"id" yaml:"id"`
	Name           string             `json:"name" yaml:"name"`
	Category       SupplementCategory `json:"category" yaml:"category"`
	TargetSymptoms []string           `json:"targetSymptoms" yaml:"target_symptoms"`
	Benefits       []string           `json:"benefits" yaml:"benefits"`
	DosageMin      float64            `json:"dosageMin" yaml:"dosage_min"`
	DosageMax      float64            `json:"dosageMax" yaml:"dosage_max"`
	DosageUnit     string             `json:"dosageUnit" yaml:"dosage_unit"`
	Timing         Timing             `json:"timing" yaml:"timing"`
	EvidenceLevel  EvidenceLevel      `json:"evidenceLevel" yaml:"evidence_level"`
}
