// internal/models/protocol.go
package models

type ProtocolSupplement struct {
	Name          string `json:"name" yaml:"name"`
	Agent         string `json:"agent" yaml:"agent"`
	EvidenceGrade string `json:"evidenceGrade" yaml:"evidence_grade"`
	Mechanism     string `json:"mechanism" yaml:"mechanism"`
}

// TherapeuticProtocol is a curated supplement combination for one condition.
type TherapeuticProtocol struct {
	ID                    string               `json:"id" yaml:"id"`
	Condition             string               `json:"condition" yaml:"condition"`
	SupplementCombination []ProtocolSupplement `json:"supplementCombination" yaml:"supplement_combination"`
	SynergyDescription    string               `json:"synergyDescription" yaml:"synergy_description"`
	ExpectedEfficacy      string               `json:"expectedEfficacy" yaml:"expected_efficacy"`
}

type ProtocolScore struct {
	ProtocolID      string   `json:"protocolId"`
	Condition       string   `json:"condition"`
	Confidence      int      `json:"confidence"`
	MatchedSymptoms []string `json:"matchedSymptoms,omitempty"`
}
