// internal/models/dataset.go
package models

// CatalogDataset is the static reference data imported into the catalog tables.
type CatalogDataset struct {
	Version     string                `json:"version" yaml:"version"`
	Supplements []Supplement          `json:"supplements" yaml:"supplements"`
	Protocols   []TherapeuticProtocol `json:"protocols" yaml:"protocols"`
}
