// internal/workers/catalog/import-catalog/models.go
package importcatalog

type Input struct {
	DatasetPath string `json:"datasetPath,omitempty"`
	SkipIndex   bool   `json:"skipIndex"`
}

type Output struct {
	Version             string `json:"version"`
	DatasetPath         string `json:"datasetPath"`
	SupplementsImported int    `json:"supplementsImported"`
	ProtocolsImported   int    `json:"protocolsImported"`
	Indexed             int    `json:"indexed"`
	ImportedAt          string `json:"importedAt"`
}
