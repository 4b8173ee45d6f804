// internal/catalog/dataset.go

// Package catalog loads the static supplement and protocol datasets and
// publishes them to Postgres and Elasticsearch.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	apperrors "supplement-workers/internal/common/errors"
	"supplement-workers/internal/models"

	"gopkg.in/yaml.v3"
)

var (
	validCategories = map[models.SupplementCategory]bool{
		models.CategoryVitamin:   true,
		models.CategoryMineral:   true,
		models.CategoryHerb:      true,
		models.CategoryAminoAcid: true,
		models.CategoryOther:     true,
	}
	validTimings = map[models.Timing]bool{
		models.TimingMorning:   true,
		models.TimingAfternoon: true,
		models.TimingEvening:   true,
		models.TimingWithMeals: true,
		models.TimingAny:       true,
	}
	validEvidence = map[models.EvidenceLevel]bool{
		models.EvidenceStrong:   true,
		models.EvidenceModerate: true,
		models.EvidenceLimited:  true,
	}
)

// LoadDataset reads a .json, .yaml or .yml dataset and validates it.
func LoadDataset(path string) (*models.CatalogDataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewCatalogLoadFailedError(fmt.Errorf("read dataset %s: %w", path, err))
	}
	return ParseDataset(data, filepath.Ext(path))
}

// ParseDataset decodes data according to ext and validates the result.
func ParseDataset(data []byte, ext string) (*models.CatalogDataset, error) {
	var ds models.CatalogDataset

	switch strings.ToLower(ext) {
	case ".json":
		if err := json.Unmarshal(data, &ds); err != nil {
			return nil, apperrors.NewDatasetInvalidError(fmt.Sprintf("decode json: %v", err))
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &ds); err != nil {
			return nil, apperrors.NewDatasetInvalidError(fmt.Sprintf("decode yaml: %v", err))
		}
	default:
		return nil, apperrors.NewDatasetInvalidError(fmt.Sprintf("unsupported dataset extension %q", ext))
	}

	if problems := ValidateDataset(&ds); len(problems) > 0 {
		return nil, apperrors.NewDatasetInvalidError(strings.Join(problems, "; ")).
			WithMetadata("problems", problems)
	}
	return &ds, nil
}

// ValidateDataset lists every problem found, sorted for stable output.
func ValidateDataset(ds *models.CatalogDataset) []string {
	var problems []string

	if len(ds.Supplements) == 0 {
		problems = append(problems, "dataset has no supplements")
	}

	seen := make(map[string]bool, len(ds.Supplements))
	for i, s := range ds.Supplements {
		ref := fmt.Sprintf("supplements[%d]", i)
		if s.ID != "" {
			ref = fmt.Sprintf("supplement %s", s.ID)
		}

		switch {
		case s.ID == "":
			problems = append(problems, ref+": id is required")
		case seen[s.ID]:
			problems = append(problems, ref+": duplicate id")
		}
		seen[s.ID] = true

		if strings.TrimSpace(s.Name) == "" {
			problems = append(problems, ref+": name is required")
		}
		if !validCategories[s.Category] {
			problems = append(problems, fmt.Sprintf("%s: unknown category %q", ref, s.Category))
		}
		if !validTimings[s.Timing] {
			problems = append(problems, fmt.Sprintf("%s: unknown timing %q", ref, s.Timing))
		}
		if !validEvidence[s.EvidenceLevel] {
			problems = append(problems, fmt.Sprintf("%s: unknown evidence level %q", ref, s.EvidenceLevel))
		}
		if s.DosageMin < 0 || s.DosageMin > s.DosageMax {
			problems = append(problems, fmt.Sprintf("%s: dosage range %.2f-%.2f is invalid", ref, s.DosageMin, s.DosageMax))
		}
		if s.DosageUnit == "" {
			problems = append(problems, ref+": dosage unit is required")
		}
	}

	seenProtocols := make(map[string]bool, len(ds.Protocols))
	for i, p := range ds.Protocols {
		ref := fmt.Sprintf("protocols[%d]", i)
		if p.ID != "" {
			ref = fmt.Sprintf("protocol %s", p.ID)
		}

		switch {
		case p.ID == "":
			problems = append(problems, ref+": id is required")
		case seenProtocols[p.ID]:
			problems = append(problems, ref+": duplicate id")
		}
		seenProtocols[p.ID] = true

		if strings.TrimSpace(p.Condition) == "" {
			problems = append(problems, ref+": condition is required")
		}
		for j, c := range p.SupplementCombination {
			if strings.TrimSpace(c.Name) == "" {
				problems = append(problems, fmt.Sprintf("%s: combination[%d] name is required", ref, j))
			}
		}
	}

	sort.Strings(problems)
	return problems
}
