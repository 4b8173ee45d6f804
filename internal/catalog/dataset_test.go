package catalog

import (
	"os"
	"path/filepath"
	"testing"

	apperrors "supplement-workers/internal/common/errors"
	"supplement-workers/internal/scoring"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validYAML = `
version: "1"
supplements:
  - id: magnesio
    name: Magnésio
    category: mineral
    target_symptoms: [Insônia]
    benefits: [Sono]
    dosage_min: 200
    dosage_max: 400
    dosage_unit: mg
    timing: evening
    evidence_level: strong
protocols:
  - id: insonia
    condition: Insônia
    supplement_combination:
      - name: Magnésio
        evidence_grade: A
    expected_efficacy: 30-45%
`

func TestParseDataset_YAML(t *testing.T) {
	ds, err := ParseDataset([]byte(validYAML), ".yaml")
	require.NoError(t, err)

	require.Len(t, ds.Supplements, 1)
	assert.Equal(t, []string{"Insônia"}, ds.Supplements[0].TargetSymptoms)
	assert.Equal(t, 400.0, ds.Supplements[0].DosageMax)
	require.Len(t, ds.Protocols, 1)
	assert.Equal(t, "A", ds.Protocols[0].SupplementCombination[0].EvidenceGrade)
}

func TestParseDataset_JSON(t *testing.T) {
	data := `{"version":"1","supplements":[{"id":"zinco","name":"Zinco","category":"mineral",
		"targetSymptoms":["Imunidade baixa"],"dosageMin":15,"dosageMax":30,"dosageUnit":"mg",
		"timing":"with_meals","evidenceLevel":"strong"}]}`

	ds, err := ParseDataset([]byte(data), ".JSON")
	require.NoError(t, err)
	assert.Equal(t, "zinco", ds.Supplements[0].ID)
	assert.Empty(t, ds.Protocols)
}

func TestParseDataset_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		ext     string
		contain string
	}{
		{name: "unsupported extension", data: "{}", ext: ".toml", contain: "unsupported"},
		{name: "malformed yaml", data: "supplements: [", ext: ".yaml", contain: "decode yaml"},
		{name: "empty dataset", data: "version: x", ext: ".yml", contain: "no supplements"},
		{
			name: "duplicate ids and bad range",
			data: `supplements:
  - {id: a, name: A, category: mineral, dosage_min: 10, dosage_max: 5, dosage_unit: mg, timing: any, evidence_level: strong}
  - {id: a, name: B, category: mineral, dosage_min: 1, dosage_max: 5, dosage_unit: mg, timing: any, evidence_level: strong}`,
			ext:     ".yaml",
			contain: "duplicate id",
		},
		{
			name: "unknown enums",
			data: `supplements:
  - {id: a, name: A, category: potion, dosage_min: 1, dosage_max: 5, dosage_unit: mg, timing: noon, evidence_level: anecdotal}`,
			ext:     ".yaml",
			contain: "unknown category",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDataset([]byte(tt.data), tt.ext)
			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrDatasetInvalid)
			assert.Contains(t, err.Error(), tt.contain)
		})
	}
}

func TestValidateDataset_ReportsEveryProblem(t *testing.T) {
	ds, err := ParseDataset([]byte(validYAML), ".yaml")
	require.NoError(t, err)

	ds.Supplements[0].DosageMin = 500
	ds.Supplements[0].Timing = "midnight"
	ds.Protocols[0].Condition = ""

	problems := ValidateDataset(ds)
	assert.Len(t, problems, 3)
	assert.IsIncreasing(t, problems)
}

func TestLoadDataset_MissingFile(t *testing.T) {
	_, err := LoadDataset(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, apperrors.ErrCatalogLoadFailed)
}

func TestLoadDataset_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yml")
	require.NoError(t, os.WriteFile(path, []byte(validYAML), 0o600))

	ds, err := LoadDataset(path)
	require.NoError(t, err)
	assert.Equal(t, "1", ds.Version)
}

// The shipped dataset must cover every supplement the default rules refer to.
func TestShippedDatasetCoversDefaultRules(t *testing.T) {
	ds, err := LoadDataset(filepath.Join("..", "..", "configs", "datasets", "catalog.yaml"))
	require.NoError(t, err)

	ids := make(map[string]bool, len(ds.Supplements))
	for _, s := range ds.Supplements {
		ids[s.ID] = true
	}

	rules := scoring.DefaultRules()
	for _, g := range rules.Goals {
		for _, id := range g.SupplementIDs {
			assert.True(t, ids[id], "goal %q refers to unknown supplement %q", g.Goal, id)
		}
	}
	for _, l := range rules.Lifestyle {
		for _, id := range l.SupplementIDs {
			assert.True(t, ids[id], "lifestyle rule %q refers to unknown supplement %q", l.Reason, id)
		}
	}
}
