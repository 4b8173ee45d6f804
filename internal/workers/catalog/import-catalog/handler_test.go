package importcatalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"supplement-workers/internal/catalog"
	apperrors "supplement-workers/internal/common/errors"
	"supplement-workers/internal/common/logger"
	"supplement-workers/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	datasets []*models.CatalogDataset
}

func (w *recordingWriter) ReplaceAll(_ context.Context, ds *models.CatalogDataset) error {
	w.datasets = append(w.datasets, ds)
	return nil
}

type countingIndexer struct {
	calls int
}

func (c *countingIndexer) Index() string                       { return "supplements" }
func (c *countingIndexer) EnsureIndex(_ context.Context) error { return nil }
func (c *countingIndexer) IndexSupplements(_ context.Context, sups []models.Supplement) (int, error) {
	c.calls++
	return len(sups), nil
}

const dataset = `{
	"version": "test",
	"supplements": [
		{"id": "magnesio", "name": "Magnésio", "category": "mineral", "dosageMin": 200, "dosageMax": 400,
		 "dosageUnit": "mg", "timing": "evening", "evidenceLevel": "strong"},
		{"id": "zinco", "name": "Zinco", "category": "mineral", "dosageMin": 15, "dosageMax": 30,
		 "dosageUnit": "mg", "timing": "with_meals", "evidenceLevel": "strong"}
	],
	"protocols": []
}`

func createTestHandler(t *testing.T, defaultPath string) (*Handler, *recordingWriter, *countingIndexer) {
	t.Helper()
	w := &recordingWriter{}
	ix := &countingIndexer{}
	log := logger.NewTestLogger(t)
	h := NewHandler(&Config{Timeout: time.Minute, DatasetPath: defaultPath}, catalog.NewImporter(w, ix, log), log)
	return h, w, ix
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	return writeFileIn(t, t.TempDir(), name, content)
}

func writeFileIn(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestExecute_UsesConfiguredDataset(t *testing.T) {
	path := writeFile(t, "catalog.json", dataset)
	h, w, ix := createTestHandler(t, path)

	out, err := h.Execute(context.Background(), &Input{})

	require.NoError(t, err)
	assert.Equal(t, "test", out.Version)
	assert.Equal(t, path, out.DatasetPath)
	assert.Equal(t, 2, out.SupplementsImported)
	assert.Equal(t, 2, out.Indexed)
	assert.Len(t, w.datasets, 1)
	assert.Equal(t, 1, ix.calls)
}

func TestExecute_OverridePathAndSkipIndex(t *testing.T) {
	dir := t.TempDir()
	override := writeFileIn(t, dir, "other.json", dataset)
	h, _, ix := createTestHandler(t, filepath.Join(dir, "catalog.yaml"))

	out, err := h.Execute(context.Background(), &Input{DatasetPath: override, SkipIndex: true})

	require.NoError(t, err)
	assert.Equal(t, override, out.DatasetPath)
	assert.Zero(t, out.Indexed)
	assert.Zero(t, ix.calls)
}

func TestExecute_InvalidDataset(t *testing.T) {
	h, w, _ := createTestHandler(t, writeFile(t, "bad.json", `{"supplements":[{"id":"x"}]}`))

	_, err := h.Execute(context.Background(), &Input{})

	require.ErrorIs(t, err, apperrors.ErrDatasetInvalid)
	assert.Zero(t, apperrors.ConvertToBPMNError(apperrors.AsStandardError(err)).Retries)
	assert.Empty(t, w.datasets)
}

func TestExecute_MissingDataset(t *testing.T) {
	h, _, _ := createTestHandler(t, filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := h.Execute(context.Background(), &Input{})

	assert.ErrorIs(t, err, apperrors.ErrCatalogLoadFailed)
}

func TestExecute_RelativeOverrideResolvesAgainstDatasetDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "archive"), 0o700))
	writeFileIn(t, filepath.Join(dir, "archive"), "2025.json", dataset)
	h, w, _ := createTestHandler(t, filepath.Join(dir, "catalog.yaml"))

	out, err := h.Execute(context.Background(), &Input{DatasetPath: "archive/2025.json"})

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "archive", "2025.json"), out.DatasetPath)
	assert.Len(t, w.datasets, 1)
}

func TestExecute_OverrideOutsideDatasetDirRejected(t *testing.T) {
	dir := t.TempDir()
	outside := writeFile(t, "elsewhere.json", dataset)

	tests := []struct {
		name string
		path string
	}{
		{name: "absolute path elsewhere", path: outside},
		{name: "parent traversal", path: "../elsewhere.json"},
		{name: "system file", path: "/etc/passwd"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, w, ix := createTestHandler(t, filepath.Join(dir, "catalog.yaml"))

			_, err := h.Execute(context.Background(), &Input{DatasetPath: tt.path})

			require.ErrorIs(t, err, apperrors.ErrDatasetInvalid)
			assert.Zero(t, apperrors.ConvertToBPMNError(apperrors.AsStandardError(err)).Retries)
			assert.Empty(t, w.datasets)
			assert.Zero(t, ix.calls)
		})
	}
}
