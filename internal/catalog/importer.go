// internal/catalog/importer.go
package catalog

import (
	"context"

	apperrors "supplement-workers/internal/common/errors"
	"supplement-workers/internal/common/logger"
	"supplement-workers/internal/models"
)

type CatalogWriter interface {
	ReplaceAll(ctx context.Context, ds *models.CatalogDataset) error
}

type SearchIndexer interface {
	Index() string
	EnsureIndex(ctx context.Context) error
	IndexSupplements(ctx context.Context, sups []models.Supplement) (int, error)
}

type ImportResult struct {
	Version     string `json:"version"`
	Supplements int    `json:"supplements"`
	Protocols   int    `json:"protocols"`
	Indexed     int    `json:"indexed"`
}

// Importer loads a dataset file, replaces the catalog tables with it and
// refreshes the search index.
type Importer struct {
	writer  CatalogWriter
	indexer SearchIndexer
	logger  logger.Logger
}

// NewImporter builds an Importer. A nil indexer disables search indexing.
func NewImporter(writer CatalogWriter, indexer SearchIndexer, log logger.Logger) *Importer {
	return &Importer{writer: writer, indexer: indexer, logger: log}
}

func (im *Importer) Import(ctx context.Context, path string, skipIndex bool) (*ImportResult, error) {
	ds, err := LoadDataset(path)
	if err != nil {
		return nil, err
	}

	if err := im.writer.ReplaceAll(ctx, ds); err != nil {
		return nil, apperrors.NewDatabaseInsertFailedError(err)
	}

	result := &ImportResult{
		Version:     ds.Version,
		Supplements: len(ds.Supplements),
		Protocols:   len(ds.Protocols),
	}

	if skipIndex || im.indexer == nil {
		im.logger.Info("catalog imported without indexing", map[string]interface{}{
			"path":        path,
			"supplements": result.Supplements,
			"protocols":   result.Protocols,
		})
		return result, nil
	}

	if err := im.indexer.EnsureIndex(ctx); err != nil {
		return nil, apperrors.NewSearchQueryFailedError(im.indexer.Index(), err)
	}
	indexed, err := im.indexer.IndexSupplements(ctx, ds.Supplements)
	if err != nil {
		return nil, apperrors.NewSearchQueryFailedError(im.indexer.Index(), err)
	}
	result.Indexed = indexed

	im.logger.Info("catalog imported", map[string]interface{}{
		"path":        path,
		"version":     ds.Version,
		"supplements": result.Supplements,
		"protocols":   result.Protocols,
		"indexed":     indexed,
	})
	return result, nil
}
