// internal/workers/catalog/import-catalog/handler.go
package importcatalog

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"supplement-workers/internal/catalog"
	"supplement-workers/internal/common/camunda"
	apperrors "supplement-workers/internal/common/errors"
	"supplement-workers/internal/common/logger"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "import-catalog"
)

type Importer interface {
	Import(ctx context.Context, path string, skipIndex bool) (*catalog.ImportResult, error)
}

type Handler struct {
	config       *Config
	importer     Importer
	errorHandler *apperrors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, importer Importer, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		importer:     importer,
		errorHandler: apperrors.NewErrorHandler(l),
		logger:       l,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.errorHandler.HandleJobError(context.Background(), client, job, apperrors.NewParseError(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.errorHandler.HandleJobError(context.Background(), client, job, err)
		return
	}

	camunda.CompleteJob(context.Background(), client, job, output, h.logger)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	path, err := h.datasetPath(input.DatasetPath)
	if err != nil {
		return nil, err
	}

	result, err := h.importer.Import(ctx, path, input.SkipIndex)
	if err != nil {
		return nil, err
	}

	return &Output{
		Version:             result.Version,
		DatasetPath:         path,
		SupplementsImported: result.Supplements,
		ProtocolsImported:   result.Protocols,
		Indexed:             result.Indexed,
		ImportedAt:          time.Now().UTC().Format(time.RFC3339),
	}, nil
}

// datasetPath resolves a job-supplied override against the directory of the
// configured dataset and rejects anything outside that directory.
func (h *Handler) datasetPath(override string) (string, error) {
	if override == "" {
		return h.config.DatasetPath, nil
	}

	baseDir, err := filepath.Abs(filepath.Dir(h.config.DatasetPath))
	if err != nil {
		return "", apperrors.NewDatasetInvalidError(fmt.Sprintf("resolve dataset directory: %v", err))
	}
	target := override
	if !filepath.IsAbs(target) {
		target = filepath.Join(baseDir, target)
	}
	target = filepath.Clean(target)

	rel, err := filepath.Rel(baseDir, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		h.logger.Warn("dataset path rejected", map[string]interface{}{
			"datasetPath": override,
			"allowedDir":  baseDir,
		})
		return "", apperrors.NewDatasetInvalidError(fmt.Sprintf("dataset path %q is outside %s", override, baseDir))
	}
	return target, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
