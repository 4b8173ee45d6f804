// cmd/tools/worker-generator/generate.go
package main

import (
	"bytes"
	"fmt"
	"go/format"
	"sort"
	"strings"
	"text/template"

	"supplement-workers/pkg/registry"
)

const modulePath = "supplement-workers"

type workerData struct {
	Module       string
	Name         string
	PackageName  string
	TaskType     string
	TimeoutMS    int64
	InputFields  []field
	OutputFields []field
}

type field struct {
	Name    string
	Type    string
	JSONTag string
}

// scaffold renders the files of a new worker package keyed by file name.
func scaffold(a registry.Activity) (map[string][]byte, error) {
	timeout, err := a.TimeoutDuration()
	if err != nil {
		return nil, err
	}

	data := workerData{
		Module:       modulePath,
		Name:         a.DisplayName,
		PackageName:  packageName(a.ID),
		TaskType:     a.TaskType,
		TimeoutMS:    timeout.Milliseconds(),
		InputFields:  schemaFields(a.InputSchema),
		OutputFields: schemaFields(a.OutputSchema),
	}

	files := map[string]string{
		"config.go":       configTemplate,
		"models.go":       modelsTemplate,
		"handler.go":      handlerTemplate,
		"handler_test.go": testTemplate,
	}

	out := make(map[string][]byte, len(files))
	for name, body := range files {
		tmpl, err := template.New(name).Parse(body)
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", name, err)
		}
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, data); err != nil {
			return nil, fmt.Errorf("render %s: %w", name, err)
		}
		src, err := format.Source(buf.Bytes())
		if err != nil {
			return nil, fmt.Errorf("format %s: %w", name, err)
		}
		out[name] = src
	}
	return out, nil
}

func packageName(id string) string {
	return strings.ReplaceAll(strings.ToLower(id), "-", "")
}

// schemaFields turns the top-level properties of a JSON schema into struct
// fields, sorted by name. Optional properties get omitempty.
func schemaFields(schema map[string]interface{}) []field {
	props, _ := schema["properties"].(map[string]interface{})
	required := map[string]bool{}
	if req, ok := schema["required"].([]interface{}); ok {
		for _, r := range req {
			if s, ok := r.(string); ok {
				required[s] = true
			}
		}
	}

	fields := make([]field, 0, len(props))
	for prop, raw := range props {
		details, _ := raw.(map[string]interface{})
		tag := prop
		if !required[prop] {
			tag += ",omitempty"
		}
		fields = append(fields, field{
			Name:    exportedName(prop),
			Type:    goType(details),
			JSONTag: tag,
		})
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i].Name < fields[j].Name })
	return fields
}

func goType(details map[string]interface{}) string {
	switch details["type"] {
	case "string":
		return "string"
	case "integer":
		return "int"
	case "number":
		return "float64"
	case "boolean":
		return "bool"
	case "object":
		return "map[string]interface{}"
	case "array":
		if items, ok := details["items"].(map[string]interface{}); ok {
			return "[]" + goType(items)
		}
		return "[]interface{}"
	default:
		return "interface{}"
	}
}

var initialisms = map[string]string{"Id": "ID", "Url": "URL", "Sms": "SMS"}

// exportedName converts a camelCase JSON key into an exported Go name.
func exportedName(prop string) string {
	if prop == "" {
		return prop
	}
	name := strings.ToUpper(prop[:1]) + prop[1:]
	for from, to := range initialisms {
		if strings.HasSuffix(name, from) {
			name = strings.TrimSuffix(name, from) + to
		}
	}
	return name
}

const configTemplate = `package {{ .PackageName }}

import (
	"time"

	"{{ .Module }}/internal/common/config"
)

type Config struct {
	Timeout time.Duration
}

func LoadConfig(cfg *config.Config) *Config {
	return &Config{
		Timeout: config.GetDuration(config.GetWorkerConfig(cfg, TaskType).Timeout),
	}
}
`

const modelsTemplate = `package {{ .PackageName }}

type Input struct {
{{- range .InputFields }}
	{{ .Name }} {{ .Type }} ` + "`json:\"{{ .JSONTag }}\"`" + `
{{- end }}
}

type Output struct {
{{- range .OutputFields }}
	{{ .Name }} {{ .Type }} ` + "`json:\"{{ .JSONTag }}\"`" + `
{{- end }}
}
`

const handlerTemplate = `package {{ .PackageName }}

import (
	"context"
	"encoding/json"

	"{{ .Module }}/internal/common/camunda"
	apperrors "{{ .Module }}/internal/common/errors"
	"{{ .Module }}/internal/common/logger"
	"{{ .Module }}/internal/common/validation"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "{{ .TaskType }}"
)

// Handler runs the {{ .Name }} task.
type Handler struct {
	config       *Config
	validator    *validation.Validator
	errorHandler *apperrors.ErrorHandler
	logger       logger.Logger
}

func NewHandler(config *Config, validator *validation.Validator, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		validator:    validator,
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
	if err := h.validator.Check(TaskType, input); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &Output{}, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
`

const testTemplate = `package {{ .PackageName }}

import (
	"context"
	"testing"
	"time"

	"{{ .Module }}/internal/common/logger"
	"{{ .Module }}/internal/common/validation"

	"github.com/stretchr/testify/require"
)

func createTestHandler(t *testing.T) *Handler {
	t.Helper()
	v, err := validation.NewDefaultValidator()
	require.NoError(t, err)
	return NewHandler(&Config{Timeout: {{ .TimeoutMS }} * time.Millisecond}, v, logger.NewTestLogger(t))
}

func TestExecute_{{ .PackageName }}(t *testing.T) {
	h := createTestHandler(t)

	_, err := h.Execute(context.Background(), &Input{})

	// Replace with a valid input once the worker is implemented.
	_ = err
}
`
