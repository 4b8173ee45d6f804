// internal/common/validation/schema.go
package validation

import (
	"fmt"
	"sort"

	apperrors "supplement-workers/internal/common/errors"
	"supplement-workers/pkg/registry"

	"github.com/xeipuuv/gojsonschema"
)

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Messages renders each error as "field: message".
func (vr *ValidationResult) Messages() []string {
	out := make([]string, len(vr.Errors))
	for i, e := range vr.Errors {
		out[i] = fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return out
}

func (vr *ValidationResult) HasErrors(field string) bool {
	for _, e := range vr.Errors {
		if e.Field == field {
			return true
		}
	}
	return false
}

// Validator checks job inputs against the input schemas declared in the
// activity registry.
type Validator struct {
	schemas map[string]*gojsonschema.Schema
}

func NewValidator(reg *registry.ActivityRegistry) (*Validator, error) {
	v := &Validator{schemas: make(map[string]*gojsonschema.Schema)}
	for _, a := range reg.Activities {
		if len(a.InputSchema) == 0 {
			continue
		}
		schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(a.InputSchema))
		if err != nil {
			return nil, fmt.Errorf("compile input schema for %s: %w", a.TaskType, err)
		}
		v.schemas[a.TaskType] = schema
	}
	return v, nil
}

// NewDefaultValidator compiles the schemas of the embedded registry.
func NewDefaultValidator() (*Validator, error) {
	reg, err := registry.Default()
	if err != nil {
		return nil, err
	}
	return NewValidator(reg)
}

// Validate checks input (any JSON-marshalable value) against the schema of
// taskType. Task types without a schema always validate.
func (v *Validator) Validate(taskType string, input interface{}) (*ValidationResult, error) {
	schema, ok := v.schemas[taskType]
	if !ok {
		return &ValidationResult{Valid: true}, nil
	}

	result, err := schema.Validate(gojsonschema.NewGoLoader(input))
	if err != nil {
		return nil, fmt.Errorf("validate %s input: %w", taskType, err)
	}

	out := &ValidationResult{Valid: result.Valid()}
	for _, desc := range result.Errors() {
		out.Errors = append(out.Errors, ValidationError{
			Field:   desc.Field(),
			Message: desc.Description(),
			Code:    desc.Type(),
		})
	}
	sort.SliceStable(out.Errors, func(i, j int) bool {
		return out.Errors[i].Field < out.Errors[j].Field
	})
	return out, nil
}

// Check validates input and reports violations as a
// PROFILE_VALIDATION_FAILED error listing every message.
func (v *Validator) Check(taskType string, input interface{}) error {
	result, err := v.Validate(taskType, input)
	if err != nil {
		return err
	}
	if result.Valid {
		return nil
	}
	return apperrors.NewProfileValidationFailedError(result.Messages())
}
