// Package errors provides standardized error handling for BPMN workflow integration.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

// ErrorCode is the internal error code carried to the workflow engine.
type ErrorCode string

const (
	ErrCodeParseError               ErrorCode = "PARSE_ERROR"
	ErrCodeProfileValidationFailed  ErrorCode = "PROFILE_VALIDATION_FAILED"
	ErrCodeProfileNotFound          ErrorCode = "PROFILE_NOT_FOUND"
	ErrCodeCatalogLoadFailed        ErrorCode = "CATALOG_LOAD_FAILED"
	ErrCodeDatasetInvalid           ErrorCode = "DATASET_INVALID"
	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeDatabaseInsertFailed     ErrorCode = "DATABASE_INSERT_FAILED"
	ErrCodeQueryExecutionFailed     ErrorCode = "QUERY_EXECUTION_FAILED"
	ErrCodeSearchQueryFailed        ErrorCode = "SEARCH_QUERY_FAILED"
	ErrCodeNotificationSendFailed   ErrorCode = "NOTIFICATION_SEND_FAILED"
	ErrCodeInternal                 ErrorCode = "INTERNAL_ERROR"
)

// StandardError is a structured application error. Two StandardErrors match
// under errors.Is when their codes are equal.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	cause     error
}

func (e *StandardError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("StandardError[%s]: %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error { return e.cause }

func (e *StandardError) Is(target error) bool {
	t, ok := target.(*StandardError)
	return ok && t.Code == e.Code
}

// WithMetadata returns e after adding key to its metadata.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// Sentinels for errors.Is checks.
var (
	ErrParse                   = &StandardError{Code: ErrCodeParseError}
	ErrProfileValidationFailed = &StandardError{Code: ErrCodeProfileValidationFailed}
	ErrProfileNotFound         = &StandardError{Code: ErrCodeProfileNotFound}
	ErrCatalogLoadFailed       = &StandardError{Code: ErrCodeCatalogLoadFailed}
	ErrDatasetInvalid          = &StandardError{Code: ErrCodeDatasetInvalid}
	ErrDatabaseInsertFailed    = &StandardError{Code: ErrCodeDatabaseInsertFailed}
	ErrQueryExecutionFailed    = &StandardError{Code: ErrCodeQueryExecutionFailed}
	ErrSearchQueryFailed       = &StandardError{Code: ErrCodeSearchQueryFailed}
	ErrNotificationSendFailed  = &StandardError{Code: ErrCodeNotificationSendFailed}
)

// BPMNError is an error thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns the variables attached to a failed or thrown job.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

func newError(code ErrorCode, message, details string, retryable bool, cause error) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
}

func NewParseError(err error) *StandardError {
	return newError(ErrCodeParseError, "Job variables could not be parsed", err.Error(), false, err)
}

// NewProfileValidationFailedError carries the individual violations in
// metadata under "violations".
func NewProfileValidationFailedError(violations []string) *StandardError {
	e := newError(ErrCodeProfileValidationFailed, "Profile validation failed", strings.Join(violations, "; "), false, nil)
	return e.WithMetadata("violations", violations)
}

func NewProfileNotFoundError(userID string) *StandardError {
	return newError(ErrCodeProfileNotFound, "User profile not found", fmt.Sprintf("userId: %s", userID), false, nil)
}

func NewCatalogLoadFailedError(err error) *StandardError {
	return newError(ErrCodeCatalogLoadFailed, "Catalog could not be loaded", err.Error(), true, err)
}

func NewDatasetInvalidError(details string) *StandardError {
	return newError(ErrCodeDatasetInvalid, "Catalog dataset is invalid", details, false, nil)
}

func NewDatabaseConnectionFailedError(err error) *StandardError {
	return newError(ErrCodeDatabaseConnectionFailed, "Database connection error", err.Error(), true, err)
}

func NewDatabaseInsertFailedError(err error) *StandardError {
	return newError(ErrCodeDatabaseInsertFailed, "Database insert operation failed", err.Error(), true, err)
}

func NewQueryExecutionFailedError(operation string, err error) *StandardError {
	return newError(ErrCodeQueryExecutionFailed, "Database query execution error",
		fmt.Sprintf("operation: %s, error: %s", operation, err.Error()), true, err)
}

func NewSearchQueryFailedError(index string, err error) *StandardError {
	return newError(ErrCodeSearchQueryFailed, "Elasticsearch query error",
		fmt.Sprintf("index: %s, error: %s", index, err.Error()), true, err)
}

func NewNotificationSendFailedError(channel string, err error) *StandardError {
	return newError(ErrCodeNotificationSendFailed, "Notification delivery failed",
		fmt.Sprintf("channel: %s, error: %s", channel, err.Error()), true, err)
}

// BPMNErrorMapping maps internal codes to the error codes modelled in BPMN.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeParseError:               "PARSE_ERROR",
	ErrCodeProfileValidationFailed:  "PROFILE_VALIDATION_FAILED",
	ErrCodeProfileNotFound:          "PROFILE_NOT_FOUND",
	ErrCodeCatalogLoadFailed:        "CATALOG_LOAD_FAILED",
	ErrCodeDatasetInvalid:           "DATASET_INVALID",
	ErrCodeDatabaseConnectionFailed: "DATABASE_CONNECTION_FAILED",
	ErrCodeDatabaseInsertFailed:     "DATABASE_INSERT_FAILED",
	ErrCodeQueryExecutionFailed:     "QUERY_EXECUTION_FAILED",
	ErrCodeSearchQueryFailed:        "SEARCH_QUERY_FAILED",
	ErrCodeNotificationSendFailed:   "NOTIFICATION_SEND_FAILED",
}

// GetRetryCount returns how many times a job failing with code is retried
// before the error is thrown to the process.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeCatalogLoadFailed,
		ErrCodeDatabaseConnectionFailed,
		ErrCodeDatabaseInsertFailed,
		ErrCodeQueryExecutionFailed,
		ErrCodeSearchQueryFailed,
		ErrCodeNotificationSendFailed:
		return 3
	default:
		return 0
	}
}

func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, ok := BPMNErrorMapping[stdErr.Code]
	if !ok {
		bpmnCode = string(stdErr.Code)
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	vars := map[string]interface{}{
		"originalErrorCode": string(stdErr.Code),
		"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
	}
	for k, v := range stdErr.Metadata {
		vars[k] = v
	}

	return &BPMNError{
		Code:           bpmnCode,
		Message:        stdErr.Message,
		Details:        stdErr.Details,
		Retryable:      stdErr.Retryable,
		Retries:        retries,
		ErrorVariables: vars,
	}
}

// AsStandardError unwraps err to a StandardError, wrapping unknown errors as
// non-retryable internal errors.
func AsStandardError(err error) *StandardError {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}
	return newError(ErrCodeInternal, "Unexpected error", err.Error(), false, err)
}

func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

func GetErrorCategory(code ErrorCode) string {
	s := string(code)
	switch {
	case strings.Contains(s, "PROFILE"):
		return "PROFILE"
	case strings.Contains(s, "CATALOG") || strings.Contains(s, "DATASET"):
		return "CATALOG"
	case strings.Contains(s, "DATABASE") || strings.Contains(s, "QUERY_EXECUTION"):
		return "DATABASE"
	case strings.Contains(s, "SEARCH"):
		return "SEARCH"
	case strings.Contains(s, "NOTIFICATION"):
		return "NOTIFICATION"
	case strings.Contains(s, "PARSE"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
