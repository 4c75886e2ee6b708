package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for the registry and retrain pipeline. Callers match on
// these with errors.Is; the AppError wrapper carries the human-readable
// detail.
var (
	ErrIncompleteBundle     = errors.New("incomplete artifact bundle")
	ErrVersionNotFound      = errors.New("version not found in registry")
	ErrMissingManifest      = errors.New("version manifest missing or corrupt")
	ErrTrainingFailed       = errors.New("training step failed")
	ErrDataValidationFailed = errors.New("training data validation failed")
	ErrIntegrityMismatch    = errors.New("artifact integrity mismatch")

	ErrInvalidConfiguration = errors.New("invalid configuration")
	ErrStorageWriteFailed   = errors.New("registry write failed")
	ErrStorageReadFailed    = errors.New("registry read failed")
)

// ErrorType categorizes errors for logging and reporting.
type ErrorType string

const (
	ErrorTypeValidation    ErrorType = "validation"
	ErrorTypeStorage       ErrorType = "storage"
	ErrorTypeTraining      ErrorType = "training"
	ErrorTypeIntegrity     ErrorType = "integrity"
	ErrorTypeConfiguration ErrorType = "configuration"
	ErrorTypeInternal      ErrorType = "internal"
)

// AppError is an application error with a stable code and optional cause.
type AppError struct {
	Type    ErrorType `json:"type"`
	Code    string    `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
	Cause   error     `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s - %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is checks if the error matches the target.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type && e.Code == t.Code
}

// WithDetails adds details to the error.
func (e *AppError) WithDetails(details string) *AppError {
	e.Details = details
	return e
}

// NewAppError creates a new application error.
func NewAppError(errType ErrorType, code, message string) *AppError {
	return &AppError{
		Type:    errType,
		Code:    code,
		Message: message,
	}
}

// WrapError wraps an existing error with application context.
func WrapError(err error, errType ErrorType, code, message string) *AppError {
	return &AppError{
		Type:    errType,
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// NewIncompleteBundleError reports missing required artifacts.
func NewIncompleteBundleError(missing []string) *AppError {
	return &AppError{
		Type:    ErrorTypeValidation,
		Code:    CodeIncompleteBundle,
		Message: "required artifacts missing",
		Details: fmt.Sprintf("%v", missing),
		Cause:   ErrIncompleteBundle,
	}
}

// NewVersionNotFoundError reports an unknown version id.
func NewVersionNotFoundError(version string) *AppError {
	return &AppError{
		Type:    ErrorTypeStorage,
		Code:    CodeVersionNotFound,
		Message: fmt.Sprintf("version %s not found in registry", version),
		Cause:   ErrVersionNotFound,
	}
}

// NewMissingManifestError reports a version whose manifest is absent or
// unreadable.
func NewMissingManifestError(version string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeStorage,
		Code:    CodeMissingManifest,
		Message: fmt.Sprintf("version %s has no valid manifest", version),
		Cause:   errors.Join(ErrMissingManifest, cause),
	}
}

// NewTrainingFailedError reports a failed external training step.
func NewTrainingFailedError(details string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeTraining,
		Code:    CodeTrainingFailed,
		Message: "training step failed",
		Details: details,
		Cause:   errors.Join(ErrTrainingFailed, cause),
	}
}

// NewDataValidationError reports rejected training input data.
func NewDataValidationError(details string) *AppError {
	return &AppError{
		Type:    ErrorTypeValidation,
		Code:    CodeDataValidationFailed,
		Message: "training data failed schema validation",
		Details: details,
		Cause:   ErrDataValidationFailed,
	}
}

// NewIntegrityMismatchError reports artifacts whose on-disk hash no longer
// matches the manifest.
func NewIntegrityMismatchError(version string, artifacts []string) *AppError {
	return &AppError{
		Type:    ErrorTypeIntegrity,
		Code:    CodeIntegrityMismatch,
		Message: fmt.Sprintf("integrity check failed for version %s", version),
		Details: fmt.Sprintf("%v", artifacts),
		Cause:   ErrIntegrityMismatch,
	}
}

// NewStorageError creates a storage error.
func NewStorageError(code, message string) *AppError {
	return NewAppError(ErrorTypeStorage, code, message)
}

// NewValidationError creates a validation error.
func NewValidationError(code, message string) *AppError {
	return NewAppError(ErrorTypeValidation, code, message)
}

// Error codes. DuplicateVersion is deliberately absent: re-registering an
// existing version is a logged overwrite, not an error.
const (
	CodeIncompleteBundle     = "INCOMPLETE_BUNDLE"
	CodeVersionNotFound      = "VERSION_NOT_FOUND"
	CodeMissingManifest      = "MISSING_MANIFEST"
	CodeTrainingFailed       = "TRAINING_FAILED"
	CodeDataValidationFailed = "DATA_VALIDATION_FAILED"
	CodeIntegrityMismatch    = "INTEGRITY_MISMATCH"

	CodeInvalidConfig = "INVALID_CONFIG"
	CodeWriteFailed   = "WRITE_FAILED"
	CodeReadFailed    = "READ_FAILED"
)
