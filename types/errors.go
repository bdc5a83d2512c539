/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package types

import (
	"errors"
	"fmt"
)

// ErrorCode classifies engine failures so callers can branch on them
// without string matching.
type ErrorCode string

const (
	CodeValidation             ErrorCode = "VALIDATION"
	CodeNotFound               ErrorCode = "NOT_FOUND"
	CodeDependencyNotSatisfied ErrorCode = "DEPENDENCY_NOT_SATISFIED"
	CodeCircularDependency     ErrorCode = "CIRCULAR_DEPENDENCY"
	CodeLockTimeout            ErrorCode = "LOCK_TIMEOUT"
	CodeAnalysisTimeout        ErrorCode = "ANALYSIS_TIMEOUT"
	CodeCorruptRecord          ErrorCode = "CORRUPT_RECORD"
	CodeOverloaded             ErrorCode = "OVERLOADED"
)

// Sentinel targets for errors.Is checks. Every EngineError unwraps to
// exactly one of these.
var (
	ErrValidation             = errors.New("validation failed")
	ErrNotFound               = errors.New("task not found")
	ErrDependencyNotSatisfied = errors.New("dependency not satisfied")
	ErrCircularDependency     = errors.New("circular dependency")
	ErrLockTimeout            = errors.New("lock acquisition timed out")
	ErrAnalysisTimeout        = errors.New("analysis timed out")
	ErrCorruptRecord          = errors.New("corrupt record")
	ErrOverloaded             = errors.New("admission gate saturated")
)

var sentinels = map[ErrorCode]error{
	CodeValidation:             ErrValidation,
	CodeNotFound:               ErrNotFound,
	CodeDependencyNotSatisfied: ErrDependencyNotSatisfied,
	CodeCircularDependency:     ErrCircularDependency,
	CodeLockTimeout:            ErrLockTimeout,
	CodeAnalysisTimeout:        ErrAnalysisTimeout,
	CodeCorruptRecord:          ErrCorruptRecord,
	CodeOverloaded:             ErrOverloaded,
}

// EngineError provides structured error information for engine failures.
// Details carries machine-readable context such as the unmet dependency
// ids or the detected cycle.
type EngineError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap maps the error onto its sentinel so errors.Is works across layers.
func (e *EngineError) Unwrap() error {
	if s, ok := sentinels[e.Code]; ok {
		return s
	}
	return nil
}

// NewEngineError creates a new structured engine error.
func NewEngineError(code ErrorCode, message string, details map[string]interface{}) *EngineError {
	return &EngineError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// IsRetryable reports whether the failure is transient and safe to retry
// with backoff. Lock and analysis timeouts and admission rejections are
// transient; everything else is a hard failure that retrying cannot fix.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrLockTimeout) ||
		errors.Is(err, ErrAnalysisTimeout) ||
		errors.Is(err, ErrOverloaded)
}

// CodeOf returns the ErrorCode carried by err, or "" if err is not an
// EngineError.
func CodeOf(err error) ErrorCode {
	var ee *EngineError
	if errors.As(err, &ee) {
		return ee.Code
	}
	return ""
}
