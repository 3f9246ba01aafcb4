package helpers

import (
	"errors"
	"fmt"
	"sync"

	"crypto-analyst/src/logger"
)

// -----------------------------------------------------------------------------
// Custom Error Types
// -----------------------------------------------------------------------------

type AnalystError struct {
	Message string
	Cause   error
}

func (e *AnalystError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AnalystError) Unwrap() error {
	return e.Cause
}

// Distinct error kinds for errors.As checks
type ConfigurationError struct{ AnalystError }
type ValidationError struct{ AnalystError }

// DataUnavailableError: the market data call failed or returned invalid data.
type DataUnavailableError struct{ AnalystError }

// ReportIncompleteError: narrative generation failed or returned insufficient content.
type ReportIncompleteError struct {
	AnalystError
	Sections []string // Sections that were missing or too short
}

// Error kind labels used by the presentation adapters.
const (
	KindDataUnavailable  = "DataUnavailable"
	KindReportIncomplete = "ReportIncomplete"
	KindValidation       = "Validation"
	KindConfiguration    = "Configuration"
	KindInternal         = "Internal"
)

// -----------------------------------------------------------------------------
// Constructors
// -----------------------------------------------------------------------------

func NewDataUnavailable(cause error, format string, args ...interface{}) error {
	return &DataUnavailableError{AnalystError{Message: fmt.Sprintf(format, args...), Cause: cause}}
}

func NewReportIncomplete(sections []string, cause error, format string, args ...interface{}) error {
	return &ReportIncompleteError{
		AnalystError: AnalystError{Message: fmt.Sprintf(format, args...), Cause: cause},
		Sections:     sections,
	}
}

func NewValidation(format string, args ...interface{}) error {
	return &ValidationError{AnalystError{Message: fmt.Sprintf(format, args...)}}
}

func NewConfiguration(format string, args ...interface{}) error {
	return &ConfigurationError{AnalystError{Message: fmt.Sprintf(format, args...)}}
}

// -----------------------------------------------------------------------------
// Classification
// -----------------------------------------------------------------------------

func IsDataUnavailable(err error) bool {
	var target *DataUnavailableError
	return errors.As(err, &target)
}

func IsReportIncomplete(err error) bool {
	var target *ReportIncompleteError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

func IsConfiguration(err error) bool {
	var target *ConfigurationError
	return errors.As(err, &target)
}

// Kind returns the label of the first known error kind found in the chain.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case IsDataUnavailable(err):
		return KindDataUnavailable
	case IsReportIncomplete(err):
		return KindReportIncomplete
	case IsValidation(err):
		return KindValidation
	case IsConfiguration(err):
		return KindConfiguration
	default:
		return KindInternal
	}
}

// -----------------------------------------------------------------------------
// Error Handler
// -----------------------------------------------------------------------------

// ErrorHandler logs failures by kind. Nothing is retried: both domain errors
// surface straight to the caller as user-visible notices.
type ErrorHandler struct {
	Logger     *logger.Logger
	ErrorCount map[string]int
	mu         sync.Mutex
}

func NewErrorHandler(log *logger.Logger) *ErrorHandler {
	if log == nil {
		log = logger.NewLogger(nil, "ErrorHandler")
	}
	return &ErrorHandler{
		Logger:     log,
		ErrorCount: make(map[string]int),
	}
}

// -----------------------------------------------------------------------------

func (e *ErrorHandler) Handle(err error, context string) {
	if err == nil {
		return
	}
	kind := Kind(err)
	e.mu.Lock()
	e.ErrorCount[kind]++
	e.mu.Unlock()

	switch kind {
	case KindDataUnavailable, KindReportIncomplete, KindValidation:
		e.Logger.Warning("%s failed (%s): %v", context, kind, err)
	default:
		e.Logger.Error("Error in %s: %v", context, err)
	}
}

// -----------------------------------------------------------------------------

// Counts returns a copy of the per-kind error counters.
func (e *ErrorHandler) Counts() map[string]int {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make(map[string]int, len(e.ErrorCount))
	for k, v := range e.ErrorCount {
		out[k] = v
	}
	return out
}
