package common

import (
	"errors"
	"fmt"
	"strings"
)

// Common error types used across the application
var (
	// ErrInvalidInput indicates invalid user input
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound indicates a resource was not found
	ErrNotFound = errors.New("not found")
	// ErrTimeout indicates an operation timed out
	ErrTimeout = errors.New("operation timed out")
	// ErrInvalidConfiguration indicates configuration issues
	ErrInvalidConfiguration = errors.New("invalid configuration")
	// ErrUnsupportedScheme is returned for URLs the fetcher validates but cannot retrieve
	ErrUnsupportedScheme = errors.New("unsupported scheme")
)

// WrapError wraps an error with additional context information
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// WrapErrorf wraps an error with formatted context information
func WrapErrorf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// NewError creates a new error with a formatted message
func NewError(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}

// ValidationError represents validation errors with field-specific information
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for field '%s': %s (value: %v)", e.Field, e.Message, e.Value)
}

// NewValidationError creates a new validation error
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// FetchError is returned by the content fetcher for malformed URLs, transport
// failures, timeouts and non-2xx responses.
type FetchError struct {
	URL        string
	StatusCode int
	Reason     string
	Err        error
}

func (e *FetchError) Error() string {
	msg := fmt.Sprintf("fetch '%s' failed: %s", e.URL, e.Reason)
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("fetch '%s' failed: HTTP %d: %s", e.URL, e.StatusCode, e.Reason)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Temporary reports whether repeating the request could succeed.
func (e *FetchError) Temporary() bool {
	switch {
	case e.StatusCode == 429:
		return true
	case e.StatusCode >= 500:
		return true
	case e.StatusCode != 0:
		return false
	}
	return e.Err != nil && !errors.Is(e.Err, ErrInvalidInput) && !errors.Is(e.Err, ErrUnsupportedScheme)
}

// NewFetchError creates a new fetch error
func NewFetchError(url, reason string, err error) *FetchError {
	return &FetchError{URL: url, Reason: reason, Err: err}
}

// NewHTTPFetchError creates a fetch error for a non-2xx response
func NewHTTPFetchError(url string, statusCode int, reason string) *FetchError {
	return &FetchError{URL: url, StatusCode: statusCode, Reason: reason}
}

// MalformedAIResponseError means the model answered but the answer did not match the expected schema.
type MalformedAIResponseError struct {
	Operation string
	Raw       string
	Err       error
}

func (e *MalformedAIResponseError) Error() string {
	return fmt.Sprintf("malformed AI response for %s: %v", e.Operation, e.Err)
}

func (e *MalformedAIResponseError) Unwrap() error {
	return e.Err
}

// AIProviderError wraps transport, quota and empty-answer failures of a model provider.
type AIProviderError struct {
	Provider string
	Err      error
}

func (e *AIProviderError) Error() string {
	return fmt.Sprintf("AI provider '%s' failed: %v", e.Provider, e.Err)
}

func (e *AIProviderError) Unwrap() error {
	return e.Err
}

// AlreadyExistsError is returned when a write-once record already exists.
type AlreadyExistsError struct {
	Kind string
	Key  string
}

func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("%s '%s' already exists", e.Kind, e.Key)
}

// NotificationDeliveryError is the per-channel delivery failure.
type NotificationDeliveryError struct {
	Channel string
	Err     error
}

func (e *NotificationDeliveryError) Error() string {
	return fmt.Sprintf("delivery via %s failed: %v", e.Channel, e.Err)
}

func (e *NotificationDeliveryError) Unwrap() error {
	return e.Err
}

// StoreIOError wraps a persistence failure.
type StoreIOError struct {
	Op  string
	Key string
	Err error
}

func (e *StoreIOError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("store %s '%s': %v", e.Op, e.Key, e.Err)
	}
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreIOError) Unwrap() error {
	return e.Err
}

// NewStoreIOError creates a new store error
func NewStoreIOError(op, key string, err error) *StoreIOError {
	return &StoreIOError{Op: op, Key: key, Err: err}
}

// IsAlreadyExists reports whether err is (or wraps) an AlreadyExistsError.
func IsAlreadyExists(err error) bool {
	var target *AlreadyExistsError
	return errors.As(err, &target)
}

// IsRetryable reports whether err is a transient fetch or provider failure.
// Malformed model output is never retryable.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var malformed *MalformedAIResponseError
	if errors.As(err, &malformed) {
		return false
	}
	var fetchErr *FetchError
	if errors.As(err, &fetchErr) {
		return fetchErr.Temporary()
	}
	var providerErr *AIProviderError
	return errors.As(err, &providerErr)
}

// CombineErrors combines multiple errors into a single error with formatted message
func CombineErrors(errs []error) error {
	var messages []string
	for _, err := range errs {
		if err != nil {
			messages = append(messages, err.Error())
		}
	}

	switch len(messages) {
	case 0:
		return nil
	case 1:
		for _, err := range errs {
			if err != nil {
				return err
			}
		}
	}

	return fmt.Errorf("multiple errors occurred: [%s]", strings.Join(messages, "; "))
}

// ErrorCollector helps collect multiple errors during processing
type ErrorCollector struct {
	errors []error
}

// Add adds an error to the collector
func (ec *ErrorCollector) Add(err error) {
	if err != nil {
		ec.errors = append(ec.errors, err)
	}
}

// AddWithContext adds an error with additional context
func (ec *ErrorCollector) AddWithContext(err error, context string) {
	if err != nil {
		ec.errors = append(ec.errors, WrapError(err, context))
	}
}

// HasErrors returns true if any errors were collected
func (ec *ErrorCollector) HasErrors() bool {
	return len(ec.errors) > 0
}

// Error returns a combined error from all collected errors
func (ec *ErrorCollector) Error() error {
	return CombineErrors(ec.errors)
}

// Errors returns all collected errors
func (ec *ErrorCollector) Errors() []error {
	return ec.errors
}
