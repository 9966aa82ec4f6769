package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/go-github/v66/github"
)

// ErrorType represents different categories of GitHub API errors
type ErrorType string

const (
	ErrorTypeTransport ErrorType = "transport"
	ErrorTypeDecode    ErrorType = "decode"
	ErrorTypeRateLimit ErrorType = "rate_limit"
	ErrorTypeAuth      ErrorType = "auth"
	ErrorTypeNotFound  ErrorType = "not_found"
	ErrorTypeUnknown   ErrorType = "unknown"
)

// Error represents a structured error from GitHub operations
type Error struct {
	Type      ErrorType `json:"type"`
	Message   string    `json:"message"`
	Cause     error     `json:"-"`
	Resource  string    `json:"resource,omitempty"`
	Retryable bool      `json:"retryable"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Resource != "" {
		return fmt.Sprintf("%s error for %s: %s", e.Type, e.Resource, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// IsRetryable returns whether the error is retryable
func (e *Error) IsRetryable() bool {
	return e.Retryable
}

// NewError creates a new Error with the specified type and message
func NewError(errorType ErrorType, message string, cause error) *Error {
	return &Error{
		Type:      errorType,
		Message:   message,
		Cause:     cause,
		Retryable: isRetryableErrorType(errorType),
	}
}

// TypeOf returns the ErrorType of err, or ErrorTypeUnknown if err is not an *Error
func TypeOf(err error) ErrorType {
	var ghErr *Error
	if errors.As(err, &ghErr) {
		return ghErr.Type
	}
	return ErrorTypeUnknown
}

// WrapError wraps an error returned by go-github into our structured error type
func WrapError(err error, resource string) *Error {
	if err == nil {
		return nil
	}

	var ghErr *Error
	if errors.As(err, &ghErr) {
		if ghErr.Resource == "" {
			ghErr.Resource = resource
		}
		return ghErr
	}

	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return &Error{
			Type:      ErrorTypeRateLimit,
			Message:   fmt.Sprintf("Rate limit exceeded. Reset at %v", rateErr.Rate.Reset.Time),
			Cause:     err,
			Resource:  resource,
			Retryable: true,
		}
	}

	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return &Error{
			Type:      ErrorTypeRateLimit,
			Message:   "Secondary rate limit exceeded. Please wait before retrying",
			Cause:     err,
			Resource:  resource,
			Retryable: true,
		}
	}

	var respErr *github.ErrorResponse
	if errors.As(err, &respErr) && respErr.Response != nil {
		return parseAPIError(respErr, resource)
	}

	if isDecodeError(err) {
		return &Error{
			Type:     ErrorTypeDecode,
			Message:  "Malformed response from GitHub API",
			Cause:    err,
			Resource: resource,
		}
	}

	if isNetworkError(err) {
		return &Error{
			Type:      ErrorTypeTransport,
			Message:   "Network error occurred. Please check your connection and try again",
			Cause:     err,
			Resource:  resource,
			Retryable: true,
		}
	}

	return &Error{
		Type:     ErrorTypeUnknown,
		Message:  err.Error(),
		Cause:    err,
		Resource: resource,
	}
}

// parseAPIError maps GitHub API error responses onto error types by status code
func parseAPIError(respErr *github.ErrorResponse, resource string) *Error {
	baseErr := &Error{
		Resource: resource,
		Cause:    respErr,
	}

	switch respErr.Response.StatusCode {
	case http.StatusUnauthorized:
		baseErr.Type = ErrorTypeAuth
		baseErr.Message = "Authentication failed. Please check your GitHub token"

	case http.StatusForbidden, http.StatusTooManyRequests:
		if strings.Contains(strings.ToLower(respErr.Message), "rate limit") ||
			respErr.Response.StatusCode == http.StatusTooManyRequests {
			baseErr.Type = ErrorTypeRateLimit
			baseErr.Message = "GitHub API rate limit exceeded. Please wait before retrying"
			baseErr.Retryable = true
		} else {
			baseErr.Type = ErrorTypeAuth
			baseErr.Message = "Access denied. Your token may not have the required scopes"
		}

	case http.StatusNotFound:
		baseErr.Type = ErrorTypeNotFound
		if strings.Contains(resource, "user") {
			baseErr.Message = "User not found. Please verify the username is correct"
		} else {
			baseErr.Message = "Resource not found"
		}

	case http.StatusUnprocessableEntity:
		// search/users answers 422 for queries it cannot parse
		baseErr.Type = ErrorTypeUnknown
		baseErr.Message = "Validation failed"
		if len(respErr.Errors) > 0 {
			var messages []string
			for _, e := range respErr.Errors {
				if e.Message != "" {
					messages = append(messages, e.Message)
				}
			}
			if len(messages) > 0 {
				baseErr.Message = fmt.Sprintf("Validation failed: %s", strings.Join(messages, "; "))
			}
		}

	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		baseErr.Type = ErrorTypeTransport
		baseErr.Message = "GitHub API is temporarily unavailable. Please try again later"
		baseErr.Retryable = true

	default:
		baseErr.Type = ErrorTypeUnknown
		baseErr.Message = respErr.Message
		baseErr.Retryable = respErr.Response.StatusCode >= 500
	}

	return baseErr
}

// isDecodeError checks if an error came from decoding a response body
func isDecodeError(err error) bool {
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	return errors.As(err, &syntaxErr) || errors.As(err, &typeErr)
}

// isNetworkError checks if an error is a network-related error
func isNetworkError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	errStr := strings.ToLower(err.Error())
	networkKeywords := []string{
		"connection refused",
		"connection reset",
		"network is unreachable",
		"no such host",
		"timeout",
		"dial tcp",
		"eof",
	}

	for _, keyword := range networkKeywords {
		if strings.Contains(errStr, keyword) {
			return true
		}
	}
	return false
}

// isRetryableErrorType determines if an error type is generally retryable
func isRetryableErrorType(errorType ErrorType) bool {
	switch errorType {
	case ErrorTypeRateLimit, ErrorTypeTransport:
		return true
	default:
		return false
	}
}

// RetryConfig defines configuration for retry logic
type RetryConfig struct {
	MaxRetries    int
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
}

// DefaultRetryConfig returns the default retry configuration: no retries.
// Failures surface to the caller, which decides whether to try again.
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxRetries:    0,
		InitialDelay:  time.Second,
		MaxDelay:      30 * time.Second,
		BackoffFactor: 2.0,
	}
}

// RetryableOperation represents an operation that can be retried
type RetryableOperation func() error

// WithRetry executes an operation, retrying retryable *Error failures with
// exponential backoff until MaxRetries is reached or ctx is done
func WithRetry(ctx context.Context, operation RetryableOperation, config *RetryConfig) error {
	if config == nil {
		config = DefaultRetryConfig()
	}

	var lastErr error
	delay := config.InitialDelay

	for attempt := 0; attempt <= config.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}

			delay = time.Duration(float64(delay) * config.BackoffFactor)
			if delay > config.MaxDelay {
				delay = config.MaxDelay
			}
		}

		err := operation()
		if err == nil {
			return nil
		}

		lastErr = err

		var ghErr *Error
		if !errors.As(err, &ghErr) || !ghErr.IsRetryable() {
			return err
		}
	}

	if config.MaxRetries == 0 {
		return lastErr
	}
	return fmt.Errorf("operation failed after %d retries: %w", config.MaxRetries, lastErr)
}
