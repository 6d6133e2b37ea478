package domain

import (
	"errors"
	"fmt"
)

// ErrTokenNotFound indicates no credential is stored for a provider/user
// pair.
var ErrTokenNotFound = errors.New("token not found")

// ErrorCode classifies a ConnectError.
type ErrorCode string

const (
	// CodeConfiguration indicates a missing or invalid configuration field,
	// detected before any network call.
	CodeConfiguration ErrorCode = "CONFIGURATION_ERROR"
	// CodeToken indicates a code/token exchange or refresh failure.
	CodeToken ErrorCode = "TOKEN_ERROR"
	// CodePicker indicates the picker could not be built or its vendor
	// script failed to load.
	CodePicker ErrorCode = "PICKER_ERROR"
	// CodeCallback indicates the provider redirected back with an error.
	CodeCallback ErrorCode = "CALLBACK_ERROR"
	// CodePopupBlocked is reported by host pages when the browser refused
	// to open the consent popup.
	CodePopupBlocked ErrorCode = "POPUP_BLOCKED"
	// CodePopupCreationFailed is reported by host pages when opening the
	// consent popup threw.
	CodePopupCreationFailed ErrorCode = "POPUP_CREATION_FAILED"
	// CodeCancelled indicates the user abandoned the flow or the attempt
	// timed out without a completion message.
	CodeCancelled ErrorCode = "CANCELLED"
	// CodeUnknown is the catch-all wrapping for unexpected failures.
	CodeUnknown ErrorCode = "UNKNOWN_ERROR"
)

// ConnectError is the error type surfaced by every SDK operation.
// It carries a stable code for programmatic handling and optional details
// such as HTTP status codes.
type ConnectError struct {
	Code    ErrorCode      `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`

	cause error
}

// Error implements the error interface.
func (e *ConnectError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped cause, if any.
func (e *ConnectError) Unwrap() error {
	return e.cause
}

// WithDetail attaches a detail key/value and returns the error for chaining.
func (e *ConnectError) WithDetail(key string, value any) *ConnectError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// NewConfigurationError reports a missing or invalid configuration field.
func NewConfigurationError(format string, args ...any) *ConnectError {
	return &ConnectError{Code: CodeConfiguration, Message: fmt.Sprintf(format, args...)}
}

// NewTokenError reports a token exchange or refresh failure.
func NewTokenError(message string, cause error) *ConnectError {
	return &ConnectError{Code: CodeToken, Message: message, cause: cause}
}

// NewPickerError reports a picker construction or vendor-script failure.
func NewPickerError(message string, cause error) *ConnectError {
	return &ConnectError{Code: CodePicker, Message: message, cause: cause}
}

// NewCallbackError reports an error returned by the provider on the
// callback redirect.
func NewCallbackError(providerError, description string) *ConnectError {
	e := &ConnectError{Code: CodeCallback, Message: providerError}
	if description != "" {
		e.WithDetail("description", description)
	}
	return e
}

// NewCancelledError reports an abandoned or timed-out attempt.
func NewCancelledError(message string) *ConnectError {
	return &ConnectError{Code: CodeCancelled, Message: message}
}

// NewUnknownError wraps an unexpected failure.
func NewUnknownError(message string, cause error) *ConnectError {
	return &ConnectError{Code: CodeUnknown, Message: message, cause: cause}
}

// WrapError coerces err into a ConnectError, wrapping foreign errors with
// CodeUnknown.
func WrapError(err error) *ConnectError {
	if err == nil {
		return nil
	}
	var ce *ConnectError
	if errors.As(err, &ce) {
		return ce
	}
	return &ConnectError{Code: CodeUnknown, Message: err.Error(), cause: err}
}

// HasCode returns true if err is (or wraps) a ConnectError with the given code.
func HasCode(err error, code ErrorCode) bool {
	var ce *ConnectError
	if errors.As(err, &ce) {
		return ce.Code == code
	}
	return false
}

// IsConfigurationError reports whether err is a configuration failure.
func IsConfigurationError(err error) bool { return HasCode(err, CodeConfiguration) }

// IsTokenError reports whether err is a token exchange/refresh failure.
func IsTokenError(err error) bool { return HasCode(err, CodeToken) }

// IsPickerError reports whether err is a picker failure.
func IsPickerError(err error) bool { return HasCode(err, CodePicker) }

// IsCancelled reports whether err is an abandoned or timed-out attempt.
func IsCancelled(err error) bool { return HasCode(err, CodeCancelled) }
