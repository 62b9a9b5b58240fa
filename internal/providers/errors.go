package providers

import (
	"errors"
	"fmt"
)

// ErrorKind classifies provider failures for upstream handling.
type ErrorKind string

const (
	// KindCredential covers missing, invalid, or expired API keys.
	KindCredential ErrorKind = "credential"
	// KindTransport covers network failures and timeouts reaching the provider.
	KindTransport ErrorKind = "transport"
	// KindProvider covers errors returned by the provider itself
	// (rate limits, server errors, content refusals).
	KindProvider ErrorKind = "provider"
)

// Error is a classified provider failure.
type Error struct {
	Kind       ErrorKind
	Provider   string
	StatusCode int
	Message    string
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: %s error (status %d): %s", e.Provider, e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: %s error: %s", e.Provider, e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsCredentialError reports whether err is a credential failure.
func IsCredentialError(err error) bool {
	var pe *Error
	return errors.As(err, &pe) && pe.Kind == KindCredential
}

// IsTransportError reports whether err is a transport failure.
func IsTransportError(err error) bool {
	var pe *Error
	return errors.As(err, &pe) && pe.Kind == KindTransport
}

// kindForStatus maps an HTTP status code to an error kind.
func kindForStatus(status int) ErrorKind {
	switch status {
	case 401, 403:
		return KindCredential
	default:
		return KindProvider
	}
}
