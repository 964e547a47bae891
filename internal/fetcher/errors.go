package fetcher

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// ErrorType represents the category of failure while retrieving a document
type ErrorType string

const (
	// ErrorTypeNetwork indicates a transport-level error (connection refused, DNS, reset)
	ErrorTypeNetwork ErrorType = "network"
	// ErrorTypeTimeout indicates the request did not complete in time
	ErrorTypeTimeout ErrorType = "timeout"
	// ErrorTypeCanceled indicates the caller gave up before the response arrived
	ErrorTypeCanceled ErrorType = "canceled"
	// ErrorTypeRateLimit indicates the source rejected the request with HTTP 429
	ErrorTypeRateLimit ErrorType = "rate_limit"
	// ErrorTypeServer indicates the source answered with HTTP 5xx
	ErrorTypeServer ErrorType = "server"
	// ErrorTypeClient indicates the source answered with HTTP 4xx other than 429
	ErrorTypeClient ErrorType = "client"
	// ErrorTypeUnknown covers any other non-2xx status
	ErrorTypeUnknown ErrorType = "unknown"
)

// FetchError is returned for every failed document retrieval.
type FetchError struct {
	Type       ErrorType
	URL        string
	StatusCode int
	Message    string
	Cause      error
}

// Error implements the error interface
func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s error (status %d): %s", e.Type, e.StatusCode, e.Message)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s error: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s error: %s", e.Type, e.Message)
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *FetchError) Unwrap() error {
	return e.Cause
}

// NewNetworkError creates a network error
func NewNetworkError(url string, cause error) *FetchError {
	return &FetchError{
		Type:    ErrorTypeNetwork,
		URL:     url,
		Message: "network request failed",
		Cause:   cause,
	}
}

// NewTimeoutError creates a timeout error
func NewTimeoutError(url string, cause error) *FetchError {
	return &FetchError{
		Type:    ErrorTypeTimeout,
		URL:     url,
		Message: "request timed out",
		Cause:   cause,
	}
}

// NewCanceledError creates an error for a request abandoned by its caller
func NewCanceledError(url string, cause error) *FetchError {
	return &FetchError{
		Type:    ErrorTypeCanceled,
		URL:     url,
		Message: "request canceled",
		Cause:   cause,
	}
}

// ClassifyHTTPError maps a non-2xx status code to a FetchError
func ClassifyHTTPError(url string, statusCode int) *FetchError {
	e := &FetchError{URL: url, StatusCode: statusCode}
	switch {
	case statusCode == http.StatusTooManyRequests:
		e.Type = ErrorTypeRateLimit
		e.Message = "rate limit exceeded"
	case statusCode >= 500:
		e.Type = ErrorTypeServer
		e.Message = "server returned an error"
	case statusCode >= 400:
		e.Type = ErrorTypeClient
		e.Message = fmt.Sprintf("client error: HTTP %d", statusCode)
	default:
		e.Type = ErrorTypeUnknown
		e.Message = fmt.Sprintf("unexpected status code: %d", statusCode)
	}
	return e
}

// ClassifyTransportError wraps an error returned before any response was received
func ClassifyTransportError(url string, err error) *FetchError {
	var netErr net.Error
	switch {
	case errors.Is(err, context.Canceled):
		return NewCanceledError(url, err)
	case errors.Is(err, context.DeadlineExceeded):
		return NewTimeoutError(url, err)
	case errors.As(err, &netErr) && netErr.Timeout():
		return NewTimeoutError(url, err)
	default:
		return NewNetworkError(url, err)
	}
}
