package loader

import (
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var upstreamRetries = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "catalog_upstream_retries_total",
	Help: "Webhook attempts failing with a retryable error, by error class",
}, []string{"error_class"})

// ErrorClass represents a classification of upstream failures.
type ErrorClass string

const (
	// ErrorClassClient represents 4xx client errors.
	ErrorClassClient ErrorClass = "client"

	// ErrorClassServer represents 5xx server errors.
	ErrorClassServer ErrorClass = "server"

	// ErrorClassRateLimit represents 429 responses.
	ErrorClassRateLimit ErrorClass = "rate_limit"

	// ErrorClassNetwork represents network/timeout errors.
	ErrorClassNetwork ErrorClass = "network"
)

// UpstreamError is a failed webhook call.
type UpstreamError struct {
	URL        string
	StatusCode int
	ErrorClass ErrorClass
	Err        error
}

// Error implements the error interface.
func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("upstream %s error (status %d) for %s: %v", e.ErrorClass, e.StatusCode, e.URL, e.Err)
	}
	return fmt.Sprintf("upstream %s error (status %d) for %s", e.ErrorClass, e.StatusCode, e.URL)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// classifyStatus returns the class of a failed call, or "" for success.
func classifyStatus(statusCode int, err error) ErrorClass {
	switch {
	case err != nil:
		return ErrorClassNetwork
	case statusCode == http.StatusTooManyRequests:
		return ErrorClassRateLimit
	case statusCode >= 500:
		return ErrorClassServer
	case statusCode >= 400:
		return ErrorClassClient
	default:
		return ""
	}
}

// shouldRetry determines if an error should be retried based on its classification.
func shouldRetry(errorClass ErrorClass) bool {
	switch errorClass {
	case ErrorClassServer, ErrorClassRateLimit, ErrorClassNetwork:
		return true
	default:
		// 4xx errors will fail the same way again
		return false
	}
}

// retryCondition adapts shouldRetry to resty and counts every retry.
func retryCondition(resp *resty.Response, err error) bool {
	status := 0
	if resp != nil {
		status = resp.StatusCode()
	}
	class := classifyStatus(status, err)
	if !shouldRetry(class) {
		return false
	}
	upstreamRetries.WithLabelValues(string(class)).Inc()
	return true
}
