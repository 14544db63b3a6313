package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is a non-2xx answer from the BloodHound API.
type APIError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %d %s - %s", e.Op, e.StatusCode, http.StatusText(e.StatusCode), e.Body)
}

// IsNotFound reports whether err is an APIError with status 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// FailureCategory classifies a Ghostwriter failure.
type FailureCategory string

const (
	CategoryTimeout   FailureCategory = "timeout"
	CategoryQuery     FailureCategory = "query"
	CategoryProtocol  FailureCategory = "protocol"
	CategoryServer    FailureCategory = "server"
	CategoryTransport FailureCategory = "transport"
)

// CategorizedError is returned by ReportClient implementations.
type CategorizedError struct {
	Category FailureCategory
	Err      error
}

func (e *CategorizedError) Error() string {
	return fmt.Sprintf("%s error: %v", e.Category, e.Err)
}

func (e *CategorizedError) Unwrap() error { return e.Err }

// CategoryOf returns the category carried by err, or CategoryProtocol when
// err was not categorized.
func CategoryOf(err error) FailureCategory {
	var ce *CategorizedError
	if errors.As(err, &ce) {
		return ce.Category
	}
	return CategoryProtocol
}

// PublishStage names the step of the publish sequence that failed.
type PublishStage string

const (
	StageAuthenticate PublishStage = "authenticate"
	StageFetch        PublishStage = "fetch"
	StageUpdate       PublishStage = "update"
)

// PublishError is the outcome of a failed publish.
type PublishError struct {
	Stage    PublishStage
	Category FailureCategory
	Err      error
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("publish failed during %s (%s): %v", e.Stage, e.Category, e.Err)
}

func (e *PublishError) Unwrap() error { return e.Err }
