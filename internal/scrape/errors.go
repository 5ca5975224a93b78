package scrape

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/closetly/product-scraper/internal/model"
)

// Code classifies a scrape failure. Callers branch on the code: blocked
// and hard-block failures suggest manual entry, incomplete extraction
// carries a partial record worth correcting, transient codes are worth a
// retry.
type Code string

const (
	CodeInvalidInput         Code = "invalid_input"
	CodeProviderUnavailable  Code = "provider_unavailable"
	CodeBlocked              Code = "blocked"
	CodeUpstreamError        Code = "upstream_error"
	CodeNoResponse           Code = "no_response"
	CodeExtractionIncomplete Code = "extraction_incomplete"
	CodeRetailerHardBlock    Code = "retailer_hard_block"
)

// maxSnippetLen bounds how much upstream body is carried in an error.
const maxSnippetLen = 300

// Error is a typed scrape failure.
type Error struct {
	Code       Code
	Message    string
	StatusCode int                  // upstream HTTP status, when relevant
	Snippet    string               // bounded upstream body excerpt
	Suggestion string               // user-actionable hint
	Partial    *model.ProductRecord // attached on incomplete extraction
	cause      error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("scrape: %s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("scrape: %s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// AsError unwraps a typed scrape error from an error chain.
func AsError(err error) (*Error, bool) {
	var se *Error
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// HTTPStatus maps a failure code onto a response status. Incomplete
// extraction is deliberately not a 500: the caller gets the partial
// record back for manual recovery.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeInvalidInput:
		return http.StatusBadRequest
	case CodeExtractionIncomplete:
		return http.StatusUnprocessableEntity
	case CodeProviderUnavailable:
		return http.StatusServiceUnavailable
	case CodeBlocked, CodeUpstreamError, CodeNoResponse, CodeRetailerHardBlock:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func snippet(body string) string {
	if len(body) > maxSnippetLen {
		return body[:maxSnippetLen]
	}
	return body
}
