package extraction

import (
	"context"
	"fmt"
	"net/http"

	"docintake/internal/model"
)

// SystemInstruction is sent with every page. The model must answer with the four keys only.
const SystemInstruction = `You are a metadata extractor for scanned research papers.
Read the page image and return ONLY a single valid JSON object with exactly these keys:
"title" (string or null), "authors" (array of strings), "department" (string or null), "data" (string or null).
If the title, department or body text is not visible on this page use null. If no authors are visible use [].
"data" is a faithful plain-text transcription of the page body.
Do not add any other keys, commentary, markdown or code fences.`

// UserInstruction accompanies the page image.
const UserInstruction = "Extract the title, authors, department and body text from this page."

// Extractor turns one encoded page into structured data.
// Implementations do not retry; a failed call surfaces as *ServiceError or *ParseError.
type Extractor interface {
	Extract(ctx context.Context, page model.EncodedPage) (model.PageExtraction, error)
}

// ServiceError reports that the upstream extraction service could not be reached or refused the call.
type ServiceError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *ServiceError) Error() string {
	switch {
	case e.StatusCode != 0:
		return fmt.Sprintf("extraction service status %d: %s", e.StatusCode, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("extraction service: %v", e.Err)
	default:
		return "extraction service: " + e.Message
	}
}

func (e *ServiceError) Unwrap() error { return e.Err }

// RateLimited reports whether the upstream rejected the call for quota reasons.
func (e *ServiceError) RateLimited() bool {
	return e.StatusCode == http.StatusTooManyRequests
}

// ParseError reports an upstream answer that is not a JSON object.
type ParseError struct {
	Content string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("unparseable extraction response: %v", e.Err)
	}
	return "unparseable extraction response"
}

func (e *ParseError) Unwrap() error { return e.Err }

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
