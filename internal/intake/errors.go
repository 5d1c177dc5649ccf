package intake

import (
	"errors"
	"fmt"
)

// ErrEmptyBatch is returned when a batch carries no pages.
var ErrEmptyBatch = errors.New("no pages submitted")

// BatchExtractionError rejects a whole batch because one of its pages failed.
// Err is the first page failure observed; errors.As reaches the underlying extraction error.
type BatchExtractionError struct {
	PageIndex int
	Filename  string
	Err       error
}

func (e *BatchExtractionError) Error() string {
	return fmt.Sprintf("batch extraction failed at page %d (%s): %v", e.PageIndex, e.Filename, e.Err)
}

func (e *BatchExtractionError) Unwrap() error { return e.Err }
