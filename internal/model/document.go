package model

import "time"

const (
	// UnknownTitle is stored when no page yields a title.
	UnknownTitle = "Unknown Title"
	// UnknownDepartment is stored when no page yields a department.
	UnknownDepartment = "Unknown Department"
)

// Document is the canonical record merged from every page of one intake batch.
// This is a pure domain model with no database-specific dependencies or tags.
type Document struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organization_id"`
	Title          string    `json:"title"`
	Authors        []string  `json:"authors"`
	Department     string    `json:"department"`
	Data           string    `json:"data"`
	SourcePages    []string  `json:"source_pages"`
	CreatedAt      time.Time `json:"created_at"`
}
