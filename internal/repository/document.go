// Package repository contains data access layer abstractions.
// Implementations live in subpackages (e.g., postgres) inside this directory.
package repository

import (
	"context"

	"docintake/internal/model"
)

// DocumentRepository defines data access for canonical documents using SQL queries only.
// Every read and delete is scoped to an organization.
type DocumentRepository interface {
	// Create inserts a new document record and returns the stored row.
	Create(ctx context.Context, doc *model.Document) (*model.Document, error)

	// FindByID returns a document of the organization by its ID, or sql.ErrNoRows.
	FindByID(ctx context.Context, orgID, id string) (*model.Document, error)

	// List returns a page of the organization's documents and the total row count.
	List(ctx context.Context, orgID string, pq PageQuery) (*PageResult[model.Document], error)

	// Delete removes a document by ID. It returns nil if the row was deleted or did not exist.
	Delete(ctx context.Context, orgID, id string) error
}

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
type PageResult[T any] struct {
	Items []T
	Total int
}
