package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"docintake/internal/model"
	"docintake/internal/service"
)

type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) Ingest(ctx context.Context, orgID string, pages []model.UploadedPage) (*model.Document, error) {
	args := m.Called(ctx, orgID, pages)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentService) List(ctx context.Context, orgID string, limit, offset int) (*service.DocumentListResult, error) {
	args := m.Called(ctx, orgID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DocumentListResult), args.Error(1)
}

func (m *MockDocumentService) Get(ctx context.Context, orgID, id string) (*model.Document, error) {
	args := m.Called(ctx, orgID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentService) Delete(ctx context.Context, orgID, id string) error {
	args := m.Called(ctx, orgID, id)
	return args.Error(0)
}

func (m *MockDocumentService) PageURL(ctx context.Context, orgID, id string, page int) (string, error) {
	args := m.Called(ctx, orgID, id, page)
	return args.String(0), args.Error(1)
}
