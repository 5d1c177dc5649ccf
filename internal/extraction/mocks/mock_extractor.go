package mocks

import (
	"context"

	"docintake/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockExtractor struct {
	mock.Mock
}

func (m *MockExtractor) Extract(ctx context.Context, page model.EncodedPage) (model.PageExtraction, error) {
	args := m.Called(ctx, page)
	if f, ok := args.Get(0).(func(context.Context, model.EncodedPage) model.PageExtraction); ok {
		return f(ctx, page), args.Error(1)
	}
	return args.Get(0).(model.PageExtraction), args.Error(1)
}
