package mocks

import (
	"context"

	"suratapi/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockTemplateRepository struct {
	mock.Mock
}

func (m *MockTemplateRepository) Create(ctx context.Context, t *model.Template) (*model.Template, error) {
	args := m.Called(ctx, t)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Template), args.Error(1)
}

func (m *MockTemplateRepository) FindByID(ctx context.Context, id string) (*model.Template, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Template), args.Error(1)
}

func (m *MockTemplateRepository) List(ctx context.Context) ([]model.Template, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Template), args.Error(1)
}

func (m *MockTemplateRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTemplateRepository) UpdateNumbering(ctx context.Context, id, format string, lastNumber int64) error {
	args := m.Called(ctx, id, format, lastNumber)
	return args.Error(0)
}

func (m *MockTemplateRepository) IncrementCounter(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
