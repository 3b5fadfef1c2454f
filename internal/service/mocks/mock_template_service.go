package mocks

import (
	"context"
	"io"

	"suratapi/internal/model"
	"suratapi/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockTemplateService struct {
	mock.Mock
}

func (m *MockTemplateService) Upload(ctx context.Context, r io.Reader, originalFilename string, size int64) (*model.Template, error) {
	args := m.Called(ctx, r, originalFilename, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Template), args.Error(1)
}

func (m *MockTemplateService) List(ctx context.Context) ([]model.Template, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Template), args.Error(1)
}

func (m *MockTemplateService) Get(ctx context.Context, id string) (*model.Template, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Template), args.Error(1)
}

func (m *MockTemplateService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTemplateService) Fields(ctx context.Context, id string) (*service.FormSpec, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.FormSpec), args.Error(1)
}

func (m *MockTemplateService) UpdateNumbering(ctx context.Context, id, format string, lastNumber int64) error {
	args := m.Called(ctx, id, format, lastNumber)
	return args.Error(0)
}

func (m *MockTemplateService) Search(ctx context.Context, q string) ([]model.Template, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Template), args.Error(1)
}
