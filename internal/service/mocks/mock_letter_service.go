package mocks

import (
	"context"
	"io"

	"suratapi/internal/model"
	"suratapi/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockLetterService struct {
	mock.Mock
}

func (m *MockLetterService) Generate(ctx context.Context, in service.GenerateInput) (*model.Letter, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Letter), args.Error(1)
}

func (m *MockLetterService) Archive(ctx context.Context, r io.Reader, size int64, in service.ArchiveInput) (*model.Letter, error) {
	args := m.Called(ctx, r, size, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Letter), args.Error(1)
}

func (m *MockLetterService) List(ctx context.Context, limit, offset int) (*service.LetterListResult, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.LetterListResult), args.Error(1)
}

func (m *MockLetterService) Get(ctx context.Context, id string) (*model.Letter, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Letter), args.Error(1)
}

func (m *MockLetterService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockLetterService) Download(ctx context.Context, id string) (io.ReadCloser, *model.Letter, error) {
	args := m.Called(ctx, id)
	rc, _ := args.Get(0).(io.ReadCloser)
	letter, _ := args.Get(1).(*model.Letter)
	return rc, letter, args.Error(2)
}

func (m *MockLetterService) RenderPDF(ctx context.Context, id string) ([]byte, *model.Letter, error) {
	args := m.Called(ctx, id)
	doc, _ := args.Get(0).([]byte)
	letter, _ := args.Get(1).(*model.Letter)
	return doc, letter, args.Error(2)
}

func (m *MockLetterService) Search(ctx context.Context, q string) ([]model.Letter, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Letter), args.Error(1)
}

func (m *MockLetterService) Stats(ctx context.Context) (*service.Stats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Stats), args.Error(1)
}
