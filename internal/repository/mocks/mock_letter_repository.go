package mocks

import (
	"context"
	"time"

	"suratapi/internal/model"
	"suratapi/internal/repository"

	"github.com/stretchr/testify/mock"
)

type MockLetterRepository struct {
	mock.Mock
}

func (m *MockLetterRepository) Create(ctx context.Context, l *model.Letter) (*model.Letter, error) {
	args := m.Called(ctx, l)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Letter), args.Error(1)
}

func (m *MockLetterRepository) FindByID(ctx context.Context, id string) (*model.Letter, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Letter), args.Error(1)
}

func (m *MockLetterRepository) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.Letter], error) {
	args := m.Called(ctx, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.Letter]), args.Error(1)
}

func (m *MockLetterRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockLetterRepository) Search(ctx context.Context, q string, limit int) ([]model.Letter, error) {
	args := m.Called(ctx, q, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Letter), args.Error(1)
}

func (m *MockLetterRepository) CountByMonth(ctx context.Context, since time.Time) ([]repository.MonthCount, error) {
	args := m.Called(ctx, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.MonthCount), args.Error(1)
}

func (m *MockLetterRepository) CountByType(ctx context.Context) (map[string]int, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int), args.Error(1)
}
