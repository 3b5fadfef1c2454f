package mocks

import (
	"context"

	"suratapi/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockSettingsService struct {
	mock.Mock
}

func (m *MockSettingsService) Get(ctx context.Context) (*model.Settings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Settings), args.Error(1)
}

func (m *MockSettingsService) Update(ctx context.Context, s *model.Settings) (*model.Settings, error) {
	args := m.Called(ctx, s)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Settings), args.Error(1)
}
