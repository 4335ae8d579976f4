package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/sousa16/chesslab/internal/models"
)

// MockRepertoireRepository is a mock implementation of repository.RepertoireRepository
type MockRepertoireRepository struct {
	mock.Mock
}

func (m *MockRepertoireRepository) Create(ctx context.Context, userID int64, color models.Color) (*models.Repertoire, error) {
	args := m.Called(ctx, userID, color)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Repertoire), args.Error(1)
}

func (m *MockRepertoireRepository) Get(ctx context.Context, userID int64, color models.Color) (*models.Repertoire, error) {
	args := m.Called(ctx, userID, color)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Repertoire), args.Error(1)
}

func (m *MockRepertoireRepository) GetByID(ctx context.Context, id int64) (*models.Repertoire, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Repertoire), args.Error(1)
}

func (m *MockRepertoireRepository) ListForUser(ctx context.Context, userID int64) ([]models.Repertoire, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Repertoire), args.Error(1)
}
