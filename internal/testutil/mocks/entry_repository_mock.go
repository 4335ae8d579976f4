package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/sousa16/chesslab/internal/models"
	"github.com/sousa16/chesslab/internal/repository"
)

// MockEntryRepository is a mock implementation of repository.EntryRepository
type MockEntryRepository struct {
	mock.Mock
}

func (m *MockEntryRepository) Get(ctx context.Context, id int64) (*models.Entry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Entry), args.Error(1)
}

func (m *MockEntryRepository) ListForRepertoire(ctx context.Context, repertoireID int64) ([]models.Entry, error) {
	args := m.Called(ctx, repertoireID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Entry), args.Error(1)
}

func (m *MockEntryRepository) ListForUser(ctx context.Context, userID int64) ([]models.Entry, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Entry), args.Error(1)
}

func (m *MockEntryRepository) InsertLine(ctx context.Context, repertoireID int64, plies []models.Ply, card models.CardState) (int, error) {
	args := m.Called(ctx, repertoireID, plies, card)
	return args.Int(0), args.Error(1)
}

func (m *MockEntryRepository) DeleteBatch(ctx context.Context, repertoireID int64, ids []int64) (repository.DeleteResult, error) {
	args := m.Called(ctx, repertoireID, ids)
	return args.Get(0).(repository.DeleteResult), args.Error(1)
}

func (m *MockEntryRepository) UpdateCard(ctx context.Context, id, version int64, card models.CardState, review models.ReviewLog) (*models.Entry, error) {
	args := m.Called(ctx, id, version, card, review)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Entry), args.Error(1)
}

func (m *MockEntryRepository) ReviewHistory(ctx context.Context, entryID int64, limit int) ([]models.ReviewLog, error) {
	args := m.Called(ctx, entryID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ReviewLog), args.Error(1)
}
