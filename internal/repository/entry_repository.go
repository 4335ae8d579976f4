package repository

import (
	"context"

	"github.com/sousa16/chesslab/internal/models"
)

// EntryRepository handles repertoire entries and their review log
type EntryRepository interface {
	Get(ctx context.Context, id int64) (*models.Entry, error)
	ListForRepertoire(ctx context.Context, repertoireID int64) ([]models.Entry, error)
	ListForUser(ctx context.Context, userID int64) ([]models.Entry, error)

	// InsertLine stores every ply in one transaction, creating positions as
	// needed. Existing entries keep their card state. It returns the number of
	// entries created and bumps the repertoire version when that is positive.
	InsertLine(ctx context.Context, repertoireID int64, plies []models.Ply, card models.CardState) (int, error)

	// DeleteBatch removes ids from the repertoire and sweeps positions left
	// without entries, all in one transaction.
	DeleteBatch(ctx context.Context, repertoireID int64, ids []int64) (DeleteResult, error)

	// UpdateCard writes card only if the entry is still at version and
	// records the review in the same transaction. A lost race returns
	// ErrStaleEntry.
	UpdateCard(ctx context.Context, id, version int64, card models.CardState, review models.ReviewLog) (*models.Entry, error)

	ReviewHistory(ctx context.Context, entryID int64, limit int) ([]models.ReviewLog, error)
}

// DeleteResult reports what a DeleteBatch removed.
type DeleteResult struct {
	Entries   int
	Positions int
}
