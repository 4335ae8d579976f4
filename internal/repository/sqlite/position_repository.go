package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/sousa16/chesslab/internal/logger"
	"github.com/sousa16/chesslab/internal/models"
	"github.com/sousa16/chesslab/internal/repository"
)

type positionRepository struct {
	db querier
}

// NewPositionRepository creates a new PositionRepository implementation
func NewPositionRepository(db *sql.DB) repository.PositionRepository {
	return &positionRepository{db: db}
}

// GetOrCreate never reads before writing: the insert is a no-op when the FEN
// exists and the follow-up select sees whichever row won.
func (r *positionRepository) GetOrCreate(ctx context.Context, fen string) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("position_repo")
	log.Debug("get or create position: fen=%s", fen)

	query, args, err := sqlBuilder.Insert("positions").
		Columns("fen").
		Values(fen).
		Suffix("ON CONFLICT(fen) DO NOTHING").
		ToSql()
	if err != nil {
		return 0, err
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		log.Error("failed to insert position: %v", err)
		return 0, err
	}

	var id int64
	if err := r.db.QueryRowContext(ctx, `SELECT id FROM positions WHERE fen = ?`, fen).Scan(&id); err != nil {
		log.Error("failed to read position id: %v", err)
		return 0, err
	}
	log.Debug("position resolved: id=%d", id)
	return id, nil
}

func (r *positionRepository) Get(ctx context.Context, id int64) (*models.Position, error) {
	return r.getBy(ctx, squirrel.Eq{"id": id})
}

func (r *positionRepository) GetByFEN(ctx context.Context, fen string) (*models.Position, error) {
	return r.getBy(ctx, squirrel.Eq{"fen": fen})
}

func (r *positionRepository) getBy(ctx context.Context, where squirrel.Eq) (*models.Position, error) {
	log := logger.FromContext(ctx).WithPrefix("position_repo")
	log.Debug("getting position: %v", where)

	query, args, err := sqlBuilder.Select("id", "fen", "created_at").From("positions").Where(where).ToSql()
	if err != nil {
		return nil, err
	}
	var p models.Position
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&p.ID, &p.FEN, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("position not found: %v", where)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get position: %v", err)
		return nil, err
	}
	return &p, nil
}

func (r *positionRepository) DeleteIfOrphaned(ctx context.Context, id int64) (bool, error) {
	log := logger.FromContext(ctx).WithPrefix("position_repo")
	log.Debug("deleting position if orphaned: id=%d", id)

	res, err := r.db.ExecContext(ctx, `
DELETE FROM positions
WHERE id = ?
AND NOT EXISTS (SELECT 1 FROM repertoire_entries WHERE position_id = ?)
`, id, id)
	if err != nil {
		log.Error("failed to delete position: %v", err)
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	log.Debug("position id=%d deleted=%t", id, n > 0)
	return n > 0, nil
}

func (r *positionRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM positions`).Scan(&n)
	return n, err
}
