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

var repertoireColumns = []string{"id", "user_id", "color", "version", "created_at"}

type repertoireRepository struct {
	db *sql.DB
}

// NewRepertoireRepository creates a new RepertoireRepository implementation
func NewRepertoireRepository(db *sql.DB) repository.RepertoireRepository {
	return &repertoireRepository{db: db}
}

func (r *repertoireRepository) Create(ctx context.Context, userID int64, color models.Color) (*models.Repertoire, error) {
	log := logger.FromContext(ctx).WithPrefix("repertoire_repo")
	log.Debug("creating repertoire: user_id=%d, color=%s", userID, color)

	query, args, err := sqlBuilder.Insert("repertoires").
		Columns("user_id", "color").
		Values(userID, string(color)).
		Suffix("ON CONFLICT(user_id, color) DO NOTHING").
		ToSql()
	if err != nil {
		return nil, err
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		log.Error("failed to insert repertoire: %v", err)
		return nil, err
	}
	return r.Get(ctx, userID, color)
}

func (r *repertoireRepository) Get(ctx context.Context, userID int64, color models.Color) (*models.Repertoire, error) {
	return r.getBy(ctx, squirrel.Eq{"user_id": userID, "color": string(color)})
}

func (r *repertoireRepository) GetByID(ctx context.Context, id int64) (*models.Repertoire, error) {
	return r.getBy(ctx, squirrel.Eq{"id": id})
}

func (r *repertoireRepository) getBy(ctx context.Context, where squirrel.Eq) (*models.Repertoire, error) {
	log := logger.FromContext(ctx).WithPrefix("repertoire_repo")
	log.Debug("getting repertoire: %v", where)

	query, args, err := sqlBuilder.Select(repertoireColumns...).From("repertoires").Where(where).ToSql()
	if err != nil {
		return nil, err
	}
	rep, err := scanRepertoire(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("repertoire not found: %v", where)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get repertoire: %v", err)
		return nil, err
	}
	return rep, nil
}

func (r *repertoireRepository) ListForUser(ctx context.Context, userID int64) ([]models.Repertoire, error) {
	log := logger.FromContext(ctx).WithPrefix("repertoire_repo")
	log.Debug("listing repertoires: user_id=%d", userID)

	query, args, err := sqlBuilder.Select(repertoireColumns...).
		From("repertoires").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("color DESC").
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list repertoires: %v", err)
		return nil, err
	}
	defer rows.Close()

	var out []models.Repertoire
	for rows.Next() {
		rep, err := scanRepertoire(rows)
		if err != nil {
			log.Error("failed to scan repertoire row: %v", err)
			return nil, err
		}
		out = append(out, *rep)
	}
	log.Debug("found %d repertoires", len(out))
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRepertoire(row rowScanner) (*models.Repertoire, error) {
	var rep models.Repertoire
	var color string
	if err := row.Scan(&rep.ID, &rep.UserID, &color, &rep.Version, &rep.CreatedAt); err != nil {
		return nil, err
	}
	rep.Color = models.Color(color)
	return &rep, nil
}
