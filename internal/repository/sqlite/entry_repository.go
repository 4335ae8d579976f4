package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/sousa16/chesslab/internal/logger"
	"github.com/sousa16/chesslab/internal/models"
	"github.com/sousa16/chesslab/internal/repository"
)

var entryColumns = []string{
	"e.id", "e.repertoire_id", "e.position_id", "e.expected_move", "e.is_user_move",
	"e.interval_days", "e.ease_factor", "e.repetitions", "e.phase", "e.learning_step",
	"e.next_review_date", "e.last_review_date", "e.version", "e.created_at", "e.updated_at",
	"p.fen", "r.user_id", "r.color",
}

type entryRepository struct {
	db *sql.DB
}

// NewEntryRepository creates a new EntryRepository implementation
func NewEntryRepository(db *sql.DB) repository.EntryRepository {
	return &entryRepository{db: db}
}

func selectEntries() squirrel.SelectBuilder {
	return sqlBuilder.Select(entryColumns...).
		From("repertoire_entries e").
		Join("positions p ON p.id = e.position_id").
		Join("repertoires r ON r.id = e.repertoire_id")
}

func (r *entryRepository) Get(ctx context.Context, id int64) (*models.Entry, error) {
	log := logger.FromContext(ctx).WithPrefix("entry_repo")
	log.Debug("getting entry: id=%d", id)

	return getEntry(ctx, r.db, id)
}

func getEntry(ctx context.Context, db querier, id int64) (*models.Entry, error) {
	query, args, err := selectEntries().Where(squirrel.Eq{"e.id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	e, err := scanEntry(db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return e, err
}

func (r *entryRepository) ListForRepertoire(ctx context.Context, repertoireID int64) ([]models.Entry, error) {
	log := logger.FromContext(ctx).WithPrefix("entry_repo")
	log.Debug("listing entries: repertoire_id=%d", repertoireID)

	return r.list(ctx, selectEntries().Where(squirrel.Eq{"e.repertoire_id": repertoireID}))
}

func (r *entryRepository) ListForUser(ctx context.Context, userID int64) ([]models.Entry, error) {
	log := logger.FromContext(ctx).WithPrefix("entry_repo")
	log.Debug("listing entries: user_id=%d", userID)

	return r.list(ctx, selectEntries().Where(squirrel.Eq{"r.user_id": userID}))
}

func (r *entryRepository) list(ctx context.Context, q squirrel.SelectBuilder) ([]models.Entry, error) {
	log := logger.FromContext(ctx).WithPrefix("entry_repo")

	query, args, err := q.OrderBy("e.id ASC").ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query entries: %v", err)
		return nil, err
	}
	defer rows.Close()

	var out []models.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			log.Error("failed to scan entry row: %v", err)
			return nil, err
		}
		out = append(out, *e)
	}
	log.Debug("found %d entries", len(out))
	return out, rows.Err()
}

func (r *entryRepository) InsertLine(ctx context.Context, repertoireID int64, plies []models.Ply, card models.CardState) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("entry_repo")
	log.Debug("inserting line: repertoire_id=%d, plies=%d", repertoireID, len(plies))

	created := 0
	err := tx(ctx, r.db, func(tx *sql.Tx) error {
		positions := &positionRepository{db: tx}
		for _, p := range plies {
			posID, err := positions.GetOrCreate(ctx, p.FEN)
			if err != nil {
				return err
			}
			inserted, err := insertEntry(ctx, tx, repertoireID, posID, p, card)
			if err != nil {
				log.Error("failed to insert entry at position_id=%d: %v", posID, err)
				return err
			}
			if inserted {
				created++
				continue
			}
			if !p.UserMove {
				continue
			}
			var existing string
			err = tx.QueryRowContext(ctx, `
SELECT expected_move FROM repertoire_entries
WHERE repertoire_id = ? AND position_id = ? AND is_user_move = 1
`, repertoireID, posID).Scan(&existing)
			if err != nil {
				return err
			}
			if existing != p.Move {
				log.Debug("entry conflict at position_id=%d: stored=%s attempted=%s", posID, existing, p.Move)
				return &repository.EntryConflictError{FEN: p.FEN, Existing: existing, Attempted: p.Move}
			}
		}
		if created > 0 {
			return bumpVersion(ctx, tx, repertoireID)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	log.Debug("line inserted: repertoire_id=%d, created=%d", repertoireID, created)
	return created, nil
}

// insertEntry relies on the unique constraints to skip plies already stored.
func insertEntry(ctx context.Context, tx *sql.Tx, repertoireID, positionID int64, p models.Ply, card models.CardState) (bool, error) {
	now := utc(time.Now())
	query, args, err := sqlBuilder.Insert("repertoire_entries").
		Columns(
			"repertoire_id", "position_id", "expected_move", "is_user_move",
			"interval_days", "ease_factor", "repetitions", "phase", "learning_step",
			"next_review_date", "last_review_date", "created_at", "updated_at",
		).
		Values(
			repertoireID, positionID, p.Move, p.UserMove,
			card.IntervalDays, card.EaseFactor, card.Repetitions, string(card.Phase), nullInt(card.LearningStep),
			utc(card.NextReviewDate), nullTime(card.LastReviewDate), now, now,
		).
		Suffix("ON CONFLICT DO NOTHING").
		ToSql()
	if err != nil {
		return false, err
	}
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func bumpVersion(ctx context.Context, tx *sql.Tx, repertoireID int64) error {
	_, err := tx.ExecContext(ctx, `UPDATE repertoires SET version = version + 1 WHERE id = ?`, repertoireID)
	return err
}

func (r *entryRepository) DeleteBatch(ctx context.Context, repertoireID int64, ids []int64) (repository.DeleteResult, error) {
	log := logger.FromContext(ctx).WithPrefix("entry_repo")
	log.Debug("deleting entries: repertoire_id=%d, count=%d", repertoireID, len(ids))

	var result repository.DeleteResult
	if len(ids) == 0 {
		return result, nil
	}

	err := tx(ctx, r.db, func(tx *sql.Tx) error {
		where := squirrel.Eq{"repertoire_id": repertoireID, "id": ids}

		query, args, err := sqlBuilder.Select("DISTINCT position_id").From("repertoire_entries").Where(where).ToSql()
		if err != nil {
			return err
		}
		rows, err := tx.QueryContext(ctx, query, args...)
		if err != nil {
			return err
		}
		var positionIDs []int64
		for rows.Next() {
			var id int64
			if err := rows.Scan(&id); err != nil {
				rows.Close()
				return err
			}
			positionIDs = append(positionIDs, id)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}

		query, args, err = sqlBuilder.Delete("repertoire_entries").Where(where).ToSql()
		if err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			log.Error("failed to delete entries: %v", err)
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		result.Entries = int(n)

		positions := &positionRepository{db: tx}
		for _, id := range positionIDs {
			deleted, err := positions.DeleteIfOrphaned(ctx, id)
			if err != nil {
				return err
			}
			if deleted {
				result.Positions++
			}
		}
		if result.Entries > 0 {
			return bumpVersion(ctx, tx, repertoireID)
		}
		return nil
	})
	if err != nil {
		return repository.DeleteResult{}, err
	}
	log.Debug("deleted %d entries, %d positions", result.Entries, result.Positions)
	return result, nil
}

func (r *entryRepository) UpdateCard(ctx context.Context, id, version int64, card models.CardState, review models.ReviewLog) (*models.Entry, error) {
	log := logger.FromContext(ctx).WithPrefix("entry_repo")
	log.Debug("updating card: id=%d, version=%d, phase=%s, interval=%d, ease=%.2f",
		id, version, card.Phase, card.IntervalDays, card.EaseFactor)

	var updated *models.Entry
	err := tx(ctx, r.db, func(tx *sql.Tx) error {
		query, args, err := sqlBuilder.Update("repertoire_entries").
			Set("interval_days", card.IntervalDays).
			Set("ease_factor", card.EaseFactor).
			Set("repetitions", card.Repetitions).
			Set("phase", string(card.Phase)).
			Set("learning_step", nullInt(card.LearningStep)).
			Set("next_review_date", utc(card.NextReviewDate)).
			Set("last_review_date", nullTime(card.LastReviewDate)).
			Set("updated_at", utc(time.Now())).
			Set("version", squirrel.Expr("version + 1")).
			Where(squirrel.Eq{"id": id, "version": version}).
			ToSql()
		if err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			log.Error("failed to update card: %v", err)
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			log.Debug("stale card update: id=%d, version=%d", id, version)
			return repository.ErrStaleEntry
		}

		query, args, err = sqlBuilder.Insert("review_history").
			Columns("entry_id", "response", "phase_before", "phase_after", "interval_days", "ease_factor", "reviewed_at").
			Values(id, review.Response, string(review.PhaseBefore), string(review.PhaseAfter),
				review.IntervalDays, review.EaseFactor, utc(review.ReviewedAt)).
			ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			log.Error("failed to insert review history: %v", err)
			return err
		}

		updated, err = getEntry(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *entryRepository) ReviewHistory(ctx context.Context, entryID int64, limit int) ([]models.ReviewLog, error) {
	log := logger.FromContext(ctx).WithPrefix("entry_repo")
	log.Debug("fetching review history: entry_id=%d, limit=%d", entryID, limit)

	q := sqlBuilder.Select("id", "entry_id", "response", "phase_before", "phase_after", "interval_days", "ease_factor", "reviewed_at").
		From("review_history").
		Where(squirrel.Eq{"entry_id": entryID}).
		OrderBy("reviewed_at DESC", "id DESC")
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}
	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query review history: %v", err)
		return nil, err
	}
	defer rows.Close()

	var out []models.ReviewLog
	for rows.Next() {
		var l models.ReviewLog
		if err := rows.Scan(&l.ID, &l.EntryID, &l.Response, &l.PhaseBefore, &l.PhaseAfter, &l.IntervalDays, &l.EaseFactor, &l.ReviewedAt); err != nil {
			log.Error("failed to scan review row: %v", err)
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func scanEntry(row rowScanner) (*models.Entry, error) {
	var (
		e     models.Entry
		step  sql.NullInt64
		last  sql.NullTime
		color string
	)
	err := row.Scan(
		&e.ID, &e.RepertoireID, &e.PositionID, &e.ExpectedMove, &e.UserMove,
		&e.Card.IntervalDays, &e.Card.EaseFactor, &e.Card.Repetitions, &e.Card.Phase, &step,
		&e.Card.NextReviewDate, &last, &e.Version, &e.CreatedAt, &e.UpdatedAt,
		&e.FEN, &e.UserID, &color,
	)
	if err != nil {
		return nil, err
	}
	if step.Valid {
		e.Card.SetStep(int(step.Int64))
	}
	if last.Valid {
		t := last.Time
		e.Card.LastReviewDate = &t
	}
	e.Color = models.Color(color)
	return &e, nil
}
