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

var userColumns = []string{"id", "username", "reminders_enabled", "created_at"}

type userRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new UserRepository implementation
func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Upsert(ctx context.Context, username string) (*models.User, error) {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("upserting user: %s", username)

	var u models.User
	err := r.db.QueryRowContext(ctx, `
INSERT INTO users (username)
VALUES (?)
ON CONFLICT(username) DO UPDATE SET username = excluded.username
RETURNING id, username, reminders_enabled, created_at
`, username).Scan(&u.ID, &u.Username, &u.RemindersEnabled, &u.CreatedAt)
	if err != nil {
		log.Error("failed to upsert user: %v", err)
		return nil, err
	}
	log.Debug("user upserted: id=%d", u.ID)
	return &u, nil
}

func (r *userRepository) Get(ctx context.Context, id int64) (*models.User, error) {
	return r.getBy(ctx, squirrel.Eq{"id": id})
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.getBy(ctx, squirrel.Eq{"username": username})
}

func (r *userRepository) getBy(ctx context.Context, where squirrel.Eq) (*models.User, error) {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("getting user: %v", where)

	query, args, err := sqlBuilder.Select(userColumns...).From("users").Where(where).ToSql()
	if err != nil {
		return nil, err
	}
	var u models.User
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&u.ID, &u.Username, &u.RemindersEnabled, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("user not found: %v", where)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get user: %v", err)
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) List(ctx context.Context) ([]models.User, error) {
	return r.list(ctx, nil)
}

func (r *userRepository) ListWithReminders(ctx context.Context) ([]models.User, error) {
	return r.list(ctx, squirrel.Eq{"reminders_enabled": true})
}

func (r *userRepository) list(ctx context.Context, where squirrel.Sqlizer) ([]models.User, error) {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("listing users")

	q := sqlBuilder.Select(userColumns...).From("users").OrderBy("id ASC")
	if where != nil {
		q = q.Where(where)
	}
	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list users: %v", err)
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username, &u.RemindersEnabled, &u.CreatedAt); err != nil {
			log.Error("failed to scan user row: %v", err)
			return nil, err
		}
		users = append(users, u)
	}
	log.Debug("found %d users", len(users))
	return users, rows.Err()
}

func (r *userRepository) SetReminders(ctx context.Context, id int64, enabled bool) error {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("setting reminders: user_id=%d, enabled=%t", id, enabled)

	query, args, err := sqlBuilder.Update("users").
		Set("reminders_enabled", enabled).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		log.Error("failed to update reminders: %v", err)
		return err
	}
	return nil
}

// Delete removes the user. Repertoires and entries cascade; positions they
// leave unreferenced are swept in the same transaction.
func (r *userRepository) Delete(ctx context.Context, id int64) error {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("deleting user and related data: id=%d", id)

	return tx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id); err != nil {
			log.Error("failed to delete user %d: %v", id, err)
			return err
		}
		res, err := tx.ExecContext(ctx, `
DELETE FROM positions
WHERE NOT EXISTS (SELECT 1 FROM repertoire_entries e WHERE e.position_id = positions.id)
`)
		if err != nil {
			log.Error("failed to sweep positions: %v", err)
			return err
		}
		n, _ := res.RowsAffected()
		log.Info("user %d deleted, %d orphaned positions removed", id, n)
		return nil
	})
}
