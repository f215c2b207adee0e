package accounts

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/parleyhq/parley/internal/platform/db"
	"github.com/parleyhq/parley/internal/shared"
)

// Repository defines persistence operations for account records.
type Repository interface {
	Create(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	ListOthers(ctx context.Context, excludeID string) ([]User, error)
	Update(ctx context.Context, user *User) (*User, error)
	Delete(ctx context.Context, id string) error
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const userColumns = `id, full_name, email, phone, password_hash, avatar_url, created_at, updated_at`

// Create inserts a new account. The existence check and the insert run in one
// transaction; the unique indexes on email and phone backstop concurrent
// registrations, so a conflict never leaves a partial write.
func (r *PGRepository) Create(ctx context.Context, user *User) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		var exists bool
		err := tx.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM users WHERE email = $1 OR phone = $2)`,
			user.Email, user.Phone,
		).Scan(&exists)
		if err != nil {
			return err
		}
		if exists {
			return shared.ErrConflict
		}

		now := time.Now().UTC()
		user.CreatedAt = now
		user.UpdatedAt = now
		_, err = tx.Exec(ctx,
			`INSERT INTO users (id, full_name, email, phone, password_hash, avatar_url, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			user.ID, user.FullName, user.Email, user.Phone, user.PasswordHash, user.AvatarURL, user.CreatedAt, user.UpdatedAt,
		)
		if isUniqueViolation(err) {
			return shared.ErrConflict
		}
		return err
	})
}

// FindByID fetches an account by its identifier.
func (r *PGRepository) FindByID(ctx context.Context, id string) (*User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// FindByEmail fetches an account by normalized email.
func (r *PGRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

// ListOthers returns every account except the one identified by excludeID.
func (r *PGRepository) ListOthers(ctx context.Context, excludeID string) ([]User, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+userColumns+` FROM users WHERE id <> $1 ORDER BY created_at`, excludeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []User{}
	for rows.Next() {
		var user User
		if err := scanUser(rows, &user); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

// Update writes the mutable profile fields and returns the stored record.
// The password hash is deliberately not part of the update set.
func (r *PGRepository) Update(ctx context.Context, user *User) (*User, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE users
		 SET full_name = $2, email = $3, phone = $4, avatar_url = $5, updated_at = now()
		 WHERE id = $1
		 RETURNING `+userColumns,
		user.ID, user.FullName, user.Email, user.Phone, user.AvatarURL,
	)
	var updated User
	if err := scanUser(row, &updated); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrUserNotFound
		}
		if isUniqueViolation(err) {
			return nil, shared.ErrConflict
		}
		return nil, err
	}
	return &updated, nil
}

// Delete removes an account.
func (r *PGRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrUserNotFound
	}
	return nil
}

func (r *PGRepository) findOne(ctx context.Context, query string, arg any) (*User, error) {
	var user User
	if err := scanUser(r.pool.QueryRow(ctx, query, arg), &user); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner, user *User) error {
	return row.Scan(
		&user.ID, &user.FullName, &user.Email, &user.Phone,
		&user.PasswordHash, &user.AvatarURL, &user.CreatedAt, &user.UpdatedAt,
	)
}

// isUniqueViolation reports whether err is a Postgres unique constraint error.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ Repository = (*PGRepository)(nil)
