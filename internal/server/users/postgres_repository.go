package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/anikulin/linkstash/internal/common"
	"github.com/anikulin/linkstash/internal/dbx"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func insertUser(ctx context.Context, db dbx.DBTX, user *User) error {
	query := `
		INSERT INTO users (email, name, thumbnail, created, last_login)
		VALUES ($1, $2, $3, $4, $5)
	`
	now := time.Now()
	if user.Created.IsZero() {
		user.Created = now
		user.LastLogin = now
	}
	if _, err := db.ExecContext(ctx, query,
		user.Email, user.Name, user.Thumbnail, user.Created, user.LastLogin); err != nil {
		return fmt.Errorf("%w: inserting user: %v", common.ErrStorage, err)
	}
	return nil
}

func (r *PostgresRepository) Create(ctx context.Context, user *User) error {
	return insertUser(ctx, r.db, user)
}

// CreateWithCredential writes the user and credential rows in one
// transaction, so a duplicate email cannot leave a half-registered
// account behind.
func (r *PostgresRepository) CreateWithCredential(ctx context.Context, user *User, cred *Credential) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := insertUser(ctx, tx, user); err != nil {
			return err
		}
		query := `INSERT INTO credentials (email, password_hash) VALUES ($1, $2)`
		if _, err := tx.ExecContext(ctx, query, cred.Email, cred.PasswordHash); err != nil {
			return fmt.Errorf("%w: inserting credential: %v", common.ErrStorage, err)
		}
		return nil
	})
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	query := `SELECT email, name, thumbnail, created, last_login FROM users WHERE email = $1`

	user := &User{}
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&user.Email, &user.Name, &user.Thumbnail, &user.Created, &user.LastLogin)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("selecting user: %w", err)
	}
	return user, nil
}

func (r *PostgresRepository) GetCredential(ctx context.Context, email string) (*Credential, error) {
	query := `SELECT email, password_hash FROM credentials WHERE email = $1`

	cred := &Credential{}
	err := r.db.QueryRowContext(ctx, query, email).Scan(&cred.Email, &cred.PasswordHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("selecting credential: %w", err)
	}
	return cred, nil
}
