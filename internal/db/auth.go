package db

import (
	"context"

	"github.com/ashherx/coin-bounce/internal/model"
)

const userColumns = `id, username, email, name, password_hash, created_at, updated_at`

func (db *Postgres) UserExistsByEmail(ctx context.Context, email string) (bool, error) {
	return db.exists(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email)
}

func (db *Postgres) UserExistsByUsername(ctx context.Context, username string) (bool, error) {
	return db.exists(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`, username)
}

func (db *Postgres) exists(ctx context.Context, query string, arg any) (bool, error) {
	var found bool
	if err := db.Pool.QueryRow(ctx, query, arg).Scan(&found); err != nil {
		return false, mapError(err)
	}
	return found, nil
}

func (db *Postgres) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return db.getUser(ctx, query, username)
}

func (db *Postgres) GetUserByID(ctx context.Context, userID string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return db.getUser(ctx, query, userID)
}

func (db *Postgres) getUser(ctx context.Context, query string, arg any) (*model.User, error) {
	var user model.User
	err := db.Pool.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.Name,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, mapError(err)
	}
	return &user, nil
}

// CreateUserWithRefreshToken inserts the user and its first ledger row in a
// single transaction.
func (db *Postgres) CreateUserWithRefreshToken(ctx context.Context, user *model.User, tokenHash string) (*model.User, error) {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	created := *user
	err = tx.QueryRow(ctx, `
		INSERT INTO users (id, username, email, name, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING created_at, updated_at
	`, user.ID, user.Username, user.Email, user.Name, user.PasswordHash).Scan(&created.CreatedAt, &created.UpdatedAt)
	if err != nil {
		return nil, mapError(err)
	}

	if _, err = tx.Exec(ctx, upsertRefreshTokenQuery, user.ID, tokenHash); err != nil {
		return nil, mapError(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, mapError(err)
	}
	return &created, nil
}

const upsertRefreshTokenQuery = `
	INSERT INTO refresh_tokens (user_id, token_hash, updated_at)
	VALUES ($1, $2, NOW())
	ON CONFLICT (user_id) DO UPDATE
	SET token_hash = EXCLUDED.token_hash, updated_at = NOW()
`

func (db *Postgres) UpsertRefreshToken(ctx context.Context, userID, tokenHash string) error {
	_, err := db.Pool.Exec(ctx, upsertRefreshTokenQuery, userID, tokenHash)
	return mapError(err)
}

func (db *Postgres) FindRefreshToken(ctx context.Context, userID, tokenHash string) (*model.RefreshToken, error) {
	query := `
		SELECT user_id, token_hash, updated_at
		FROM refresh_tokens
		WHERE user_id = $1 AND token_hash = $2
	`
	var token model.RefreshToken
	err := db.Pool.QueryRow(ctx, query, userID, tokenHash).Scan(
		&token.UserID,
		&token.TokenHash,
		&token.UpdatedAt,
	)
	if err != nil {
		return nil, mapError(err)
	}
	return &token, nil
}

// RotateRefreshToken swaps oldHash for newHash only if oldHash is still the
// live token. It reports false when another request got there first.
func (db *Postgres) RotateRefreshToken(ctx context.Context, userID, oldHash, newHash string) (bool, error) {
	tag, err := db.Pool.Exec(ctx, `
		UPDATE refresh_tokens
		SET token_hash = $3, updated_at = NOW()
		WHERE user_id = $1 AND token_hash = $2
	`, userID, oldHash, newHash)
	if err != nil {
		return false, mapError(err)
	}
	return tag.RowsAffected() == 1, nil
}

func (db *Postgres) DeleteRefreshTokenByHash(ctx context.Context, tokenHash string) error {
	_, err := db.Pool.Exec(ctx, `DELETE FROM refresh_tokens WHERE token_hash = $1`, tokenHash)
	return mapError(err)
}
