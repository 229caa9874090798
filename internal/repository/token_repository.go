package repository

import (
	"context"
	"database/sql"
	"time"
)

// TokenRepo provides data access to the refresh_tokens table.  Only
// SHA-256 hashes of refresh tokens are ever stored; the raw value
// exists solely in the client's hands.
type TokenRepo struct {
	db *sql.DB
}

// NewTokenRepo returns a new TokenRepo bound to the given database.
func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{db: db} }

// Store persists the hash of a freshly issued refresh token.
func (r *TokenRepo) Store(ctx context.Context, userID uint64, tokenHash string, expiresAt time.Time) error {
	const q = `INSERT INTO refresh_tokens (user_id, token_hash, expires_at) VALUES (?, ?, ?)`
	_, err := r.db.ExecContext(ctx, q, userID, tokenHash, expiresAt.UTC())
	return err
}

// FindValid returns the owner of an unexpired, unrevoked refresh token
// hash.  sql.ErrNoRows covers unknown, expired and revoked tokens
// alike so callers cannot distinguish them.
func (r *TokenRepo) FindValid(ctx context.Context, tokenHash string, now time.Time) (uint64, error) {
	const q = `SELECT user_id FROM refresh_tokens
			   WHERE token_hash = ? AND revoked_at IS NULL AND expires_at > ?`
	var userID uint64
	if err := r.db.QueryRowContext(ctx, q, tokenHash, now.UTC()).Scan(&userID); err != nil {
		return 0, err
	}
	return userID, nil
}

// Revoke marks a refresh token as revoked.  Revoking an unknown or
// already revoked hash affects zero rows and is not an error.
func (r *TokenRepo) Revoke(ctx context.Context, tokenHash string, now time.Time) error {
	const q = `UPDATE refresh_tokens SET revoked_at = ? WHERE token_hash = ? AND revoked_at IS NULL`
	_, err := r.db.ExecContext(ctx, q, now.UTC(), tokenHash)
	return err
}
