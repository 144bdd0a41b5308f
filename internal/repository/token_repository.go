package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/avelios/catalog-api/internal/model"
)

// TokenRepo persists refresh tokens in the `refresh_tokens` table.  The
// invariant is one live token per user: Create rotates out any existing
// rows inside the same transaction that inserts the replacement, so two
// concurrent logins for one account cannot both leave a row behind.
type TokenRepo struct {
	DB      *sql.DB
	TTLDays int
}

func NewTokenRepo(db *sql.DB, ttlDays int) *TokenRepo {
	return &TokenRepo{DB: db, TTLDays: ttlDays}
}

// Create deletes every refresh token belonging to the user and inserts a
// fresh one with a random UUID value and expiry = now + TTL.  The
// delete-then-insert pair commits atomically; on any failure nothing is
// left partially created.
func (r *TokenRepo) Create(ctx context.Context, userID uint64) (model.RefreshToken, error) {
	tok := model.RefreshToken{
		UserID:    userID,
		Token:     uuid.NewString(),
		ExpiresAt: time.Now().UTC().Add(time.Duration(r.TTLDays) * 24 * time.Hour),
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return model.RefreshToken{}, err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM refresh_tokens WHERE user_id=?", userID); err != nil {
		return model.RefreshToken{}, err
	}
	res, err := tx.ExecContext(ctx,
		"INSERT INTO refresh_tokens (user_id, token, expires_at) VALUES (?,?,?)",
		tok.UserID, tok.Token, tok.ExpiresAt)
	if err != nil {
		return model.RefreshToken{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.RefreshToken{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.RefreshToken{}, err
	}
	tok.ID = uint64(id)
	return tok, nil
}

// FindByValue looks a refresh token up by its opaque value.
func (r *TokenRepo) FindByValue(ctx context.Context, value string) (model.RefreshToken, error) {
	var t model.RefreshToken
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,user_id,token,expires_at FROM refresh_tokens WHERE token=? LIMIT 1",
		value).Scan(&t.ID, &t.UserID, &t.Token, &t.ExpiresAt)
	if err == sql.ErrNoRows {
		return model.RefreshToken{}, ErrTokenNotFound
	}
	return t, err
}

// VerifyNotExpired returns the token unchanged when it is still live.
// An expired token is deleted eagerly and ErrTokenExpired is returned;
// there is no background sweep, stale rows go away on their next use.
func (r *TokenRepo) VerifyNotExpired(ctx context.Context, tok model.RefreshToken) (model.RefreshToken, error) {
	if tok.Expired(time.Now()) {
		if _, err := r.DB.ExecContext(ctx,
			"DELETE FROM refresh_tokens WHERE id=?", tok.ID); err != nil {
			return model.RefreshToken{}, err
		}
		return model.RefreshToken{}, ErrTokenExpired
	}
	return tok, nil
}

// DeleteAllForUser removes every refresh token owned by the user.  Used
// for logout and administrative account teardown.
func (r *TokenRepo) DeleteAllForUser(ctx context.Context, userID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"DELETE FROM refresh_tokens WHERE user_id=?", userID)
	return err
}
