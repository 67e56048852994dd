package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/healthecon360/analytics-api/internal/repository"
)

const (
	tokenKindVerification = "verification"
	tokenKindReset        = "reset"
)

type tokenRepository struct {
	BaseRepository
}

func NewTokenRepository(base BaseRepository) repository.TokenRepository {
	return &tokenRepository{base}
}

func (r *tokenRepository) store(ctx context.Context, userID uuid.UUID, token, kind string, expiry time.Time) error {
	query := `
		INSERT INTO auth_tokens (token, user_id, kind, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.ExecContext(ctx, query, token, userID, kind, expiry, time.Now())
	if err != nil {
		return fmt.Errorf("failed to store %s token: %w", kind, err)
	}
	return nil
}

func (r *tokenRepository) validate(ctx context.Context, token, kind string) (uuid.UUID, error) {
	query := `
		SELECT user_id
		FROM auth_tokens
		WHERE token = $1 AND kind = $2 AND expires_at > now()
	`
	var userID uuid.UUID
	if err := r.GetContext(ctx, &userID, query, token, kind); err != nil {
		return uuid.Nil, fmt.Errorf("invalid or expired token")
	}
	return userID, nil
}

func (r *tokenRepository) StoreVerificationToken(ctx context.Context, userID uuid.UUID, token string, expiry time.Time) error {
	return r.store(ctx, userID, token, tokenKindVerification, expiry)
}

func (r *tokenRepository) ValidateVerificationToken(ctx context.Context, token string) (uuid.UUID, error) {
	return r.validate(ctx, token, tokenKindVerification)
}

func (r *tokenRepository) StoreResetToken(ctx context.Context, userID uuid.UUID, token string, expiry time.Time) error {
	return r.store(ctx, userID, token, tokenKindReset, expiry)
}

func (r *tokenRepository) ValidateResetToken(ctx context.Context, token string) (uuid.UUID, error) {
	return r.validate(ctx, token, tokenKindReset)
}

func (r *tokenRepository) InvalidateToken(ctx context.Context, token string) error {
	_, err := r.ExecContext(ctx, `DELETE FROM auth_tokens WHERE token = $1`, token)
	if err != nil {
		return fmt.Errorf("failed to invalidate token: %w", err)
	}
	return nil
}
