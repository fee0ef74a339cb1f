package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/kutbudev/foodgram/pkg/models"
	"gorm.io/gorm"
)

// TokenRepository keeps the server side records of issued auth tokens.
type TokenRepository struct {
	DB *gorm.DB
}

// NewTokenRepository creates and returns a new TokenRepository.
func NewTokenRepository(db *gorm.DB) *TokenRepository {
	return &TokenRepository{DB: db}
}

// Create stores a token record.
func (r *TokenRepository) Create(ctx context.Context, token *models.AuthToken) error {
	if err := r.DB.WithContext(ctx).Create(token).Error; err != nil {
		return fmt.Errorf("create token: %w", err)
	}
	return nil
}

// Active reports whether the token row exists for userID and has not expired.
func (r *TokenRepository) Active(ctx context.Context, id string, userID uint, now time.Time) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&models.AuthToken{}).
		Where("id = ? AND user_id = ? AND expires_at > ?", id, userID, now).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check token: %w", err)
	}
	return count > 0, nil
}

// Delete revokes a token.
func (r *TokenRepository) Delete(ctx context.Context, id string) error {
	if err := r.DB.WithContext(ctx).Where("id = ?", id).Delete(&models.AuthToken{}).Error; err != nil {
		return fmt.Errorf("delete token: %w", err)
	}
	return nil
}

// DeleteExpired purges rows past their expiry and returns how many went.
func (r *TokenRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.DB.WithContext(ctx).Where("expires_at <= ?", now).Delete(&models.AuthToken{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete expired tokens: %w", res.Error)
	}
	return res.RowsAffected, nil
}
