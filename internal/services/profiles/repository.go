package profiles

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/killallgit/fraza-api/internal/models"
	apperrors "github.com/killallgit/fraza-api/pkg/errors"
)

// RepositoryImpl implements the Repository interface
type RepositoryImpl struct {
	db *gorm.DB
}

// NewRepository creates a new profile repository
func NewRepository(db *gorm.DB) Repository {
	return &RepositoryImpl{db: db}
}

// GetByUserID retrieves a profile by user ID
func (r *RepositoryImpl) GetByUserID(ctx context.Context, userID string) (*models.UserProfile, error) {
	var profile models.UserProfile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("profile", userID)
		}
		return nil, apperrors.DatabaseError("get profile", err)
	}
	return &profile, nil
}

// Create inserts a profile. A second profile for the same user is rejected.
func (r *RepositoryImpl) Create(ctx context.Context, profile *models.UserProfile) error {
	if err := r.db.WithContext(ctx).Create(profile).Error; err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("profile", profile.UserID)
		}
		return apperrors.DatabaseError("create profile", err)
	}
	return nil
}

// isUniqueViolation recognises duplicate-key errors from both sqlite and postgres
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "SQLSTATE 23505")
}
