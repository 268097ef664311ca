package profiles

import (
	"context"

	"github.com/killallgit/fraza-api/internal/models"
)

// Repository defines the interface for profile data access
type Repository interface {
	GetByUserID(ctx context.Context, userID string) (*models.UserProfile, error)
	Create(ctx context.Context, profile *models.UserProfile) error
}

// Service defines the interface for profile business logic
type Service interface {
	// Get returns nil without error when the user has no profile
	Get(ctx context.Context, userID string) (*models.UserProfile, error)
	Create(ctx context.Context, req CreateRequest) (*models.UserProfile, error)
}

// CreateRequest is the body of a profile creation
type CreateRequest struct {
	UserID           string `json:"userId"`
	NativeLanguage   string `json:"nativeLanguage"`
	LearningLanguage string `json:"learningLanguage"`
}
