package profiles

import (
	"context"

	"go.uber.org/zap"

	"github.com/killallgit/fraza-api/internal/models"
	apperrors "github.com/killallgit/fraza-api/pkg/errors"
)

// ServiceImpl implements the Service interface
type ServiceImpl struct {
	repo   Repository
	logger *zap.Logger
}

// NewService creates a new profile service
func NewService(repo Repository, logger *zap.Logger) Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ServiceImpl{repo: repo, logger: logger}
}

// Get looks up a user's profile
func (s *ServiceImpl) Get(ctx context.Context, userID string) (*models.UserProfile, error) {
	if userID == "" {
		return nil, apperrors.New(apperrors.ErrCodeMissingField, "Missing userId").
			WithDetail("fields", []string{"userId"})
	}

	profile, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrCodeNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return profile, nil
}

// Create stores a new profile
func (s *ServiceImpl) Create(ctx context.Context, req CreateRequest) (*models.UserProfile, error) {
	if req.UserID == "" || req.NativeLanguage == "" || req.LearningLanguage == "" {
		return nil, apperrors.New(apperrors.ErrCodeMissingField, "Missing required fields").
			WithDetail("fields", []string{"userId", "nativeLanguage", "learningLanguage"})
	}

	profile := &models.UserProfile{
		UserID:           req.UserID,
		NativeLanguage:   req.NativeLanguage,
		LearningLanguage: req.LearningLanguage,
	}
	if err := s.repo.Create(ctx, profile); err != nil {
		return nil, err
	}

	s.logger.Info("profile created", zap.String("user_id", profile.UserID))
	return profile, nil
}
