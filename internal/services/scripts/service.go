package scripts

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/killallgit/fraza-api/internal/models"
	"github.com/killallgit/fraza-api/internal/services/blobstore"
	"github.com/killallgit/fraza-api/internal/services/enrichment"
	"github.com/killallgit/fraza-api/internal/services/refiner"
	apperrors "github.com/killallgit/fraza-api/pkg/errors"
)

const (
	DefaultUserID = "anonymous"

	// speechNativeLanguage is used for native audio when the request names no native language
	speechNativeLanguage = "en-US"
)

// ServiceImpl implements the Service interface
type ServiceImpl struct {
	repo     Repository
	refiner  refiner.Refiner
	enricher Enricher
	store    blobstore.Store
	logger   *zap.Logger
}

// NewService creates a new script service
func NewService(repo Repository, r refiner.Refiner, enricher Enricher, store blobstore.Store, logger *zap.Logger) Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ServiceImpl{
		repo:     repo,
		refiner:  r,
		enricher: enricher,
		store:    store,
		logger:   logger,
	}
}

// Process refines the script, stores it, adds audio to each chunk and stores
// the chunks. The script row is written before audio generation because its
// ID names the blob folder.
func (s *ServiceImpl) Process(ctx context.Context, req ProcessRequest) (*ProcessResult, error) {
	if strings.TrimSpace(req.Script) == "" || req.LearningLanguage == "" {
		return nil, apperrors.MissingFieldError("script", "learningLanguage")
	}

	userID := req.UserID
	if userID == "" {
		userID = DefaultUserID
	}

	refined, err := s.refiner.Refine(ctx, req.Script, req.LearningLanguage, req.NativeLanguage)
	if err != nil {
		return nil, err
	}

	nativeLanguage := req.NativeLanguage
	if nativeLanguage == "" {
		nativeLanguage = refiner.DefaultNativeLanguage
	}

	script := &models.Script{
		UserID:           userID,
		Title:            refined.Title,
		OriginalScript:   refined.RefinedScript,
		NativeLanguage:   nativeLanguage,
		LearningLanguage: req.LearningLanguage,
	}
	if err := s.repo.CreateScript(ctx, script); err != nil {
		return nil, err
	}

	speechNative := req.NativeLanguage
	if speechNative == "" {
		speechNative = speechNativeLanguage
	}

	basePath := enrichment.BasePath(userID, script.ID)
	enriched, outcome := s.enricher.Enrich(ctx, refined.Chunks, basePath, enrichment.Languages{
		Learning: req.LearningLanguage,
		Native:   speechNative,
	})

	rows := make([]models.ScriptChunk, len(enriched))
	for i, c := range enriched {
		rows[i] = models.ScriptChunk{
			ScriptID:         script.ID,
			SequenceOrder:    i + 1,
			NativeText:       c.Original,
			LearningText:     c.Translation,
			NativeAudioURL:   c.OriginalAudioURL,
			LearningAudioURL: c.TranslationAudioURL,
		}
	}

	if err := s.repo.CreateChunks(ctx, rows); err != nil {
		s.cleanupAudio(ctx, basePath, outcome)
		return nil, err
	}

	s.logger.Info("script processed",
		zap.Uint("script_id", script.ID),
		zap.String("user_id", userID),
		zap.Int("chunks", len(rows)),
		zap.Int("audio_failed", outcome.Failed))

	return &ProcessResult{
		ScriptID:      script.ID,
		Title:         refined.Title,
		RefinedScript: refined.RefinedScript,
		Chunks:        enriched,
	}, nil
}

// cleanupAudio removes audio uploaded for chunks that could not be stored
func (s *ServiceImpl) cleanupAudio(ctx context.Context, basePath string, outcome enrichment.Outcome) {
	if outcome.Succeeded == 0 || s.store == nil {
		return
	}
	// The request context may already be cancelled
	result, err := s.store.DeleteByPrefix(context.WithoutCancel(ctx), basePath+"/")
	if err != nil {
		s.logger.Warn("audio cleanup failed", zap.String("base_path", basePath), zap.Error(err))
		return
	}
	s.logger.Info("audio cleaned up after failed chunk insert",
		zap.String("base_path", basePath),
		zap.Int("deleted", result.DeletedCount),
		zap.Int("errors", result.ErrorCount))
}

// List returns the scripts of a user
func (s *ServiceImpl) List(ctx context.Context, userID string) ([]models.ScriptSummary, error) {
	if userID == "" {
		return nil, apperrors.New(apperrors.ErrCodeMissingField, "Missing userId parameter").
			WithDetail("fields", []string{"userId"})
	}
	return s.repo.ListScriptsByUser(ctx, userID)
}

// Get returns a script and its ordered chunks
func (s *ServiceImpl) Get(ctx context.Context, id uint) (*models.Script, []models.ScriptChunk, error) {
	script, err := s.repo.GetScript(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	chunks, err := s.repo.GetChunksByScriptID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return script, chunks, nil
}
