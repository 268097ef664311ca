package scripts

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/killallgit/fraza-api/internal/models"
	apperrors "github.com/killallgit/fraza-api/pkg/errors"
)

// RepositoryImpl implements the Repository interface
type RepositoryImpl struct {
	db *gorm.DB
}

// NewRepository creates a new script repository
func NewRepository(db *gorm.DB) Repository {
	return &RepositoryImpl{db: db}
}

// CreateScript inserts a script row and fills in its ID and creation time
func (r *RepositoryImpl) CreateScript(ctx context.Context, script *models.Script) error {
	if err := r.db.WithContext(ctx).Omit("Chunks").Create(script).Error; err != nil {
		return apperrors.DatabaseError("create script", err)
	}
	return nil
}

// CreateChunks inserts all chunk rows in one transaction, in slice order
func (r *RepositoryImpl) CreateChunks(ctx context.Context, chunks []models.ScriptChunk) error {
	if len(chunks) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range chunks {
			if err := tx.Create(&chunks[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return apperrors.DatabaseError("create script chunks", err)
	}
	return nil
}

// ListScriptsByUser returns a user's scripts with chunk counts, newest first
func (r *RepositoryImpl) ListScriptsByUser(ctx context.Context, userID string) ([]models.ScriptSummary, error) {
	summaries := []models.ScriptSummary{}
	err := r.db.WithContext(ctx).
		Table("scripts").
		Select("scripts.id, scripts.title, scripts.native_language, scripts.learning_language, scripts.created_at, COUNT(script_chunks.id) AS chunk_count").
		Joins("LEFT JOIN script_chunks ON script_chunks.script_id = scripts.id").
		Where("scripts.user_id = ?", userID).
		Group("scripts.id, scripts.title, scripts.native_language, scripts.learning_language, scripts.created_at").
		Order("scripts.created_at DESC, scripts.id DESC").
		Scan(&summaries).Error
	if err != nil {
		return nil, apperrors.DatabaseError("list scripts", err)
	}
	return summaries, nil
}

// GetScript retrieves a script by its ID
func (r *RepositoryImpl) GetScript(ctx context.Context, id uint) (*models.Script, error) {
	var script models.Script
	if err := r.db.WithContext(ctx).First(&script, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.ErrCodeNotFound, "Script not found").WithDetail("id", id)
		}
		return nil, apperrors.DatabaseError("get script", err)
	}
	return &script, nil
}

// GetChunksByScriptID retrieves a script's chunks in sequence order
func (r *RepositoryImpl) GetChunksByScriptID(ctx context.Context, scriptID uint) ([]models.ScriptChunk, error) {
	chunks := []models.ScriptChunk{}
	if err := r.db.WithContext(ctx).
		Where("script_id = ?", scriptID).
		Order("sequence_order ASC").
		Find(&chunks).Error; err != nil {
		return nil, apperrors.DatabaseError("get script chunks", err)
	}
	return chunks, nil
}
