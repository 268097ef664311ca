package models

import "time"

// Script is a refined script produced by the processing pipeline.
// OriginalScript holds the refined text, not the user's input.
// Rows are written once and never updated.
type Script struct {
	ID               uint          `json:"id" gorm:"primaryKey"`
	UserID           string        `json:"user_id" gorm:"not null;index"`
	Title            string        `json:"title"`
	OriginalScript   string        `json:"original_script" gorm:"type:text;not null"`
	NativeLanguage   string        `json:"native_language" gorm:"not null"`
	LearningLanguage string        `json:"learning_language" gorm:"not null"`
	CreatedAt        time.Time     `json:"created_at" gorm:"index"`
	Chunks           []ScriptChunk `json:"-" gorm:"foreignKey:ScriptID;constraint:OnDelete:CASCADE"`
}

// ScriptChunk is one bilingual phrase of a script, with optional audio URLs
type ScriptChunk struct {
	ID               uint    `json:"id" gorm:"primaryKey"`
	ScriptID         uint    `json:"script_id" gorm:"not null;index:idx_chunk_script_order,priority:1"`
	SequenceOrder    int     `json:"sequence_order" gorm:"not null;index:idx_chunk_script_order,priority:2"` // 1-based
	NativeText       string  `json:"native_text" gorm:"type:text;not null"`
	LearningText     string  `json:"learning_text" gorm:"type:text"`
	NativeAudioURL   *string `json:"native_audio_url"`
	LearningAudioURL *string `json:"learning_audio_url"`
}

// ScriptSummary is the list view of a script
type ScriptSummary struct {
	ID               uint      `json:"id"`
	Title            string    `json:"title"`
	NativeLanguage   string    `json:"native_language"`
	LearningLanguage string    `json:"learning_language"`
	CreatedAt        time.Time `json:"created_at"`
	ChunkCount       int64     `json:"chunk_count"`
}
