package model

import (
	"time"

	"gorm.io/gorm"
)

// Document is a source document whose extracted text chunks have been
// embedded for semantic search. Binary storage and text extraction happen
// upstream; only the chunks reach this service.
type Document struct {
	ID            string         `gorm:"primarykey" json:"id"`
	UserID        string         `json:"user_id" gorm:"not null;index"`
	Title         string         `json:"title" gorm:"not null"`
	ContentChunks []string       `json:"content_chunks,omitempty" gorm:"serializer:json"`
	ChunkCount    int            `json:"chunk_count"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}
