package dto

import "time"

type CreateDocumentRequest struct {
	Title         string   `json:"title" binding:"required"`
	ContentChunks []string `json:"content_chunks" binding:"required,min=1"`
}

type DocumentResponse struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Title      string    `json:"title"`
	ChunkCount int       `json:"chunk_count"`
	CreatedAt  time.Time `json:"created_at"`
}
