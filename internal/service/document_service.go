package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/hnam209/studypilot/internal/dto"
	"github.com/hnam209/studypilot/internal/model"
	"github.com/hnam209/studypilot/internal/repository"
	"github.com/hnam209/studypilot/internal/retrieval"
	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// DocumentService registers pre-chunked documents and indexes their chunks
// for semantic search.
type DocumentService struct {
	documentRepo repository.DocumentRepository
	indexer      retrieval.Indexer
}

func NewDocumentService(documentRepo repository.DocumentRepository, indexer retrieval.Indexer) *DocumentService {
	return &DocumentService{documentRepo: documentRepo, indexer: indexer}
}

func (s *DocumentService) CreateDocument(ctx context.Context, req dto.CreateDocumentRequest, userID string) (*dto.DocumentResponse, error) {
	doc := &model.Document{
		ID:            uuid.NewString(),
		UserID:        userID,
		Title:         req.Title,
		ContentChunks: req.ContentChunks,
		ChunkCount:    len(req.ContentChunks),
	}
	if err := s.documentRepo.Create(doc); err != nil {
		return nil, fmt.Errorf("failed to save document: %w", err)
	}

	// Indexing failures are not fatal; retrieval degrades to the generic
	// fallback until the document is re-indexed.
	if err := s.indexer.IndexChunks(ctx, doc.ID, doc.ContentChunks); err != nil {
		log.Error().Err(err).Str("documentId", doc.ID).Msg("Failed to index document chunks")
	} else {
		log.Info().Str("documentId", doc.ID).Int("chunks", doc.ChunkCount).Msg("Document indexed")
	}

	var resp dto.DocumentResponse
	if err := copier.Copy(&resp, doc); err != nil {
		return nil, fmt.Errorf("failed to map document: %w", err)
	}
	return &resp, nil
}

func (s *DocumentService) GetDocument(documentID, userID string) (*dto.DocumentResponse, error) {
	doc, err := s.documentRepo.FindByID(documentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("document %s: %w", documentID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load document: %w", err)
	}
	if doc.UserID != userID {
		return nil, fmt.Errorf("document %s: %w", documentID, ErrOwnership)
	}

	var resp dto.DocumentResponse
	if err := copier.Copy(&resp, doc); err != nil {
		return nil, fmt.Errorf("failed to map document: %w", err)
	}
	return &resp, nil
}

func (s *DocumentService) ListDocuments(userID string) ([]dto.DocumentResponse, error) {
	docs, err := s.documentRepo.FindByUserID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	resp := make([]dto.DocumentResponse, 0, len(docs))
	if err := copier.Copy(&resp, &docs); err != nil {
		return nil, fmt.Errorf("failed to map documents: %w", err)
	}
	return resp, nil
}
