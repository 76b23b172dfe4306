package service

import (
	"context"
	"testing"

	"github.com/hnam209/studypilot/internal/dto"
	"github.com/hnam209/studypilot/internal/repository"
	"github.com/hnam209/studypilot/internal/retrieval"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateDocument_PersistsAndIndexes(t *testing.T) {
	store := repository.NewMemoryStore()
	index := retrieval.NewMemoryIndex()
	svc := NewDocumentService(store.Documents(), index)

	resp, err := svc.CreateDocument(context.Background(), dto.CreateDocumentRequest{
		Title:         "Databases",
		ContentChunks: []string{"Indexes speed up lookups.", "Transactions provide atomicity guarantees."},
	}, "user-1")
	require.NoError(t, err)

	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, 2, resp.ChunkCount)
	assert.Equal(t, "user-1", resp.UserID)

	// Chunks must be retrievable immediately after registration.
	matches, err := index.RetrieveSimilar(context.Background(), "transactions atomicity", resp.ID, 5)
	require.NoError(t, err)
	require.NotEmpty(t, matches)
	assert.Equal(t, "Transactions provide atomicity guarantees.", matches[0].Text)
}

func TestGetDocument_Checks(t *testing.T) {
	store := repository.NewMemoryStore()
	svc := NewDocumentService(store.Documents(), retrieval.NewMemoryIndex())

	created, err := svc.CreateDocument(context.Background(), dto.CreateDocumentRequest{
		Title:         "Networking",
		ContentChunks: []string{"TCP provides reliable delivery."},
	}, "user-1")
	require.NoError(t, err)

	_, err = svc.GetDocument("missing", "user-1")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.GetDocument(created.ID, "someone-else")
	assert.ErrorIs(t, err, ErrOwnership)

	got, err := svc.GetDocument(created.ID, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "Networking", got.Title)
}

func TestListDocuments_ScopedToUser(t *testing.T) {
	store := repository.NewMemoryStore()
	svc := NewDocumentService(store.Documents(), retrieval.NewMemoryIndex())

	for _, title := range []string{"One", "Two"} {
		_, err := svc.CreateDocument(context.Background(), dto.CreateDocumentRequest{
			Title:         title,
			ContentChunks: []string{"Some content chunk here."},
		}, "user-1")
		require.NoError(t, err)
	}

	mine, err := svc.ListDocuments("user-1")
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	theirs, err := svc.ListDocuments("user-2")
	require.NoError(t, err)
	assert.Empty(t, theirs)
}
