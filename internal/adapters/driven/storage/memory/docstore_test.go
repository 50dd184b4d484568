package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/testcraft-cli/internal/core/domain"
)

func testDocument(id string) *domain.Document {
	return &domain.Document{
		ID:        id,
		Filename:  id + ".txt",
		Extension: ".txt",
		Format:    domain.FormatPlainText,
		State:     domain.DocumentPending,
	}
}

func TestDocumentStore_SaveAndGet(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	require.NoError(t, store.SaveDocument(ctx, testDocument("notes")))

	doc, err := store.GetDocument(ctx, "notes")
	require.NoError(t, err)
	assert.Equal(t, "notes.txt", doc.Filename)
	assert.False(t, doc.CreatedAt.IsZero())
}

func TestDocumentStore_SaveDocument_EmptyID(t *testing.T) {
	store := NewDocumentStore()

	err := store.SaveDocument(context.Background(), &domain.Document{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDocumentStore_GetDocument_NotFound(t *testing.T) {
	store := NewDocumentStore()

	_, err := store.GetDocument(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentStore_Chunks(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	require.NoError(t, store.SaveDocument(ctx, testDocument("notes")))
	chunks := []domain.Chunk{
		{ID: "notes-1", DocumentID: "notes", Text: "tail", Position: 1},
		{ID: "notes-0", DocumentID: "notes", Text: "head", Position: 0},
	}
	require.NoError(t, store.SaveChunks(ctx, "notes", chunks))

	got, err := store.GetChunks(ctx, "notes")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "head", got[0].Text)
	assert.Equal(t, "tail", got[1].Text)

	doc, err := store.GetDocument(ctx, "notes")
	require.NoError(t, err)
	assert.Equal(t, []string{"notes-0", "notes-1"}, doc.ChunkIDs)

	chunk, err := store.GetChunk(ctx, "notes-1")
	require.NoError(t, err)
	assert.Equal(t, "tail", chunk.Text)

	_, err = store.GetChunk(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentStore_SaveChunks_Replaces(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	require.NoError(t, store.SaveDocument(ctx, testDocument("notes")))
	require.NoError(t, store.SaveChunks(ctx, "notes", []domain.Chunk{
		{ID: "notes-0", DocumentID: "notes", Position: 0},
	}))
	require.NoError(t, store.SaveChunks(ctx, "notes", []domain.Chunk{
		{ID: "notes-new", DocumentID: "notes", Position: 0},
	}))

	got, err := store.GetChunks(ctx, "notes")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "notes-new", got[0].ID)
}

func TestDocumentStore_DeleteDocument(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	require.NoError(t, store.SaveDocument(ctx, testDocument("notes")))
	require.NoError(t, store.SaveChunks(ctx, "notes", []domain.Chunk{
		{ID: "notes-0", DocumentID: "notes", Position: 0},
	}))

	require.NoError(t, store.DeleteDocument(ctx, "notes"))

	_, err := store.GetDocument(ctx, "notes")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	got, err := store.GetChunks(ctx, "notes")
	require.NoError(t, err)
	assert.Empty(t, got)

	// Absent delete is a no-op.
	assert.NoError(t, store.DeleteDocument(ctx, "missing"))
}

func TestDocumentStore_ListDocuments_Order(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	require.NoError(t, store.SaveDocument(ctx, testDocument("alpha")))
	time.Sleep(2 * time.Millisecond)
	require.NoError(t, store.SaveDocument(ctx, testDocument("beta")))

	list, err := store.ListDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "alpha", list[0].ID)
	assert.Equal(t, "beta", list[1].ID)
}

func TestDocumentStore_AllChunks(t *testing.T) {
	store := NewDocumentStore()
	ctx := context.Background()

	require.NoError(t, store.SaveDocument(ctx, testDocument("alpha")))
	require.NoError(t, store.SaveChunks(ctx, "alpha", []domain.Chunk{
		{ID: "alpha-0", DocumentID: "alpha", Position: 0},
		{ID: "alpha-1", DocumentID: "alpha", Position: 1},
	}))

	records, err := store.AllChunks(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	for _, r := range records {
		assert.Equal(t, "alpha.txt", r.Filename)
	}
}
