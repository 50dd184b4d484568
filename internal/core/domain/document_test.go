package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDocumentState_IsValid(t *testing.T) {
	tests := []struct {
		state DocumentState
		valid bool
	}{
		{DocumentPending, true},
		{DocumentProcessed, true},
		{DocumentFailed, true},
		{DocumentState("indexed"), false},
		{DocumentState(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.state.IsValid())
		})
	}
}

func TestDocumentState_IsTerminal(t *testing.T) {
	assert.False(t, DocumentPending.IsTerminal())
	assert.True(t, DocumentProcessed.IsTerminal())
	assert.True(t, DocumentFailed.IsTerminal())
}

func TestDocumentIDFromFilename(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		want     string
	}{
		{"simple", "manual.txt", "manual"},
		{"uppercase", "SAP_Manual.pdf", "sap-manual"},
		{"spaces", "purchase order guide.md", "purchase-order-guide"},
		{"path stripped", "/tmp/uploads/notes.txt", "notes"},
		{"punctuation collapsed", "v1.2 -- release!! notes.txt", "v1-2-release-notes"},
		{"leading symbols trimmed", "__init__.py", "init"},
		{"unicode letters kept", "café-menu.txt", "café-menu"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DocumentIDFromFilename(tt.filename))
		})
	}
}

func TestDocumentIDFromFilename_Stable(t *testing.T) {
	// Re-uploading the same file must always map to the same document.
	first := DocumentIDFromFilename("Test Plan.docx")
	second := DocumentIDFromFilename("Test Plan.docx")
	assert.Equal(t, first, second)
}
