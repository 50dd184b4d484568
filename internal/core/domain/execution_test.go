package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectScriptLanguage(t *testing.T) {
	tests := []struct {
		name   string
		script string
		want   ScriptLanguage
		ok     bool
	}{
		{"python shebang", "#!/usr/bin/env python3\nprint('hi')", LanguagePython, true},
		{"shell shebang", "#!/bin/sh\necho hi", LanguageShell, true},
		{"bash shebang", "#!/usr/bin/env bash\necho hi", LanguageShell, true},
		{"python import", "import os\nprint(os.getcwd())", LanguagePython, true},
		{"python from import", "from typing import List", LanguagePython, true},
		{"python def", "def main():\n    pass", LanguagePython, true},
		{"python print", "print('OK')", LanguagePython, true},
		{"empty", "", "", false},
		{"whitespace only", "  \n\t ", "", false},
		{"unknown shebang", "#!/usr/bin/env ruby\nputs 'hi'", "", false},
		{"plain prose", "This is not a script at all.", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lang, ok := DetectScriptLanguage(tt.script)
			require.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.want, lang)
			}
		})
	}
}

func TestScriptLanguage_IsValid(t *testing.T) {
	assert.True(t, LanguagePython.IsValid())
	assert.True(t, LanguageShell.IsValid())
	assert.False(t, ScriptLanguage("ruby").IsValid())
}

func TestRetrievalResult_Filenames(t *testing.T) {
	result := RetrievalResult{
		Chunks: []ScoredChunk{
			{Filename: "manual.txt", Similarity: 0.9},
			{Filename: "guide.md", Similarity: 0.8},
			{Filename: "manual.txt", Similarity: 0.7}, // duplicate filename
			{Filename: "", Similarity: 0.6},           // missing attribution skipped
		},
	}

	assert.Equal(t, []string{"manual.txt", "guide.md"}, result.Filenames())
}

func TestRetrievalResult_IsEmpty(t *testing.T) {
	assert.True(t, RetrievalResult{}.IsEmpty())
	assert.False(t, RetrievalResult{Chunks: []ScoredChunk{{}}}.IsEmpty())
}
