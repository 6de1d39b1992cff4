package importer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleBatch = `
[[documents]]
title = "Attention Is All You Need"
path = "papers/attention.pdf"
tags = ["transformers", "attention"]
author = "vaswani et al."
year = "2017"

[[documents]]
title = "Sparse Tables"
path = "/absolute/sparse.pdf"
tags = ["data structures"]
`

func TestParse(t *testing.T) {
	drafts, err := Parse([]byte(sampleBatch))
	require.NoError(t, err)
	require.Len(t, drafts, 2)

	assert.Equal(t, "Attention Is All You Need", drafts[0].Title)
	assert.Equal(t, "papers/attention.pdf", drafts[0].Path)
	assert.Equal(t, []string{"transformers", "attention"}, drafts[0].Tags)
	assert.Equal(t, "2017", drafts[0].Year)

	assert.Equal(t, "Sparse Tables", drafts[1].Title)
	assert.Empty(t, drafts[1].Author)
}

func TestParseEmptyFile(t *testing.T) {
	drafts, err := Parse(nil)
	require.NoError(t, err)
	assert.Empty(t, drafts)
}

func TestParseInvalidTOML(t *testing.T) {
	// A file that is not valid TOML is a single fatal error, not a
	// sequence of per-entry failures.
	_, err := Parse([]byte("[[documents]\ntitle = broken"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrParse)
}

func TestReadFileResolvesRelativePaths(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "batch.toml")
	require.NoError(t, os.WriteFile(path, []byte(sampleBatch), 0o644))

	drafts, err := ReadFile(path)
	require.NoError(t, err)
	require.Len(t, drafts, 2)

	// Relative paths resolve against the batch file's directory;
	// absolute paths pass through.
	assert.Equal(t, filepath.Join(dir, "papers", "attention.pdf"), drafts[0].Path)
	assert.Equal(t, "/absolute/sparse.pdf", drafts[1].Path)
}

func TestReadFileRejectsNonTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "batch.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleBatch), 0o644))

	_, err := ReadFile(path)
	assert.ErrorIs(t, err, ErrParse)
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "absent.toml"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrParse)
}
