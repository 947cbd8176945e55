package badger

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/poiesic/topicrank/core"
	"github.com/poiesic/topicrank/lexicon"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenBackend_InMemory(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	require.NotNil(t, backend)
	defer backend.Close()

	assert.False(t, backend.IsClosed())
	assert.False(t, backend.IsReadOnly())
}

func TestOpenBackend_FileSystem(t *testing.T) {
	tmpDir := filepath.Join(t.TempDir(), "kb")
	backend, err := OpenBackend(tmpDir, false)
	require.NoError(t, err)
	require.NotNil(t, backend)
	defer backend.Close()

	info, err := os.Stat(tmpDir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestOpenBackend_NotADirectory(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "file.txt")
	require.NoError(t, os.WriteFile(tmpFile, []byte("x"), 0644))

	_, err := OpenBackend(tmpFile, false)
	assert.Error(t, err)
}

func TestOpenBackend_ReadOnlyMissing(t *testing.T) {
	_, err := OpenBackend(filepath.Join(t.TempDir(), "missing"), false, ReadOnly())
	assert.Error(t, err, "a read-only knowledge base must already exist")
}

func TestOpenBackend_ReadOnlyReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	backend, err := OpenBackend(dir, false)
	require.NoError(t, err)
	graph, err := NewGraph(backend)
	require.NoError(t, err)
	concept := &core.Concept{POS: core.POSVerb, Members: []string{"orbit"}}
	require.NoError(t, graph.AddConcepts(ctx, concept))
	require.NoError(t, backend.Close())

	backend, err = OpenBackend(dir, false, ReadOnly())
	require.NoError(t, err)
	defer backend.Close()
	assert.True(t, backend.IsReadOnly())

	graph, err = NewGraph(backend)
	require.NoError(t, err)
	members, err := graph.Members(ctx, concept.Id)
	require.NoError(t, err)
	assert.Equal(t, []string{"orbit"}, members)
}

func TestBackendClose(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)

	assert.False(t, backend.IsClosed())
	require.NoError(t, backend.Close())
	assert.True(t, backend.IsClosed())
}

func TestCheckpointRepository(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	repo := NewCheckpointRepository(backend)

	missing, err := repo.LoadCheckpoint(ctx, "data.noun")
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, repo.SaveCheckpoint(ctx, &lexicon.Checkpoint{Source: "data.noun", Concepts: 10, Senses: 4}))

	loaded, err := repo.LoadCheckpoint(ctx, "data.noun")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, uint64(10), loaded.Concepts)
	assert.Equal(t, uint64(4), loaded.Senses)
	assert.False(t, loaded.UpdatedAt.IsZero())
}
