package assets

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/meshview/engine/renderer/metadata"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func newAssetDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "shaders", "basic.vert"), "in vec4 position;\n")
	writeFile(t, filepath.Join(dir, "shaders", "basic.frag"), "out vec4 colour;\n")
	writeFile(t, filepath.Join(dir, "models", "tri.obj"), "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n")
	writeFile(t, filepath.Join(dir, "README"), "not an asset")
	return dir
}

func TestDetermineAssetType(t *testing.T) {
	assert.Equal(t, metadata.ResourceTypeShader, DetermineAssetType("a/b.vert"))
	assert.Equal(t, metadata.ResourceTypeShader, DetermineAssetType("a/b.frag"))
	assert.Equal(t, metadata.ResourceTypeModel, DetermineAssetType("a/b.obj"))
	assert.Equal(t, metadata.ResourceTypeNone, DetermineAssetType("a/b.png"))
}

func TestInitializeIndexesAssets(t *testing.T) {
	dir := newAssetDir(t)
	am, err := NewAssetManager()
	require.NoError(t, err)
	require.NoError(t, am.Initialize(dir, false))
	defer am.Shutdown()

	assert.Equal(t, 3, am.Count())
	info, ok := am.Lookup(filepath.Join(dir, "models", "tri.obj"))
	require.True(t, ok)
	assert.Equal(t, metadata.ResourceTypeModel, info.Type)
	_, ok = am.Lookup(filepath.Join(dir, "README"))
	assert.False(t, ok)
}

func TestLoadAsset(t *testing.T) {
	dir := newAssetDir(t)
	am, err := NewAssetManager()
	require.NoError(t, err)
	require.NoError(t, am.Initialize(dir, false))
	defer am.Shutdown()

	res, err := am.LoadAsset("models/tri.obj", metadata.ResourceTypeModel, nil)
	require.NoError(t, err)
	model := res.Data.(*metadata.Model)
	require.Len(t, model.Meshes, 1)
	assert.Equal(t, []uint32{0, 1, 2}, model.Meshes[0].Indices)
	assert.NoError(t, am.UnloadAsset(res))

	res, err = am.LoadAsset("shaders/basic", metadata.ResourceTypeShader, nil)
	require.NoError(t, err)
	source := res.Data.(metadata.ShaderSource)
	assert.Equal(t, "basic", source.Name)
	assert.Contains(t, source.Vertex, "position")

	_, err = am.LoadAsset("shaders/missing", metadata.ResourceTypeShader, nil)
	assert.Error(t, err)
	_, err = am.LoadAsset("README", metadata.ResourceTypeNone, nil)
	assert.Error(t, err)
}

func TestWatchReportsChanges(t *testing.T) {
	dir := newAssetDir(t)
	am, err := NewAssetManager()
	require.NoError(t, err)
	require.NoError(t, am.Initialize(dir, true))

	frag := filepath.Join(dir, "shaders", "basic.frag")
	writeFile(t, frag, "out vec4 colour; // edited\n")

	select {
	case path := <-am.Changes():
		assert.Equal(t, frag, path)
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}

	require.NoError(t, am.Shutdown())
	require.NoError(t, am.Shutdown())
	for range am.Changes() {
		// drain until closed
	}
	assert.ErrorIs(t, am.Initialize(dir, false), ErrClosed)
}
