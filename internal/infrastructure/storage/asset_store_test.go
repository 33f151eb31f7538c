package storage

import (
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sangkips/docgen-api/pkg/apperror"
)

// 1x1 transparent PNG
var pixelPNG, _ = base64.StdEncoding.DecodeString("iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAQAAAC1HAwCAAAAC0lEQVR42mNkYAAAAAYAAjCB0C8AAAAASUVORK5CYII=")

func newStore(t *testing.T) (*AssetStore, string) {
	dir := t.TempDir()
	return NewAssetStore(dir, zap.NewNop()), dir
}

func TestResolve_PassThrough(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()

	for _, ref := range []string{"", "data:image/png;base64,AAAA", "https://cdn.example.com/logo.png", "http://localhost/seal.png"} {
		got, err := store.Resolve(ctx, ref)
		require.NoError(t, err)
		assert.Equal(t, ref, got)
	}
}

func TestResolve_InlinesStoredAsset(t *testing.T) {
	store, dir := newStore(t)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "brand"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "brand", "logo.png"), pixelPNG, 0644))

	for _, ref := range []string{"asset://brand/logo.png", "brand/logo.png"} {
		got, err := store.Resolve(context.Background(), ref)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(got, "data:image/png;base64,"), got)

		decoded, err := DecodeDataURI(got)
		require.NoError(t, err)
		assert.Equal(t, pixelPNG, decoded, "bytes are passed through unchanged")
	}
}

func TestResolve_Missing(t *testing.T) {
	store, _ := newStore(t)

	_, err := store.Resolve(context.Background(), "asset://nope.png")

	require.Error(t, err)
	assert.True(t, apperror.HasReason(err, apperror.ReasonNotFound))
}

func TestResolve_RejectsTraversal(t *testing.T) {
	store, _ := newStore(t)

	_, err := store.Resolve(context.Background(), "asset://../../etc/passwd")

	require.Error(t, err)
	assert.True(t, apperror.HasReason(err, apperror.ReasonInvalidInput))
}

func TestSaveDataURI(t *testing.T) {
	store, dir := newStore(t)
	uri := "data:image/png;base64," + base64.StdEncoding.EncodeToString(pixelPNG)

	ref, err := store.SaveDataURI(context.Background(), "signatures/u1.png", uri)
	require.NoError(t, err)
	assert.Equal(t, "asset://signatures/u1.png", ref)

	onDisk, err := os.ReadFile(filepath.Join(dir, "signatures", "u1.png"))
	require.NoError(t, err)
	assert.Equal(t, pixelPNG, onDisk)

	_, err = store.SaveDataURI(context.Background(), "signatures/u2.png", "not-a-uri")
	assert.True(t, apperror.HasReason(err, apperror.ReasonInvalidInput))
}
