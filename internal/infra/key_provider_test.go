package infra

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureKey_GeneratesOnce(t *testing.T) {
	dir := t.TempDir()
	provider := NewFileKeyProvider(dir)

	assert.False(t, provider.KeyExists())

	key, err := EnsureKey(provider)
	require.NoError(t, err)
	assert.Len(t, key, keySize)
	assert.True(t, provider.KeyExists())

	// Second call returns the same key.
	again, err := EnsureKey(provider)
	require.NoError(t, err)
	assert.Equal(t, key, again)
}

func TestFileKeyProvider_Permissions(t *testing.T) {
	dir := t.TempDir()
	provider := NewFileKeyProvider(dir)

	_, err := EnsureKey(provider)
	require.NoError(t, err)

	info, err := os.Stat(provider.keyPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestFileKeyProvider_RejectsWrongSize(t *testing.T) {
	provider := NewFileKeyProvider(t.TempDir())
	assert.Error(t, provider.StoreKey([]byte("short")))
}

func TestGenerateKey_Random(t *testing.T) {
	a, err := GenerateKey()
	require.NoError(t, err)
	b, err := GenerateKey()
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}
