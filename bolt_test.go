//go:build !js

package multistorage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBolt_Contract(t *testing.T) {
	b, err := OpenBolt(filepath.Join(t.TempDir(), "store.db"))
	require.NoError(t, err)
	t.Cleanup(func() { b.Close() })

	testBackendContract(t, b)
}

func TestBolt_Reopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "sub", "store.db")

	b, err := OpenBolt(path)
	require.NoError(t, err)
	assert.Equal(t, path, b.Path())
	require.NoError(t, b.SetItem(ctx, "k", "durable"))
	require.NoError(t, b.Close())

	b, err = OpenBolt(path)
	require.NoError(t, err)
	defer b.Close()

	v, ok, err := b.GetItem(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "durable", v)
}

func TestOpenBolt_NotADatabase(t *testing.T) {
	dir := t.TempDir()

	// a directory cannot be opened as a database file
	_, err := OpenBolt(dir)
	assert.Error(t, err)
}
