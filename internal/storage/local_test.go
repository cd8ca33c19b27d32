package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLocalCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "uploads")

	_, err := NewLocal(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestNewLocalFailsWhenPathIsAFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "occupied")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o600))

	_, err := NewLocal(filepath.Join(file, "uploads"))
	assert.Error(t, err)
}

func TestLocalSaveOpenRemove(t *testing.T) {
	ctx := context.Background()
	store, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	loc, n, err := store.Save(ctx, "a.csv", strings.NewReader("date,netAmount\n"))
	require.NoError(t, err)
	assert.Equal(t, int64(15), n)
	assert.Equal(t, filepath.Join(store.Dir(), "a.csv"), loc)

	rc, err := store.Open(ctx, "a.csv")
	require.NoError(t, err)
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "date,netAmount\n", string(body))

	require.NoError(t, store.Remove(ctx, "a.csv"))
	_, err = os.Stat(loc)
	assert.True(t, os.IsNotExist(err))

	// removing twice is fine
	assert.NoError(t, store.Remove(ctx, "a.csv"))
}

func TestGenerateName(t *testing.T) {
	name := GenerateName("Report Q1.XLSX")
	assert.Regexp(t, regexp.MustCompile(`^\d+-\d+\.xlsx$`), name)
	assert.NotEqual(t, name, GenerateName("Report Q1.XLSX"))
}
