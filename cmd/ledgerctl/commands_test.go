package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"finance-ledger-backend/internal/storage"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func testOpener(t *testing.T) (appOpener, *app) {
	t.Helper()
	dir := t.TempDir()

	db, err := gorm.Open(sqlite.Open(filepath.Join(dir, "ledger.db")+"?_pragma=foreign_keys(1)"), &gorm.Config{
		Logger: gormlogger.Discard,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	store, err := storage.NewLocal(filepath.Join(dir, "uploads"))
	require.NoError(t, err)

	a := newApp(db, store, zerolog.Nop(), 0)
	return func(context.Context) (*app, error) { return a, nil }, a
}

func run(t *testing.T, open appOpener, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand(open)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestImportLifecycle(t *testing.T) {
	open, a := testOpener(t)

	out, err := run(t, open, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "schema up to date")

	file := filepath.Join(t.TempDir(), "march.csv")
	require.NoError(t, os.WriteFile(file, []byte("date,description,netAmount\n2024-03-01,rent,1000\n2024-03-02,power,abc\n"), 0o600))

	out, err = run(t, open, "import", file, "--type", "purchases", "--uploaded-by", "ops")
	require.NoError(t, err)
	assert.Contains(t, out, "imported march.csv: 2 rows processed, 0 failed")

	batches, err := a.service.ListBatches(context.Background())
	require.NoError(t, err)
	require.Len(t, batches, 1)
	id := batches[0].ID.String()

	out, err = run(t, open, "batches")
	require.NoError(t, err)
	assert.Contains(t, out, "STATUS")
	assert.Contains(t, out, id)
	assert.Contains(t, out, "completed")

	out, err = run(t, open, "show", id)
	require.NoError(t, err)
	assert.Contains(t, out, `"recordCount": 2`)
	assert.Contains(t, out, `"description": "rent"`)

	out, err = run(t, open, "delete", id)
	require.NoError(t, err)
	assert.Contains(t, out, "deleted batch "+id)

	_, err = run(t, open, "show", id)
	assert.Error(t, err)
}

func TestImportRequiresType(t *testing.T) {
	open, _ := testOpener(t)
	_, err := run(t, open, "import", "whatever.xlsx")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "type")
}

func TestShowRejectsBadID(t *testing.T) {
	open, _ := testOpener(t)
	_, err := run(t, open, "show", "not-a-uuid")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid batch id")
}
