package importer

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"finance-ledger-backend/internal/models"
	"finance-ledger-backend/internal/repository"
	"finance-ledger-backend/internal/storage"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type fixture struct {
	svc   *Service
	db    *gorm.DB
	store *storage.Local
}

func newFixture(t *testing.T, maxUploadBytes int64) *fixture {
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
	require.NoError(t, db.AutoMigrate(models.All()...))

	store, err := storage.NewLocal(filepath.Join(dir, "uploads"))
	require.NoError(t, err)

	svc := NewService(
		db,
		repository.NewImportBatchRepository(db),
		repository.NewLedgerRecordRepository(db),
		store,
		zerolog.Nop(),
		maxUploadBytes,
	)
	return &fixture{svc: svc, db: db, store: store}
}

func (f *fixture) storedFiles(t *testing.T) []string {
	t.Helper()
	entries, err := os.ReadDir(f.store.Dir())
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func workbook(t *testing.T, rows ...[]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &rows[i]))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func xlsxUpload(kind string, body []byte) Upload {
	return Upload{
		OriginalName: "ledger.xlsx",
		ContentType:  "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Size:         int64(len(body)),
		Body:         bytes.NewReader(body),
		Kind:         kind,
	}
}
