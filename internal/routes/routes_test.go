package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"

	"finance-ledger-backend/internal/config"
	"finance-ledger-backend/internal/models"
	"finance-ledger-backend/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
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

	cfg := &config.Config{Environment: "test", MaxUploadBytes: 1 << 20}
	r := gin.New()
	RegisterRoutes(r, cfg, db, store, zerolog.Nop())
	return r
}

func do(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	r := newRouter(t)
	rec := do(r, http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestImportRoutesRegistered(t *testing.T) {
	r := newRouter(t)
	rec := do(r, http.MethodGet, "/api/import/history", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestContractorCRUD(t *testing.T) {
	r := newRouter(t)

	rec := do(r, http.MethodPost, "/api/dictionaries/contractors", map[string]string{
		"name":  "  Acme Ltd  ",
		"taxId": "PL1234567890",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created models.Contractor
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.NotZero(t, created.ID)
	assert.Equal(t, "Acme Ltd", created.Name)
	assert.Equal(t, "PL1234567890", created.TaxID)

	path := "/api/dictionaries/contractors/" + strconv.FormatUint(uint64(created.ID), 10)

	rec = do(r, http.MethodPut, path, map[string]string{"description": "office supplies"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var updated models.Contractor
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, "Acme Ltd", updated.Name)
	assert.Equal(t, "office supplies", updated.Description)

	rec = do(r, http.MethodGet, "/api/dictionaries/contractors?q=acme", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []models.Contractor
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)

	rec = do(r, http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(r, http.MethodGet, path, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDictionaryValidation(t *testing.T) {
	r := newRouter(t)

	rec := do(r, http.MethodPost, "/api/dictionaries/departments", map[string]string{"name": " "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(r, http.MethodGet, "/api/dictionaries/departments/abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(r, http.MethodPut, "/api/dictionaries/cost-categories/99", map[string]string{"name": "travel"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	for _, name := range []string{"departments", "groups", "service-types", "contractors", "cost-categories"} {
		rec = do(r, http.MethodGet, "/api/dictionaries/"+name, nil)
		assert.Equal(t, http.StatusOK, rec.Code, name)
		assert.JSONEq(t, `[]`, rec.Body.String(), name)
	}
}
