package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"finance-ledger-backend/internal/models"
	"finance-ledger-backend/internal/repository"

	"github.com/gin-gonic/gin"
)

// DictionaryHandler serves CRUD for one reference dictionary. PT is the
// pointer type of T, which exposes the shared dictionary columns.
type DictionaryHandler[T any, PT interface {
	*T
	models.Dictionary
}] struct {
	repo *repository.DictionaryRepository[T]
	errorResponder
}

func NewDictionaryHandler[T any, PT interface {
	*T
	models.Dictionary
}](repo *repository.DictionaryRepository[T], production bool) *DictionaryHandler[T, PT] {
	return &DictionaryHandler[T, PT]{repo: repo, errorResponder: errorResponder{production: production}}
}

// List supports an optional `q` name filter.
func (h *DictionaryHandler[T, PT]) List(c *gin.Context) {
	items, err := h.repo.List(c.Request.Context(), c.Query("q"))
	if err != nil {
		h.fail(c, http.StatusInternalServerError, "Error fetching dictionary", err)
		return
	}
	if items == nil {
		items = []T{}
	}
	c.JSON(http.StatusOK, items)
}

func (h *DictionaryHandler[T, PT]) Get(c *gin.Context) {
	id, ok := h.entryID(c)
	if !ok {
		return
	}
	item, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		h.failRepo(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *DictionaryHandler[T, PT]) Create(c *gin.Context) {
	item, ok := h.bind(c)
	if !ok {
		return
	}
	if PT(item).Entry().Name == "" {
		h.fail(c, http.StatusBadRequest, "name is required", nil)
		return
	}
	if err := h.repo.Create(c.Request.Context(), item); err != nil {
		h.fail(c, http.StatusInternalServerError, "Error creating dictionary entry", err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// Update applies the non-empty fields of the body.
func (h *DictionaryHandler[T, PT]) Update(c *gin.Context) {
	id, ok := h.entryID(c)
	if !ok {
		return
	}
	patch, ok := h.bind(c)
	if !ok {
		return
	}
	item, err := h.repo.Update(c.Request.Context(), id, patch)
	if err != nil {
		h.failRepo(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *DictionaryHandler[T, PT]) Delete(c *gin.Context) {
	id, ok := h.entryID(c)
	if !ok {
		return
	}
	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		h.failRepo(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Dictionary entry deleted", "id": id})
}

func (h *DictionaryHandler[T, PT]) bind(c *gin.Context) (*T, bool) {
	item := new(T)
	if err := c.ShouldBindJSON(item); err != nil {
		h.fail(c, http.StatusBadRequest, "invalid payload", err)
		return nil, false
	}
	entry := PT(item).Entry()
	entry.ID = 0
	entry.Name = strings.TrimSpace(entry.Name)
	return item, true
}

func (h *DictionaryHandler[T, PT]) entryID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		h.fail(c, http.StatusBadRequest, "invalid id", err)
		return 0, false
	}
	return uint(id), true
}

func (h *DictionaryHandler[T, PT]) failRepo(c *gin.Context, err error) {
	if errors.Is(err, repository.ErrNotFound) {
		h.fail(c, http.StatusNotFound, "Dictionary entry not found", nil)
		return
	}
	h.fail(c, http.StatusInternalServerError, "Error updating dictionary", err)
}
