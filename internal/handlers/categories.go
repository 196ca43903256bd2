package handlers

import (
	"context"
	"net/http"

	"github.com/brgarcias/apartment-gift-list/internal/bff"
	"github.com/brgarcias/apartment-gift-list/internal/logger"
	"github.com/brgarcias/apartment-gift-list/internal/store"
)

type categoryStore interface {
	ListCategories(ctx context.Context) ([]store.Category, error)
}

type CategoryHandler struct {
	categories categoryStore
}

func NewCategoryHandler(categories categoryStore) *CategoryHandler {
	return &CategoryHandler{categories: categories}
}

func (h *CategoryHandler) List(ctx context.Context, req bff.Request) (bff.Response, error) {
	categories, err := h.categories.ListCategories(ctx)
	if err != nil {
		logger.Error("failed to list categories", map[string]any{"error": err.Error()})
		return bff.ErrorResponse(http.StatusInternalServerError, "Failed to fetch categories"), nil
	}
	return bff.JSON(http.StatusOK, categories), nil
}
