package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/brgarcias/apartment-gift-list/internal/bff"
	"github.com/brgarcias/apartment-gift-list/internal/logger"
	"github.com/brgarcias/apartment-gift-list/internal/store"
)

type orderStore interface {
	ListOrders(ctx context.Context, deleted bool) ([]store.Order, error)
	OrderByID(ctx context.Context, id int) (*store.Order, error)
	OrdersByUser(ctx context.Context, userID int) ([]store.Order, error)
	SoftDeleteOrder(ctx context.Context, id int) (*store.Order, error)
}

type OrderHandler struct {
	orders orderStore
	auth   adminChecker
}

func NewOrderHandler(orders orderStore, auth adminChecker) *OrderHandler {
	return &OrderHandler{orders: orders, auth: auth}
}

// List returns live orders; passing ?deletedAt=true flips to the
// soft-deleted ones.
func (h *OrderHandler) List(ctx context.Context, req bff.Request) (bff.Response, error) {
	deleted := req.Query["deletedAt"] != ""

	orders, err := h.orders.ListOrders(ctx, deleted)
	if err != nil {
		logger.Error("failed to list orders", map[string]any{"error": err.Error()})
		return bff.ErrorResponse(http.StatusInternalServerError, "Failed to fetch orders"), nil
	}

	return bff.JSON(http.StatusOK, orders), nil
}

func (h *OrderHandler) GetByID(ctx context.Context, req bff.Request) (bff.Response, error) {
	id, err := strconv.Atoi(req.PathParams["id"])
	if err != nil {
		return bff.ErrorResponse(http.StatusBadRequest, "Invalid Order ID"), nil
	}

	order, err := h.orders.OrderByID(ctx, id)
	if err != nil {
		logger.Error("failed to fetch order", map[string]any{"orderId": id, "error": err.Error()})
		return bff.ErrorResponse(http.StatusInternalServerError, "Failed to fetch order by ID"), nil
	}
	if order == nil {
		return bff.ErrorResponse(http.StatusNotFound, "Order not found"), nil
	}

	return bff.JSON(http.StatusOK, order), nil
}

func (h *OrderHandler) ByUser(ctx context.Context, req bff.Request) (bff.Response, error) {
	userID, err := strconv.Atoi(req.PathParams["id"])
	if err != nil {
		return bff.ErrorResponse(http.StatusBadRequest, "Invalid user ID"), nil
	}

	orders, err := h.orders.OrdersByUser(ctx, userID)
	if err != nil {
		logger.Error("failed to fetch user orders", map[string]any{
			"userId": userID,
			"error":  err.Error(),
		})
		return bff.ErrorResponse(http.StatusInternalServerError, "Failed to fetch orders"), nil
	}

	return bff.JSON(http.StatusOK, orders), nil
}

func (h *OrderHandler) Delete(ctx context.Context, req bff.Request) (bff.Response, error) {
	if !h.auth.IsAdmin(ctx, req.Header("cookie")) {
		return bff.ErrorResponse(http.StatusUnauthorized, "Unauthorized"), nil
	}

	id, err := strconv.Atoi(req.PathParams["id"])
	if err != nil {
		return bff.ErrorResponse(http.StatusBadRequest, "Invalid Order ID"), nil
	}

	deleted, err := h.orders.SoftDeleteOrder(ctx, id)
	if err != nil {
		logger.Error("failed to delete order", map[string]any{"orderId": id, "error": err.Error()})
		return bff.ErrorResponse(http.StatusInternalServerError, "Failed to delete a order"), nil
	}
	if deleted == nil {
		return bff.ErrorResponse(http.StatusNotFound, "Order not found"), nil
	}

	return bff.JSON(http.StatusOK, map[string]any{
		"message": "Order deleted successfully",
		"order":   deleted,
	}), nil
}
