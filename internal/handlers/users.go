package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/brgarcias/apartment-gift-list/internal/bff"
	"github.com/brgarcias/apartment-gift-list/internal/logger"
	"github.com/brgarcias/apartment-gift-list/internal/store"
)

type userAdminStore interface {
	ListUsers(ctx context.Context) ([]store.User, error)
	UserWithOrders(ctx context.Context, id int) (*store.User, error)
	UpdateUser(ctx context.Context, id int, update store.UserUpdate) (*store.User, error)
	DeleteUser(ctx context.Context, id int) (*store.User, error)
}

type UserHandler struct {
	users userAdminStore
	auth  adminChecker
}

func NewUserHandler(users userAdminStore, auth adminChecker) *UserHandler {
	return &UserHandler{users: users, auth: auth}
}

func (h *UserHandler) List(ctx context.Context, req bff.Request) (bff.Response, error) {
	if !h.auth.IsAdmin(ctx, req.Header("cookie")) {
		return bff.ErrorResponse(http.StatusUnauthorized, "Unauthorized"), nil
	}

	users, err := h.users.ListUsers(ctx)
	if err != nil {
		logger.Error("failed to list users", map[string]any{"error": err.Error()})
		return bff.ErrorResponse(http.StatusInternalServerError, "Failed to fetch users"), nil
	}

	return bff.JSON(http.StatusOK, users), nil
}

func (h *UserHandler) GetByID(ctx context.Context, req bff.Request) (bff.Response, error) {
	id, err := strconv.Atoi(req.PathParams["id"])
	if err != nil {
		return bff.ErrorResponse(http.StatusBadRequest, "Invalid user ID"), nil
	}

	user, err := h.users.UserWithOrders(ctx, id)
	if err != nil {
		logger.Error("failed to fetch user", map[string]any{"userId": id, "error": err.Error()})
		return bff.ErrorResponse(http.StatusInternalServerError, "Failed to fetch user by ID"), nil
	}
	if user == nil {
		return bff.ErrorResponse(http.StatusNotFound, "User not found"), nil
	}

	return bff.JSON(http.StatusOK, user), nil
}

func (h *UserHandler) Update(ctx context.Context, req bff.Request) (bff.Response, error) {
	id, err := strconv.Atoi(req.PathParams["id"])
	if err != nil {
		return bff.ErrorResponse(http.StatusBadRequest, "Invalid user ID"), nil
	}

	var update store.UserUpdate
	if err := json.Unmarshal([]byte(req.Body), &update); err != nil {
		return bff.ErrorResponse(http.StatusBadRequest, "Invalid request body"), nil
	}

	user, err := h.users.UpdateUser(ctx, id, update)
	if err != nil {
		logger.Error("failed to update user", map[string]any{"userId": id, "error": err.Error()})
		return bff.ErrorResponse(http.StatusInternalServerError, "Failed to update user by ID"), nil
	}
	if user == nil {
		return bff.ErrorResponse(http.StatusNotFound, "User not found"), nil
	}

	return bff.JSON(http.StatusOK, user), nil
}

func (h *UserHandler) Delete(ctx context.Context, req bff.Request) (bff.Response, error) {
	if !h.auth.IsAdmin(ctx, req.Header("cookie")) {
		return bff.ErrorResponse(http.StatusUnauthorized, "Unauthorized"), nil
	}

	id, err := strconv.Atoi(req.PathParams["id"])
	if err != nil {
		return bff.ErrorResponse(http.StatusBadRequest, "Invalid user ID"), nil
	}

	deleted, err := h.users.DeleteUser(ctx, id)
	if err != nil {
		logger.Error("failed to delete user", map[string]any{"userId": id, "error": err.Error()})
		return bff.ErrorResponse(http.StatusInternalServerError, "Failed to delete user by ID"), nil
	}
	if deleted == nil {
		return bff.ErrorResponse(http.StatusNotFound, "User not found"), nil
	}

	return bff.JSON(http.StatusOK, deleted), nil
}
