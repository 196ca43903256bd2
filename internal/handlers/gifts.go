package handlers

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/brgarcias/apartment-gift-list/internal/bff"
	"github.com/brgarcias/apartment-gift-list/internal/logger"
	"github.com/brgarcias/apartment-gift-list/internal/store"
)

type giftStore interface {
	ListGifts(ctx context.Context) ([]store.Gift, error)
	GiftByID(ctx context.Context, id int) (*store.Gift, error)
	CreateGift(ctx context.Context, gift store.Gift) (*store.Gift, error)
	UpdateGift(ctx context.Context, id int, update store.GiftUpdate) (*store.Gift, error)
	UpdateGiftStatus(ctx context.Context, id int, status string) (*store.Gift, error)
	DeleteGift(ctx context.Context, id int) (*store.Gift, error)
}

type orderCreator interface {
	CreateOrder(ctx context.Context, giftID, userID int) (*store.Order, error)
}

type reservationCreator interface {
	CreateReservation(ctx context.Context, giftID, userID int) (*store.Reservation, error)
}

type adminChecker interface {
	IsAdmin(ctx context.Context, cookieHeader string) bool
}

type giftImageUploader interface {
	UploadGiftImage(ctx context.Context, filename, mimeType string, content io.Reader) (string, error)
}

type GiftHandler struct {
	gifts        giftStore
	orders       orderCreator
	reservations reservationCreator
	auth         adminChecker
	uploader     giftImageUploader
}

func NewGiftHandler(
	gifts giftStore,
	orders orderCreator,
	reservations reservationCreator,
	auth adminChecker,
	uploader giftImageUploader,
) *GiftHandler {
	return &GiftHandler{
		gifts:        gifts,
		orders:       orders,
		reservations: reservations,
		auth:         auth,
		uploader:     uploader,
	}
}

func (h *GiftHandler) List(ctx context.Context, req bff.Request) (bff.Response, error) {
	gifts, err := h.gifts.ListGifts(ctx)
	if err != nil {
		logger.Error("failed to list gifts", map[string]any{"error": err.Error()})
		return bff.ErrorResponse(http.StatusInternalServerError, "Failed to fetch gifts"), nil
	}
	return bff.JSON(http.StatusOK, gifts), nil
}

func (h *GiftHandler) GetByID(ctx context.Context, req bff.Request) (bff.Response, error) {
	id, err := strconv.Atoi(req.PathParams["id"])
	if err != nil {
		return bff.ErrorResponse(http.StatusBadRequest, "Invalid gift ID"), nil
	}

	gift, err := h.gifts.GiftByID(ctx, id)
	if err != nil {
		logger.Error("failed to fetch gift", map[string]any{"giftId": id, "error": err.Error()})
		return bff.ErrorResponse(http.StatusInternalServerError, "Failed to fetch gift by ID"), nil
	}
	if gift == nil {
		return bff.ErrorResponse(http.StatusNotFound, "Gift not found"), nil
	}

	return bff.JSON(http.StatusOK, gift), nil
}

type giftStatusPayload struct {
	Action string `json:"action"`
	UserID int    `json:"userId"`
}

// UpdateStatus handles purchases and reservations. The transition is
// validated against the current status first; a purchase additionally
// records an order, a reservation records a reservation.
func (h *GiftHandler) UpdateStatus(ctx context.Context, req bff.Request) (bff.Response, error) {
	if req.Body == "" {
		return bff.ErrorResponse(http.StatusBadRequest, "No data provided"), nil
	}

	var payload giftStatusPayload
	if err := json.Unmarshal([]byte(req.Body), &payload); err != nil {
		return bff.ErrorResponse(http.StatusBadRequest, "No data provided"), nil
	}

	id, err := strconv.Atoi(req.PathParams["id"])
	if err != nil {
		return bff.ErrorResponse(http.StatusBadRequest, "Gift ID not provided"), nil
	}

	switch payload.Action {
	case store.GiftPurchased:
		return h.purchase(ctx, id, payload.UserID)
	case store.GiftReserved:
		return h.reserve(ctx, id, payload.UserID)
	default:
		return bff.ErrorResponse(http.StatusBadRequest, "Invalid action"), nil
	}
}

func (h *GiftHandler) purchase(ctx context.Context, giftID, userID int) (bff.Response, error) {
	gift, err := h.gifts.GiftByID(ctx, giftID)
	if err != nil {
		return bff.ErrorResponse(http.StatusBadRequest, "Validation failed"), nil
	}
	if gift == nil {
		return bff.ErrorResponse(http.StatusBadRequest, "Gift not found"), nil
	}

	switch gift.Status {
	case store.GiftReserved:
		return bff.ErrorResponse(http.StatusBadRequest, "Unable to purchase a reserved gift"), nil
	case store.GiftPurchased:
		return bff.ErrorResponse(http.StatusBadRequest, "Gift already purchased"), nil
	}

	updated, err := h.gifts.UpdateGiftStatus(ctx, giftID, store.GiftPurchased)
	if err != nil || updated == nil {
		logger.Error("failed to mark gift purchased", map[string]any{"giftId": giftID})
		return bff.ErrorResponse(http.StatusInternalServerError, "Failed to update gift"), nil
	}

	if userID != 0 {
		if _, err := h.orders.CreateOrder(ctx, giftID, userID); err != nil {
			logger.Error("failed to create order", map[string]any{
				"giftId": giftID,
				"userId": userID,
				"error":  err.Error(),
			})
			return bff.ErrorResponse(http.StatusInternalServerError, "Failed to create a order"), nil
		}
	}

	return bff.JSON(http.StatusOK, updated), nil
}

func (h *GiftHandler) reserve(ctx context.Context, giftID, userID int) (bff.Response, error) {
	gift, err := h.gifts.GiftByID(ctx, giftID)
	if err != nil {
		return bff.ErrorResponse(http.StatusBadRequest, "Validation failed"), nil
	}
	if gift == nil {
		return bff.ErrorResponse(http.StatusBadRequest, "Gift not found"), nil
	}

	switch gift.Status {
	case store.GiftPurchased:
		return bff.ErrorResponse(http.StatusBadRequest, "Unable to reserve a purchased gift"), nil
	case store.GiftReserved:
		return bff.ErrorResponse(http.StatusBadRequest, "Gift already reserved"), nil
	}

	updated, err := h.gifts.UpdateGiftStatus(ctx, giftID, store.GiftReserved)
	if err != nil || updated == nil {
		logger.Error("failed to mark gift reserved", map[string]any{"giftId": giftID})
		return bff.ErrorResponse(http.StatusInternalServerError, "Failed to update gift"), nil
	}

	if userID != 0 {
		if _, err := h.reservations.CreateReservation(ctx, giftID, userID); err != nil {
			logger.Error("failed to create reservation", map[string]any{
				"giftId": giftID,
				"userId": userID,
				"error":  err.Error(),
			})
			return bff.ErrorResponse(http.StatusInternalServerError, "Failed to create a reservation"), nil
		}
	}

	return bff.JSON(http.StatusOK, updated), nil
}

type giftImagePayload struct {
	Content  string `json:"content"` // base64
	Filename string `json:"filename"`
	MimeType string `json:"mimetype"`
}

type createGiftPayload struct {
	Gift  store.Gift        `json:"gift"`
	Image *giftImagePayload `json:"image"`
}

func (h *GiftHandler) Create(ctx context.Context, req bff.Request) (bff.Response, error) {
	if !h.auth.IsAdmin(ctx, req.Header("cookie")) {
		return bff.ErrorResponse(http.StatusUnauthorized, "Unauthorized"), nil
	}

	if req.Body == "" {
		return bff.ErrorResponse(http.StatusBadRequest, "No data provided"), nil
	}

	var payload createGiftPayload
	if err := json.Unmarshal([]byte(req.Body), &payload); err != nil {
		return bff.ErrorResponse(http.StatusBadRequest, "No data provided"), nil
	}

	if payload.Image != nil {
		content, err := base64.StdEncoding.DecodeString(payload.Image.Content)
		if err != nil {
			return bff.ErrorResponse(http.StatusBadRequest, "Invalid image content"), nil
		}
		url, err := h.uploader.UploadGiftImage(
			ctx,
			payload.Image.Filename,
			payload.Image.MimeType,
			bytes.NewReader(content),
		)
		if err != nil {
			logger.Error("gift image upload failed", map[string]any{"error": err.Error()})
			return bff.ErrorResponse(http.StatusInternalServerError, "Failed to upload file"), nil
		}
		payload.Gift.ImageURL = url
	}

	created, err := h.gifts.CreateGift(ctx, payload.Gift)
	if err != nil {
		logger.Error("failed to create gift", map[string]any{"error": err.Error()})
		return bff.ErrorResponse(http.StatusInternalServerError, "Internal server error"), nil
	}

	return bff.JSON(http.StatusCreated, map[string]any{"gift": created}), nil
}

func (h *GiftHandler) Update(ctx context.Context, req bff.Request) (bff.Response, error) {
	if !h.auth.IsAdmin(ctx, req.Header("cookie")) {
		return bff.ErrorResponse(http.StatusUnauthorized, "Unauthorized"), nil
	}

	id, err := strconv.Atoi(req.PathParams["id"])
	if err != nil {
		return bff.ErrorResponse(http.StatusBadRequest, "Invalid gift ID"), nil
	}

	var update store.GiftUpdate
	if err := json.Unmarshal([]byte(req.Body), &update); err != nil {
		return bff.ErrorResponse(http.StatusBadRequest, "No data provided"), nil
	}

	updated, err := h.gifts.UpdateGift(ctx, id, update)
	if err != nil {
		logger.Error("failed to update gift", map[string]any{"giftId": id, "error": err.Error()})
		return bff.ErrorResponse(http.StatusInternalServerError, "Internal server error"), nil
	}
	if updated == nil {
		return bff.ErrorResponse(http.StatusNotFound, "Gift not found"), nil
	}

	return bff.JSON(http.StatusOK, map[string]any{"gift": updated}), nil
}

func (h *GiftHandler) Delete(ctx context.Context, req bff.Request) (bff.Response, error) {
	if !h.auth.IsAdmin(ctx, req.Header("cookie")) {
		return bff.ErrorResponse(http.StatusUnauthorized, "Unauthorized"), nil
	}

	id, err := strconv.Atoi(req.PathParams["id"])
	if err != nil {
		return bff.ErrorResponse(http.StatusBadRequest, "Invalid gift ID"), nil
	}

	deleted, err := h.gifts.DeleteGift(ctx, id)
	if err != nil {
		logger.Error("failed to delete gift", map[string]any{"giftId": id, "error": err.Error()})
		return bff.ErrorResponse(http.StatusInternalServerError, "Internal server error"), nil
	}
	if deleted == nil {
		return bff.ErrorResponse(http.StatusNotFound, "Gift not found"), nil
	}

	return bff.JSON(http.StatusOK, map[string]any{
		"message": "Gift deleted successfully",
		"gift":    deleted,
	}), nil
}
