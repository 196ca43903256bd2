package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/brgarcias/apartment-gift-list/internal/bff"
	"github.com/brgarcias/apartment-gift-list/internal/logger"
	"github.com/brgarcias/apartment-gift-list/internal/mail"
)

type purchaseMailer interface {
	SendPurchaseNotification(ctx context.Context, n mail.PurchaseNotification) error
}

// NotifyHandler emails the registry owners about a purchase. Session-gated:
// anonymous visitors cannot trigger mail.
type NotifyHandler struct {
	checker sessionChecker
	mailer  purchaseMailer
}

func NewNotifyHandler(checker sessionChecker, mailer purchaseMailer) *NotifyHandler {
	return &NotifyHandler{checker: checker, mailer: mailer}
}

func (h *NotifyHandler) Purchase(ctx context.Context, req bff.Request) (bff.Response, error) {
	res := h.checker.Check(ctx, req.Header("cookie"))
	if !res.Authorized {
		return bff.ErrorResponse(http.StatusUnauthorized, "Unauthorized"), nil
	}

	var notification mail.PurchaseNotification
	if err := json.Unmarshal([]byte(req.Body), &notification); err != nil || notification.GiftName == "" {
		return bff.ErrorResponse(http.StatusBadRequest, "No data provided"), nil
	}

	if err := h.mailer.SendPurchaseNotification(ctx, notification); err != nil {
		logger.Error("purchase notification failed", map[string]any{"error": err.Error()})
		return bff.ErrorResponse(http.StatusInternalServerError, "Failed to send notification"), nil
	}

	return bff.JSON(http.StatusOK, map[string]string{"message": "Notification sent"}), nil
}
