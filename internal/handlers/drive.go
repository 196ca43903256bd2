package handlers

import (
	"context"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/brgarcias/apartment-gift-list/internal/bff"
	"github.com/brgarcias/apartment-gift-list/internal/logger"
	"github.com/brgarcias/apartment-gift-list/internal/store"
)

type profileImageSetter interface {
	SetProfileImage(ctx context.Context, id int, imageURL string) (*store.User, error)
}

type profileImageUploader interface {
	UploadProfileImage(ctx context.Context, filename, mimeType string, content io.Reader) (string, error)
}

// DriveHandler accepts a multipart profile image, pushes it to Drive and
// stores the public URL on the user.
type DriveHandler struct {
	uploader profileImageUploader
	users    profileImageSetter
}

func NewDriveHandler(uploader profileImageUploader, users profileImageSetter) *DriveHandler {
	return &DriveHandler{uploader: uploader, users: users}
}

func (h *DriveHandler) Upload(ctx context.Context, req bff.Request) (bff.Response, error) {
	userID, err := strconv.Atoi(req.PathParams["id"])
	if err != nil {
		return bff.ErrorResponse(http.StatusBadRequest, "Invalid user ID"), nil
	}

	filename, mimeType, content, err := filePart(req)
	if err != nil {
		return bff.ErrorResponse(http.StatusBadRequest, "No file uploaded"), nil
	}

	imageURL, err := h.uploader.UploadProfileImage(ctx, filename, mimeType, content)
	if err != nil {
		logger.Error("profile image upload failed", map[string]any{
			"userId": userID,
			"error":  err.Error(),
		})
		return bff.ErrorResponse(http.StatusInternalServerError, "Failed to upload file"), nil
	}

	updated, err := h.users.SetProfileImage(ctx, userID, imageURL)
	if err != nil || updated == nil {
		logger.Error("failed to store profile image", map[string]any{"userId": userID})
		return bff.ErrorResponse(http.StatusInternalServerError, "Failed to upload file"), nil
	}

	return bff.JSON(http.StatusOK, map[string]any{"updatedUser": updated}), nil
}

// filePart pulls the "file" part out of a multipart body.
func filePart(req bff.Request) (filename, mimeType string, content io.Reader, err error) {
	mediaType, params, err := mime.ParseMediaType(req.Header("content-type"))
	if err != nil {
		return "", "", nil, err
	}
	if !strings.HasPrefix(mediaType, "multipart/") {
		return "", "", nil, http.ErrNotMultipart
	}

	reader := multipart.NewReader(strings.NewReader(req.Body), params["boundary"])
	for {
		part, err := reader.NextPart()
		if err != nil {
			return "", "", nil, err
		}
		if part.FormName() != "file" {
			continue
		}
		return part.FileName(), part.Header.Get("Content-Type"), part, nil
	}
}
