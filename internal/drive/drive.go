package drive

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/jwt"
	drivev3 "google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// Uploader pushes images into Google Drive through a service account and
// hands back a publicly viewable URL.
type Uploader struct {
	svc          *drivev3.Service
	folderID     string // profile images
	giftFolderID string // gift catalog images
}

func NewUploader(ctx context.Context, clientEmail, privateKey, folderID, giftFolderID string) (*Uploader, error) {
	conf := &jwt.Config{
		Email: clientEmail,
		// env vars carry the key with escaped newlines
		PrivateKey: []byte(strings.ReplaceAll(privateKey, `\n`, "\n")),
		Scopes:     []string{drivev3.DriveFileScope},
		TokenURL:   google.JWTTokenURL,
	}

	svc, err := drivev3.NewService(ctx, option.WithHTTPClient(conf.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("drive: failed to build service: %w", err)
	}

	return &Uploader{
		svc:          svc,
		folderID:     folderID,
		giftFolderID: giftFolderID,
	}, nil
}

func (u *Uploader) UploadProfileImage(ctx context.Context, filename, mimeType string, content io.Reader) (string, error) {
	name := fmt.Sprintf("profile_%d_%s", time.Now().UnixMilli(), filename)
	return u.upload(ctx, name, mimeType, content, u.folderID)
}

func (u *Uploader) UploadGiftImage(ctx context.Context, filename, mimeType string, content io.Reader) (string, error) {
	name := fmt.Sprintf("gift_%d_%s", time.Now().UnixMilli(), filename)
	return u.upload(ctx, name, mimeType, content, u.giftFolderID)
}

func (u *Uploader) upload(ctx context.Context, name, mimeType string, content io.Reader, folderID string) (string, error) {
	meta := &drivev3.File{
		Name:    name,
		Parents: []string{folderID},
	}

	created, err := u.svc.Files.Create(meta).
		Media(content, googleapi.ContentType(mimeType)).
		Fields("id").
		SupportsAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("drive: upload failed: %w", err)
	}

	_, err = u.svc.Permissions.Create(created.Id, &drivev3.Permission{
		Role: "reader",
		Type: "anyone",
	}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("drive: failed to publish file: %w", err)
	}

	return "https://drive.google.com/uc?export=view&id=" + created.Id, nil
}
