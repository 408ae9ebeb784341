package helpers

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"jukusite.app/builder/app"
	"jukusite.app/builder/utils"
)

const maxUploadFileSize int64 = 5 * mibMultiplier

var ErrInvalidUpload = errors.New("The uploaded file must be an image of at most 5 MiB.")

// SaveUpload validates and stores one image file, returning its durable
// public URL. Validation is the caller's job per the blob store contract,
// so it happens here and not in app.Storage().
func SaveUpload(ctx context.Context, fh *multipart.FileHeader, prefix string) (string, error) {
	if fh == nil || fh.Size < 1 || fh.Size > maxUploadFileSize {
		return "", ErrInvalidUpload
	}

	contentType := fh.Header.Get("Content-Type")

	if !strings.HasPrefix(contentType, "image/") {
		return "", ErrInvalidUpload
	}

	random, err := utils.RandomString(16)
	if err != nil {
		return "", fmt.Errorf("Could not generate object name: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	objectName := fmt.Sprintf("%s/%s/%s%s", prefix, time.Now().Format("2006/01"), random, ext)

	file, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("Could not open uploaded file: %w", err)
	}
	defer file.Close() //nolint:errcheck

	if _, err := app.Storage().PutObject(ctx, app.StorageBucket(), objectName, file, fh.Size, minio.PutObjectOptions{
		ContentType: contentType,
	}); err != nil {
		return "", fmt.Errorf("Could not store uploaded file: %w", err)
	}

	return app.StoragePublicURL(objectName), nil
}
