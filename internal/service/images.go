package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gabriel-vasile/mimetype"

	"microchat/internal/models"
	"microchat/internal/storage"
)

var allowedImageTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

// checkImage sniffs the content type of the upload and rejects anything that
// is not a supported raster image.
func checkImage(image *models.Image) error {
	if len(image.Data) == 0 {
		return fmt.Errorf("пустой файл изображения: %w", models.ErrValidation)
	}

	detected := mimetype.Detect(image.Data)
	if !mimetype.EqualsAny(detected.String(), allowedImageTypes...) {
		return fmt.Errorf("неподдерживаемый тип изображения %s: %w", detected.String(), models.ErrValidation)
	}

	image.ContentType = detected.String()
	return nil
}

// loadedImage wraps bytes read back from a binary column.
func loadedImage(data []byte) *models.Image {
	return &models.Image{
		Data:        data,
		ContentType: mimetype.Detect(data).String(),
	}
}

// mirrorImage copies the image to object storage and returns its public URL.
// Without storage, or on failure, it returns an empty URL.
func mirrorImage(ctx context.Context, st storage.Storage, prefix, ownerID string, image models.Image) string {
	if st == nil {
		return ""
	}

	_, url, err := st.UploadImage(ctx, prefix, ownerID, image)
	if err != nil {
		slog.WarnContext(ctx, "не удалось сохранить изображение в хранилище", "prefix", prefix, "owner", ownerID, "error", err)
		return ""
	}

	return url
}
