package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"microchat/internal/models"
)

const imageField = "image"

// readImage reads the multipart "image" field, bounded by MaxUploadSize.
// Content sniffing is left to the services.
func (h *Handlers) readImage(w http.ResponseWriter, r *http.Request) (*models.Image, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.Cfg.MaxUploadSize)

	if err := r.ParseMultipartForm(h.Cfg.MaxUploadSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			WriteError(w, "Файл слишком большой", http.StatusRequestEntityTooLarge)
			return nil, false
		}
		WriteError(w, "Ожидается multipart/form-data с полем image", http.StatusBadRequest)
		return nil, false
	}

	return imageFromForm(w, r)
}

// imageFromForm reads the "image" file of an already parsed multipart form.
func imageFromForm(w http.ResponseWriter, r *http.Request) (*models.Image, bool) {
	file, header, err := r.FormFile(imageField)
	if err != nil {
		WriteError(w, "Отсутствует файл изображения", http.StatusBadRequest)
		return nil, false
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		WriteError(w, "Не удалось прочитать файл", http.StatusBadRequest)
		return nil, false
	}

	return &models.Image{
		Data:        data,
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
	}, true
}

func writeImage(w http.ResponseWriter, image *models.Image) {
	w.Header().Set("Content-Type", image.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(image.Data)))
	w.Header().Set("Cache-Control", "private, max-age=60")
	w.WriteHeader(http.StatusOK)
	w.Write(image.Data)
}

type ImageResponse struct {
	URL string `json:"url"`
}
