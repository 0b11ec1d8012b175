package handlers

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"microchat/internal/models"
)

type NewsRequest struct {
	Body string `json:"body" validate:"required,max=1000"`
}

func (h *Handlers) Feed(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	items, err := h.NewsService.BuildNewsFeed(r.Context(), userID, queryInt(r, "limit"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	WriteSuccess(w, items, http.StatusOK)
}

// CreateNews accepts either a JSON body or a multipart form with a "body"
// field and an optional "image" file.
func (h *Handlers) CreateNews(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var req NewsRequest
	var image *models.Image

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		r.Body = http.MaxBytesReader(w, r.Body, h.Cfg.MaxUploadSize)
		if err := r.ParseMultipartForm(h.Cfg.MaxUploadSize); err != nil {
			WriteError(w, "Неверный формат запроса", http.StatusBadRequest)
			return
		}

		req.Body = r.FormValue("body")
		if err := h.Validate.Struct(req); err != nil {
			WriteError(w, validationMessage(err), http.StatusBadRequest)
			return
		}

		if r.MultipartForm.File[imageField] != nil {
			if image, ok = imageFromForm(w, r); !ok {
				return
			}
		}
	} else if !h.decodeAndValidate(w, r, &req) {
		return
	}

	news, err := h.NewsService.CreateNews(r.Context(), userID, req.Body, image)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	WriteSuccess(w, news, http.StatusCreated)
}

func (h *Handlers) GetNews(w http.ResponseWriter, r *http.Request) {
	news, err := h.NewsService.GetNews(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	WriteSuccess(w, news, http.StatusOK)
}

func (h *Handlers) SetNewsImage(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	image, ok := h.readImage(w, r)
	if !ok {
		return
	}

	url, err := h.NewsService.SetNewsImage(r.Context(), mux.Vars(r)["id"], userID, *image)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	WriteSuccess(w, ImageResponse{URL: url}, http.StatusOK)
}

func (h *Handlers) GetNewsImage(w http.ResponseWriter, r *http.Request) {
	image, err := h.NewsService.GetNewsImage(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeImage(w, image)
}

func (h *Handlers) LikeNews(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	news, err := h.NewsService.LikeNews(r.Context(), mux.Vars(r)["id"], userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	WriteSuccess(w, news, http.StatusOK)
}

func (h *Handlers) UnlikeNews(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	news, err := h.NewsService.UnlikeNews(r.Context(), mux.Vars(r)["id"], userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	WriteSuccess(w, news, http.StatusOK)
}

func (h *Handlers) ListComments(w http.ResponseWriter, r *http.Request) {
	comments, err := h.NewsService.ListComments(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	WriteSuccess(w, comments, http.StatusOK)
}

func (h *Handlers) CommentNews(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var req MessageRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	post, err := h.NewsService.CommentNews(r.Context(), mux.Vars(r)["id"], userID, req.Body)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	WriteSuccess(w, post, http.StatusCreated)
}
