package handlers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
)

type CreateChatRequest struct {
	Name string `json:"name" validate:"required,max=64"`
}

type MessageRequest struct {
	Body string `json:"body" validate:"required,max=140"`
}

type InviteRequest struct {
	Username string `json:"username" validate:"required"`
}

func (h *Handlers) ListChats(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	chats, err := h.ChatService.ListChatsForUser(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	WriteSuccess(w, chats, http.StatusOK)
}

func (h *Handlers) CreateChat(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var req CreateChatRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	chat, err := h.ChatService.CreateNamedChat(r.Context(), req.Name, userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	WriteSuccess(w, chat, http.StatusCreated)
}

func (h *Handlers) JoinChat(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var req CreateChatRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	chat, err := h.ChatService.JoinChat(r.Context(), req.Name, userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	WriteSuccess(w, chat, http.StatusOK)
}

func (h *Handlers) DirectChat(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	chat, err := h.ChatService.GetOrCreateDirectChat(r.Context(), userID, mux.Vars(r)["username"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	WriteSuccess(w, chat, http.StatusOK)
}

func (h *Handlers) GetChat(w http.ResponseWriter, r *http.Request) {
	chat, err := h.ChatService.GetChat(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	WriteSuccess(w, chat, http.StatusOK)
}

func (h *Handlers) LeaveChat(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	if err := h.ChatService.LeaveChat(r.Context(), mux.Vars(r)["id"], userID); err != nil {
		writeServiceError(w, r, err)
		return
	}

	WriteSuccess(w, MessageResponse{Message: "Вы покинули беседу"}, http.StatusOK)
}

// queryInt returns the integer query parameter or 0 when absent or malformed.
func queryInt(r *http.Request, name string) int {
	value, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil {
		return 0
	}
	return value
}

func (h *Handlers) GetMessages(w http.ResponseWriter, r *http.Request) {
	page, err := h.MessageService.PaginateMessages(r.Context(), mux.Vars(r)["id"],
		queryInt(r, "page"), queryInt(r, "per_page"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	WriteSuccess(w, page, http.StatusOK)
}

func (h *Handlers) PostMessage(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var req MessageRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	post, err := h.MessageService.PostMessage(r.Context(), mux.Vars(r)["id"], userID, req.Body)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	WriteSuccess(w, post, http.StatusCreated)
}

func (h *Handlers) SetChatImage(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	image, ok := h.readImage(w, r)
	if !ok {
		return
	}

	url, err := h.ChatService.SetChatImage(r.Context(), mux.Vars(r)["id"], userID, *image)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	WriteSuccess(w, ImageResponse{URL: url}, http.StatusOK)
}

func (h *Handlers) GetChatImage(w http.ResponseWriter, r *http.Request) {
	image, err := h.ChatService.GetChatImage(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeImage(w, image)
}

func (h *Handlers) Invite(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var req InviteRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	invitation, err := h.InvitationService.Invite(r.Context(), mux.Vars(r)["id"], userID, req.Username)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	WriteSuccess(w, invitation, http.StatusCreated)
}
