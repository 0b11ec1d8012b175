package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PublicPaths are served without a bearer token.
var PublicPaths = []string{
	"/api/auth/register",
	"/api/auth/login",
	"/api/auth/refresh-token",
	"/health",
	"/tables",
	"/metrics",
}

func (h *Handlers) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	r.HandleFunc("/tables", h.TablesHandler).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/auth/register", h.Register).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", h.Login).Methods(http.MethodPost)
	api.HandleFunc("/auth/refresh-token", h.RefreshToken).Methods(http.MethodPost)

	api.HandleFunc("/me", h.GetMe).Methods(http.MethodGet)
	api.HandleFunc("/me", h.UpdateMe).Methods(http.MethodPut)
	api.HandleFunc("/me/avatar", h.SetMyAvatar).Methods(http.MethodPut)
	api.HandleFunc("/users/{username}", h.GetUser).Methods(http.MethodGet)
	api.HandleFunc("/users/{username}/avatar", h.GetUserAvatar).Methods(http.MethodGet)
	api.HandleFunc("/users/{username}/follow", h.Follow).Methods(http.MethodPost)
	api.HandleFunc("/users/{username}/follow", h.Unfollow).Methods(http.MethodDelete)
	api.HandleFunc("/friends", h.Friends).Methods(http.MethodGet)

	api.HandleFunc("/chats", h.ListChats).Methods(http.MethodGet)
	api.HandleFunc("/chats", h.CreateChat).Methods(http.MethodPost)
	api.HandleFunc("/chats/join", h.JoinChat).Methods(http.MethodPost)
	api.HandleFunc("/direct/{username}", h.DirectChat).Methods(http.MethodPost)
	api.HandleFunc("/chats/{id}", h.GetChat).Methods(http.MethodGet)
	api.HandleFunc("/chats/{id}/membership", h.LeaveChat).Methods(http.MethodDelete)
	api.HandleFunc("/chats/{id}/messages", h.GetMessages).Methods(http.MethodGet)
	api.HandleFunc("/chats/{id}/messages", h.PostMessage).Methods(http.MethodPost)
	api.HandleFunc("/chats/{id}/image", h.SetChatImage).Methods(http.MethodPut)
	api.HandleFunc("/chats/{id}/image", h.GetChatImage).Methods(http.MethodGet)
	api.HandleFunc("/chats/{id}/invitations", h.Invite).Methods(http.MethodPost)

	api.HandleFunc("/invitations", h.ListInvitations).Methods(http.MethodGet)
	api.HandleFunc("/invitations/{id}/accept", h.AcceptInvitation).Methods(http.MethodPost)
	api.HandleFunc("/invitations/{id}/decline", h.DeclineInvitation).Methods(http.MethodPost)

	api.HandleFunc("/feed", h.Feed).Methods(http.MethodGet)
	api.HandleFunc("/news", h.CreateNews).Methods(http.MethodPost)
	api.HandleFunc("/news/{id}", h.GetNews).Methods(http.MethodGet)
	api.HandleFunc("/news/{id}/image", h.SetNewsImage).Methods(http.MethodPut)
	api.HandleFunc("/news/{id}/image", h.GetNewsImage).Methods(http.MethodGet)
	api.HandleFunc("/news/{id}/like", h.LikeNews).Methods(http.MethodPost)
	api.HandleFunc("/news/{id}/like", h.UnlikeNews).Methods(http.MethodDelete)
	api.HandleFunc("/news/{id}/comments", h.ListComments).Methods(http.MethodGet)
	api.HandleFunc("/news/{id}/comments", h.CommentNews).Methods(http.MethodPost)
}
