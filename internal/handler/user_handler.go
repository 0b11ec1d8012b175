package handlers

import (
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gorilla/mux"

	"microchat/internal/models"
	"microchat/internal/repository"
)

type UserResponse struct {
	ID            string    `json:"id"`
	Username      string    `json:"username"`
	Email         string    `json:"email,omitempty"`
	AboutMe       string    `json:"aboutMe"`
	AvatarURL     string    `json:"avatarUrl"`
	LastSeen      time.Time `json:"lastSeen"`
	LastSeenHuman string    `json:"lastSeenHuman"`
	IsFollowing   *bool     `json:"isFollowing,omitempty"`
}

func newUserResponse(user *models.User, withEmail bool) UserResponse {
	response := UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		AboutMe:   user.AboutMe,
		AvatarURL: user.AvatarURL,
		LastSeen:  user.LastSeen,
	}
	if withEmail {
		response.Email = user.Email
	}
	if !user.LastSeen.IsZero() {
		response.LastSeenHuman = humanize.Time(user.LastSeen)
	}
	return response
}

type UpdateProfileRequest struct {
	Username string `json:"username" validate:"required,max=64"`
	AboutMe  string `json:"aboutMe" validate:"max=140"`
}

type FriendsResponse struct {
	Followers []UserResponse `json:"followers"`
	Following []UserResponse `json:"following"`
}

func usersResponse(users []models.User) []UserResponse {
	response := make([]UserResponse, 0, len(users))
	for i := range users {
		response = append(response, newUserResponse(&users[i], false))
	}
	return response
}

func (h *Handlers) GetMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	user, err := h.UserService.GetByID(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	WriteSuccess(w, newUserResponse(user, true), http.StatusOK)
}

func (h *Handlers) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.UserService.UpdateProfile(r.Context(), repository.UpdateProfileRequest{
		UserID:   userID,
		Username: req.Username,
		AboutMe:  req.AboutMe,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	WriteSuccess(w, newUserResponse(user, true), http.StatusOK)
}

func (h *Handlers) SetMyAvatar(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	image, ok := h.readImage(w, r)
	if !ok {
		return
	}

	url, err := h.UserService.SetAvatar(r.Context(), userID, *image)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	WriteSuccess(w, ImageResponse{URL: url}, http.StatusOK)
}

func (h *Handlers) GetUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	user, err := h.UserService.GetProfile(r.Context(), mux.Vars(r)["username"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	response := newUserResponse(user, user.ID == userID)
	if user.ID != userID {
		following, err := h.FollowService.IsFollowing(r.Context(), userID, user.Username)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		response.IsFollowing = &following
	}

	WriteSuccess(w, response, http.StatusOK)
}

func (h *Handlers) GetUserAvatar(w http.ResponseWriter, r *http.Request) {
	image, err := h.UserService.GetAvatar(r.Context(), mux.Vars(r)["username"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeImage(w, image)
}

func (h *Handlers) Follow(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	username := mux.Vars(r)["username"]
	if err := h.FollowService.Follow(r.Context(), userID, username); err != nil {
		writeServiceError(w, r, err)
		return
	}

	WriteSuccess(w, MessageResponse{Message: "Вы подписались на " + username}, http.StatusOK)
}

func (h *Handlers) Unfollow(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	username := mux.Vars(r)["username"]
	if err := h.FollowService.Unfollow(r.Context(), userID, username); err != nil {
		writeServiceError(w, r, err)
		return
	}

	WriteSuccess(w, MessageResponse{Message: "Вы отписались от " + username}, http.StatusOK)
}

func (h *Handlers) Friends(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	friends, err := h.FollowService.Friends(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	WriteSuccess(w, FriendsResponse{
		Followers: usersResponse(friends.Followers),
		Following: usersResponse(friends.Following),
	}, http.StatusOK)
}
