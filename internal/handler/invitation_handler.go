package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
)

func (h *Handlers) ListInvitations(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	invitations, err := h.InvitationService.Pending(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	WriteSuccess(w, invitations, http.StatusOK)
}

func (h *Handlers) AcceptInvitation(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	chat, err := h.InvitationService.Accept(r.Context(), mux.Vars(r)["id"], userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	WriteSuccess(w, chat, http.StatusOK)
}

func (h *Handlers) DeclineInvitation(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUserID(w, r)
	if !ok {
		return
	}

	if err := h.InvitationService.Decline(r.Context(), mux.Vars(r)["id"], userID); err != nil {
		writeServiceError(w, r, err)
		return
	}

	WriteSuccess(w, MessageResponse{Message: "Приглашение отклонено"}, http.StatusOK)
}
