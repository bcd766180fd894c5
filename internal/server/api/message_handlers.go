package api

import (
	"net/http"

	"github.com/dmitrijs2005/gopherchat/internal/server/auth"
	"github.com/dmitrijs2005/gopherchat/internal/server/services"
)

func (s *HTTPServer) listPeers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, _ := auth.UserFromContext(ctx)

	peers, err := s.users.ListPeers(ctx, user.ID)
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}

	writeJSON(w, http.StatusOK, peers)
}

func (s *HTTPServer) getMessages(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, _ := auth.UserFromContext(ctx)

	msgs, err := s.messages.Conversation(ctx, user.ID, r.PathValue("id"))
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}

	writeJSON(w, http.StatusOK, msgs)
}

func (s *HTTPServer) sendMessage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, _ := auth.UserFromContext(ctx)

	var in services.SendInput
	if err := s.decodeJSON(w, r, &in); err != nil {
		s.writeError(ctx, w, err)
		return
	}

	msg, err := s.messages.Send(ctx, user.ID, r.PathValue("id"), in)
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}

	writeJSON(w, http.StatusCreated, msg)
}
