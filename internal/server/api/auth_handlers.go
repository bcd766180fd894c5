package api

import (
	"net/http"

	"github.com/dmitrijs2005/gopherchat/internal/server/auth"
	"github.com/dmitrijs2005/gopherchat/internal/server/services"
)

type updateProfileRequest struct {
	ProfilePic string `json:"profilePic"`
}

func (s *HTTPServer) signup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var in services.SignupInput
	if err := s.decodeJSON(w, r, &in); err != nil {
		s.writeError(ctx, w, err)
		return
	}

	user, err := s.users.Signup(ctx, in)
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}

	if _, err := s.auth.Issue(w, user.ID); err != nil {
		s.writeError(ctx, w, err)
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

func (s *HTTPServer) login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var in services.LoginInput
	if err := s.decodeJSON(w, r, &in); err != nil {
		s.writeError(ctx, w, err)
		return
	}

	user, err := s.users.Login(ctx, in)
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}

	if _, err := s.auth.Issue(w, user.ID); err != nil {
		s.writeError(ctx, w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (s *HTTPServer) logout(w http.ResponseWriter, r *http.Request) {
	s.auth.Revoke(w)
	writeMessage(w, http.StatusOK, "Logged out successfully")
}

func (s *HTTPServer) updateProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, _ := auth.UserFromContext(ctx)

	var req updateProfileRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(ctx, w, err)
		return
	}

	updated, err := s.users.UpdateProfilePic(ctx, user.ID, req.ProfilePic)
	if err != nil {
		s.writeError(ctx, w, err)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

func (s *HTTPServer) checkAuth(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())
	writeJSON(w, http.StatusOK, user)
}
