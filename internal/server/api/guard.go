package api

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/gopherchat/internal/common"
	"github.com/dmitrijs2005/gopherchat/internal/server/auth"
)

// guard lets a request through only with a valid session cookie whose user
// still exists. The resolved user is attached to the request context.
func (s *HTTPServer) guard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		token, err := auth.FromRequest(r)
		var userID string
		if err == nil {
			userID, err = s.auth.Verify(token)
		}
		if err != nil {
			s.logger.Debug(ctx, "session rejected", "path", r.URL.Path, "reason", err)
			writeMessage(w, http.StatusUnauthorized, msgUnauthorized)
			return
		}

		user, err := s.users.GetByID(ctx, userID)
		if errors.Is(err, common.ErrorNotFound) {
			writeMessage(w, http.StatusUnauthorized, msgUnauthorized)
			return
		}
		if err != nil {
			s.writeError(ctx, w, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(auth.ContextWithUser(ctx, user)))
	})
}
