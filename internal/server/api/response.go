package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/dmitrijs2005/gopherchat/internal/common"
)

const (
	msgUnauthorized       = "Unauthorized"
	msgInvalidCredentials = "Invalid credentials"
	msgInvalidBody        = "Invalid request body"
	msgBodyTooLarge       = "Request body too large"
	msgInternal           = "Internal Server Error"
)

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, messageResponse{Message: msg})
}

// writeError maps err onto a status class. Only validation reasons reach
// the client verbatim; internal details are logged.
func (s *HTTPServer) writeError(ctx context.Context, w http.ResponseWriter, err error) {
	var ve *common.ValidationError
	var tooLarge *http.MaxBytesError

	switch {
	case errors.As(err, &ve):
		writeMessage(w, http.StatusBadRequest, ve.Reason)
	case errors.Is(err, common.ErrorValidation):
		writeMessage(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &tooLarge):
		writeMessage(w, http.StatusRequestEntityTooLarge, msgBodyTooLarge)
	case errors.Is(err, common.ErrInvalidCredentials):
		writeMessage(w, http.StatusUnauthorized, msgInvalidCredentials)
	case common.IsAuthError(err):
		writeMessage(w, http.StatusUnauthorized, msgUnauthorized)
	default:
		s.logger.Error(ctx, "request failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, msgInternal)
	}
}

// decodeJSON reads a single JSON object into dst, honouring the body limit.
// An empty body leaves dst untouched.
func (s *HTTPServer) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	body := r.Body
	if s.maxBody > 0 {
		body = http.MaxBytesReader(w, r.Body, s.maxBody)
	}

	err := json.NewDecoder(body).Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return err
	}
	return common.NewValidationError(msgInvalidBody)
}
