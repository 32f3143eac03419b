// Package httpx provides HTTP handlers and middleware for the classroom API.
package httpx

import (
	"errors"
	"log/slog"
	"net/http"

	apperrors "github.com/balaji2k423/class-room/internal/errors"
	"github.com/balaji2k423/class-room/internal/service"
)

// AuthHandlers provides HTTP handlers for authentication.
type AuthHandlers struct {
	Svc    *service.AuthService
	Logger *slog.Logger
}

// loginRequest carries the identity-provider assertion presented at login.
type loginRequest struct {
	Credential string `json:"credential"`
}

// Login handles HTTP requests to exchange an identity-provider credential for
// a session token.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	result, err := h.Svc.Login(r.Context(), req.Credential)
	if err != nil {
		if apperrors.IsInvalidAssertion(err) {
			WriteError(w, ErrorParams{
				Code:    http.StatusUnauthorized,
				ErrCode: "invalid_credential",
				Err:     errors.New("credential could not be verified"),
			})
			return
		}
		if h.Logger != nil {
			h.Logger.ErrorContext(r.Context(), "login failed", "error", err)
		}
		// Internal failures stay opaque to the client.
		WriteError(w, ErrorParams{
			Code:    http.StatusInternalServerError,
			ErrCode: "login_failed",
			Err:     errors.New("login failed"),
		})
		return
	}

	WriteJSON(w, http.StatusOK, result)
}
