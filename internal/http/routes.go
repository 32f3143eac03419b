package httpx

import (
	"log/slog"
	"net/http"

	"github.com/balaji2k423/class-room/internal/service"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Auth       *service.AuthService
	Classrooms *service.ClassroomService
	Gate       AuthGate
	Logger     *slog.Logger // Logger for HTTP errors (optional)
}

// NewRouter creates and configures a new HTTP router.
func NewRouter(services RouterServices) http.Handler {
	mux := http.NewServeMux()

	authHandlers := &AuthHandlers{Svc: services.Auth, Logger: services.Logger}
	classroomHandlers := &ClassroomHandlers{Svc: services.Classrooms}

	registerAuthRoutes(mux, authHandlers)
	registerClassroomRoutes(mux, classroomHandlers, services.Gate)
	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))

	return mux
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers) {
	mux.Handle("POST /login", http.HandlerFunc(h.Login))
}

func registerClassroomRoutes(mux *http.ServeMux, h *ClassroomHandlers, gate AuthGate) {
	auth := RequireAuth(gate)

	mux.Handle("POST /classrooms", auth(http.HandlerFunc(h.Create)))
	mux.Handle("GET /classrooms", auth(http.HandlerFunc(h.List)))
	mux.Handle("POST /classrooms/join", auth(http.HandlerFunc(h.Join)))
	mux.Handle("GET /classrooms/{id}", auth(http.HandlerFunc(h.GetByID)))
	mux.Handle("PUT /classrooms/{id}/archive", auth(http.HandlerFunc(h.Archive)))
}
