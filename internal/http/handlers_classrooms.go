package httpx

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/balaji2k423/class-room/internal/data"
	"github.com/balaji2k423/class-room/internal/domain/model"
	apperrors "github.com/balaji2k423/class-room/internal/errors"
	"github.com/balaji2k423/class-room/internal/service"
)

// ClassroomHandlers provides HTTP handlers for classroom lifecycle operations.
// Every handler expects an authenticated principal in the request context.
type ClassroomHandlers struct {
	Svc *service.ClassroomService
}

// Create handles HTTP requests to create a new classroom.
func (h *ClassroomHandlers) Create(w http.ResponseWriter, r *http.Request) {
	principal, ok := GetPrincipalFromContext(r.Context())
	if !ok {
		writeMissingPrincipal(w)
		return
	}

	var req model.CreateClassroomRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	classroom, err := h.Svc.Create(r.Context(), req, principal.Account.ID)
	if err != nil {
		switch {
		case apperrors.IsValidation(err):
			WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "validation_failed", Err: err})
		case apperrors.IsCodeSpaceExhausted(err):
			WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "code_space_exhausted", Err: err})
		default:
			WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "create_failed", Err: err})
		}
		return
	}

	WriteJSON(w, http.StatusCreated, classroom)
}

// List handles HTTP requests to list the classrooms visible to the caller.
func (h *ClassroomHandlers) List(w http.ResponseWriter, r *http.Request) {
	principal, ok := GetPrincipalFromContext(r.Context())
	if !ok {
		writeMissingPrincipal(w)
		return
	}

	classrooms, err := h.Svc.List(r.Context(), principal.Account.ID, principal.IsAdmin)
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "list_failed", Err: err})
		return
	}
	if classrooms == nil {
		classrooms = []*model.Classroom{}
	}

	WriteJSON(w, http.StatusOK, map[string]any{"classrooms": classrooms})
}

// GetByID handles HTTP requests to get a classroom by ID.
func (h *ClassroomHandlers) GetByID(w http.ResponseWriter, r *http.Request) {
	principal, ok := GetPrincipalFromContext(r.Context())
	if !ok {
		writeMissingPrincipal(w)
		return
	}

	// A malformed id is indistinguishable from a missing classroom.
	id := r.PathValue("id")
	if uuid.Validate(id) != nil {
		writeClassroomNotFound(w)
		return
	}

	classroom, err := h.Svc.GetByID(r.Context(), id, principal.Account.ID, principal.IsAdmin)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrClassroomNotFound):
			writeClassroomNotFound(w)
		case apperrors.IsForbidden(err):
			WriteError(w, ErrorParams{Code: http.StatusForbidden, ErrCode: "access_denied", Err: err})
		default:
			WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "get_failed", Err: err})
		}
		return
	}

	WriteJSON(w, http.StatusOK, classroom)
}

// Join handles HTTP requests to join a classroom by its code.
func (h *ClassroomHandlers) Join(w http.ResponseWriter, r *http.Request) {
	principal, ok := GetPrincipalFromContext(r.Context())
	if !ok {
		writeMissingPrincipal(w)
		return
	}

	var req model.JoinClassroomRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	result, err := h.Svc.JoinByCode(r.Context(), req, principal.Account.ID)
	if err != nil {
		switch {
		case apperrors.IsValidation(err):
			WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "validation_failed", Err: err})
		case errors.Is(err, data.ErrClassroomNotFound):
			writeClassroomNotFound(w)
		case apperrors.IsAlreadyMember(err):
			WriteError(w, ErrorParams{Code: http.StatusConflict, ErrCode: "already_member", Err: err})
		default:
			WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "join_failed", Err: err})
		}
		return
	}

	WriteJSON(w, http.StatusOK, result)
}

// Archive handles HTTP requests to archive a classroom.
func (h *ClassroomHandlers) Archive(w http.ResponseWriter, r *http.Request) {
	principal, ok := GetPrincipalFromContext(r.Context())
	if !ok {
		writeMissingPrincipal(w)
		return
	}

	id := r.PathValue("id")
	if uuid.Validate(id) != nil {
		writeClassroomNotFound(w)
		return
	}

	err := h.Svc.Archive(r.Context(), id, principal.Account.ID, principal.IsAdmin)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrClassroomNotFound):
			writeClassroomNotFound(w)
		case apperrors.IsForbidden(err):
			WriteError(w, ErrorParams{Code: http.StatusForbidden, ErrCode: "access_denied", Err: err})
		default:
			WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "archive_failed", Err: err})
		}
		return
	}

	WriteJSON(w, http.StatusOK, map[string]bool{"archived": true})
}

func writeClassroomNotFound(w http.ResponseWriter) {
	WriteError(w, ErrorParams{
		Code:    http.StatusNotFound,
		ErrCode: "classroom_not_found",
		Err:     errors.New("classroom not found"),
	})
}

func writeMissingPrincipal(w http.ResponseWriter) {
	WriteError(w, ErrorParams{
		Code:    http.StatusUnauthorized,
		ErrCode: "authentication_required",
		Err:     errors.New("authentication required"),
	})
}
