package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/balaji2k423/class-room/internal/core"
	"github.com/balaji2k423/class-room/internal/data"
	"github.com/balaji2k423/class-room/internal/domain/model"
	apperrors "github.com/balaji2k423/class-room/internal/errors"
)

const (
	// joinCodeAlphabet is the uppercase-alphanumeric alphabet join codes are
	// drawn from, uniformly per character.
	joinCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	// maxCodeAttempts bounds join-code regeneration on uniqueness conflicts.
	// With 36^6 possible codes the bound is practically unreachable, but the
	// retry loop must have a defined terminal failure.
	maxCodeAttempts = 10
)

// ClassroomServiceOptions groups dependencies for ClassroomService.
type ClassroomServiceOptions struct {
	Repo   core.ClassroomRepository // Required: classroom repository
	Logger *slog.Logger             // Optional: structured logger
}

// ClassroomService owns the classroom lifecycle: creation, code-based
// joining, listing with visibility rules, retrieval with access checks, and
// archival.
type ClassroomService struct {
	repo   core.ClassroomRepository
	logger *slog.Logger
}

// NewClassroomService constructs a new ClassroomService.
func NewClassroomService(opts ClassroomServiceOptions) (*ClassroomService, error) {
	if opts.Repo == nil {
		return nil, errors.New("ClassroomRepository is required")
	}

	var logger *slog.Logger
	if opts.Logger != nil {
		logger = opts.Logger.With("component", "classroom_service")
	}

	return &ClassroomService{repo: opts.Repo, logger: logger}, nil
}

// Create validates the request, generates a join code, and persists the
// classroom. The code is part of the same write that creates the record, so
// two concurrent creates can never both commit an "unused" code; the loser
// of the unique-index race regenerates and retries.
func (s *ClassroomService) Create(
	ctx context.Context,
	req model.CreateClassroomRequest,
	creatorID string,
) (*model.Classroom, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := generateJoinCode()
		if err != nil {
			return nil, fmt.Errorf("generate join code: %w", err)
		}

		classroom, err := s.repo.Create(ctx, model.CreateClassroomParams{
			Name:        req.Name,
			Description: req.Description,
			CreatorID:   creatorID,
			Code:        code,
		})
		if errors.Is(err, data.ErrJoinCodeExists) {
			if s.logger != nil {
				s.logger.WarnContext(ctx, "join code collision, regenerating", "attempt", attempt+1)
			}
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("create classroom: %w", err)
		}
		return classroom, nil
	}

	return nil, apperrors.CodeSpaceExhausted("could not generate a unique join code")
}

// List returns the classrooms visible to the caller.
//
// Admins see everything, archived included. Everyone else sees only
// unarchived classrooms they created or joined; archived classrooms drop out
// of a non-admin's list even when the caller created or joined them. That is
// deliberately asymmetric with GetByID, which still admits members to
// archived classrooms.
func (s *ClassroomService) List(
	ctx context.Context,
	accountID string,
	isAdmin bool,
) ([]*model.Classroom, error) {
	if isAdmin {
		return s.repo.ListAll(ctx)
	}
	return s.repo.ListForAccount(ctx, accountID)
}

// GetByID retrieves a single classroom, enforcing the access rule: admins,
// the creator, and members always pass; anyone else is turned away only when
// the classroom is archived. An unrelated caller reading an unarchived
// classroom by id is allowed through; tightening that would change observed
// behavior and is intentionally not done here.
func (s *ClassroomService) GetByID(
	ctx context.Context,
	id string,
	accountID string,
	isAdmin bool,
) (*model.Classroom, error) {
	classroom, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	hasRelation := isAdmin || classroom.CreatorID == accountID || classroom.HasStudent(accountID)
	if !hasRelation && classroom.IsArchived {
		return nil, apperrors.Forbidden("you do not have permission to access this classroom")
	}
	return classroom, nil
}

// JoinByCode adds the caller to the classroom matching the code.
//
// Unknown codes and codes of archived classrooms both report not-found, so
// archived codes cannot be enumerated. The membership append is a conditional
// store write: a duplicate join, concurrent or not, reports already-member
// and leaves exactly one membership entry.
func (s *ClassroomService) JoinByCode(
	ctx context.Context,
	req model.JoinClassroomRequest,
	accountID string,
) (*model.JoinClassroomResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	classroom, err := s.repo.GetActiveByCode(ctx, req.Code)
	if err != nil {
		return nil, err
	}

	if err := s.repo.AddStudent(ctx, core.AddStudentParams{
		ClassroomID: classroom.ID,
		AccountID:   accountID,
	}); err != nil {
		if errors.Is(err, data.ErrAlreadyMember) {
			return nil, apperrors.AlreadyMember("account is already a member of this classroom")
		}
		return nil, err
	}

	if s.logger != nil {
		s.logger.DebugContext(ctx, "account joined classroom",
			"classroom_id", classroom.ID, "account_id", accountID)
	}

	return &model.JoinClassroomResult{ClassroomID: classroom.ID, Name: classroom.Name}, nil
}

// Archive marks a classroom archived. Only the creator or an admin may
// archive. The operation is idempotent: archiving an archived classroom
// succeeds and changes nothing.
func (s *ClassroomService) Archive(
	ctx context.Context,
	id string,
	accountID string,
	isAdmin bool,
) error {
	classroom, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !isAdmin && classroom.CreatorID != accountID {
		return apperrors.Forbidden("you do not have permission to archive this classroom")
	}

	if err := s.repo.Archive(ctx, id); err != nil {
		return err
	}

	if s.logger != nil {
		s.logger.InfoContext(ctx, "classroom archived", "classroom_id", id, "by", accountID)
	}
	return nil
}

// generateJoinCode draws a fixed-length code from the join-code alphabet,
// one uniform character at a time.
func generateJoinCode() (string, error) {
	alphabetSize := big.NewInt(int64(len(joinCodeAlphabet)))
	buf := make([]byte, model.JoinCodeLength)
	for i := range buf {
		n, err := rand.Int(rand.Reader, alphabetSize)
		if err != nil {
			return "", err
		}
		buf[i] = joinCodeAlphabet[n.Int64()]
	}
	return string(buf), nil
}
