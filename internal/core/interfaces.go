package core

import (
	"context"

	"github.com/balaji2k423/class-room/internal/domain/model"
)

// This file contains repository interface definitions (ports in hexagonal architecture).
// These interfaces define the contracts between the service layer and data layer.
// Service implementations should depend on these interfaces, not concrete implementations.

// AccountRepository defines the interface for account data operations.
type AccountRepository interface {
	// CreateIfAbsent inserts an account keyed on email with insert-if-absent
	// semantics and returns the stored account. When an account with the same
	// email already exists, the stored record wins and is returned unchanged.
	CreateIfAbsent(ctx context.Context, params model.CreateAccountParams) (*model.Account, error)

	GetByID(ctx context.Context, id string) (*model.Account, error)
}

// AddStudentParams groups parameters for ClassroomRepository.AddStudent.
type AddStudentParams struct {
	ClassroomID string
	AccountID   string
}

// ClassroomRepository defines the interface for classroom data operations.
type ClassroomRepository interface {
	// Create inserts a classroom with its join code in a single write.
	// A join-code collision surfaces as data.ErrJoinCodeExists so the caller
	// can regenerate and retry.
	Create(ctx context.Context, params model.CreateClassroomParams) (*model.Classroom, error)

	GetByID(ctx context.Context, id string) (*model.Classroom, error)

	// ListAll returns every classroom, archived included, newest first.
	ListAll(ctx context.Context) ([]*model.Classroom, error)

	// ListForAccount returns unarchived classrooms the account created or
	// joined, newest first.
	ListForAccount(ctx context.Context, accountID string) ([]*model.Classroom, error)

	// GetActiveByCode resolves an exact join code to an unarchived classroom.
	// Unknown and archived codes are indistinguishable: both report not found.
	GetActiveByCode(ctx context.Context, code string) (*model.Classroom, error)

	// AddStudent appends the account to the membership set with a conditional
	// write. An existing membership surfaces as data.ErrAlreadyMember; a
	// concurrent duplicate join never produces a duplicate entry.
	AddStudent(ctx context.Context, params AddStudentParams) error

	// Archive marks the classroom archived. Archiving an already-archived
	// classroom succeeds and is a no-op state-wise.
	Archive(ctx context.Context, id string) error
}
