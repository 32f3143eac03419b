package data

import "errors"

// Shared sentinel errors for data-layer repositories.
var (
	// Account repository sentinels.
	ErrAccountNotFound = errors.New("account not found")

	// Classroom repository sentinels.
	ErrClassroomNotFound = errors.New("classroom not found")
	// ErrJoinCodeExists is returned when a generated join code collides with
	// any classroom ever created, archived included. Callers regenerate and retry.
	ErrJoinCodeExists = errors.New("join code already exists")
	// ErrAlreadyMember is returned when the conditional membership insert
	// finds the account already in the classroom's student set.
	ErrAlreadyMember = errors.New("account is already a member of this classroom")
)
