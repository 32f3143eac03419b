package model

import (
	"strings"
	"time"
	"unicode/utf8"

	apperrors "github.com/balaji2k423/class-room/internal/errors"
)

const (
	minClassroomNameLen = 3
	maxClassroomNameLen = 100
	maxDescriptionLen   = 500

	// JoinCodeLength is the fixed length of classroom join codes.
	JoinCodeLength = 6
)

// Classroom represents a classroom resource.
//
// Students holds member account IDs with set semantics; the creator is never
// an implicit member, creator access derives from CreatorID. Code is unique
// among all classrooms ever created, archived included. IsArchived is a
// one-way transition; no operation unarchives.
type Classroom struct {
	ID          string    `json:"id"          db:"id"`
	Name        string    `json:"name"        db:"name"`
	Description string    `json:"description" db:"description"`
	CreatorID   string    `json:"creator_id"  db:"creator_id"`
	Students    []string  `json:"students"    db:"students"`
	Code        string    `json:"code"        db:"code"`
	IsArchived  bool      `json:"is_archived" db:"is_archived"`
	CreatedAt   time.Time `json:"created_at"  db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"  db:"updated_at"`
}

// HasStudent reports whether the given account is a member of the classroom.
func (c *Classroom) HasStudent(accountID string) bool {
	for _, s := range c.Students {
		if s == accountID {
			return true
		}
	}
	return false
}

// CreateClassroomParams groups the repository-level parameters for persisting
// a new classroom. Code is generated by the service before the write so the
// record and its join code commit atomically.
type CreateClassroomParams struct {
	Name        string
	Description string
	CreatorID   string
	Code        string
}

// CreateClassroomRequest represents parameters to create a Classroom.
type CreateClassroomRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Validate normalizes and validates the request in place.
// Name and Description are trimmed before length checks; an over-long
// description is rejected rather than truncated to keep creation deterministic.
func (r *CreateClassroomRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Description = strings.TrimSpace(r.Description)

	nameLen := utf8.RuneCountInString(r.Name)
	if nameLen < minClassroomNameLen {
		return apperrors.ValidationField("name", "classroom name must be at least 3 characters")
	}
	if nameLen > maxClassroomNameLen {
		return apperrors.ValidationField("name", "classroom name cannot exceed 100 characters")
	}
	if utf8.RuneCountInString(r.Description) > maxDescriptionLen {
		return apperrors.ValidationField("description", "description cannot exceed 500 characters")
	}
	return nil
}

// JoinClassroomRequest represents parameters to join a classroom by code.
type JoinClassroomRequest struct {
	Code string `json:"code"`
}

// Validate normalizes and validates the join request in place.
func (r *JoinClassroomRequest) Validate() error {
	r.Code = strings.TrimSpace(r.Code)
	if r.Code == "" {
		return apperrors.ValidationField("code", "classroom code is required")
	}
	return nil
}

// JoinClassroomResult is the acknowledgement returned after a successful join.
type JoinClassroomResult struct {
	ClassroomID string `json:"classroom_id"`
	Name        string `json:"name"`
}
