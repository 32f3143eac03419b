package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/balaji2k423/class-room/internal/core"
	"github.com/balaji2k423/class-room/internal/data/pgxutil"
	"github.com/balaji2k423/class-room/internal/domain/model"
)

// ClassroomRepo provides database operations for classrooms.
//
// Membership lives in the classroom_students join table with a composite
// primary key, which gives the student set its set semantics: conditional
// inserts can never produce duplicate entries, even under concurrent joins.
type ClassroomRepo struct {
	DB *sql.DB
}

// NewClassroomRepo creates a new ClassroomRepo.
func NewClassroomRepo(db *sql.DB) *ClassroomRepo {
	return &ClassroomRepo{DB: db}
}

// Create inserts a classroom together with its join code in a single write.
// The code's uniqueness is enforced by the store-level unique index; a
// collision surfaces as ErrJoinCodeExists so the service can regenerate.
func (r *ClassroomRepo) Create(
	ctx context.Context,
	params model.CreateClassroomParams,
) (*model.Classroom, error) {
	createdAt := time.Now().UTC()
	var out model.Classroom
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO classrooms (name, description, creator_id, code, is_archived, created_at, updated_at)
			VALUES ($1, $2, $3, $4, FALSE, $5, $5)
			RETURNING id, name, description, creator_id, code, is_archived, created_at, updated_at,
			          '{}'::text[] AS students`,
			params.Name,
			params.Description,
			params.CreatorID,
			params.Code,
			createdAt,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[classroomRow])
		return err
	}); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, ErrJoinCodeExists
		}
		return nil, fmt.Errorf("create classroom: %w", err)
	}
	return &out, nil
}

// GetByID retrieves a classroom by ID, students included.
func (r *ClassroomRepo) GetByID(ctx context.Context, id string) (*model.Classroom, error) {
	return r.getByQuery(ctx, classroomGetByIDQuery, "failed to get classroom by ID", id)
}

// GetActiveByCode resolves an exact join code to an unarchived classroom.
// Codes of archived classrooms and codes that never existed are
// indistinguishable here, which keeps archived codes unenumerable.
func (r *ClassroomRepo) GetActiveByCode(ctx context.Context, code string) (*model.Classroom, error) {
	return r.getByQuery(ctx, classroomGetActiveByCodeQuery, "failed to get classroom by code", code)
}

// ListAll retrieves every classroom, archived included, newest first.
func (r *ClassroomRepo) ListAll(ctx context.Context) ([]*model.Classroom, error) {
	return r.list(ctx, classroomListAllQuery)
}

// ListForAccount retrieves unarchived classrooms the account created or joined,
// newest first. Archived classrooms never appear here, membership or not.
func (r *ClassroomRepo) ListForAccount(
	ctx context.Context,
	accountID string,
) ([]*model.Classroom, error) {
	return r.list(ctx, classroomListForAccountQuery, accountID)
}

// AddStudent appends the account to the classroom's student set.
// The insert is conditional (ON CONFLICT DO NOTHING against the composite
// primary key), so a concurrent duplicate join commits exactly one row; the
// losing writer observes zero affected rows and reports ErrAlreadyMember.
func (r *ClassroomRepo) AddStudent(ctx context.Context, params core.AddStudentParams) error {
	joinedAt := time.Now().UTC()
	var inserted int64
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, `
			INSERT INTO classroom_students (classroom_id, account_id, joined_at)
			VALUES ($1, $2, $3)
			ON CONFLICT (classroom_id, account_id) DO NOTHING`,
			params.ClassroomID,
			params.AccountID,
			joinedAt,
		)
		if err != nil {
			return err
		}
		inserted = ct.RowsAffected()
		return nil
	}); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return ErrClassroomNotFound
		}
		return fmt.Errorf("add student: %w", err)
	}
	if inserted == 0 {
		return ErrAlreadyMember
	}
	return nil
}

// Archive marks the classroom archived. The transition is one-way and
// idempotent: re-archiving leaves the row untouched, updated_at included.
func (r *ClassroomRepo) Archive(ctx context.Context, id string) error {
	updatedAt := time.Now().UTC()
	var exists bool
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, `
			UPDATE classrooms
			SET is_archived = TRUE, updated_at = $2
			WHERE id = $1 AND is_archived = FALSE`,
			id,
			updatedAt,
		)
		if err != nil {
			return err
		}
		if ct.RowsAffected() > 0 {
			exists = true
			return nil
		}
		// Zero rows is either an unknown id or an already-archived classroom.
		return conn.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM classrooms WHERE id = $1)`, id,
		).Scan(&exists)
	}); err != nil {
		return fmt.Errorf("archive classroom: %w", err)
	}
	if !exists {
		return ErrClassroomNotFound
	}
	return nil
}

// --- helpers ---

// classroomRow mirrors model.Classroom for RowToStructByName scans; the
// students aggregate is only present on queries that join the membership table.
type classroomRow = model.Classroom

// classroomSelect aggregates member account IDs into a text array so a
// classroom and its student set come back in one round trip.
const classroomSelect = `
	SELECT c.id, c.name, c.description, c.creator_id, c.code, c.is_archived,
	       c.created_at, c.updated_at,
	       COALESCE(
	           array_agg(cs.account_id::text) FILTER (WHERE cs.account_id IS NOT NULL),
	           '{}'
	       ) AS students
	FROM classrooms c
	LEFT JOIN classroom_students cs ON cs.classroom_id = c.id`

const (
	classroomGetByIDQuery = classroomSelect + `
		WHERE c.id = $1
		GROUP BY c.id`

	classroomGetActiveByCodeQuery = classroomSelect + `
		WHERE c.code = $1 AND c.is_archived = FALSE
		GROUP BY c.id`

	classroomListAllQuery = classroomSelect + `
		GROUP BY c.id
		ORDER BY c.created_at DESC`

	classroomListForAccountQuery = classroomSelect + `
		WHERE c.is_archived = FALSE
		  AND (c.creator_id = $1 OR EXISTS (
		      SELECT 1 FROM classroom_students m
		      WHERE m.classroom_id = c.id AND m.account_id = $1))
		GROUP BY c.id
		ORDER BY c.created_at DESC`
)

func (r *ClassroomRepo) getByQuery(
	ctx context.Context,
	q string,
	errMsg string,
	args ...any,
) (*model.Classroom, error) {
	var classroom model.Classroom
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, q, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		classroom, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[classroomRow])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrClassroomNotFound
		}
		return nil, fmt.Errorf("%s: %w", errMsg, err)
	}
	return &classroom, nil
}

func (r *ClassroomRepo) list(
	ctx context.Context,
	q string,
	args ...any,
) ([]*model.Classroom, error) {
	var rowsOut []model.Classroom
	if err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, q, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		rowsOut, err = pgx.CollectRows(rows, pgx.RowToStructByName[classroomRow])
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to list classrooms: %w", err)
	}

	res := make([]*model.Classroom, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}
