package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/balaji2k423/class-room/internal/data/pgxutil"
	"github.com/balaji2k423/class-room/internal/domain/model"
)

// AccountRepo provides database operations for accounts.
type AccountRepo struct {
	DB *sql.DB
}

// NewAccountRepo creates a new AccountRepo.
func NewAccountRepo(db *sql.DB) *AccountRepo {
	return &AccountRepo{DB: db}
}

const accountColumns = `id, google_id, email, name, role, created_at`

// CreateIfAbsent inserts an account keyed on email, first-write wins.
//
// The insert is conditional at the store level (ON CONFLICT DO NOTHING on the
// email unique constraint), not check-then-insert, so two concurrent first
// logins for the same email commit exactly one record. When the insert is a
// no-op the stored account is returned unchanged and the caller's candidate
// role is discarded.
func (r *AccountRepo) CreateIfAbsent(
	ctx context.Context,
	params model.CreateAccountParams,
) (*model.Account, error) {
	email := strings.TrimSpace(params.Email)
	if email == "" {
		return nil, errors.New("email is required")
	}

	createdAt := time.Now().UTC()
	var out model.Account
	if err := pgxutil.WithPgxTx(ctx, r.DB, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, `
			INSERT INTO accounts (google_id, email, name, role, created_at)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (email) DO NOTHING
			RETURNING `+accountColumns,
			params.GoogleID,
			email,
			params.Name,
			params.Role,
			createdAt,
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Account])
		if errors.Is(err, pgx.ErrNoRows) {
			// Insert was a no-op: the email already has an account. Re-read it
			// inside the same transaction.
			return r.fetchOne(ctx, tx, accountGetByEmailQuery, &out, email)
		}
		return err
	}); err != nil {
		return nil, fmt.Errorf("create account if absent: %w", err)
	}
	return &out, nil
}

// GetByID retrieves an account by ID.
func (r *AccountRepo) GetByID(ctx context.Context, id string) (*model.Account, error) {
	return r.getByQuery(ctx, accountGetByIDQuery, "failed to get account by ID", id)
}

// --- helpers ---

const (
	accountGetByIDQuery = `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE id = $1`

	accountGetByEmailQuery = `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE email = $1`
)

func (r *AccountRepo) getByQuery(
	ctx context.Context,
	q string,
	errMsg string,
	args ...any,
) (*model.Account, error) {
	var account model.Account
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		return r.fetchOne(ctx, conn, q, &account, args...)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("%s: %w", errMsg, err)
	}
	return &account, nil
}

// rowQuerier is satisfied by both *pgx.Conn and pgx.Tx.
type rowQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func (r *AccountRepo) fetchOne(
	ctx context.Context,
	q rowQuerier,
	query string,
	dst *model.Account,
	args ...any,
) error {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()
	*dst, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Account])
	return err
}
