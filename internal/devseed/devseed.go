// Package devseed populates a development database with demo accounts and
// classrooms so the API can be exercised without a live identity provider.
package devseed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/balaji2k423/class-room/internal/core"
	domainauth "github.com/balaji2k423/class-room/internal/domain/auth"
	"github.com/balaji2k423/class-room/internal/domain/model"
	apperrors "github.com/balaji2k423/class-room/internal/errors"
	"github.com/balaji2k423/class-room/internal/service"
)

// Deps bundles the dependencies needed for development seeding.
type Deps struct {
	Accounts   core.AccountRepository
	Classrooms *service.ClassroomService
	Logger     *slog.Logger
}

type accountSeed struct {
	email string
	name  string
	role  domainauth.Role
}

type classroomSeed struct {
	name        string
	description string
	students    []string // emails of accounts that join after creation
}

func defaultAccountSeeds() []accountSeed {
	return []accountSeed{
		{email: "teacher@classroom.dev", name: "Demo Teacher", role: domainauth.RoleAdmin},
		{email: "student1@classroom.dev", name: "Demo Student One", role: domainauth.RoleUser},
		{email: "student2@classroom.dev", name: "Demo Student Two", role: domainauth.RoleUser},
	}
}

func defaultClassroomSeeds() []classroomSeed {
	return []classroomSeed{
		{
			name:        "Algebra 101",
			description: "Linear equations and graphing",
			students:    []string{"student1@classroom.dev", "student2@classroom.dev"},
		},
		{
			name:        "World History",
			description: "From the Bronze Age to the present",
			students:    []string{"student1@classroom.dev"},
		},
	}
}

// Run executes the development seeding workflow. Accounts are inserted with
// first-write-wins semantics, so rerunning only touches what is missing;
// classrooms are skipped entirely once the teacher account owns any.
func Run(ctx context.Context, deps Deps) error {
	accounts, err := seedAccounts(ctx, deps)
	if err != nil {
		return err
	}

	teacher, ok := accounts["teacher@classroom.dev"]
	if !ok {
		return errors.New("teacher seed account missing")
	}

	existing, err := deps.Classrooms.List(ctx, teacher.ID, false)
	if err != nil {
		return fmt.Errorf("list seeded classrooms: %w", err)
	}
	if len(existing) > 0 {
		if deps.Logger != nil {
			deps.Logger.InfoContext(ctx, "dev classrooms already seeded", "count", len(existing))
		}
		return nil
	}

	return seedClassrooms(ctx, deps, teacher, accounts)
}

func seedAccounts(ctx context.Context, deps Deps) (map[string]*model.Account, error) {
	out := make(map[string]*model.Account)
	for _, seed := range defaultAccountSeeds() {
		account, err := deps.Accounts.CreateIfAbsent(ctx, model.CreateAccountParams{
			GoogleID: "dev-" + seed.email,
			Email:    seed.email,
			Name:     seed.name,
			Role:     string(seed.role),
		})
		if err != nil {
			return nil, fmt.Errorf("seed account %s: %w", seed.email, err)
		}
		out[seed.email] = account
		if deps.Logger != nil {
			deps.Logger.InfoContext(ctx, "seed account ready", "email", seed.email, "role", account.Role)
		}
	}
	return out, nil
}

func seedClassrooms(
	ctx context.Context,
	deps Deps,
	teacher *model.Account,
	accounts map[string]*model.Account,
) error {
	for _, seed := range defaultClassroomSeeds() {
		classroom, err := deps.Classrooms.Create(ctx, model.CreateClassroomRequest{
			Name:        seed.name,
			Description: seed.description,
		}, teacher.ID)
		if err != nil {
			return fmt.Errorf("seed classroom %q: %w", seed.name, err)
		}
		if deps.Logger != nil {
			deps.Logger.InfoContext(ctx, "created demo classroom",
				"name", classroom.Name, "code", classroom.Code)
		}

		for _, email := range seed.students {
			student, ok := accounts[email]
			if !ok {
				continue
			}
			_, joinErr := deps.Classrooms.JoinByCode(ctx, model.JoinClassroomRequest{
				Code: classroom.Code,
			}, student.ID)
			if joinErr != nil && !apperrors.IsAlreadyMember(joinErr) {
				return fmt.Errorf("seed membership %s -> %q: %w", email, seed.name, joinErr)
			}
		}
	}
	return nil
}
