package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/balaji2k423/class-room/config"
	"github.com/balaji2k423/class-room/internal/adapters/authroles"
	"github.com/balaji2k423/class-room/internal/data"
	httpx "github.com/balaji2k423/class-room/internal/http"
	"github.com/balaji2k423/class-room/internal/service"
)

// ServiceContainer holds the constructed services and the auth gate shared by
// the HTTP layer.
type ServiceContainer struct {
	Auth       *service.AuthService
	Classrooms *service.ClassroomService
	Accounts   *data.AccountRepo
	Gate       httpx.AuthGate
}

// ServiceDeps contains dependencies for service construction.
type ServiceDeps struct {
	Config *config.AppConfig
	DB     *sql.DB
	Logger *slog.Logger
}

// NewServices constructs repositories, adapters, and services.
func NewServices(ctx context.Context, deps *ServiceDeps) (ServiceContainer, error) {
	accounts := data.NewAccountRepo(deps.DB)
	classrooms := data.NewClassroomRepo(deps.DB)
	classifier := authroles.EmailRoleClassifier{}

	verifier, err := NewIdentityVerifier(ctx, deps.Config.Auth)
	if err != nil {
		return ServiceContainer{}, err
	}

	signer, err := NewTokenSigner(deps.Config.Auth)
	if err != nil {
		return ServiceContainer{}, err
	}

	authSvc, err := service.NewAuthService(service.AuthServiceOptions{
		Verifier: verifier,
		Accounts: accounts,
		Roles:    classifier,
		Tokens:   signer,
		Logger:   deps.Logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build auth service: %w", err)
	}

	classroomSvc, err := service.NewClassroomService(service.ClassroomServiceOptions{
		Repo:   classrooms,
		Logger: deps.Logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build classroom service: %w", err)
	}

	return ServiceContainer{
		Auth:       authSvc,
		Classrooms: classroomSvc,
		Accounts:   accounts,
		Gate: httpx.AuthGate{
			Tokens:   signer,
			Accounts: accounts,
			Roles:    classifier,
		},
	}, nil
}
