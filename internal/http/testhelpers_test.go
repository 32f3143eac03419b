package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/balaji2k423/class-room/internal/adapters/authroles"
	"github.com/balaji2k423/class-room/internal/core"
	"github.com/balaji2k423/class-room/internal/data"
	domainauth "github.com/balaji2k423/class-room/internal/domain/auth"
	"github.com/balaji2k423/class-room/internal/domain/model"
	apperrors "github.com/balaji2k423/class-room/internal/errors"
	"github.com/balaji2k423/class-room/internal/service"
)

// memAccountRepo is an in-memory AccountRepository for router tests.
type memAccountRepo struct {
	byEmail map[string]*model.Account
	nextID  int
}

func newMemAccountRepo() *memAccountRepo {
	return &memAccountRepo{byEmail: map[string]*model.Account{}}
}

func (m *memAccountRepo) CreateIfAbsent(
	_ context.Context,
	params model.CreateAccountParams,
) (*model.Account, error) {
	if existing, ok := m.byEmail[params.Email]; ok {
		return existing, nil
	}
	m.nextID++
	account := &model.Account{
		ID:       fmt.Sprintf("acc-%d", m.nextID),
		GoogleID: params.GoogleID,
		Email:    params.Email,
		Name:     params.Name,
		Role:     params.Role,
	}
	m.byEmail[params.Email] = account
	return account, nil
}

func (m *memAccountRepo) GetByID(_ context.Context, id string) (*model.Account, error) {
	for _, a := range m.byEmail {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, data.ErrAccountNotFound
}

// memClassroomRepo is an in-memory ClassroomRepository for router tests.
// Classroom ids are real UUIDs so the id-format check in the handlers passes.
type memClassroomRepo struct {
	classrooms map[string]*model.Classroom
}

func newMemClassroomRepo() *memClassroomRepo {
	return &memClassroomRepo{classrooms: map[string]*model.Classroom{}}
}

func (m *memClassroomRepo) Create(
	_ context.Context,
	params model.CreateClassroomParams,
) (*model.Classroom, error) {
	for _, c := range m.classrooms {
		if c.Code == params.Code {
			return nil, data.ErrJoinCodeExists
		}
	}
	classroom := &model.Classroom{
		ID:          uuid.NewString(),
		Name:        params.Name,
		Description: params.Description,
		CreatorID:   params.CreatorID,
		Students:    []string{},
		Code:        params.Code,
	}
	m.classrooms[classroom.ID] = classroom
	return classroom, nil
}

func (m *memClassroomRepo) GetByID(_ context.Context, id string) (*model.Classroom, error) {
	if c, ok := m.classrooms[id]; ok {
		return c, nil
	}
	return nil, data.ErrClassroomNotFound
}

func (m *memClassroomRepo) ListAll(_ context.Context) ([]*model.Classroom, error) {
	var out []*model.Classroom
	for _, c := range m.classrooms {
		out = append(out, c)
	}
	return out, nil
}

func (m *memClassroomRepo) ListForAccount(_ context.Context, accountID string) ([]*model.Classroom, error) {
	var out []*model.Classroom
	for _, c := range m.classrooms {
		if c.IsArchived {
			continue
		}
		if c.CreatorID == accountID || c.HasStudent(accountID) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memClassroomRepo) GetActiveByCode(_ context.Context, code string) (*model.Classroom, error) {
	for _, c := range m.classrooms {
		if c.Code == code && !c.IsArchived {
			return c, nil
		}
	}
	return nil, data.ErrClassroomNotFound
}

func (m *memClassroomRepo) AddStudent(_ context.Context, params core.AddStudentParams) error {
	c, ok := m.classrooms[params.ClassroomID]
	if !ok {
		return data.ErrClassroomNotFound
	}
	if c.HasStudent(params.AccountID) {
		return data.ErrAlreadyMember
	}
	c.Students = append(c.Students, params.AccountID)
	return nil
}

func (m *memClassroomRepo) Archive(_ context.Context, id string) error {
	c, ok := m.classrooms[id]
	if !ok {
		return data.ErrClassroomNotFound
	}
	c.IsArchived = true
	return nil
}

// stubSigner maps issued tokens back to their claims without real signing.
type stubSigner struct {
	byToken map[string]domainauth.Claims
}

func newStubSigner() *stubSigner {
	return &stubSigner{byToken: map[string]domainauth.Claims{}}
}

func (s *stubSigner) Issue(claims domainauth.Claims) (string, error) {
	token := "token-" + claims.AccountID
	s.byToken[token] = claims
	return token, nil
}

func (s *stubSigner) Verify(token string) (domainauth.Claims, error) {
	if claims, ok := s.byToken[token]; ok {
		return claims, nil
	}
	return domainauth.Claims{}, apperrors.Unauthorized("invalid session token")
}

// stubVerifier maps assertion strings to identities, simulating the IdP.
type stubVerifier struct {
	identities map[string]domainauth.Identity
}

func (s *stubVerifier) Verify(_ context.Context, assertion string) (domainauth.Identity, error) {
	if identity, ok := s.identities[assertion]; ok {
		return identity, nil
	}
	return domainauth.Identity{}, apperrors.InvalidAssertion("credential could not be verified")
}

// routerEnv bundles a fully wired router with its backing fakes.
type routerEnv struct {
	handler    http.Handler
	accounts   *memAccountRepo
	classrooms *memClassroomRepo
	signer     *stubSigner
	verifier   *stubVerifier
}

func newRouterEnv(t *testing.T) *routerEnv {
	t.Helper()

	accounts := newMemAccountRepo()
	classrooms := newMemClassroomRepo()
	signer := newStubSigner()
	verifier := &stubVerifier{identities: map[string]domainauth.Identity{}}
	classifier := authroles.EmailRoleClassifier{}

	authSvc, err := service.NewAuthService(service.AuthServiceOptions{
		Verifier: verifier,
		Accounts: accounts,
		Roles:    classifier,
		Tokens:   signer,
	})
	require.NoError(t, err)

	classroomSvc, err := service.NewClassroomService(service.ClassroomServiceOptions{Repo: classrooms})
	require.NoError(t, err)

	handler := NewRouter(RouterServices{
		Auth:       authSvc,
		Classrooms: classroomSvc,
		Gate: AuthGate{
			Tokens:   signer,
			Accounts: accounts,
			Roles:    classifier,
		},
	})

	return &routerEnv{
		handler:    handler,
		accounts:   accounts,
		classrooms: classrooms,
		signer:     signer,
		verifier:   verifier,
	}
}

// loginAs registers an identity for the email and performs a login request,
// returning the session token.
func (env *routerEnv) loginAs(t *testing.T, email string) string {
	t.Helper()

	assertion := "assertion-" + email
	env.verifier.identities[assertion] = domainauth.Identity{
		SubjectID:   "sub-" + email,
		Email:       email,
		DisplayName: email,
	}

	rec := env.do(t, http.MethodPost, "/login", "", map[string]string{"credential": assertion})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.NotEmpty(t, result.Token)
	return result.Token
}

// do performs a request against the router, JSON-encoding body when non-nil.
func (env *routerEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	return rec
}

// createClassroom creates a classroom through the API and returns its decoded body.
func (env *routerEnv) createClassroom(t *testing.T, token, name string) *model.Classroom {
	t.Helper()

	rec := env.do(t, http.MethodPost, "/classrooms", token, map[string]string{"name": name})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var classroom model.Classroom
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &classroom))
	return &classroom
}
