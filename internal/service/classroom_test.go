package service

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/balaji2k423/class-room/internal/core"
	"github.com/balaji2k423/class-room/internal/data"
	"github.com/balaji2k423/class-room/internal/domain/model"
	apperrors "github.com/balaji2k423/class-room/internal/errors"
)

// fakeClassroomRepo is an in-memory ClassroomRepository mirroring the store
// contract: global code uniqueness, set-semantics membership, idempotent archive.
type fakeClassroomRepo struct {
	classrooms map[string]*model.Classroom
	nextID     int
	now        time.Time

	// codeCollisions forces the first N creates to report a code conflict,
	// for exercising the regeneration loop.
	codeCollisions int
	createCalls    int
}

func newFakeClassroomRepo() *fakeClassroomRepo {
	return &fakeClassroomRepo{
		classrooms: map[string]*model.Classroom{},
		now:        time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (f *fakeClassroomRepo) tick() time.Time {
	f.now = f.now.Add(time.Second)
	return f.now
}

func (f *fakeClassroomRepo) Create(
	_ context.Context,
	params model.CreateClassroomParams,
) (*model.Classroom, error) {
	f.createCalls++
	if f.codeCollisions > 0 {
		f.codeCollisions--
		return nil, data.ErrJoinCodeExists
	}
	for _, c := range f.classrooms {
		if c.Code == params.Code {
			return nil, data.ErrJoinCodeExists
		}
	}
	f.nextID++
	ts := f.tick()
	classroom := &model.Classroom{
		ID:          fmt.Sprintf("class-%d", f.nextID),
		Name:        params.Name,
		Description: params.Description,
		CreatorID:   params.CreatorID,
		Students:    []string{},
		Code:        params.Code,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}
	f.classrooms[classroom.ID] = classroom
	return cloneClassroom(classroom), nil
}

func (f *fakeClassroomRepo) GetByID(_ context.Context, id string) (*model.Classroom, error) {
	if c, ok := f.classrooms[id]; ok {
		return cloneClassroom(c), nil
	}
	return nil, data.ErrClassroomNotFound
}

func (f *fakeClassroomRepo) ListAll(_ context.Context) ([]*model.Classroom, error) {
	var out []*model.Classroom
	for _, c := range f.classrooms {
		out = append(out, cloneClassroom(c))
	}
	sortNewestFirst(out)
	return out, nil
}

func (f *fakeClassroomRepo) ListForAccount(_ context.Context, accountID string) ([]*model.Classroom, error) {
	var out []*model.Classroom
	for _, c := range f.classrooms {
		if c.IsArchived {
			continue
		}
		if c.CreatorID == accountID || c.HasStudent(accountID) {
			out = append(out, cloneClassroom(c))
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (f *fakeClassroomRepo) GetActiveByCode(_ context.Context, code string) (*model.Classroom, error) {
	for _, c := range f.classrooms {
		if c.Code == code && !c.IsArchived {
			return cloneClassroom(c), nil
		}
	}
	return nil, data.ErrClassroomNotFound
}

func (f *fakeClassroomRepo) AddStudent(_ context.Context, params core.AddStudentParams) error {
	c, ok := f.classrooms[params.ClassroomID]
	if !ok {
		return data.ErrClassroomNotFound
	}
	if c.HasStudent(params.AccountID) {
		return data.ErrAlreadyMember
	}
	c.Students = append(c.Students, params.AccountID)
	return nil
}

func (f *fakeClassroomRepo) Archive(_ context.Context, id string) error {
	c, ok := f.classrooms[id]
	if !ok {
		return data.ErrClassroomNotFound
	}
	if c.IsArchived {
		return nil
	}
	c.IsArchived = true
	c.UpdatedAt = f.tick()
	return nil
}

func cloneClassroom(c *model.Classroom) *model.Classroom {
	cp := *c
	cp.Students = append([]string{}, c.Students...)
	return &cp
}

func sortNewestFirst(out []*model.Classroom) {
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
}

func newTestClassroomService(t *testing.T, repo *fakeClassroomRepo) *ClassroomService {
	t.Helper()
	svc, err := NewClassroomService(ClassroomServiceOptions{Repo: repo})
	require.NoError(t, err)
	return svc
}

var joinCodePattern = regexp.MustCompile(`^[A-Z0-9]{6}$`)

func TestCreateRoundTrip(t *testing.T) {
	repo := newFakeClassroomRepo()
	svc := newTestClassroomService(t, repo)

	created, err := svc.Create(context.Background(), model.CreateClassroomRequest{
		Name:        "Algebra 101",
		Description: "",
	}, "creator-1")
	require.NoError(t, err)

	got, err := svc.GetByID(context.Background(), created.ID, "creator-1", false)
	require.NoError(t, err)

	assert.Equal(t, "Algebra 101", got.Name)
	assert.Empty(t, got.Students)
	assert.False(t, got.IsArchived)
	assert.Regexp(t, joinCodePattern, got.Code)
}

func TestCreateValidationBoundaries(t *testing.T) {
	repo := newFakeClassroomRepo()
	svc := newTestClassroomService(t, repo)
	ctx := context.Background()

	_, err := svc.Create(ctx, model.CreateClassroomRequest{Name: "ab"}, "creator-1")
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err), "2-character name fails validation")

	_, err = svc.Create(ctx, model.CreateClassroomRequest{Name: "abc"}, "creator-1")
	require.NoError(t, err, "3-character name is the lower boundary")

	_, err = svc.Create(ctx, model.CreateClassroomRequest{Name: strings.Repeat("x", 101)}, "creator-1")
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))

	_, err = svc.Create(ctx, model.CreateClassroomRequest{
		Name:        "Geometry",
		Description: strings.Repeat("d", 501),
	}, "creator-1")
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err), "over-long description is rejected, not truncated")

	_, err = svc.Create(ctx, model.CreateClassroomRequest{Name: "  ab  "}, "creator-1")
	require.Error(t, err, "name length is checked after trimming")
}

func TestCreateRetriesOnCodeCollision(t *testing.T) {
	repo := newFakeClassroomRepo()
	repo.codeCollisions = 2
	svc := newTestClassroomService(t, repo)

	created, err := svc.Create(context.Background(), model.CreateClassroomRequest{Name: "Physics"}, "creator-1")
	require.NoError(t, err)
	assert.Equal(t, 3, repo.createCalls, "two collisions then success")
	assert.Regexp(t, joinCodePattern, created.Code)
}

func TestCreateCodeSpaceExhausted(t *testing.T) {
	repo := newFakeClassroomRepo()
	repo.codeCollisions = maxCodeAttempts + 1
	svc := newTestClassroomService(t, repo)

	_, err := svc.Create(context.Background(), model.CreateClassroomRequest{Name: "Physics"}, "creator-1")
	require.Error(t, err)
	assert.True(t, apperrors.IsCodeSpaceExhausted(err))
	assert.Equal(t, maxCodeAttempts, repo.createCalls, "retry loop is bounded")
}

func TestJoinByCode(t *testing.T) {
	repo := newFakeClassroomRepo()
	svc := newTestClassroomService(t, repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, model.CreateClassroomRequest{Name: "Chemistry"}, "creator-1")
	require.NoError(t, err)

	result, err := svc.JoinByCode(ctx, model.JoinClassroomRequest{Code: created.Code}, "student-1")
	require.NoError(t, err)
	assert.Equal(t, created.ID, result.ClassroomID)
	assert.Equal(t, "Chemistry", result.Name)

	got, err := svc.GetByID(ctx, created.ID, "student-1", false)
	require.NoError(t, err)
	assert.Equal(t, []string{"student-1"}, got.Students)
}

func TestJoinByCodeValidatesEmptyCode(t *testing.T) {
	svc := newTestClassroomService(t, newFakeClassroomRepo())

	_, err := svc.JoinByCode(context.Background(), model.JoinClassroomRequest{Code: ""}, "student-1")
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestJoinByCodeUnknownCode(t *testing.T) {
	svc := newTestClassroomService(t, newFakeClassroomRepo())

	_, err := svc.JoinByCode(context.Background(), model.JoinClassroomRequest{Code: "ZZZZZZ"}, "student-1")
	require.ErrorIs(t, err, data.ErrClassroomNotFound)
}

func TestJoinByCodeArchivedCodeLooksUnknown(t *testing.T) {
	repo := newFakeClassroomRepo()
	svc := newTestClassroomService(t, repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, model.CreateClassroomRequest{Name: "History"}, "creator-1")
	require.NoError(t, err)
	require.NoError(t, svc.Archive(ctx, created.ID, "creator-1", false))

	_, err = svc.JoinByCode(ctx, model.JoinClassroomRequest{Code: created.Code}, "student-1")
	require.ErrorIs(t, err, data.ErrClassroomNotFound,
		"archived code is indistinguishable from a code that never existed")
}

func TestJoinByCodeIsIdempotentAgainstDuplicates(t *testing.T) {
	repo := newFakeClassroomRepo()
	svc := newTestClassroomService(t, repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, model.CreateClassroomRequest{Name: "Biology"}, "creator-1")
	require.NoError(t, err)

	_, err = svc.JoinByCode(ctx, model.JoinClassroomRequest{Code: created.Code}, "student-1")
	require.NoError(t, err)

	_, err = svc.JoinByCode(ctx, model.JoinClassroomRequest{Code: created.Code}, "student-1")
	require.Error(t, err)
	assert.True(t, apperrors.IsAlreadyMember(err))

	got, err := svc.GetByID(ctx, created.ID, "student-1", false)
	require.NoError(t, err)
	assert.Equal(t, []string{"student-1"}, got.Students, "exactly one membership entry survives")
}

func TestGetByIDAccessRules(t *testing.T) {
	repo := newFakeClassroomRepo()
	svc := newTestClassroomService(t, repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, model.CreateClassroomRequest{Name: "Latin"}, "creator-1")
	require.NoError(t, err)
	_, err = svc.JoinByCode(ctx, model.JoinClassroomRequest{Code: created.Code}, "member-1")
	require.NoError(t, err)

	// Unarchived: even an unrelated caller is allowed through by id.
	_, err = svc.GetByID(ctx, created.ID, "stranger-1", false)
	require.NoError(t, err, "unrelated access to an unarchived classroom is currently allowed")

	require.NoError(t, svc.Archive(ctx, created.ID, "creator-1", false))

	// Archived: relation required.
	_, err = svc.GetByID(ctx, created.ID, "stranger-1", false)
	require.Error(t, err)
	assert.True(t, apperrors.IsForbidden(err))

	for _, tc := range []struct {
		name      string
		accountID string
		isAdmin   bool
	}{
		{name: "creator", accountID: "creator-1"},
		{name: "member", accountID: "member-1"},
		{name: "admin", accountID: "someone-else", isAdmin: true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, getErr := svc.GetByID(ctx, created.ID, tc.accountID, tc.isAdmin)
			require.NoError(t, getErr)
		})
	}

	_, err = svc.GetByID(ctx, "missing-id", "creator-1", false)
	require.ErrorIs(t, err, data.ErrClassroomNotFound)
}

func TestArchive(t *testing.T) {
	repo := newFakeClassroomRepo()
	svc := newTestClassroomService(t, repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, model.CreateClassroomRequest{Name: "Music"}, "creator-1")
	require.NoError(t, err)

	err = svc.Archive(ctx, created.ID, "stranger-1", false)
	require.Error(t, err)
	assert.True(t, apperrors.IsForbidden(err), "only creator or admin may archive")

	require.NoError(t, svc.Archive(ctx, created.ID, "creator-1", false))

	got, err := svc.GetByID(ctx, created.ID, "creator-1", false)
	require.NoError(t, err)
	assert.True(t, got.IsArchived)
	archivedAt := got.UpdatedAt

	// Idempotent: the second archive succeeds and changes nothing, the
	// update timestamp included.
	require.NoError(t, svc.Archive(ctx, created.ID, "creator-1", false))
	got, err = svc.GetByID(ctx, created.ID, "creator-1", false)
	require.NoError(t, err)
	assert.True(t, got.IsArchived)
	assert.Equal(t, archivedAt, got.UpdatedAt, "re-archiving leaves the record untouched")

	err = svc.Archive(ctx, "missing-id", "creator-1", false)
	require.ErrorIs(t, err, data.ErrClassroomNotFound)
}

func TestArchiveByAdmin(t *testing.T) {
	repo := newFakeClassroomRepo()
	svc := newTestClassroomService(t, repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, model.CreateClassroomRequest{Name: "Drama"}, "creator-1")
	require.NoError(t, err)

	require.NoError(t, svc.Archive(ctx, created.ID, "admin-1", true))
	got, err := svc.GetByID(ctx, created.ID, "admin-1", true)
	require.NoError(t, err)
	assert.True(t, got.IsArchived)
}

func TestListVisibility(t *testing.T) {
	repo := newFakeClassroomRepo()
	svc := newTestClassroomService(t, repo)
	ctx := context.Background()

	// Non-admin A creates classroom C.
	created, err := svc.Create(ctx, model.CreateClassroomRequest{Name: "Astronomy"}, "account-a")
	require.NoError(t, err)

	// Admin sees C.
	adminList, err := svc.List(ctx, "admin-1", true)
	require.NoError(t, err)
	require.Len(t, adminList, 1)

	// Unrelated non-admin B does not see C.
	bList, err := svc.List(ctx, "account-b", false)
	require.NoError(t, err)
	assert.Empty(t, bList)

	// B joins by code and now sees C.
	_, err = svc.JoinByCode(ctx, model.JoinClassroomRequest{Code: created.Code}, "account-b")
	require.NoError(t, err)
	bList, err = svc.List(ctx, "account-b", false)
	require.NoError(t, err)
	require.Len(t, bList, 1)

	// A archives C.
	require.NoError(t, svc.Archive(ctx, created.ID, "account-a", false))

	// Archived classrooms drop out of every non-admin list, membership or not.
	bList, err = svc.List(ctx, "account-b", false)
	require.NoError(t, err)
	assert.Empty(t, bList, "members do not see archived classrooms in the list view")
	aList, err := svc.List(ctx, "account-a", false)
	require.NoError(t, err)
	assert.Empty(t, aList, "creators do not see archived classrooms in the list view either")

	// But B, as a member, can still retrieve C by id.
	got, err := svc.GetByID(ctx, created.ID, "account-b", false)
	require.NoError(t, err)
	assert.True(t, got.IsArchived)

	// Admins keep seeing archived classrooms in the list.
	adminList, err = svc.List(ctx, "admin-1", true)
	require.NoError(t, err)
	require.Len(t, adminList, 1)
}

func TestListOrdersNewestFirst(t *testing.T) {
	repo := newFakeClassroomRepo()
	svc := newTestClassroomService(t, repo)
	ctx := context.Background()

	for _, name := range []string{"First", "Second", "Third"} {
		_, err := svc.Create(ctx, model.CreateClassroomRequest{Name: name}, "account-a")
		require.NoError(t, err)
	}

	list, err := svc.List(ctx, "account-a", false)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "Third", list[0].Name)
	assert.Equal(t, "First", list[2].Name)
}

func TestGeneratedCodesAreDistinct(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		code, err := generateJoinCode()
		require.NoError(t, err)
		assert.Regexp(t, joinCodePattern, code)
		seen[code] = true
	}
	assert.Greater(t, len(seen), 45, "codes are drawn from a large space")
}
