package accounts

import (
	"context"
	"testing"

	policies "asset-register/internal/application/policies/accounts"
	"asset-register/internal/domain"
	"asset-register/internal/middleware"
	"asset-register/internal/pkg/constants"
	"asset-register/internal/pkg/validation"
	"asset-register/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func setupService(t *testing.T) *Service {
	rdb, _ := testutil.NewRedis(t)
	return &Service{DB: testutil.NewDB(t), Rdb: rdb}
}

var superActor = Actor{UserID: "11111111-1111-1111-1111-111111111111", Role: constants.Superadmin}

func validInput(email string) CreateInput {
	return CreateInput{UserName: email, Email: email, Password: "secret1!", Fullname: "jane   doe"}
}

func TestCreate_DefaultsAndHashing(t *testing.T) {
	s := setupService(t)
	u, err := s.Create(context.Background(), superActor, validInput("Jane@Example.com"))
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", u.Email)
	assert.Equal(t, "Jane Doe", u.Fullname)
	assert.Equal(t, constants.Viewer, u.Role)
	assert.NotEqual(t, "secret1!", u.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("secret1!")))
}

func TestCreate_Validation(t *testing.T) {
	s := setupService(t)
	_, err := s.Create(context.Background(), superActor, CreateInput{Email: "bad", Password: "short", Fullname: "R2D2"})
	var verr *validation.Error
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "user_name")
	assert.Contains(t, verr.Fields, "email")
	assert.Contains(t, verr.Fields, "password")
	assert.Contains(t, verr.Fields, "fullname")
}

func TestCreate_Duplicates(t *testing.T) {
	s := setupService(t)
	ctx := context.Background()
	_, err := s.Create(ctx, superActor, validInput("a@example.com"))
	require.NoError(t, err)

	_, err = s.Create(ctx, superActor, validInput("a@example.com"))
	assert.ErrorIs(t, err, ErrEmailRegistered)

	in := validInput("b@example.com")
	in.UserName = "a@example.com"
	_, err = s.Create(ctx, superActor, in)
	assert.ErrorIs(t, err, ErrUserNameRegistered)
}

func TestCreate_PrivilegedRoleNeedsSuperadmin(t *testing.T) {
	s := setupService(t)
	in := validInput("admin@example.com")
	in.Role = constants.Admin
	_, err := s.Create(context.Background(), Actor{UserID: uuid.NewString(), Role: constants.Admin}, in)
	assert.ErrorIs(t, err, policies.ErrOnlySuperadminsCanAssignAdminOrSuperadmin)

	u, err := s.Create(context.Background(), superActor, in)
	require.NoError(t, err)
	assert.Equal(t, constants.Admin, u.Role)
}

func TestCreate_UnknownStation(t *testing.T) {
	s := setupService(t)
	in := validInput("s@example.com")
	missing := uint(42)
	in.StationID = &missing
	_, err := s.Create(context.Background(), superActor, in)
	assert.ErrorIs(t, err, ErrStationNotFound)
}

func TestEnsureSuperadmin(t *testing.T) {
	s := setupService(t)
	ctx := context.Background()
	created, err := s.EnsureSuperadmin(ctx, "root@example.com", "secret1!")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = s.EnsureSuperadmin(ctx, "other@example.com", "secret1!")
	require.NoError(t, err)
	assert.False(t, created)

	users, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, constants.Superadmin, users[0].Role)
}

func TestGet(t *testing.T) {
	s := setupService(t)
	_, err := s.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrInvalidUserID)
	_, err = s.Get(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUpdateProfile(t *testing.T) {
	s := setupService(t)
	ctx := context.Background()
	station := domain.Station{Name: "North"}
	require.NoError(t, s.DB.Create(&station).Error)
	u, err := s.Create(ctx, superActor, validInput("p@example.com"))
	require.NoError(t, err)
	other, err := s.Create(ctx, superActor, validInput("q@example.com"))
	require.NoError(t, err)

	name := "mary smith"
	updated, err := s.UpdateProfile(ctx, u.UserID.String(), UpdateProfileInput{Fullname: &name, StationID: &station.ID})
	require.NoError(t, err)
	assert.Equal(t, "Mary Smith", updated.Fullname)
	require.NotNil(t, updated.StationID)
	assert.Equal(t, station.ID, *updated.StationID)

	taken := other.Email
	_, err = s.UpdateProfile(ctx, u.UserID.String(), UpdateProfileInput{Email: &taken})
	assert.ErrorIs(t, err, ErrEmailRegistered)

	weak := "weak"
	_, err = s.UpdateProfile(ctx, u.UserID.String(), UpdateProfileInput{Password: &weak})
	var verr *validation.Error
	assert.ErrorAs(t, err, &verr)
}

func TestUpdateRole_DropsSessions(t *testing.T) {
	s := setupService(t)
	ctx := context.Background()
	u, err := s.Create(ctx, superActor, validInput("r@example.com"))
	require.NoError(t, err)
	require.NoError(t, s.Rdb.Set(ctx, middleware.SessionRedisPrefix+"sid", "{}", 0).Err())
	require.NoError(t, s.Rdb.SAdd(ctx, middleware.UserSessionsPrefix+u.UserID.String(), "sid").Err())

	updated, err := s.UpdateRole(ctx, Actor{UserID: uuid.NewString(), Role: constants.Admin}, u.UserID.String(), constants.Manager)
	require.NoError(t, err)
	assert.Equal(t, constants.Manager, updated.Role)
	n, err := s.Rdb.Exists(ctx, middleware.SessionRedisPrefix+"sid").Result()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestUpdateRole_Governance(t *testing.T) {
	s := setupService(t)
	ctx := context.Background()
	root, err := s.Create(ctx, superActor, CreateInput{UserName: "root", Email: "root@example.com", Password: "secret1!", Fullname: "Root", Role: constants.Superadmin})
	require.NoError(t, err)

	_, err = s.UpdateRole(ctx, Actor{UserID: root.UserID.String(), Role: constants.Superadmin}, root.UserID.String(), constants.Admin)
	assert.ErrorIs(t, err, policies.ErrUsersCannotModifyTheirOwnRole)

	_, err = s.UpdateRole(ctx, superActor, root.UserID.String(), constants.Admin)
	assert.ErrorIs(t, err, policies.ErrMustHaveAtLeastOneSuperadmin)
}

func TestDelete(t *testing.T) {
	s := setupService(t)
	ctx := context.Background()
	u, err := s.Create(ctx, superActor, validInput("d@example.com"))
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, Actor{UserID: uuid.NewString(), Role: constants.Admin}, u.UserID.String()))
	_, err = s.Get(ctx, u.UserID.String())
	assert.ErrorIs(t, err, ErrUserNotFound)

	err = s.Delete(ctx, superActor, uuid.NewString())
	assert.ErrorIs(t, err, policies.ErrTargetUserNotFound)
}

func TestUpdateRole_SuperadminsDemotingEachOther(t *testing.T) {
	s := setupService(t)
	ctx := context.Background()
	a, err := s.Create(ctx, superActor, CreateInput{UserName: "a", Email: "a@example.com", Password: "secret1!", Fullname: "A", Role: constants.Superadmin})
	require.NoError(t, err)
	b, err := s.Create(ctx, superActor, CreateInput{UserName: "b", Email: "b@example.com", Password: "secret1!", Fullname: "B", Role: constants.Superadmin})
	require.NoError(t, err)

	_, err = s.UpdateRole(ctx, Actor{UserID: a.UserID.String(), Role: constants.Superadmin}, b.UserID.String(), constants.Admin)
	require.NoError(t, err)

	// b still acts with the superadmin role it held when its request started.
	_, err = s.UpdateRole(ctx, Actor{UserID: b.UserID.String(), Role: constants.Superadmin}, a.UserID.String(), constants.Admin)
	assert.ErrorIs(t, err, policies.ErrMustHaveAtLeastOneSuperadmin)

	var count int64
	require.NoError(t, s.DB.Model(&domain.User{}).Where("role = ?", constants.Superadmin).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	err = s.Delete(ctx, Actor{UserID: b.UserID.String(), Role: constants.Superadmin}, a.UserID.String())
	assert.ErrorIs(t, err, policies.ErrMustHaveAtLeastOneSuperadmin)
	got, err := s.Get(ctx, a.UserID.String())
	require.NoError(t, err)
	assert.Equal(t, constants.Superadmin, got.Role)
}
