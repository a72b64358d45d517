package auth

import (
	"context"
	"testing"

	"asset-register/internal/domain"
	"asset-register/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func setupAuthDB(t *testing.T) *gorm.DB {
	return testutil.NewDB(t)
}

func seedUser(t *testing.T, db *gorm.DB, email, password, role string) *domain.User {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	u := &domain.User{Fullname: "Test User", UserName: email, Email: email, PasswordHash: string(hash), Role: role}
	require.NoError(t, db.Create(u).Error)
	return u
}

func TestLoginUser_MissingFields(t *testing.T) {
	db := setupAuthDB(t)
	_, err := LoginUser(db, LoginInput{Email: "a@b.com"})
	assert.Equal(t, ErrEmailPasswordRequired, err)
}

func TestLoginUser_UnknownEmail(t *testing.T) {
	db := setupAuthDB(t)
	_, err := LoginUser(db, LoginInput{Email: "nobody@example.com", Password: "x"})
	assert.Equal(t, ErrInvalidEmail, err)
}

func TestLoginUser_WrongPassword(t *testing.T) {
	db := setupAuthDB(t)
	seedUser(t, db, "test@example.com", "secret1!", "viewer")
	_, err := LoginUser(db, LoginInput{Email: "test@example.com", Password: "wrong"})
	assert.Equal(t, ErrIncorrectPassword, err)
}

func TestGormUserFinder_Success(t *testing.T) {
	db := setupAuthDB(t)
	seeded := seedUser(t, db, "test@example.com", "secret1!", "manager")
	finder := &GormUserFinder{DB: db}

	u, err := finder.FindByEmailAndPassword(context.Background(), " Test@Example.com ", "secret1!")
	require.NoError(t, err)
	assert.Equal(t, seeded.UserID, u.UserID)
	assert.Equal(t, "manager", u.Role)
}

func TestVerifyUser(t *testing.T) {
	_, err := VerifyUser(nil)
	assert.Equal(t, ErrNotAuthenticated, err)

	_, err = VerifyUser(&Identity{Role: "viewer"})
	assert.Equal(t, ErrNotAuthenticated, err)

	_, err = VerifyUser(&Identity{UserID: uuid.NewString(), Role: "owner"})
	assert.Equal(t, ErrNotAuthenticated, err)

	id := &Identity{UserID: uuid.NewString(), Role: "viewer"}
	got, err := VerifyUser(id)
	require.NoError(t, err)
	assert.Same(t, id, got)
}

func TestIdentityFromUser(t *testing.T) {
	station := uint(4)
	u := &domain.User{UserID: uuid.New(), Fullname: "A", Email: "a@b.com", Role: "admin", StationID: &station}
	id := IdentityFromUser(u)
	assert.Equal(t, u.UserID.String(), id.UserID)
	assert.Equal(t, "admin", id.Role)
	require.NotNil(t, id.StationID)
	assert.Equal(t, uint(4), *id.StationID)
}

func TestGormUserFinder_FindByID(t *testing.T) {
	db := setupAuthDB(t)
	u := seedUser(t, db, "id@example.com", "secret", "manager")
	finder := &GormUserFinder{DB: db}
	ctx := context.Background()

	got, err := finder.FindByID(ctx, u.UserID.String())
	require.NoError(t, err)
	assert.Equal(t, "manager", got.Role)

	_, err = finder.FindByID(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, ErrNotAuthenticated)
	_, err = finder.FindByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	require.NoError(t, db.Delete(u).Error)
	_, err = finder.FindByID(ctx, u.UserID.String())
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}
