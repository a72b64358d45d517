package auth

import (
	"context"
	"errors"
	"strings"

	"asset-register/internal/domain"
	"asset-register/internal/pkg/constants"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// LoginInput for login request body.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Identity is the authenticated caller, stored in the session and carried in bearer tokens.
type Identity struct {
	UserID    string `json:"user_id"`
	Fullname  string `json:"fullname"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	StationID *uint  `json:"station_id"`
}

// IdentityFromUser builds the session identity for u.
func IdentityFromUser(u *domain.User) Identity {
	return Identity{
		UserID:    u.UserID.String(),
		Fullname:  u.Fullname,
		Email:     u.Email,
		Role:      u.Role,
		StationID: u.StationID,
	}
}

// UserFinder abstracts user lookup by email+password (for production GORM or test doubles).
type UserFinder interface {
	FindByEmailAndPassword(ctx context.Context, email, password string) (*domain.User, error)
}

// GormUserFinder implements UserFinder using GORM and bcrypt.
type GormUserFinder struct{ DB *gorm.DB }

func (g *GormUserFinder) FindByEmailAndPassword(ctx context.Context, email, password string) (*domain.User, error) {
	return LoginUser(g.DB.WithContext(ctx), LoginInput{Email: email, Password: password})
}

// FindByID loads the live account behind a token subject. Unknown, deleted and malformed ids
// all yield ErrNotAuthenticated.
func (g *GormUserFinder) FindByID(ctx context.Context, userID string) (*domain.User, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, ErrNotAuthenticated
	}
	var u domain.User
	if err := g.DB.WithContext(ctx).Where("user_id = ?", userID).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotAuthenticated
		}
		return nil, err
	}
	return &u, nil
}

// LoginUser finds user by email and verifies password.
func LoginUser(db *gorm.DB, input LoginInput) (*domain.User, error) {
	if input.Email == "" || input.Password == "" {
		return nil, ErrEmailPasswordRequired
	}
	email := strings.ToLower(strings.TrimSpace(input.Email))
	var u domain.User
	if err := db.Where("email = ?", email).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidEmail
		}
		return nil, err
	}
	if u.PasswordHash == "" {
		return nil, ErrInvalidEmail
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrIncorrectPassword
	}
	return &u, nil
}

// VerifyUser validates the identity found on the request.
func VerifyUser(id *Identity) (*Identity, error) {
	if id == nil || id.UserID == "" {
		return nil, ErrNotAuthenticated
	}
	if !constants.IsValidRole(id.Role) {
		return nil, ErrNotAuthenticated
	}
	return id, nil
}
