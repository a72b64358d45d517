package accounts

import (
	"context"
	"errors"
	"strings"
	"unicode"

	policies "asset-register/internal/application/policies/accounts"
	"asset-register/internal/domain"
	"asset-register/internal/pkg/constants"
	"asset-register/internal/pkg/validation"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound       = errors.New("User not found")
	ErrInvalidUserID      = errors.New("Invalid user ID format (must be a valid UUID)")
	ErrEmailRegistered    = errors.New("Email already registered")
	ErrUserNameRegistered = errors.New("Username already registered")
	ErrStationNotFound    = errors.New("Station not found")
)

const bcryptCost = 10

// Service manages user accounts. Rdb is used to drop sessions after role changes.
type Service struct {
	DB  *gorm.DB
	Rdb *redis.Client
}

// Actor is the authenticated user performing an account operation.
type Actor struct {
	UserID string
	Role   string
}

type CreateInput struct {
	UserName  string `json:"user_name" validate:"notblank,max=64"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"password"`
	Fullname  string `json:"fullname" validate:"fullname"`
	Role      string `json:"role" validate:"omitempty,oneof=viewer manager admin superadmin"`
	StationID *uint  `json:"station_id"`
}

// Create adds an account. Role defaults to viewer; privileged roles need a superadmin actor.
func (s *Service) Create(ctx context.Context, actor Actor, in CreateInput) (*domain.User, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	role := in.Role
	if role == "" {
		role = constants.Viewer
	}
	db := s.DB.WithContext(ctx)
	if err := policies.ValidateRoleAssignment(db, policies.ValidateRoleAssignmentParams{
		ActorRole:  actor.Role,
		TargetRole: role,
	}); err != nil {
		return nil, err
	}

	userName := strings.TrimSpace(in.UserName)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if err := s.ensureUnique(db, email, userName, ""); err != nil {
		return nil, err
	}
	if err := s.ensureStation(db, in.StationID); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return nil, err
	}
	u := &domain.User{
		UserName:     userName,
		Email:        email,
		PasswordHash: string(hash),
		Fullname:     titleCaseAndNormalize(in.Fullname),
		Role:         role,
		StationID:    in.StationID,
	}
	if err := db.Create(u).Error; err != nil {
		return nil, err
	}
	return u, nil
}

// EnsureSuperadmin creates a superadmin with the given credentials when no superadmin exists.
// It reports whether an account was created.
func (s *Service) EnsureSuperadmin(ctx context.Context, email, password string) (bool, error) {
	if email == "" || password == "" {
		return false, nil
	}
	var count int64
	if err := s.DB.WithContext(ctx).Model(&domain.User{}).Where("role = ?", constants.Superadmin).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}
	_, err := s.Create(ctx, Actor{Role: constants.Superadmin}, CreateInput{
		UserName: strings.SplitN(email, "@", 2)[0],
		Email:    email,
		Password: password,
		Fullname: "Administrator",
		Role:     constants.Superadmin,
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

// List returns all accounts ordered by name.
func (s *Service) List(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	if err := s.DB.WithContext(ctx).Order("fullname, user_name").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Get returns one account by id.
func (s *Service) Get(ctx context.Context, userID string) (*domain.User, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, ErrInvalidUserID
	}
	var u domain.User
	if err := s.DB.WithContext(ctx).Where("user_id = ?", userID).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

type UpdateProfileInput struct {
	Fullname  *string `json:"fullname" validate:"omitempty,fullname"`
	Email     *string `json:"email" validate:"omitempty,email"`
	Password  *string `json:"password" validate:"omitempty,password"`
	StationID *uint   `json:"station_id"`
}

// UpdateProfile lets a user change their own name, email, password and home station.
func (s *Service) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (*domain.User, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	u, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	db := s.DB.WithContext(ctx)
	upd := map[string]interface{}{}
	if in.Fullname != nil {
		upd["fullname"] = titleCaseAndNormalize(*in.Fullname)
	}
	if in.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*in.Email))
		if err := s.ensureUnique(db, email, "", userID); err != nil {
			return nil, err
		}
		upd["email"] = email
	}
	if in.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcryptCost)
		if err != nil {
			return nil, err
		}
		upd["password_hash"] = string(hash)
	}
	if in.StationID != nil {
		if err := s.ensureStation(db, in.StationID); err != nil {
			return nil, err
		}
		upd["station_id"] = *in.StationID
	}
	if len(upd) == 0 {
		return u, nil
	}
	if err := db.Model(u).Updates(upd).Error; err != nil {
		return nil, err
	}
	return s.Get(ctx, userID)
}

// UpdateRole changes the target's role after the governance checks and drops the target's sessions.
// The checks and the write share one transaction.
func (s *Service) UpdateRole(ctx context.Context, actor Actor, targetUserID, role string) (*domain.User, error) {
	if _, err := uuid.Parse(targetUserID); err != nil {
		return nil, ErrInvalidUserID
	}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := policies.ValidateRoleAssignment(tx, policies.ValidateRoleAssignmentParams{
			ActorRole:    actor.Role,
			TargetRole:   role,
			ActorUserID:  actor.UserID,
			TargetUserID: targetUserID,
		}); err != nil {
			return err
		}
		return tx.Model(&domain.User{}).Where("user_id = ?", targetUserID).Update("role", role).Error
	})
	if err != nil {
		return nil, err
	}
	policies.DestroyUserSessions(ctx, s.Rdb, targetUserID)
	return s.Get(ctx, targetUserID)
}

// Delete soft-deletes the target account and drops its sessions.
func (s *Service) Delete(ctx context.Context, actor Actor, targetUserID string) error {
	if _, err := uuid.Parse(targetUserID); err != nil {
		return ErrInvalidUserID
	}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		target, err := policies.ValidateAccountRemoval(tx, policies.ValidateAccountRemovalParams{
			ActorRole:    actor.Role,
			ActorUserID:  actor.UserID,
			TargetUserID: targetUserID,
		})
		if err != nil {
			return err
		}
		return tx.Delete(target).Error
	})
	if err != nil {
		return err
	}
	policies.DestroyUserSessions(ctx, s.Rdb, targetUserID)
	return nil
}

func (s *Service) ensureUnique(db *gorm.DB, email, userName, exceptUserID string) error {
	check := func(column, value string, sentinel error) error {
		if value == "" {
			return nil
		}
		q := db.Model(&domain.User{}).Where(column+" = ?", value)
		if exceptUserID != "" {
			q = q.Where("user_id <> ?", exceptUserID)
		}
		var n int64
		if err := q.Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return sentinel
		}
		return nil
	}
	if err := check("email", email, ErrEmailRegistered); err != nil {
		return err
	}
	return check("user_name", userName, ErrUserNameRegistered)
}

func (s *Service) ensureStation(db *gorm.DB, stationID *uint) error {
	if stationID == nil {
		return nil
	}
	var n int64
	if err := db.Model(&domain.Station{}).Where("id = ?", *stationID).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return ErrStationNotFound
	}
	return nil
}

func titleCaseAndNormalize(s string) string {
	var b strings.Builder
	capitalize := true
	for _, r := range strings.TrimSpace(strings.ToLower(s)) {
		if unicode.IsSpace(r) {
			if !capitalize {
				b.WriteRune(' ')
				capitalize = true
			}
			continue
		}
		if capitalize {
			b.WriteRune(unicode.ToUpper(r))
			capitalize = false
		} else {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}
