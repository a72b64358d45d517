package policies

import (
	"errors"

	"asset-register/internal/domain"
	"asset-register/internal/pkg/constants"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ValidateRoleAssignmentParams struct {
	ActorRole    string
	TargetRole   string
	ActorUserID  string
	TargetUserID string
}

// ValidateRoleAssignment returns nil when the actor may give TargetRole to the target.
// An empty TargetUserID checks a role for an account that does not exist yet.
func ValidateRoleAssignment(db *gorm.DB, params ValidateRoleAssignmentParams) error {
	if !constants.IsValidRole(params.TargetRole) {
		return ErrInvalidRole
	}
	if isPrivileged(params.TargetRole) && params.ActorRole != constants.Superadmin {
		return ErrOnlySuperadminsCanAssignAdminOrSuperadmin
	}
	if params.TargetUserID == "" {
		return nil
	}
	if params.ActorUserID == params.TargetUserID {
		return ErrUsersCannotModifyTheirOwnRole
	}
	target, err := findUser(db, params.TargetUserID)
	if err != nil {
		return err
	}
	if isPrivileged(target.Role) && params.ActorRole != constants.Superadmin {
		return ErrOnlySuperadminsCanAssignAdminOrSuperadmin
	}
	if target.Role == constants.Superadmin && params.TargetRole != constants.Superadmin {
		if err := ensureAnotherSuperadmin(db); err != nil {
			return err
		}
	}
	return nil
}

type ValidateAccountRemovalParams struct {
	ActorRole    string
	ActorUserID  string
	TargetUserID string
}

// ValidateAccountRemoval returns the target when the actor may delete that account.
func ValidateAccountRemoval(db *gorm.DB, params ValidateAccountRemovalParams) (*domain.User, error) {
	if params.ActorUserID == params.TargetUserID {
		return nil, ErrYouCannotRemoveYourself
	}
	target, err := findUser(db, params.TargetUserID)
	if err != nil {
		return nil, err
	}
	if isPrivileged(target.Role) && params.ActorRole != constants.Superadmin {
		return nil, ErrAdminsCannotRemoveAdminsOrSuperadmins
	}
	if target.Role == constants.Superadmin {
		if err := ensureAnotherSuperadmin(db); err != nil {
			return nil, err
		}
	}
	return target, nil
}

func isPrivileged(role string) bool {
	return role == constants.Admin || role == constants.Superadmin
}

func findUser(db *gorm.DB, userID string) (*domain.User, error) {
	var u domain.User
	if err := db.Where("user_id = ?", userID).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTargetUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// ensureAnotherSuperadmin fails when at most one superadmin remains. Under postgres the
// superadmin rows stay locked until the caller's transaction ends, so concurrent demotions
// queue behind each other.
func ensureAnotherSuperadmin(db *gorm.DB) error {
	q := db.Model(&domain.User{})
	if db.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var ids []string
	if err := q.Where("role = ?", constants.Superadmin).Pluck("user_id", &ids).Error; err != nil {
		return err
	}
	if len(ids) <= 1 {
		return ErrMustHaveAtLeastOneSuperadmin
	}
	return nil
}
