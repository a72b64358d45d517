package accounts

import (
	accountsvc "asset-register/internal/application/accounts"
	policies "asset-register/internal/application/policies/accounts"
	"asset-register/internal/interfaces/handlers/httpx"
	"asset-register/internal/middleware"
	"asset-register/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *accountsvc.Service
}

var knownErrors = httpx.ErrorMap{
	accountsvc.ErrUserNotFound:       fiber.StatusNotFound,
	accountsvc.ErrInvalidUserID:      fiber.StatusBadRequest,
	accountsvc.ErrEmailRegistered:    fiber.StatusConflict,
	accountsvc.ErrUserNameRegistered: fiber.StatusConflict,
	accountsvc.ErrStationNotFound:    fiber.StatusBadRequest,

	policies.ErrInvalidRole:                               fiber.StatusBadRequest,
	policies.ErrTargetUserNotFound:                        fiber.StatusNotFound,
	policies.ErrOnlySuperadminsCanAssignAdminOrSuperadmin: fiber.StatusForbidden,
	policies.ErrUsersCannotModifyTheirOwnRole:             fiber.StatusForbidden,
	policies.ErrAdminsCannotRemoveAdminsOrSuperadmins:     fiber.StatusForbidden,
	policies.ErrYouCannotRemoveYourself:                   fiber.StatusBadRequest,
	policies.ErrMustHaveAtLeastOneSuperadmin:              fiber.StatusConflict,
}

func actor(c *fiber.Ctx) (accountsvc.Actor, bool) {
	u := middleware.GetUser(c)
	if u == nil {
		return accountsvc.Actor{}, false
	}
	return accountsvc.Actor{UserID: u.UserID, Role: u.Role}, true
}

// List GET /api/v1/users
func (h *Handlers) List(c *fiber.Ctx) error {
	users, err := h.Service.List(c.UserContext())
	if err != nil {
		return httpx.RespondError(c, err, knownErrors)
	}
	return response.Success(c, "Users fetched successfully", fiber.Map{"users": users}, fiber.Map{"count": len(users)})
}

// Get GET /api/v1/users/:userId
func (h *Handlers) Get(c *fiber.Ctx) error {
	u, err := h.Service.Get(c.UserContext(), c.Params("userId"))
	if err != nil {
		return httpx.RespondError(c, err, knownErrors)
	}
	return response.Success(c, "User found", fiber.Map{"user": u}, nil)
}

// Create POST /api/v1/users
func (h *Handlers) Create(c *fiber.Ctx) error {
	a, ok := actor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	var in accountsvc.CreateInput
	if err := c.BodyParser(&in); err != nil {
		return httpx.InvalidBody(c)
	}
	u, err := h.Service.Create(c.UserContext(), a, in)
	if err != nil {
		return httpx.RespondError(c, err, knownErrors)
	}
	return response.SuccessCreated(c, "User created successfully", fiber.Map{"user": u}, nil)
}

type updateRoleRequest struct {
	Role string `json:"role"`
}

// UpdateRole PATCH /api/v1/users/:userId/role
func (h *Handlers) UpdateRole(c *fiber.Ctx) error {
	a, ok := actor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	var req updateRoleRequest
	if err := c.BodyParser(&req); err != nil || req.Role == "" {
		return response.BadRequest(c, "role is required", nil)
	}
	u, err := h.Service.UpdateRole(c.UserContext(), a, c.Params("userId"), req.Role)
	if err != nil {
		return httpx.RespondError(c, err, knownErrors)
	}
	return response.Success(c, "User role updated successfully", fiber.Map{"user": u}, nil)
}

// Delete DELETE /api/v1/users/:userId
func (h *Handlers) Delete(c *fiber.Ctx) error {
	a, ok := actor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	if err := h.Service.Delete(c.UserContext(), a, c.Params("userId")); err != nil {
		return httpx.RespondError(c, err, knownErrors)
	}
	return response.Success(c, "User removed successfully", nil, nil)
}

// ViewMe GET /api/v1/users/me
func (h *Handlers) ViewMe(c *fiber.Ctx) error {
	a, ok := actor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	u, err := h.Service.Get(c.UserContext(), a.UserID)
	if err != nil {
		return httpx.RespondError(c, err, knownErrors)
	}
	return response.Success(c, "User found", fiber.Map{"user": u}, nil)
}

// UpdateMe PUT /api/v1/users/me
func (h *Handlers) UpdateMe(c *fiber.Ctx) error {
	a, ok := actor(c)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}
	var in accountsvc.UpdateProfileInput
	if err := c.BodyParser(&in); err != nil {
		return httpx.InvalidBody(c)
	}
	u, err := h.Service.UpdateProfile(c.UserContext(), a.UserID, in)
	if err != nil {
		return httpx.RespondError(c, err, knownErrors)
	}
	return response.Success(c, "User updated successfully", fiber.Map{"user": u}, nil)
}
