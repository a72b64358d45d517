package employees

import (
	employeesvc "asset-register/internal/application/employees"
	"asset-register/internal/interfaces/handlers/httpx"
	"asset-register/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *employeesvc.Service
}

var knownErrors = httpx.ErrorMap{
	employeesvc.ErrEmployeeNotFound:       fiber.StatusNotFound,
	employeesvc.ErrStationNotFound:        fiber.StatusBadRequest,
	employeesvc.ErrEmployeeNumberTaken:    fiber.StatusConflict,
	employeesvc.ErrEmployeeHasAssignments: fiber.StatusConflict,
}

// List GET /api/v1/employees?station_id=
func (h *Handlers) List(c *fiber.Ctx) error {
	stationID, err := httpx.QueryID(c, "station_id")
	if err != nil {
		return httpx.BadID(c, "station_id")
	}
	list, err := h.Service.List(c.UserContext(), employeesvc.ListFilter{StationID: stationID})
	if err != nil {
		return httpx.RespondError(c, err, knownErrors)
	}
	return response.Success(c, "Employees fetched successfully", fiber.Map{"employees": list}, fiber.Map{"count": len(list)})
}

// Get GET /api/v1/employees/:id
func (h *Handlers) Get(c *fiber.Ctx) error {
	id, err := httpx.ParamID(c, "id")
	if err != nil {
		return httpx.BadID(c, "employee id")
	}
	e, err := h.Service.Get(c.UserContext(), id)
	if err != nil {
		return httpx.RespondError(c, err, knownErrors)
	}
	return response.Success(c, "Employee fetched successfully", fiber.Map{"employee": e}, nil)
}

// Create POST /api/v1/employees
func (h *Handlers) Create(c *fiber.Ctx) error {
	var in employeesvc.Input
	if err := c.BodyParser(&in); err != nil {
		return httpx.InvalidBody(c)
	}
	e, err := h.Service.Create(c.UserContext(), in)
	if err != nil {
		return httpx.RespondError(c, err, knownErrors)
	}
	return response.SuccessCreated(c, "Employee created successfully", fiber.Map{"employee": e}, nil)
}

// Update PUT /api/v1/employees/:id
func (h *Handlers) Update(c *fiber.Ctx) error {
	id, err := httpx.ParamID(c, "id")
	if err != nil {
		return httpx.BadID(c, "employee id")
	}
	var in employeesvc.Input
	if err := c.BodyParser(&in); err != nil {
		return httpx.InvalidBody(c)
	}
	e, err := h.Service.Update(c.UserContext(), id, in)
	if err != nil {
		return httpx.RespondError(c, err, knownErrors)
	}
	return response.Success(c, "Employee updated successfully", fiber.Map{"employee": e}, nil)
}

// Delete DELETE /api/v1/employees/:id
func (h *Handlers) Delete(c *fiber.Ctx) error {
	id, err := httpx.ParamID(c, "id")
	if err != nil {
		return httpx.BadID(c, "employee id")
	}
	if err := h.Service.Delete(c.UserContext(), id); err != nil {
		return httpx.RespondError(c, err, knownErrors)
	}
	return response.Success(c, "Employee deleted successfully", nil, nil)
}
