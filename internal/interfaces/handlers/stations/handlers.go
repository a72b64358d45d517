package stations

import (
	stationsvc "asset-register/internal/application/stations"
	"asset-register/internal/interfaces/handlers/httpx"
	"asset-register/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *stationsvc.Service
}

var knownErrors = httpx.ErrorMap{
	stationsvc.ErrStationNotFound:  fiber.StatusNotFound,
	stationsvc.ErrStationCodeTaken: fiber.StatusConflict,
	stationsvc.ErrStationInUse:     fiber.StatusConflict,
}

// List GET /api/v1/stations
func (h *Handlers) List(c *fiber.Ctx) error {
	list, err := h.Service.List(c.UserContext())
	if err != nil {
		return httpx.RespondError(c, err, knownErrors)
	}
	return response.Success(c, "Stations fetched successfully", fiber.Map{"stations": list}, fiber.Map{"count": len(list)})
}

// Get GET /api/v1/stations/:id
func (h *Handlers) Get(c *fiber.Ctx) error {
	id, err := httpx.ParamID(c, "id")
	if err != nil {
		return httpx.BadID(c, "station id")
	}
	st, err := h.Service.Get(c.UserContext(), id)
	if err != nil {
		return httpx.RespondError(c, err, knownErrors)
	}
	return response.Success(c, "Station fetched successfully", fiber.Map{"station": st}, nil)
}

// Create POST /api/v1/stations
func (h *Handlers) Create(c *fiber.Ctx) error {
	var in stationsvc.Input
	if err := c.BodyParser(&in); err != nil {
		return httpx.InvalidBody(c)
	}
	st, err := h.Service.Create(c.UserContext(), in)
	if err != nil {
		return httpx.RespondError(c, err, knownErrors)
	}
	return response.SuccessCreated(c, "Station created successfully", fiber.Map{"station": st}, nil)
}

// Update PUT /api/v1/stations/:id
func (h *Handlers) Update(c *fiber.Ctx) error {
	id, err := httpx.ParamID(c, "id")
	if err != nil {
		return httpx.BadID(c, "station id")
	}
	var in stationsvc.Input
	if err := c.BodyParser(&in); err != nil {
		return httpx.InvalidBody(c)
	}
	st, err := h.Service.Update(c.UserContext(), id, in)
	if err != nil {
		return httpx.RespondError(c, err, knownErrors)
	}
	return response.Success(c, "Station updated successfully", fiber.Map{"station": st}, nil)
}

// Delete DELETE /api/v1/stations/:id
func (h *Handlers) Delete(c *fiber.Ctx) error {
	id, err := httpx.ParamID(c, "id")
	if err != nil {
		return httpx.BadID(c, "station id")
	}
	if err := h.Service.Delete(c.UserContext(), id); err != nil {
		return httpx.RespondError(c, err, knownErrors)
	}
	return response.Success(c, "Station deleted successfully", nil, nil)
}
