package assets

import (
	assetsvc "asset-register/internal/application/assets"
	"asset-register/internal/interfaces/handlers/httpx"
	"asset-register/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *assetsvc.Service
}

var knownErrors = httpx.ErrorMap{
	assetsvc.ErrAssetNotFound:    fiber.StatusNotFound,
	assetsvc.ErrAssetNumberTaken: fiber.StatusConflict,
}

// List GET /api/v1/assets?station_id=&q=
// The station-filtered listing is the snapshot clients post back to /reports/aggregate.
func (h *Handlers) List(c *fiber.Ctx) error {
	stationID, err := httpx.QueryID(c, "station_id")
	if err != nil {
		return httpx.BadID(c, "station_id")
	}
	list, err := h.Service.List(c.UserContext(), assetsvc.ListFilter{StationID: stationID, Search: c.Query("q")})
	if err != nil {
		return httpx.RespondError(c, err, knownErrors)
	}
	return response.Success(c, "Assets fetched successfully", fiber.Map{"assets": list}, fiber.Map{"count": len(list)})
}

// Get GET /api/v1/assets/:id
func (h *Handlers) Get(c *fiber.Ctx) error {
	id, err := httpx.ParamID(c, "id")
	if err != nil {
		return httpx.BadID(c, "asset id")
	}
	a, err := h.Service.Get(c.UserContext(), id)
	if err != nil {
		return httpx.RespondError(c, err, knownErrors)
	}
	return response.Success(c, "Asset fetched successfully", fiber.Map{"asset": a}, nil)
}

// Create POST /api/v1/assets
func (h *Handlers) Create(c *fiber.Ctx) error {
	var in assetsvc.Input
	if err := c.BodyParser(&in); err != nil {
		return httpx.InvalidBody(c)
	}
	a, err := h.Service.Create(c.UserContext(), in)
	if err != nil {
		return httpx.RespondError(c, err, knownErrors)
	}
	return response.SuccessCreated(c, "Asset created successfully", fiber.Map{"asset": a}, nil)
}

// Update PUT /api/v1/assets/:id
func (h *Handlers) Update(c *fiber.Ctx) error {
	id, err := httpx.ParamID(c, "id")
	if err != nil {
		return httpx.BadID(c, "asset id")
	}
	var in assetsvc.Input
	if err := c.BodyParser(&in); err != nil {
		return httpx.InvalidBody(c)
	}
	a, err := h.Service.Update(c.UserContext(), id, in)
	if err != nil {
		return httpx.RespondError(c, err, knownErrors)
	}
	return response.Success(c, "Asset updated successfully", fiber.Map{"asset": a}, nil)
}

// Delete DELETE /api/v1/assets/:id
func (h *Handlers) Delete(c *fiber.Ctx) error {
	id, err := httpx.ParamID(c, "id")
	if err != nil {
		return httpx.BadID(c, "asset id")
	}
	if err := h.Service.Delete(c.UserContext(), id); err != nil {
		return httpx.RespondError(c, err, knownErrors)
	}
	return response.Success(c, "Asset deleted successfully", nil, nil)
}
