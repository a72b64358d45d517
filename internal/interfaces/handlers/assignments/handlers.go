package assignments

import (
	assignmentsvc "asset-register/internal/application/assignments"
	"asset-register/internal/interfaces/handlers/httpx"
	"asset-register/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *assignmentsvc.Service
}

var knownErrors = httpx.ErrorMap{
	assignmentsvc.ErrAssignmentNotFound: fiber.StatusNotFound,
	assignmentsvc.ErrAllocationNotFound: fiber.StatusNotFound,
	assignmentsvc.ErrAssetNotFound:      fiber.StatusBadRequest,
	assignmentsvc.ErrStationNotFound:    fiber.StatusBadRequest,
	assignmentsvc.ErrEmployeeNotFound:   fiber.StatusBadRequest,
	assignmentsvc.ErrBatchNotFound:      fiber.StatusBadRequest,
	assignmentsvc.ErrBatchNotForAsset:   fiber.StatusBadRequest,
	assignmentsvc.ErrFilterRequired:     fiber.StatusBadRequest,
	assignmentsvc.ErrBatchExhausted:     fiber.StatusConflict,
}

// List GET /api/v1/assignments?station_id=&asset_id=
func (h *Handlers) List(c *fiber.Ctx) error {
	stationID, err := httpx.QueryID(c, "station_id")
	if err != nil {
		return httpx.BadID(c, "station_id")
	}
	assetID, err := httpx.QueryID(c, "asset_id")
	if err != nil {
		return httpx.BadID(c, "asset_id")
	}
	list, err := h.Service.List(c.UserContext(), assignmentsvc.ListFilter{StationID: stationID, AssetID: assetID})
	if err != nil {
		return httpx.RespondError(c, err, knownErrors)
	}
	return response.Success(c, "Assignments fetched successfully", fiber.Map{"assignments": list}, fiber.Map{"count": len(list)})
}

// Get GET /api/v1/assignments/:id
func (h *Handlers) Get(c *fiber.Ctx) error {
	id, err := httpx.ParamID(c, "id")
	if err != nil {
		return httpx.BadID(c, "assignment id")
	}
	a, err := h.Service.Get(c.UserContext(), id)
	if err != nil {
		return httpx.RespondError(c, err, knownErrors)
	}
	return response.Success(c, "Assignment fetched successfully", fiber.Map{"assignment": a}, nil)
}

// Create POST /api/v1/assignments
func (h *Handlers) Create(c *fiber.Ctx) error {
	var in assignmentsvc.CreateInput
	if err := c.BodyParser(&in); err != nil {
		return httpx.InvalidBody(c)
	}
	a, err := h.Service.Create(c.UserContext(), httpx.ActorID(c), in)
	if err != nil {
		return httpx.RespondError(c, err, knownErrors)
	}
	return response.SuccessCreated(c, "Assignment created successfully", fiber.Map{"assignment": a}, nil)
}

// Delete DELETE /api/v1/assignments/:id
func (h *Handlers) Delete(c *fiber.Ctx) error {
	id, err := httpx.ParamID(c, "id")
	if err != nil {
		return httpx.BadID(c, "assignment id")
	}
	if err := h.Service.Delete(c.UserContext(), httpx.ActorID(c), id); err != nil {
		return httpx.RespondError(c, err, knownErrors)
	}
	return response.Success(c, "Assignment deleted successfully", nil, nil)
}

// AddAllocation POST /api/v1/assignments/:id/allocations
func (h *Handlers) AddAllocation(c *fiber.Ctx) error {
	id, err := httpx.ParamID(c, "id")
	if err != nil {
		return httpx.BadID(c, "assignment id")
	}
	var in assignmentsvc.AllocationInput
	if err := c.BodyParser(&in); err != nil {
		return httpx.InvalidBody(c)
	}
	alloc, err := h.Service.AddAllocation(c.UserContext(), httpx.ActorID(c), id, in)
	if err != nil {
		return httpx.RespondError(c, err, knownErrors)
	}
	return response.SuccessCreated(c, "Unit allocated successfully", fiber.Map{"allocation": alloc}, nil)
}

// RemoveAllocation DELETE /api/v1/assignments/:id/allocations/:allocationId
func (h *Handlers) RemoveAllocation(c *fiber.Ctx) error {
	id, err := httpx.ParamID(c, "id")
	if err != nil {
		return httpx.BadID(c, "assignment id")
	}
	allocationID, err := httpx.ParamID(c, "allocationId")
	if err != nil {
		return httpx.BadID(c, "allocation id")
	}
	if err := h.Service.RemoveAllocation(c.UserContext(), httpx.ActorID(c), id, allocationID); err != nil {
		return httpx.RespondError(c, err, knownErrors)
	}
	return response.Success(c, "Unit deallocated successfully", nil, nil)
}

// Events GET /api/v1/assignments/:id/events
func (h *Handlers) Events(c *fiber.Ctx) error {
	id, err := httpx.ParamID(c, "id")
	if err != nil {
		return httpx.BadID(c, "assignment id")
	}
	events, err := h.Service.ListEvents(c.UserContext(), id)
	if err != nil {
		return httpx.RespondError(c, err, knownErrors)
	}
	return response.Success(c, "Assignment events fetched successfully", fiber.Map{"events": events}, fiber.Map{"count": len(events)})
}
