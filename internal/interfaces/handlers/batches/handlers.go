package batches

import (
	batchsvc "asset-register/internal/application/batches"
	"asset-register/internal/interfaces/handlers/httpx"
	"asset-register/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Service *batchsvc.Service
}

var knownErrors = httpx.ErrorMap{
	batchsvc.ErrBatchNotFound:       fiber.StatusNotFound,
	batchsvc.ErrAssetNotFound:       fiber.StatusNotFound,
	batchsvc.ErrQuantityBelowInUse:  fiber.StatusConflict,
	batchsvc.ErrBatchHasAllocations: fiber.StatusConflict,
}

// ListByAsset GET /api/v1/assets/:id/batches
func (h *Handlers) ListByAsset(c *fiber.Ctx) error {
	assetID, err := httpx.ParamID(c, "id")
	if err != nil {
		return httpx.BadID(c, "asset id")
	}
	list, err := h.Service.ListByAsset(c.UserContext(), assetID)
	if err != nil {
		return httpx.RespondError(c, err, knownErrors)
	}
	return response.Success(c, "Batches fetched successfully", fiber.Map{"batches": list}, fiber.Map{"count": len(list)})
}

// Create POST /api/v1/assets/:id/batches
func (h *Handlers) Create(c *fiber.Ctx) error {
	assetID, err := httpx.ParamID(c, "id")
	if err != nil {
		return httpx.BadID(c, "asset id")
	}
	var in batchsvc.Input
	if err := c.BodyParser(&in); err != nil {
		return httpx.InvalidBody(c)
	}
	b, err := h.Service.Create(c.UserContext(), assetID, in)
	if err != nil {
		return httpx.RespondError(c, err, knownErrors)
	}
	return response.SuccessCreated(c, "Batch created successfully", fiber.Map{"batch": b}, nil)
}

// Get GET /api/v1/batches/:id
func (h *Handlers) Get(c *fiber.Ctx) error {
	id, err := httpx.ParamID(c, "id")
	if err != nil {
		return httpx.BadID(c, "batch id")
	}
	b, err := h.Service.Get(c.UserContext(), id)
	if err != nil {
		return httpx.RespondError(c, err, knownErrors)
	}
	return response.Success(c, "Batch fetched successfully", fiber.Map{"batch": b}, nil)
}

// Update PUT /api/v1/batches/:id
func (h *Handlers) Update(c *fiber.Ctx) error {
	id, err := httpx.ParamID(c, "id")
	if err != nil {
		return httpx.BadID(c, "batch id")
	}
	var in batchsvc.Input
	if err := c.BodyParser(&in); err != nil {
		return httpx.InvalidBody(c)
	}
	b, err := h.Service.Update(c.UserContext(), id, in)
	if err != nil {
		return httpx.RespondError(c, err, knownErrors)
	}
	return response.Success(c, "Batch updated successfully", fiber.Map{"batch": b}, nil)
}

// Delete DELETE /api/v1/batches/:id
func (h *Handlers) Delete(c *fiber.Ctx) error {
	id, err := httpx.ParamID(c, "id")
	if err != nil {
		return httpx.BadID(c, "batch id")
	}
	if err := h.Service.Delete(c.UserContext(), id); err != nil {
		return httpx.RespondError(c, err, knownErrors)
	}
	return response.Success(c, "Batch deleted successfully", nil, nil)
}
