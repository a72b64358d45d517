package response

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, app *fiber.App, path string) (int, map[string]interface{}) {
	resp, err := app.Test(httptest.NewRequest("GET", path, nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &out))
	return resp.StatusCode, out
}

func TestSuccessEnvelope(t *testing.T) {
	app := fiber.New()
	app.Get("/ok", func(c *fiber.Ctx) error { return Success(c, "done", fiber.Map{"a": 1}, nil) })
	app.Get("/created", func(c *fiber.Ctx) error { return SuccessCreated(c, "made", nil, nil) })

	code, out := decode(t, app, "/ok")
	assert.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, "success", out["status"])
	assert.Equal(t, "done", out["message"])
	assert.Equal(t, map[string]interface{}{"a": float64(1)}, out["data"])

	code, out = decode(t, app, "/created")
	assert.Equal(t, fiber.StatusCreated, code)
	assert.Equal(t, "made", out["message"])
}

func TestErrorEnvelope(t *testing.T) {
	app := fiber.New()
	app.Get("/missing", func(c *fiber.Ctx) error { return NotFound(c, "Asset not found") })
	app.Get("/conflict", func(c *fiber.Ctx) error { return Conflict(c, "Asset number already exists") })
	app.Get("/bad", func(c *fiber.Ctx) error { return BadRequest(c, "Invalid", fiber.Map{"name": "required"}) })

	code, out := decode(t, app, "/missing")
	assert.Equal(t, fiber.StatusNotFound, code)
	assert.Equal(t, "error", out["status"])
	errObj := out["error"].(map[string]interface{})
	assert.Equal(t, "Asset not found", errObj["message"])
	assert.Equal(t, float64(404), errObj["statusCode"])

	code, _ = decode(t, app, "/conflict")
	assert.Equal(t, fiber.StatusConflict, code)

	code, out = decode(t, app, "/bad")
	assert.Equal(t, fiber.StatusBadRequest, code)
	details := out["error"].(map[string]interface{})["details"].(map[string]interface{})
	assert.Equal(t, "required", details["name"])
}
