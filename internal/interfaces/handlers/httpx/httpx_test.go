package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"asset-register/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errMissing = errors.New("Thing not found")

func errorBody(t *testing.T, app *fiber.App, path string) (int, map[string]interface{}) {
	resp, err := app.Test(httptest.NewRequest("GET", path, nil))
	require.NoError(t, err)
	b, _ := io.ReadAll(resp.Body)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &out))
	return resp.StatusCode, out["error"].(map[string]interface{})
}

func TestRespondError(t *testing.T) {
	app := fiber.New()
	known := ErrorMap{errMissing: fiber.StatusNotFound}
	app.Get("/validation", func(c *fiber.Ctx) error {
		return RespondError(c, &validation.Error{Fields: map[string]string{"name": "is required"}}, known)
	})
	app.Get("/known", func(c *fiber.Ctx) error {
		return RespondError(c, errMissing, known)
	})
	app.Get("/unknown", func(c *fiber.Ctx) error {
		return RespondError(c, errors.New("db exploded"), known)
	})

	status, body := errorBody(t, app, "/validation")
	assert.Equal(t, 400, status)
	assert.Equal(t, "is required", body["details"].(map[string]interface{})["name"])

	status, body = errorBody(t, app, "/known")
	assert.Equal(t, 404, status)
	assert.Equal(t, "Thing not found", body["message"])

	status, body = errorBody(t, app, "/unknown")
	assert.Equal(t, 500, status)
	assert.Equal(t, "Internal Server Error", body["message"])
}

func TestParamAndQueryID(t *testing.T) {
	app := fiber.New()
	app.Get("/items/:id", func(c *fiber.Ctx) error {
		id, err := ParamID(c, "id")
		if err != nil {
			return BadID(c, "id")
		}
		station, err := QueryID(c, "station_id")
		if err != nil {
			return BadID(c, "station_id")
		}
		return c.JSON(fiber.Map{"id": id, "station": station})
	})

	for path, want := range map[string]int{
		"/items/3":                200,
		"/items/0":                400,
		"/items/abc":              400,
		"/items/3?station_id=4":   200,
		"/items/3?station_id=-1":  400,
		"/items/3?station_id=abc": 400,
	} {
		resp, err := app.Test(httptest.NewRequest("GET", path, nil))
		require.NoError(t, err)
		assert.Equal(t, want, resp.StatusCode, path)
	}
}
