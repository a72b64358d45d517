package assets

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	assetsvc "asset-register/internal/application/assets"
	"asset-register/internal/domain"
	"asset-register/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssetsFlow(t *testing.T) {
	db := testutil.NewDB(t)
	h := &Handlers{Service: &assetsvc.Service{DB: db}}
	app := fiber.New()
	app.Get("/assets", h.List)
	app.Get("/assets/:id", h.Get)
	app.Post("/assets", h.Create)
	app.Put("/assets/:id", h.Update)
	app.Delete("/assets/:id", h.Delete)

	post := func(body map[string]interface{}) int {
		b, _ := json.Marshal(body)
		req := httptest.NewRequest("POST", "/assets", bytes.NewReader(b))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp.StatusCode
	}
	assert.Equal(t, 201, post(map[string]interface{}{"name": "Pump", "asset_number": "AS-1"}))
	assert.Equal(t, 409, post(map[string]interface{}{"name": "Pump 2", "asset_number": "AS-1"}))
	assert.Equal(t, 400, post(map[string]interface{}{"asset_number": "AS-3"}))

	st := domain.Station{Name: "North"}
	require.NoError(t, db.Create(&st).Error)
	require.NoError(t, db.Create(&domain.Assignment{AssetID: 1, StationID: st.ID}).Error)

	resp, err := app.Test(httptest.NewRequest("GET", "/assets?station_id=1", nil))
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)
	var out struct {
		Data struct {
			Assets []domain.Asset `json:"assets"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Len(t, out.Data.Assets, 1)
	require.Len(t, out.Data.Assets[0].Assignments, 1)
	assert.Equal(t, st.ID, out.Data.Assets[0].Assignments[0].StationID)

	resp, err = app.Test(httptest.NewRequest("DELETE", "/assets/1", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	resp, err = app.Test(httptest.NewRequest("GET", "/assets/1", nil))
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}
