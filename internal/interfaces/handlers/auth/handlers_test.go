package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	authsvc "asset-register/internal/application/auth"
	"asset-register/internal/domain"
	"asset-register/internal/middleware"
	"asset-register/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeUserFinder returns the configured user when the password is "password123".
type fakeUserFinder struct {
	user *domain.User
	err  error
}

func (f *fakeUserFinder) FindByEmailAndPassword(_ context.Context, email, password string) (*domain.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.user != nil && f.user.Email == email && password == "password123" {
		return f.user, nil
	}
	if f.user != nil && f.user.Email == email {
		return nil, authsvc.ErrIncorrectPassword
	}
	return nil, authsvc.ErrInvalidEmail
}

var tokens = &authsvc.Tokens{Secret: []byte("handler-secret"), TTL: time.Hour}

func setupAuthHandlers(t *testing.T, finder authsvc.UserFinder) (*Handlers, *redis.Client) {
	rdb, _ := testutil.NewRedis(t)
	h := &Handlers{
		UserFinder: finder,
		Tokens:     tokens,
		Rdb:        rdb,
		Config:     middleware.SessionConfig{},
	}
	return h, rdb
}

func postLogin(t *testing.T, app *fiber.App, body interface{}) *httpResponse {
	var reader io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest("POST", "/login", reader)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	raw, _ := io.ReadAll(resp.Body)
	return &httpResponse{status: resp.StatusCode, body: raw, cookies: resp.Header.Values("Set-Cookie")}
}

type httpResponse struct {
	status  int
	body    []byte
	cookies []string
}

func TestLogin_BadInput(t *testing.T) {
	h, _ := setupAuthHandlers(t, &fakeUserFinder{user: &domain.User{}})
	app := fiber.New()
	app.Post("/login", h.Login)

	assert.Equal(t, fiber.StatusBadRequest, postLogin(t, app, nil).status)
	assert.Equal(t, fiber.StatusBadRequest, postLogin(t, app, map[string]string{"email": "a@b.com"}).status)
}

func TestLogin_RejectedCredentials(t *testing.T) {
	user := &domain.User{UserID: uuid.New(), Email: "test@example.com", Fullname: "Test User", Role: "viewer"}
	h, _ := setupAuthHandlers(t, &fakeUserFinder{user: user})
	app := fiber.New()
	app.Post("/login", h.Login)

	assert.Equal(t, fiber.StatusUnauthorized, postLogin(t, app, map[string]string{"email": "nobody@example.com", "password": "x"}).status)
	assert.Equal(t, fiber.StatusUnauthorized, postLogin(t, app, map[string]string{"email": "test@example.com", "password": "wrong"}).status)
}

func TestLogin_Success(t *testing.T) {
	uid := uuid.New()
	h, rdb := setupAuthHandlers(t, &fakeUserFinder{user: &domain.User{UserID: uid, Email: "test@example.com", Fullname: "Test User", Role: "manager"}})
	app := fiber.New()
	app.Use(middleware.Session(rdb))
	app.Post("/login", h.Login)

	resp := postLogin(t, app, map[string]string{"email": "test@example.com", "password": "password123"})
	require.Equal(t, fiber.StatusOK, resp.status)

	var out struct {
		Status string `json:"status"`
		Data   struct {
			User      authsvc.Identity `json:"user"`
			Token     string           `json:"token"`
			TokenType string           `json:"token_type"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.body, &out))
	assert.Equal(t, "success", out.Status)
	assert.Equal(t, "test@example.com", out.Data.User.Email)
	assert.Equal(t, "Bearer", out.Data.TokenType)

	id, err := tokens.Parse(out.Data.Token)
	require.NoError(t, err)
	assert.Equal(t, uid.String(), id.UserID)
	assert.Equal(t, "manager", id.Role)

	require.NotEmpty(t, resp.cookies)
	assert.True(t, strings.HasPrefix(resp.cookies[0], middleware.SessionCookieName+"="))

	members, err := rdb.SMembers(context.Background(), middleware.UserSessionsPrefix+uid.String()).Result()
	require.NoError(t, err)
	require.Len(t, members, 1)
	exists, err := rdb.Exists(context.Background(), middleware.SessionRedisPrefix+members[0]).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), exists, "session document saved by the session middleware")
}

func TestLogin_MissingDependencies(t *testing.T) {
	h, _ := setupAuthHandlers(t, nil)
	app := fiber.New()
	app.Post("/login", h.Login)
	assert.Equal(t, fiber.StatusInternalServerError, postLogin(t, app, map[string]string{"email": "a@b.com", "password": "pass"}).status)
}

func TestMe(t *testing.T) {
	h, _ := setupAuthHandlers(t, &fakeUserFinder{})
	app := fiber.New()
	app.Get("/anonymous", h.Me)
	app.Get("/me", func(c *fiber.Ctx) error {
		middleware.SetSessionUser(c, authsvc.Identity{UserID: uuid.NewString(), Email: "test@example.com", Role: "viewer"})
		return h.Me(c)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/anonymous", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/me", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	user := out["data"].(map[string]interface{})["user"].(map[string]interface{})
	assert.Equal(t, "test@example.com", user["email"])
}

func TestLogout_RemovesSession(t *testing.T) {
	h, rdb := setupAuthHandlers(t, &fakeUserFinder{})
	ctx := context.Background()
	uid := uuid.NewString()
	sid := uuid.NewString()
	doc, _ := json.Marshal(map[string]interface{}{"user": authsvc.Identity{UserID: uid, Role: "viewer"}})
	require.NoError(t, rdb.Set(ctx, middleware.SessionRedisPrefix+sid, doc, time.Hour).Err())
	require.NoError(t, rdb.SAdd(ctx, middleware.UserSessionsPrefix+uid, sid).Err())

	app := fiber.New()
	app.Use(middleware.Session(rdb))
	app.Delete("/logout", h.Logout)

	req := httptest.NewRequest("DELETE", "/logout", nil)
	req.Header.Set("Cookie", middleware.SessionCookieName+"="+sid)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Values("Set-Cookie"))

	n, err := rdb.Exists(ctx, middleware.SessionRedisPrefix+sid).Result()
	require.NoError(t, err)
	assert.Zero(t, n)
	members, err := rdb.SMembers(ctx, middleware.UserSessionsPrefix+uid).Result()
	require.NoError(t, err)
	assert.Empty(t, members)
}
