package auth

import (
	"time"

	authsvc "asset-register/internal/application/auth"
	"asset-register/internal/middleware"
	"asset-register/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// TokenIssuer signs bearer tokens for an identity.
type TokenIssuer interface {
	Issue(id authsvc.Identity) (string, time.Time, error)
}

// Handlers holds dependencies for auth endpoints.
type Handlers struct {
	UserFinder authsvc.UserFinder
	Tokens     TokenIssuer
	Rdb        *redis.Client
	Config     middleware.SessionConfig
}

// Login POST /api/v1/auth/login: authenticate, start a session, set the cookie and return a bearer token.
func (h *Handlers) Login(c *fiber.Ctx) error {
	if h.UserFinder == nil || h.Tokens == nil {
		return response.Internal(c)
	}
	var req authsvc.LoginInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, authsvc.ErrEmailPasswordRequired.Error(), nil)
	}
	if req.Email == "" || req.Password == "" {
		return response.BadRequest(c, authsvc.ErrEmailPasswordRequired.Error(), nil)
	}

	user, err := h.UserFinder.FindByEmailAndPassword(c.UserContext(), req.Email, req.Password)
	if err != nil {
		switch err {
		case authsvc.ErrEmailPasswordRequired:
			return response.BadRequest(c, err.Error(), nil)
		case authsvc.ErrInvalidEmail, authsvc.ErrIncorrectPassword:
			log.Info().Str("trace_id", middleware.GetTraceID(c)).Msg("auth/login: rejected credentials")
			return response.Unauthorized(c, err.Error())
		default:
			log.Error().Err(err).Str("trace_id", middleware.GetTraceID(c)).Msg("auth/login: lookup failed")
			return response.Internal(c)
		}
	}

	identity := authsvc.IdentityFromUser(user)
	token, expiresAt, err := h.Tokens.Issue(identity)
	if err != nil {
		log.Error().Err(err).Str("trace_id", middleware.GetTraceID(c)).Msg("auth/login: token signing failed")
		return response.Internal(c)
	}

	sessionID := middleware.RegenerateSessionID(c)
	middleware.SetSessionUser(c, identity)
	if h.Rdb != nil {
		if err := h.Rdb.SAdd(c.UserContext(), middleware.UserSessionsPrefix+identity.UserID, sessionID).Err(); err != nil {
			log.Error().Err(err).Str("trace_id", middleware.GetTraceID(c)).Msg("auth/login: session index failed")
			return response.Internal(c)
		}
	}

	cookie := middleware.SessionCookieConfig(h.Config)
	cookie.Value = sessionID
	c.Cookie(&cookie)

	return response.Success(c, "Login successful", fiber.Map{
		"user":       identity,
		"token":      token,
		"token_type": "Bearer",
		"expires_at": expiresAt.UTC(),
	}, nil)
}

// Me GET /api/v1/auth/me returns the caller's identity, from session or bearer token.
func (h *Handlers) Me(c *fiber.Ctx) error {
	user, err := authsvc.VerifyUser(middleware.GetUser(c))
	if err != nil {
		log.Info().Str("path", c.Path()).Bool("session_present", middleware.GetSessionID(c) != "").
			Msg("auth/me: not authenticated")
		return response.Unauthorized(c, "Not authenticated")
	}
	return response.Success(c, "Authenticated", fiber.Map{"user": user, "auth_source": middleware.GetAuthSource(c)}, nil)
}

// Logout DELETE /api/v1/auth/logout ends the session. Bearer tokens stay valid until they expire.
func (h *Handlers) Logout(c *fiber.Ctx) error {
	sessionID := middleware.GetSessionID(c)
	user := middleware.GetUser(c)
	ctx := c.UserContext()

	if h.Rdb != nil && sessionID != "" {
		if user != nil {
			_ = h.Rdb.SRem(ctx, middleware.UserSessionsPrefix+user.UserID, sessionID).Err()
		}
		_ = h.Rdb.Del(ctx, middleware.SessionRedisPrefix+sessionID).Err()
	}
	middleware.DestroySession(c)

	cookie := middleware.SessionCookieConfig(h.Config)
	cookie.Value = ""
	cookie.MaxAge = -1
	c.Cookie(&cookie)

	return response.Success(c, "Logged out successfully", nil, nil)
}
