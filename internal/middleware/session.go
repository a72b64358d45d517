package middleware

import (
	"encoding/json"
	"time"

	authsvc "asset-register/internal/application/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// SessionConfig controls the session cookie flags.
type SessionConfig struct {
	AllowCrossSiteDev bool
	IsProduction      bool
}

const (
	SessionCookieName  = "asset.sid"
	SessionRedisPrefix = "session:"
	UserSessionsPrefix = "user_sessions:"
	SessionMaxAge      = 24 * time.Hour

	sessionIDLocal   = "session_id"
	sessionDataLocal = "session_data"
	userLocal        = "user"
	dirtyLocal       = "session_dirty"
)

// sessionData is the JSON document stored under session:<id>.
type sessionData struct {
	User *authsvc.Identity `json:"user,omitempty"`
}

// Session loads the session named by the cookie from Redis and saves it back after the
// handler when it changed.
func Session(rdb *redis.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sessionID := c.Cookies(SessionCookieName)
		data := &sessionData{}
		if sessionID != "" && rdb != nil {
			b, err := rdb.Get(c.UserContext(), SessionRedisPrefix+sessionID).Bytes()
			switch {
			case err == nil:
				if jerr := json.Unmarshal(b, data); jerr != nil {
					log.Warn().Err(jerr).Str("trace_id", GetTraceID(c)).Msg("session: discarding unreadable session")
					data = &sessionData{}
				}
			case err != redis.Nil:
				log.Error().Err(err).Str("trace_id", GetTraceID(c)).Msg("session: redis get failed")
			}
		}

		c.Locals(sessionIDLocal, sessionID)
		c.Locals(sessionDataLocal, data)
		c.Locals(userLocal, data.User)

		if err := c.Next(); err != nil {
			return err
		}

		if dirty, _ := c.Locals(dirtyLocal).(bool); !dirty || rdb == nil {
			return nil
		}
		sid := GetSessionID(c)
		if sid == "" {
			return nil
		}
		updated, _ := c.Locals(sessionDataLocal).(*sessionData)
		if updated == nil || updated.User == nil {
			return nil
		}
		b, err := json.Marshal(updated)
		if err != nil {
			return err
		}
		if err := rdb.Set(c.UserContext(), SessionRedisPrefix+sid, b, SessionMaxAge).Err(); err != nil {
			log.Error().Err(err).Str("trace_id", GetTraceID(c)).Msg("session: redis set failed")
		}
		return nil
	}
}

// GetSessionID returns the current session ID from context (for login/logout).
func GetSessionID(c *fiber.Ctx) string {
	sid, _ := c.Locals(sessionIDLocal).(string)
	return sid
}

// SetSessionUser sets the user in the session and marks the session for save.
// Call RegenerateSessionID first on login.
func SetSessionUser(c *fiber.Ctx, user authsvc.Identity) {
	data, _ := c.Locals(sessionDataLocal).(*sessionData)
	if data == nil {
		data = &sessionData{}
	}
	data.User = &user
	c.Locals(sessionDataLocal, data)
	c.Locals(userLocal, data.User)
	c.Locals(dirtyLocal, true)
}

// RegenerateSessionID creates a new session ID and sets it in Locals (cookie set by handler).
func RegenerateSessionID(c *fiber.Ctx) string {
	newID := uuid.New().String()
	c.Locals(sessionIDLocal, newID)
	return newID
}

// DestroySession clears user and session data from Locals; caller must clear cookie and Redis.
func DestroySession(c *fiber.Ctx) {
	c.Locals(sessionDataLocal, &sessionData{})
	c.Locals(userLocal, (*authsvc.Identity)(nil))
	c.Locals(sessionIDLocal, "")
	c.Locals(dirtyLocal, false)
}

// SessionCookieConfig returns the cookie options used for SetCookie/ClearCookie.
func SessionCookieConfig(cfg SessionConfig) fiber.Cookie {
	sameSite := fiber.CookieSameSiteLaxMode
	if cfg.AllowCrossSiteDev {
		sameSite = fiber.CookieSameSiteNoneMode
	}
	return fiber.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   int(SessionMaxAge.Seconds()),
		HTTPOnly: true,
		Secure:   cfg.IsProduction || cfg.AllowCrossSiteDev,
		SameSite: sameSite,
	}
}
