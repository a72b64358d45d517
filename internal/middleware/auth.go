package middleware

import (
	"context"
	"errors"
	"strings"

	authsvc "asset-register/internal/application/auth"
	"asset-register/internal/domain"
	"asset-register/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// TokenParser verifies bearer tokens.
type TokenParser interface {
	Parse(token string) (*authsvc.Identity, error)
}

// AccountLookup loads the current account for a token subject.
type AccountLookup interface {
	FindByID(ctx context.Context, userID string) (*domain.User, error)
}

const authSourceLocal = "auth_source"

const (
	AuthSourceSession = "session"
	AuthSourceBearer  = "bearer"
)

// RequireAuth accepts an "Authorization: Bearer" token or a session user. A bearer header
// that fails verification is rejected even when a session is present. Bearer identities are
// rebuilt from the live account, so a deleted user is refused and a changed role applies at once.
func RequireAuth(tokens TokenParser, accounts AccountLookup) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if raw, ok := bearerToken(c); ok {
			if tokens == nil {
				return response.Unauthorized(c, "Unauthorized")
			}
			id, err := tokens.Parse(raw)
			if err != nil {
				log.Info().Str("trace_id", GetTraceID(c)).Str("path", c.Path()).Msg("auth: bearer token rejected")
				return response.Unauthorized(c, err.Error())
			}
			if accounts != nil {
				u, err := accounts.FindByID(c.UserContext(), id.UserID)
				if err != nil {
					if errors.Is(err, authsvc.ErrNotAuthenticated) {
						log.Info().Str("trace_id", GetTraceID(c)).Str("user_id", id.UserID).Msg("auth: token for unknown account")
						return response.Unauthorized(c, "Unauthorized")
					}
					log.Error().Err(err).Str("trace_id", GetTraceID(c)).Msg("auth: account lookup failed")
					return response.Internal(c)
				}
				live := authsvc.IdentityFromUser(u)
				if id, err = authsvc.VerifyUser(&live); err != nil {
					return response.Unauthorized(c, "Unauthorized")
				}
			}
			c.Locals(userLocal, id)
			c.Locals(authSourceLocal, AuthSourceBearer)
			return c.Next()
		}
		if GetUser(c) == nil {
			return response.Unauthorized(c, "Unauthorized")
		}
		c.Locals(authSourceLocal, AuthSourceSession)
		return c.Next()
	}
}

func bearerToken(c *fiber.Ctx) (string, bool) {
	h := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if h == "" {
		return "", false
	}
	scheme, token, found := strings.Cut(h, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	return strings.TrimSpace(token), true
}

// GetUser returns the authenticated identity from Locals (nil if not logged in).
func GetUser(c *fiber.Ctx) *authsvc.Identity {
	id, _ := c.Locals(userLocal).(*authsvc.Identity)
	return id
}

// GetAuthSource reports whether the caller was authenticated by session or bearer token.
func GetAuthSource(c *fiber.Ctx) string {
	s, _ := c.Locals(authSourceLocal).(string)
	return s
}
