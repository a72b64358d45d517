// Package httpx holds the request parsing and error mapping shared by the REST handlers.
package httpx

import (
	"errors"
	"strconv"

	"asset-register/internal/middleware"
	"asset-register/internal/pkg/response"
	"asset-register/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// ErrorMap assigns an HTTP status to each known service error.
type ErrorMap map[error]int

var errBadID = errors.New("Invalid ID")

// RespondError writes the error envelope for err. Validation errors become 400 with per-field
// details, mapped sentinels use their status, anything else is logged and hidden behind a 500.
func RespondError(c *fiber.Ctx, err error, known ErrorMap) error {
	var verr *validation.Error
	if errors.As(err, &verr) {
		return response.BadRequest(c, verr.Error(), verr.Fields)
	}
	for target, status := range known {
		if errors.Is(err, target) {
			return response.Error(c, err.Error(), status, nil)
		}
	}
	log.Error().Err(err).Str("trace_id", middleware.GetTraceID(c)).Str("path", c.Path()).Msg("request failed")
	return response.Internal(c)
}

// ParamID reads a positive integer route parameter.
func ParamID(c *fiber.Ctx, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || v == 0 {
		return 0, errBadID
	}
	return uint(v), nil
}

// QueryID reads an optional positive integer query parameter. Absent yields nil.
func QueryID(c *fiber.Ctx, name string) (*uint, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || v == 0 {
		return nil, errBadID
	}
	id := uint(v)
	return &id, nil
}

// BadID replies 400 for an unparsable identifier.
func BadID(c *fiber.Ctx, name string) error {
	return response.BadRequest(c, "Invalid "+name, nil)
}

// InvalidBody replies 400 for a body that could not be decoded.
func InvalidBody(c *fiber.Ctx) error {
	return response.BadRequest(c, "Invalid request body", nil)
}

// ActorID is the user id of the caller, or "" when unauthenticated.
func ActorID(c *fiber.Ctx) string {
	if u := middleware.GetUser(c); u != nil {
		return u.UserID
	}
	return ""
}
