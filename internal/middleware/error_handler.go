package middleware

import (
	"encoding/json"
	"errors"
	"time"

	"asset-register/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const errorLogLimit = 50

// ErrorHandler is the global error handler. Unhandled errors are logged, appended to the
// Redis error log read by /health/errors, and answered with the standard error format.
func ErrorHandler(rdb *redis.Client) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "Internal Server Error"

		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			message = fe.Message
		}

		traceID := GetTraceID(c)
		if code >= fiber.StatusInternalServerError {
			log.Error().Err(err).Str("trace_id", traceID).Str("method", c.Method()).Str("path", c.Path()).Msg("unhandled error")
			recordError(c, rdb, traceID, code, err)
		}
		return response.Error(c, message, code, nil)
	}
}

func recordError(c *fiber.Ctx, rdb *redis.Client, traceID string, code int, err error) {
	if rdb == nil {
		return
	}
	entry, _ := json.Marshal(map[string]interface{}{
		"time":       time.Now().UTC(),
		"trace_id":   traceID,
		"method":     c.Method(),
		"path":       c.OriginalURL(),
		"statusCode": code,
		"message":    err.Error(),
	})
	ctx := c.UserContext()
	pipe := rdb.TxPipeline()
	pipe.LPush(ctx, KeyErrorLog, entry)
	pipe.LTrim(ctx, KeyErrorLog, 0, errorLogLimit-1)
	if _, perr := pipe.Exec(ctx); perr != nil {
		log.Warn().Err(perr).Str("trace_id", traceID).Msg("error log: redis write failed")
	}
}
