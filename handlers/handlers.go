// Package handlers holds the HTTP handlers. Each resource lives in its own
// subpackage; this package carries the pieces they share.
package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/thats-my-college/utils/response"
	"github.com/sahilchouksey/thats-my-college/utils/validation"
	"go.uber.org/zap"
)

// OpLogger scopes a logger to one handler operation and request
func OpLogger(log *zap.Logger, c *fiber.Ctx, op string) *zap.Logger {
	return log.With(
		zap.String("op", op),
		zap.String("request_id", c.GetRespHeader(fiber.HeaderXRequestID)),
	)
}

// ParseBody decodes and validates the request body into dst. When it
// returns false the error response has already been written.
func ParseBody(c *fiber.Ctx, v *validation.Validator, log *zap.Logger, dst interface{}) (bool, error) {
	if err := c.BodyParser(dst); err != nil {
		log.Info("failed", zap.String("reason", "invalid body"), zap.Error(err))
		return false, response.BadRequest(c, "Invalid request body")
	}
	if err := v.ValidateStruct(dst); err != nil {
		log.Info("failed", zap.String("reason", "validation"), zap.Error(err))
		return false, response.ValidationError(c, validation.FormatValidationErrors(err))
	}
	return true, nil
}

// Fail logs the failure and writes the error envelope
func Fail(c *fiber.Ctx, log *zap.Logger, err error) error {
	log.Info("failed", zap.Error(err))
	return response.FromError(c, err, log)
}
