package middlewares

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	helper "studiofit_backend/internals/helpers"
)

// ErrorHandler renders errors escaping handlers with the standard envelope.
func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		if fe, ok := err.(*fiber.Error); ok {
			return helper.JsonError(c, fe.Code, fe.Message)
		}
		log.Error("unhandled error", zap.String("path", c.Path()), zap.Error(err))
		return helper.FromError(c, err)
	}
}
