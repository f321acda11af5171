package main

import (
	"github.com/gofiber/fiber/v2"

	"github.com/niiniyare/schemaforge/pkg/errors"
	"github.com/niiniyare/schemaforge/pkg/logger"
)

// newErrorHandler converts every error a handler returns. A fiber routing
// error keeps its own status and is answered with a bare
// {"code": "HTTP_ERROR", "message": ...} body; every other error — a
// domain BusinessError, a RepositoryError, or anything else — goes
// through errors.ToHTTPError, logging 5xx responses at error level and
// 4xx ones at debug level.
func newErrorHandler(log logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		if fe, ok := err.(*fiber.Error); ok {
			return c.Status(fe.Code).JSON(fiber.Map{"code": "HTTP_ERROR", "message": fe.Message})
		}

		httpErr := errors.ToHTTPError(err)
		if httpErr.Status >= 500 {
			log.Error("request failed", logger.Fields{"code": httpErr.Code, "message": httpErr.Message})
		} else {
			log.Debug("request rejected", logger.Fields{"code": httpErr.Code, "message": httpErr.Message})
		}
		return c.Status(httpErr.Status).JSON(httpErr)
	}
}
