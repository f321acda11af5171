package main

import (
	"github.com/gofiber/fiber/v2"

	"github.com/niiniyare/schemaforge/pkg/shared"
)

// requestContext attaches a shared.RequestContext — user agent, remote
// IP, and the request id requestid.New() already stamped onto the
// response — to the request's user context, so usecase.Service's
// logAndCount can fold it into every audit log line without every
// handler having to thread it through manually.
func requestContext(c *fiber.Ctx) error {
	reqCtx := &shared.RequestContext{
		UserAgent: c.Get("User-Agent"),
		IPAddress: c.IP(),
		TraceID:   c.GetRespHeader("X-Request-Id"),
	}
	c.SetUserContext(shared.WithRequestContext(c.UserContext(), reqCtx))
	return c.Next()
}
