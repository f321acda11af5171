// Command schemaforge-api exposes schema authoring over HTTP, the
// entrypoint cmd/schemaforge-cli's wiring.Build bundle was designed to
// sit under.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/niiniyare/schemaforge/internal/wiring"
	"github.com/niiniyare/schemaforge/pkg/config"
	"github.com/niiniyare/schemaforge/pkg/logger"
)

func main() {
	cfg := config.Load()
	app, err := wiring.Build(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "schemaforge-api: %v\n", err)
		os.Exit(1)
	}
	defer app.Logger.Close()
	defer app.Tracer.Shutdown(context.Background())

	server := fiber.New(fiber.Config{
		ErrorHandler: newErrorHandler(app.Logger),
	})
	server.Use(requestid.New())
	server.Use(recover.New())
	server.Use(requestContext)

	registerRoutes(server, app)

	addr := ":" + cfg.Server.Port
	app.Logger.Info("starting schemaforge-api", logger.Fields{"addr": addr})
	if err := server.Listen(addr); err != nil {
		app.Logger.Error("server stopped", logger.Fields{"error": err.Error()})
		os.Exit(1)
	}
}
