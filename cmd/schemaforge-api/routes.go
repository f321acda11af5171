package main

import (
	"github.com/gofiber/fiber/v2"

	"github.com/niiniyare/schemaforge/internal/wiring"
	"github.com/niiniyare/schemaforge/pkg/errors"
	"github.com/niiniyare/schemaforge/pkg/schemakit/aggregate"
	"github.com/niiniyare/schemaforge/pkg/schemakit/interchange"
	"github.com/niiniyare/schemaforge/pkg/schemakit/usecase"
)

func registerRoutes(app *fiber.App, a *wiring.App) {
	svc := a.Service
	v1 := app.Group("/v1")

	v1.Post("/entities", func(c *fiber.Ctx) error {
		var in usecase.CreateEntityInput
		if err := c.BodyParser(&in); err != nil {
			return errors.NewBusinessError(errors.CodeInvalidInput, "malformed request body")
		}
		id, err := svc.CreateEntity(c.UserContext(), in)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id})
	})

	v1.Delete("/entities/:entityID", func(c *fiber.Ctx) error {
		if err := svc.DeleteEntity(c.UserContext(), c.Params("entityID")); err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	v1.Post("/entities/:entityID/fields", func(c *fiber.Ctx) error {
		var in usecase.AddFieldInput
		if err := c.BodyParser(&in); err != nil {
			return errors.NewBusinessError(errors.CodeInvalidInput, "malformed request body")
		}
		fieldID, err := svc.AddField(c.UserContext(), c.Params("entityID"), in)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": fieldID})
	})

	v1.Delete("/entities/:entityID/fields/:fieldID", func(c *fiber.Ctx) error {
		if err := svc.DeleteField(c.UserContext(), c.Params("entityID"), c.Params("fieldID")); err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	v1.Post("/entities/:entityID/fields/:fieldID/constraints", func(c *fiber.Ctx) error {
		var body constraintRequest
		if err := c.BodyParser(&body); err != nil {
			return errors.NewBusinessError(errors.CodeInvalidInput, "malformed request body")
		}
		built, err := body.build()
		if err != nil {
			return err
		}
		if err := svc.AddConstraint(c.UserContext(), c.Params("entityID"), c.Params("fieldID"), built); err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusCreated)
	})

	v1.Post("/entities/:entityID/fields/:fieldID/control-rules", func(c *fiber.Ctx) error {
		var rule aggregate.ControlRule
		if err := c.BodyParser(&rule); err != nil {
			return errors.NewBusinessError(errors.CodeInvalidInput, "malformed request body")
		}
		result, err := svc.AddControlRule(c.UserContext(), c.Params("entityID"), c.Params("fieldID"), rule)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(result)
	})

	v1.Post("/entities/:entityID/fields/:fieldID/control-rules/preview", func(c *fiber.Ctx) error {
		var body struct {
			Rule   aggregate.ControlRule `json:"rule"`
			Values map[string]any        `json:"values"`
		}
		if err := c.BodyParser(&body); err != nil {
			return errors.NewBusinessError(errors.CodeInvalidInput, "malformed request body")
		}
		result, err := svc.PreviewControlRule(c.UserContext(), c.Params("entityID"), c.Params("fieldID"), body.Rule, body.Values)
		if err != nil {
			return err
		}
		return c.JSON(result)
	})

	v1.Post("/schema/export", func(c *fiber.Ctx) error {
		var body struct {
			Path     string `json:"path"`
			SchemaID string `json:"schema_id"`
			Version  string `json:"version"`
		}
		if err := c.BodyParser(&body); err != nil {
			return errors.NewBusinessError(errors.CodeInvalidInput, "malformed request body")
		}
		result, err := svc.ExportSchema(c.UserContext(), body.Path, body.SchemaID, body.Version)
		if err != nil {
			return err
		}
		return c.JSON(result)
	})

	v1.Post("/schema/import", func(c *fiber.Ctx) error {
		var body struct {
			Path string `json:"path"`
		}
		if err := c.BodyParser(&body); err != nil {
			return errors.NewBusinessError(errors.CodeInvalidInput, "malformed request body")
		}
		result, err := svc.ImportSchema(c.UserContext(), body.Path)
		if err != nil {
			return err
		}
		return c.JSON(result)
	})

	v1.Post("/schema/compare", func(c *fiber.Ctx) error {
		var body struct {
			TargetPath string              `json:"target_path"`
			Current    interchange.Version `json:"current_version"`
		}
		if err := c.BodyParser(&body); err != nil {
			return errors.NewBusinessError(errors.CodeInvalidInput, "malformed request body")
		}
		target, err := interchange.Import(body.TargetPath)
		if err != nil {
			return err
		}
		result, err := svc.CompareSchema(c.UserContext(), body.Current, target.Schema.Entities())
		if err != nil {
			return err
		}
		return c.JSON(result)
	})

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
}
