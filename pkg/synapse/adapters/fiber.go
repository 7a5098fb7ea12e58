package adapters

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/toyz/synapse/pkg/synapse"
)

// FiberAdapter implements Adapter for Fiber v2
type FiberAdapter struct {
	app     *fiber.App
	handler *synapse.WebhookHandler
}

// NewFiberAdapter creates a new Fiber adapter
func NewFiberAdapter(handler *synapse.WebhookHandler) *FiberAdapter {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
	})
	return &FiberAdapter{app: app, handler: handler}
}

// NewDefaultFiberAdapter creates a new Fiber adapter with default middleware
func NewDefaultFiberAdapter(handler *synapse.WebhookHandler) *FiberAdapter {
	adapter := NewFiberAdapter(handler)

	adapter.app.Use(logger.New())
	adapter.app.Use(recover.New())

	return adapter
}

// Mount registers POST {prefix}/:name with the Fiber app
func (fa *FiberAdapter) Mount(prefix string) {
	fa.app.Post(prefix+"/:name", fa.handle)
}

func (fa *FiberAdapter) handle(c *fiber.Ctx) error {
	status, payload := fa.handler.HandleRequest(c.UserContext(), c.Params("name"), c.Body(), c.IP())
	return c.Status(status).JSON(payload)
}

// Start starts the Fiber server
func (fa *FiberAdapter) Start(addr string) error {
	return fa.app.Listen(addr)
}

// Stop stops the Fiber server
func (fa *FiberAdapter) Stop(ctx context.Context) error {
	return fa.app.ShutdownWithContext(ctx)
}

// Name returns the adapter name
func (fa *FiberAdapter) Name() string {
	return "Fiber"
}

// GetApp returns the underlying Fiber app
func (fa *FiberAdapter) GetApp() *fiber.App {
	return fa.app
}
