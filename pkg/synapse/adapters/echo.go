package adapters

import (
	"context"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/toyz/synapse/pkg/synapse"
)

// EchoAdapter implements Adapter for Echo v4
type EchoAdapter struct {
	engine  *echo.Echo
	handler *synapse.WebhookHandler
}

// NewEchoAdapter creates a new Echo adapter on an existing Echo instance
func NewEchoAdapter(e *echo.Echo, handler *synapse.WebhookHandler) *EchoAdapter {
	return &EchoAdapter{engine: e, handler: handler}
}

// NewDefaultEchoAdapter creates a new Echo adapter with a default Echo instance
func NewDefaultEchoAdapter(handler *synapse.WebhookHandler) *EchoAdapter {
	e := echo.New()
	e.HideBanner = true
	return &EchoAdapter{engine: e, handler: handler}
}

// Mount registers POST {prefix}/:name with the Echo server
func (ea *EchoAdapter) Mount(prefix string) {
	ea.engine.POST(prefix+"/:name", ea.handle)
}

func (ea *EchoAdapter) handle(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "unreadable request body"})
	}
	status, payload := ea.handler.HandleRequest(c.Request().Context(), c.Param("name"), body, c.RealIP())
	return c.JSON(status, payload)
}

// Start starts the server
func (ea *EchoAdapter) Start(addr string) error {
	return ea.engine.Start(addr)
}

// Stop stops the server
func (ea *EchoAdapter) Stop(ctx context.Context) error {
	return ea.engine.Shutdown(ctx)
}

// Name returns the adapter name
func (ea *EchoAdapter) Name() string {
	return "Echo"
}

// GetEngine returns the underlying Echo instance
func (ea *EchoAdapter) GetEngine() *echo.Echo {
	return ea.engine
}
