package adapters

import (
	"context"
	"io"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/toyz/synapse/pkg/synapse"
)

// GinAdapter implements Adapter for the Gin framework. Gin has no server
// lifecycle of its own, so Start wraps the engine in an http.Server that
// Stop can shut down gracefully.
type GinAdapter struct {
	engine  *gin.Engine
	handler *synapse.WebhookHandler

	mu     sync.Mutex
	server *http.Server
}

// NewGinAdapter creates a new Gin adapter on an existing engine
func NewGinAdapter(g *gin.Engine, handler *synapse.WebhookHandler) *GinAdapter {
	return &GinAdapter{engine: g, handler: handler}
}

// NewDefaultGinAdapter creates a new Gin adapter with a default Gin instance
func NewDefaultGinAdapter(handler *synapse.WebhookHandler) *GinAdapter {
	return &GinAdapter{engine: gin.Default(), handler: handler}
}

// Mount registers POST {prefix}/:name with the Gin engine
func (ga *GinAdapter) Mount(prefix string) {
	ga.engine.POST(prefix+"/:name", ga.handle)
}

func (ga *GinAdapter) handle(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable request body"})
		return
	}
	status, payload := ga.handler.HandleRequest(c.Request.Context(), c.Param("name"), body, c.ClientIP())
	c.JSON(status, payload)
}

// Start starts an http.Server serving the Gin engine
func (ga *GinAdapter) Start(addr string) error {
	ga.mu.Lock()
	srv := &http.Server{Addr: addr, Handler: ga.engine}
	ga.server = srv
	ga.mu.Unlock()
	return srv.ListenAndServe()
}

// Stop gracefully shuts down the wrapping http.Server
func (ga *GinAdapter) Stop(ctx context.Context) error {
	ga.mu.Lock()
	srv := ga.server
	ga.mu.Unlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

// Name returns the adapter name
func (ga *GinAdapter) Name() string {
	return "Gin"
}

// GetEngine returns the underlying Gin engine
func (ga *GinAdapter) GetEngine() *gin.Engine {
	return ga.engine
}
