package server

import (
	"context"
	"ctchen222/todo-api/internal/api/controller"
	"ctchen222/todo-api/internal/api/middleware"
	"ctchen222/todo-api/internal/api/response"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// HealthCheck reports whether the backing store is reachable.
type HealthCheck func(ctx context.Context) error

// Options carries what the HTTP surface needs beyond the controllers.
type Options struct {
	CORSOrigin string
	Tokens     middleware.TokenParser
	Health     HealthCheck
}

type Server struct {
	engine *gin.Engine
}

// NewServer builds the gin engine: /login and /register are public, every
// /items route sits behind bearer authentication.
func NewServer(opts Options, users *controller.UserController, items *controller.ItemController) *Server {
	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.Observe(),
		cors.New(cors.Config{
			AllowOrigins: []string{opts.CORSOrigin},
			AllowMethods: []string{
				http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch,
				http.MethodDelete, http.MethodHead, http.MethodOptions,
			},
			AllowHeaders: []string{
				"Authorization", "Content-Type", "Accept", "Origin",
				"X-Requested-With", middleware.RequestIDHeader,
			},
			ExposeHeaders: []string{middleware.RequestIDHeader, "Location"},
			MaxAge:        12 * time.Hour,
		}),
	)

	r.POST("/login", users.Login)
	r.POST("/register", users.Register)
	r.GET("/healthz", healthz(opts.Health))

	g := r.Group("/items", middleware.Authenticate(opts.Tokens))
	g.GET("", items.Caller(http.StatusForbidden), items.List)
	g.POST("", items.Caller(http.StatusUnauthorized), items.Create)
	g.GET("/:id", items.ItemID, items.Caller(http.StatusForbidden), items.OwnedItem, items.Get)
	g.PUT("/:id", items.ItemID, items.Caller(http.StatusForbidden), items.OwnedItem, items.Update)
	g.DELETE("/:id", items.ItemID, items.Caller(http.StatusForbidden), items.OwnedItem, items.Delete)

	return &Server{engine: r}
}

// Engine exposes the router as an http.Handler.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func healthz(check HealthCheck) gin.HandlerFunc {
	return func(c *gin.Context) {
		if check != nil {
			if err := check(c.Request.Context()); err != nil {
				response.Abort(c, http.StatusServiceUnavailable, err)
				return
			}
		}
		response.OK(c, gin.H{"status": "ok"})
	}
}
