// Package httpapi exposes the Manana services over HTTP. Routes under
// /api/tasks and /api/auth/me require a bearer access token; the rest of
// /api/auth is open.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/CS-Kiran/Manana/internal/logging"
	"github.com/CS-Kiran/Manana/internal/server/config"
	"github.com/CS-Kiran/Manana/internal/server/services"
)

type Server struct {
	cfg    *config.Config
	logger logging.Logger
	users  *services.UserService
	tasks  *services.TaskService
}

func NewServer(cfg *config.Config, logger logging.Logger, users *services.UserService, tasks *services.TaskService) *Server {
	return &Server{cfg: cfg, logger: logger, users: users, tasks: tasks}
}

// Router assembles the gin engine with CORS, auth middleware and all routes.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{s.cfg.CORSAllowedOrigin},
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/api/health", s.health)

	authGroup := router.Group("/api/auth")
	{
		authGroup.POST("/signup", s.signup)
		authGroup.POST("/login", s.login)
		authGroup.POST("/google", s.googleSignIn)
		authGroup.POST("/refresh", s.refresh)
		authGroup.GET("/me", s.authRequired(), s.me)
		authGroup.PUT("/password", s.authRequired(), s.setPassword)
	}

	taskGroup := router.Group("/api/tasks", s.authRequired())
	{
		taskGroup.GET("", s.listTasks)
		taskGroup.POST("", s.createTask)
		taskGroup.GET("/:id", s.getTask)
		taskGroup.PATCH("/:id", s.updateTask)
		taskGroup.POST("/:id/toggle", s.toggleTask)
		taskGroup.DELETE("/:id", s.deleteTask)
	}

	return router
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.cfg.EndpointAddrHTTP,
		Handler: s.Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "http server listening", "addr", s.cfg.EndpointAddrHTTP)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info(context.Background(), "http server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
