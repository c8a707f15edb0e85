// Package server wires the store, shell, action bus and providers into the
// HTTP/WebSocket surface.
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/mirageos/backend/internal/actions"
	"github.com/mirageos/backend/internal/api/middleware"
	"github.com/mirageos/backend/internal/api/ws"
	"github.com/mirageos/backend/internal/infrastructure/config"
	"github.com/mirageos/backend/internal/infrastructure/logging"
	"github.com/mirageos/backend/internal/monitoring"
	"github.com/mirageos/backend/internal/persist"
	"github.com/mirageos/backend/internal/providers/fsprovider"
	"github.com/mirageos/backend/internal/service"
	"github.com/mirageos/backend/internal/shared/types"
	"github.com/mirageos/backend/internal/shell"
	"github.com/mirageos/backend/internal/vfs"
)

// Server bundles the HTTP server and its dependencies.
type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	store      *vfs.Store
	shell      *shell.Interpreter
	dispatcher *actions.Dispatcher
	registry   *service.Registry
	metrics    *monitoring.Metrics
	logger     *logging.Logger
	config     *config.Config
}

// New creates a fully wired server. assistant and emitter are collaborator
// interfaces and may be nil.
func New(cfg *config.Config, assistant shell.Assistant, emitter actions.Emitter) (*Server, error) {
	var logger *logging.Logger
	if cfg.Logging.Development {
		logger = logging.NewDevelopment()
	} else {
		logger = logging.NewDefault()
	}

	metrics := monitoring.NewMetrics(nil)

	persister := persist.NewFileStore(cfg.Storage.SnapshotPath)
	store := vfs.NewStore(persister, logger).WithObserver(metrics)
	logger.Info("tree store initialized",
		zap.String("snapshot", cfg.Storage.SnapshotPath),
		zap.Bool("corrupted", store.Corrupted()),
	)

	sh := shell.NewInterpreter(store, assistant, logger).
		WithHistoryLimit(cfg.Shell.HistoryLimit).
		WithObserver(metrics)

	dispatcher := actions.NewDispatcher(store, emitter, logger)

	registry := service.NewRegistry()
	if err := registry.Register(fsprovider.NewProvider(store)); err != nil {
		return nil, fmt.Errorf("register fs provider: %w", err)
	}

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		store:      store,
		shell:      sh,
		dispatcher: dispatcher,
		registry:   registry,
		metrics:    metrics,
		logger:     logger,
		config:     cfg,
	}
	s.router = s.buildRouter()
	return s, nil
}

func (s *Server) buildRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS(nil))
	router.Use(s.metrics.Middleware())
	if s.config.RateLimit.Enabled {
		router.Use(middleware.RateLimit(
			s.config.RateLimit.RequestsPerSecond,
			s.config.RateLimit.Burst,
		))
	}

	router.GET("/health", s.handleHealth)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.POST("/shell/execute", s.handleShellExecute)
	router.GET("/shell/history", s.handleShellHistory)

	router.GET("/fs/tree", s.handleTree)
	router.GET("/fs/node", s.handleNode)

	router.POST("/actions", s.handleAction)

	router.GET("/services", s.handleServices)
	router.POST("/services/execute", s.handleServiceExecute)

	wsHandler := ws.NewHandler(s.dispatcher, s.shell, s.logger)
	router.GET("/ws", wsHandler.HandleConnection)

	return router
}

// Run starts serving and blocks until the listener fails or Shutdown is
// called.
func (s *Server) Run() error {
	addr := s.config.Server.Host + ":" + s.config.Server.Port
	s.httpServer = &http.Server{Addr: addr, Handler: s.router}
	s.logger.Info("server listening", zap.String("addr", addr))

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"corrupted": s.store.Corrupted(),
	})
}

func (s *Server) handleShellExecute(c *gin.Context) {
	var req types.ShellRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	output := s.shell.Execute(c.Request.Context(), req.Command)
	c.JSON(http.StatusOK, gin.H{
		"output": output,
		"cwd":    s.shell.Cwd(),
	})
}

func (s *Server) handleShellHistory(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"history": s.shell.History()})
}

func (s *Server) handleTree(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"root":      s.store.Root(),
		"corrupted": s.store.Corrupted(),
	})
}

func (s *Server) handleNode(c *gin.Context) {
	path := c.Query("path")
	if path == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "path query parameter required"})
		return
	}

	node, ok := s.store.GetNode(path)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no such node", "path": s.store.NormalizePath(path)})
		return
	}
	c.JSON(http.StatusOK, node)
}

func (s *Server) handleAction(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.dispatcher.Dispatch(raw); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"dispatched": true})
}

func (s *Server) handleServices(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"services": s.registry.List()})
}

func (s *Server) handleServiceExecute(c *gin.Context) {
	var req types.ExecuteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := &types.Context{AppID: req.AppID}
	if rid, ok := c.Get("request_id"); ok {
		if str, ok := rid.(string); ok {
			ctx.RequestID = &str
		}
	}

	result, err := s.registry.Execute(req.ToolID, req.Params, ctx)
	if err != nil && result == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}
