package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/hashicorp/go-hclog"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/latencylab/edge-placement-rl/internal/config"
	"github.com/latencylab/edge-placement-rl/internal/database"
	"github.com/latencylab/edge-placement-rl/pkg/learning"
	"github.com/latencylab/edge-placement-rl/pkg/simulator"
)

// Server exposes recorded runs over a read-mostly HTTP API. Runs are
// produced by the experiment pipeline; the API serves their learning
// curves, evaluations, and comparisons, plus Prometheus metrics.
type Server struct {
	router  *gin.Engine
	repo    *database.Repository
	metrics *Metrics
	logger  hclog.Logger
	addr    string
	httpSrv *http.Server
}

// NewServer creates a new API server
func NewServer(cfg config.ServerConfig, repo *database.Repository, logger hclog.Logger) *Server {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	// Configure CORS
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	router.Use(cors.New(corsConfig))

	server := &Server{
		router:  router,
		repo:    repo,
		metrics: NewMetrics(repo),
		logger:  logger,
		addr:    cfg.Addr(),
	}

	router.Use(server.observe())
	server.setupRoutes()
	return server
}

// observe records request metrics and an access log line
func (s *Server) observe() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		elapsed := time.Since(start)

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())

		s.metrics.RequestsTotal.WithLabelValues(c.Request.Method, route, status).Inc()
		s.metrics.RequestDuration.WithLabelValues(c.Request.Method, route).Observe(elapsed.Seconds())
		s.logger.Debug("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", elapsed,
		)
	}
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	s.router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.metrics.Registry, promhttp.HandlerOpts{})))

	api := s.router.Group("/api/v1")

	// Run endpoints
	api.GET("/runs", s.listRuns)
	api.GET("/runs/:id", s.getRun)
	api.PUT("/runs/:id", s.renameRun)
	api.DELETE("/runs/:id", s.deleteRun)

	// Learning curve endpoints (isolated by run)
	api.GET("/runs/:id/episodes", s.getEpisodes)
	api.GET("/runs/:id/episodes/latest", s.getLatestEpisode)

	// Evaluation endpoints
	api.GET("/runs/:id/evaluations", s.getEvaluations)
	api.GET("/runs/:id/strategies", s.getStrategies)

	// Summary endpoint
	api.GET("/runs/:id/summary", s.getRunSummary)

	// Capability discovery
	api.GET("/simulators", s.listSimulators)
	api.GET("/stores", s.listStores)

	// Health check
	api.GET("/health", s.healthCheck)
}

// Start serves until Shutdown is called
func (s *Server) Start() error {
	s.httpSrv = &http.Server{Addr: s.addr, Handler: s.router}
	s.logger.Info("analytics api listening", "addr", s.addr)

	if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and stops the listener
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	s.logger.Info("analytics api shutting down")
	return s.httpSrv.Shutdown(ctx)
}

// Handler implementations

func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now(),
	})
}

func (s *Server) listSimulators(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"simulators": simulator.AvailableSimulators()})
}

func (s *Server) listStores(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"stores": learning.AvailableStores()})
}

func (s *Server) listRuns(c *gin.Context) {
	runs, err := s.repo.ListRuns()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, runs)
}

func (s *Server) getRun(c *gin.Context) {
	id := c.Param("id")

	run, err := s.repo.GetRun(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Run not found"})
		return
	}

	c.JSON(http.StatusOK, run)
}

func (s *Server) renameRun(c *gin.Context) {
	id := c.Param("id")

	var body struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.repo.RenameRun(id, body.Name); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Run renamed"})
}

func (s *Server) deleteRun(c *gin.Context) {
	id := c.Param("id")

	if err := s.repo.DeleteRun(id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Run deleted"})
}

func (s *Server) getEpisodes(c *gin.Context) {
	runID := c.Param("id")

	// Parse query parameters
	limit := 0 // all episodes by default
	if l := c.Query("limit"); l != "" {
		parsed, err := strconv.Atoi(l)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		limit = parsed
	}

	episodes, err := s.repo.GetEpisodeMetrics(runID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, episodes)
}

func (s *Server) getLatestEpisode(c *gin.Context) {
	runID := c.Param("id")

	episode, err := s.repo.GetLatestEpisodeMetric(runID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No episodes found"})
		return
	}

	c.JSON(http.StatusOK, episode)
}

func (s *Server) getEvaluations(c *gin.Context) {
	runID := c.Param("id")
	policy := c.Query("policy")

	records, err := s.repo.GetEvaluationRecords(runID, policy)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, records)
}

func (s *Server) getStrategies(c *gin.Context) {
	runID := c.Param("id")

	summaries, err := s.repo.GetStrategySummaries(runID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, summaries)
}

func (s *Server) getRunSummary(c *gin.Context) {
	runID := c.Param("id")

	summary, err := s.repo.GetRunSummary(runID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, summary)
}
