package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"crypto-analyst/src/helpers"
	"crypto-analyst/src/interfaces"
	"crypto-analyst/src/logger"
	"crypto-analyst/src/models"

	"github.com/gin-gonic/gin"
)

var _ interfaces.IDataExchanger = (*APIServer)(nil)

// -----------------------------------------------------------------------------
// APIServer
// -----------------------------------------------------------------------------

type APIServer struct {
	Config  *models.MConfig
	Logger  *logger.Logger
	Analyst interfaces.IAnalyst
	Errors  *helpers.ErrorHandler
	engine  *gin.Engine
	http    *http.Server

	// WebSocket clients
	clients    map[*Client]struct{}
	broadcast  chan models.MRefreshEvent
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	hubOnce    sync.Once
	stopOnce   sync.Once

	// Lifecycle of refreshes triggered over the WebSocket
	ctx    context.Context
	cancel context.CancelFunc

	// One refresh at a time; the last delivered report is the only shared state
	refreshMu    sync.Mutex
	latestReport *models.MReport
	stateMutex   sync.RWMutex
}

// -----------------------------------------------------------------------------
// Constructor
// -----------------------------------------------------------------------------

func NewAPIServer(cfg *models.MConfig, analyst interfaces.IAnalyst, log *logger.Logger) *APIServer {
	if !strings.EqualFold(cfg.LogLevel, "DEBUG") {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &APIServer{
		Config:  cfg,
		Logger:  log,
		Analyst: analyst,
		Errors:  helpers.NewErrorHandler(log),
		engine:  gin.New(),
		clients: make(map[*Client]struct{}),
		// Buffered so a refresh never waits on the hub
		broadcast:  make(chan models.MRefreshEvent, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		ctx:        ctx,
		cancel:     cancel,
	}
	s.engine.Use(gin.Recovery(), s.requestLogger())

	// CORS for local dashboards
	s.engine.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if strings.HasPrefix(origin, "http://127.0.0.1:") || strings.HasPrefix(origin, "http://localhost:") {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	s.setupRoutes()
	return s
}

// -----------------------------------------------------------------------------
// Route Setup
// -----------------------------------------------------------------------------

func (s *APIServer) setupRoutes() {
	api := s.engine.Group("/api")
	api.POST("/refresh", s.postRefresh)
	api.GET("/report", s.getReport)
	api.GET("/config", s.getConfig)
	api.GET("/health", s.getHealth)

	s.engine.GET("/ws", s.handleWebSocket)
}

// Handler exposes the router, mainly for httptest.
func (s *APIServer) Handler() http.Handler {
	return s.engine
}

// -----------------------------------------------------------------------------
// Server Lifecycle
// -----------------------------------------------------------------------------

func (s *APIServer) Start() error {
	addr := fmt.Sprintf("%s:%d", s.Config.Host, s.Config.Port)
	s.Logger.Info("Starting server on %s", addr)

	s.startHub()
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// -----------------------------------------------------------------------------

func (s *APIServer) Stop(ctx context.Context) error {
	var err error
	s.stopOnce.Do(func() {
		s.cancel()
		close(s.done)
		if s.http != nil {
			err = s.http.Shutdown(ctx)
		}
		s.Logger.Info("Server stopped")
	})
	return err
}

// -----------------------------------------------------------------------------

func (s *APIServer) startHub() {
	s.hubOnce.Do(func() { go s.handleWebsockets() })
}

// -----------------------------------------------------------------------------
// Route Handlers
// -----------------------------------------------------------------------------

func (s *APIServer) postRefresh(c *gin.Context) {
	var opts models.MAnalysisOptions
	if err := c.ShouldBindJSON(&opts); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, errorBody(helpers.NewValidation("invalid options body: %v", err)))
		return
	}

	report, err := s.RunRefresh(c.Request.Context(), opts)
	if err != nil {
		c.JSON(statusForError(err), errorBody(err))
		return
	}
	c.JSON(http.StatusOK, report)
}

// -----------------------------------------------------------------------------

func (s *APIServer) getReport(c *gin.Context) {
	report := s.LatestReport()
	if report == nil {
		c.JSON(http.StatusNotFound, gin.H{"error_kind": "NotFound", "message": "no report has been generated yet"})
		return
	}
	c.JSON(http.StatusOK, report)
}

// -----------------------------------------------------------------------------

func (s *APIServer) getConfig(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"provider":        s.Config.DataSource.Provider,
		"timeframes":      models.Timeframes,
		"use_cases":       models.UseCases,
		"min_top_n":       models.MinTopN,
		"max_top_n":       models.MaxTopN,
		"default_options": s.Analyst.DefaultOptions(),
	})
}

// -----------------------------------------------------------------------------

func (s *APIServer) getHealth(c *gin.Context) {
	s.stateMutex.RLock()
	connections := len(s.clients)
	var latestID string
	var latestUpdate int64
	if s.latestReport != nil {
		latestID = s.latestReport.ID
		latestUpdate = s.latestReport.GeneratedAt.Unix()
	}
	s.stateMutex.RUnlock()

	c.JSON(http.StatusOK, gin.H{
		"status":        "ok",
		"connections":   connections,
		"latest_report": latestID,
		"latest_update": latestUpdate,
		"errors":        s.Errors.Counts(),
	})
}

// -----------------------------------------------------------------------------
// Refresh
// -----------------------------------------------------------------------------

// RunRefresh serialises refreshes, keeps the delivered report and notifies
// connected dashboards of the outcome.
func (s *APIServer) RunRefresh(ctx context.Context, opts models.MAnalysisOptions) (*models.MReport, error) {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	report, err := s.Analyst.Refresh(ctx, opts)
	if err != nil {
		s.Errors.Handle(err, "refresh")
		s.Broadcast(errorEvent(err))
		return nil, err
	}

	s.UpdateLatestReport(report)
	s.Broadcast(models.MRefreshEvent{Type: EventReport, Report: report, Timestamp: time.Now().Unix()})
	return report, nil
}

// -----------------------------------------------------------------------------

func (s *APIServer) LatestReport() *models.MReport {
	s.stateMutex.RLock()
	defer s.stateMutex.RUnlock()
	return s.latestReport
}

// -----------------------------------------------------------------------------

func (s *APIServer) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.Logger.Debug("%s %s -> %d (%v)", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}
