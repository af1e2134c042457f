package server

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"portfolio-simulator/src/analysis"
	datasource "portfolio-simulator/src/data_source"
	"portfolio-simulator/src/helpers"
	"portfolio-simulator/src/interfaces"
	"portfolio-simulator/src/logger"
	"portfolio-simulator/src/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// -----------------------------------------------------------------------------
// DashboardServer
// -----------------------------------------------------------------------------

type DashboardServer struct {
	Config   *models.MConfig
	Logger   *logger.Logger
	engine   *gin.Engine
	History  *datasource.HistoryService
	DB       interfaces.IDatabase
	Analyzer *analysis.AnalysisFacade
	Errors   *helpers.ErrorHandler

	// WebSocket clients
	clients    map[*Client]struct{}
	broadcast  chan interface{} // Buffered queue of progress events and run summaries
	register   chan *Client
	unregister chan *Client
	done       chan struct{} // Closed on shutdown; registration channels stay open

	// Local cache
	latestState *models.MLatestRun
	stateMutex  sync.RWMutex
}

// -----------------------------------------------------------------------------
// Constructor
// -----------------------------------------------------------------------------

func NewDashboardServer(
	cfg *models.MConfig,
	log *logger.Logger,
	history *datasource.HistoryService,
	db interfaces.IDatabase,
	analyzer *analysis.AnalysisFacade,
) *DashboardServer {
	// Set Gin mode
	if cfg.LogLevel != "DEBUG" {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &DashboardServer{
		Config:   cfg,
		Logger:   log,
		engine:   gin.Default(),
		History:  history,
		DB:       db,
		Analyzer: analyzer,
		Errors:   helpers.NewErrorHandler(),
		clients:  make(map[*Client]struct{}),
		// Buffered channel so pipeline progress never blocks on slow clients
		broadcast:  make(chan interface{}, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		latestState: &models.MLatestRun{
			Type:      "INITIAL",
			Timestamp: 0,
		},
	}

	// Add CORS Middleware
	s.engine.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if strings.HasPrefix(origin, "http://127.0.0.1:") || strings.HasPrefix(origin, "http://localhost:") {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// setup web routes
	s.setupRoutes()
	return s
}

// -----------------------------------------------------------------------------
// Route Setup
// -----------------------------------------------------------------------------

func (s *DashboardServer) setupRoutes() {
	// REST API endpoints
	s.engine.POST("/api/analyze", s.postAnalyze)
	s.engine.GET("/api/runs", s.getRuns)
	s.engine.GET("/api/runs/:id", s.getRun)
	s.engine.GET("/api/runs/:id/frontier.csv", s.getFrontierCSV)
	s.engine.GET("/api/runs/:id/allocation.csv", s.getAllocationCSV)
	s.engine.GET("/api/config", s.getConfig)
	s.engine.GET("/api/health", s.getHealth)

	// WebSocket endpoint
	s.engine.GET("/ws", s.handleWebSocket)
}

// -----------------------------------------------------------------------------
// Server Lifecycle
// -----------------------------------------------------------------------------

func (s *DashboardServer) Start() error {
	addr := fmt.Sprintf("%s:%d", s.Config.Host, s.Config.Port)
	s.Logger.Info("Starting server on %s", addr)

	go s.handleWebsockets()

	return s.engine.Run(addr)
}

// -----------------------------------------------------------------------------

func (s *DashboardServer) Stop() error {
	// Signal shutdown. The registration channels stay open so clients
	// disconnecting mid-shutdown never send on a closed channel.
	close(s.done)
	return nil
}

// -----------------------------------------------------------------------------
// Route Handlers
// -----------------------------------------------------------------------------

// postAnalyze runs the full pipeline: fetch -> backtest -> Monte Carlo
// -> frontier search. Progress milestones stream over the websocket hub.
func (s *DashboardServer) postAnalyze(c *gin.Context) {
	var req models.MAnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": fmt.Sprintf("invalid request body: %v", err)})
		return
	}

	if err := validateRequest(&req); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	s.Analyzer.NormalizeRequest(&req)

	startDate, endDate, err := resolveDateRange(&req, s.Config.DataSource.LookbackDays)
	if err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	runID := uuid.New().String()
	progress := func(stage string, pct int, msg string) {
		s.BroadcastProgress(models.MProgressEvent{
			Type:      "PROGRESS",
			RunID:     runID,
			Stage:     stage,
			Progress:  pct,
			Message:   msg,
			Timestamp: time.Now().Unix(),
		})
	}

	progress("fetch", 10, "Downloading historical stock data...")
	prices, returns, err := s.History.GetAlignedHistory(c.Request.Context(), req.Tickers, startDate, endDate)
	if err != nil {
		c.JSON(502, gin.H{"error": err.Error()})
		return
	}

	run, err := s.Analyzer.Run(runID, req, prices, returns, progress)
	if err != nil {
		c.JSON(422, gin.H{"error": err.Error()})
		return
	}

	// Persistence failures are logged, not fatal: the client still gets
	// the computed run.
	if _, err := s.Errors.ExecuteWithRetry("save analysis run", func() (interface{}, error) {
		return nil, s.DB.SaveAnalysisRun(run)
	}, 2); err != nil {
		s.Logger.Error("Failed to persist run %s: %v", runID, err)
	}
	s.Errors.Handle(s.DB.CleanupOldData(), "retention cleanup")

	s.PublishRun(analysis.Summarize(run))
	c.JSON(200, run)
}

// -----------------------------------------------------------------------------

func (s *DashboardServer) getRuns(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	summaries, err := s.DB.ListAnalysisRuns(limit)
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}
	if summaries == nil {
		summaries = []models.MRunSummary{}
	}
	c.JSON(200, gin.H{"runs": summaries})
}

// -----------------------------------------------------------------------------

func (s *DashboardServer) getRun(c *gin.Context) {
	run, err := s.DB.GetAnalysisRun(c.Param("id"))
	if err != nil {
		c.JSON(404, gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, run)
}

// -----------------------------------------------------------------------------

func (s *DashboardServer) getFrontierCSV(c *gin.Context) {
	run, err := s.DB.GetAnalysisRun(c.Param("id"))
	if err != nil {
		c.JSON(404, gin.H{"error": err.Error()})
		return
	}

	csvData, err := frontierCSV(run)
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=frontier_%s.csv", run.ID))
	c.Data(200, "text/csv", csvData)
}

// -----------------------------------------------------------------------------

func (s *DashboardServer) getAllocationCSV(c *gin.Context) {
	run, err := s.DB.GetAnalysisRun(c.Param("id"))
	if err != nil {
		c.JSON(404, gin.H{"error": err.Error()})
		return
	}

	csvData, err := allocationCSV(run)
	if err != nil {
		c.JSON(500, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=allocation_%s.csv", run.ID))
	c.Data(200, "text/csv", csvData)
}

// -----------------------------------------------------------------------------

func (s *DashboardServer) getConfig(c *gin.Context) {
	// Expose the tunables the dashboard renders as sliders
	c.JSON(200, gin.H{
		"simulations":         s.Config.Analysis.Simulations,
		"horizon_days":        s.Config.Analysis.HorizonDays,
		"frontier_candidates": s.Config.Analysis.FrontierCandidates,
		"lookback_days":       s.Config.DataSource.LookbackDays,
	})
}

// -----------------------------------------------------------------------------

func (s *DashboardServer) getHealth(c *gin.Context) {
	s.stateMutex.RLock()
	connections := len(s.clients)
	timestamp := s.latestState.Timestamp
	s.stateMutex.RUnlock()

	c.JSON(200, gin.H{
		"status":      "ok",
		"connections": connections,
		"latest_run":  timestamp,
	})
}
