package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/twistprotocol/twist-chain/api/handlers"
	"github.com/twistprotocol/twist-chain/api/middleware"
	"github.com/twistprotocol/twist-chain/api/types"
	"github.com/twistprotocol/twist-chain/api/websocket"
	"github.com/twistprotocol/twist-chain/metrics"
)

// Server represents the API server
type Server struct {
	httpServer *http.Server
	wsServer   *websocket.Server
	config     *Config
	mockMode   bool

	// Services
	stakingService   types.StakingService
	bondService      types.BondService
	attentionService types.AttentionService
	supplyService    types.SupplyService

	// Handlers
	stakingHandler   *handlers.StakingHandler
	bondHandler      *handlers.BondHandler
	attentionHandler *handlers.AttentionHandler
	supplyHandler    *handlers.SupplyHandler

	// Rate limiter
	rateLimiter *middleware.RateLimiter
}

// Config contains server configuration
type Config struct {
	Host             string
	Port             int
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	MockMode         bool
	DisableRateLimit bool // For testing purposes
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Host:         "0.0.0.0",
		Port:         8080,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		MockMode:     true,
	}
}

// NewServer creates a new API server. Mock mode serves seeded fixture
// data; otherwise requests run against in-process module keepers.
func NewServer(config *Config) *Server {
	if config == nil {
		config = DefaultConfig()
	}
	if config.MockMode {
		mock := NewMockService()
		return NewServerWithServices(config, mock, mock, mock, mock)
	}
	svc := NewKeeperService()
	return NewServerWithServices(config, svc, svc, svc, svc)
}

// NewServerWithServices creates a new API server with custom services
func NewServerWithServices(config *Config, stakingSvc types.StakingService, bondSvc types.BondService, attentionSvc types.AttentionService, supplySvc types.SupplyService) *Server {
	if config == nil {
		config = DefaultConfig()
	}

	wsConfig := websocket.DefaultServerConfig()
	wsConfig.Port = config.Port

	rateLimiter := middleware.NewRateLimiter(middleware.DefaultRateLimitConfig())

	s := &Server{
		config:           config,
		wsServer:         websocket.NewServer(wsConfig),
		mockMode:         config.MockMode,
		stakingService:   stakingSvc,
		bondService:      bondSvc,
		attentionService: attentionSvc,
		supplyService:    supplySvc,
		rateLimiter:      rateLimiter,
	}

	s.stakingHandler = handlers.NewStakingHandler(s.stakingService)
	s.bondHandler = handlers.NewBondHandler(s.bondService)
	s.attentionHandler = handlers.NewAttentionHandler(s.attentionService)
	s.supplyHandler = handlers.NewSupplyHandler(s.supplyService)

	return s
}

// Start starts the API server
func (s *Server) Start() error {
	mux := http.NewServeMux()

	// Health check (support both /health and /v1/health for compatibility)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/v1/health", s.handleHealth)

	// Staking endpoints
	mux.HandleFunc("/v1/staking/pools", s.stakingHandler.HandlePools)
	mux.HandleFunc("/v1/staking/pools/", s.stakingHandler.HandlePool)
	mux.HandleFunc("/v1/staking/positions", s.stakingHandler.HandlePositions)
	mux.HandleFunc("/v1/staking/stake", s.stakingHandler.HandleStake)
	mux.HandleFunc("/v1/staking/withdraw", s.stakingHandler.HandleWithdraw)
	mux.HandleFunc("/v1/staking/claim", s.stakingHandler.HandleClaim)

	// Bond pool endpoints
	mux.HandleFunc("/v1/bond/pools", s.bondHandler.HandlePools)
	mux.HandleFunc("/v1/bond/pools/", s.bondHandler.HandlePool)
	mux.HandleFunc("/v1/bond/leaderboard", s.bondHandler.HandleLeaderboard)
	mux.HandleFunc("/v1/bond/stake", s.bondHandler.HandleStake)

	// Visitor attention endpoints
	mux.HandleFunc("/v1/vau/sites", s.attentionHandler.HandleSites)
	mux.HandleFunc("/v1/vau/sites/", s.attentionHandler.HandleSite)
	mux.HandleFunc("/v1/vau/top-sites", s.attentionHandler.HandleTopSites)
	mux.HandleFunc("/v1/vau/burns", s.handleBurns)

	// Supply endpoints
	mux.HandleFunc("/v1/supply/state", s.supplyHandler.HandleState)
	mux.HandleFunc("/v1/supply/controller", s.supplyHandler.HandleController)

	// WebSocket
	mux.HandleFunc("/ws", s.wsServer.GetHub().ServeWS)

	// Prometheus scrape endpoint
	mux.Handle("/metrics", metrics.Handler())

	// Apply middleware chain: CORS -> RateLimit -> Metrics -> Handler
	var handler http.Handler
	if s.config.DisableRateLimit {
		handler = corsMiddleware(metricsMiddleware(mux))
	} else {
		handler = corsMiddleware(
			middleware.RateLimitMiddleware(s.rateLimiter)(metricsMiddleware(mux)),
		)
	}

	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	// Start WebSocket hub
	go s.wsServer.GetHub().Run()

	// Start the chain data broadcaster
	go s.startBroadcaster()

	log.Printf("API server starting on %s (mock mode: %v)", addr, s.mockMode)
	if s.config.DisableRateLimit {
		log.Printf("Rate limiting DISABLED (for testing)")
	} else {
		log.Printf("Rate limiting enabled: %d req/s per IP", 100)
	}
	return s.httpServer.ListenAndServe()
}

// Stop gracefully shuts down the server
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// handleBurns dispatches /v1/vau/burns by method: GET lists recent
// burns, POST submits one.
func (s *Server) handleBurns(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.attentionHandler.HandleRecentBurns(w, r)
	default:
		s.attentionHandler.HandleSubmitBurn(w, r)
	}
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	mode := "real"
	if s.mockMode {
		mode = "mock"
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().Unix(),
		"mode":      mode,
	})
}

// startBroadcaster polls the services and pushes snapshots to the
// websocket hub. Pool stats and supply state refresh every couple of
// seconds, the leaderboard less often.
func (s *Server) startBroadcaster() {
	statsTicker := time.NewTicker(2 * time.Second)
	leaderboardTicker := time.NewTicker(15 * time.Second)
	defer statsTicker.Stop()
	defer leaderboardTicker.Stop()

	ctx := context.Background()
	hub := s.wsServer.GetHub()

	for {
		select {
		case <-statsTicker.C:
			now := time.Now().Unix()

			pools, err := s.stakingService.ListPools(ctx)
			if err == nil {
				for _, pool := range pools {
					hub.UpdatePoolStats(fmt.Sprintf("%d", pool.PoolID), &websocket.PoolStatsMessage{
						PoolKey:        fmt.Sprintf("%d", pool.PoolID),
						TotalStaked:    pool.TotalStaked,
						TotalShares:    pool.TotalShares,
						RewardPerShare: pool.RewardPerShare,
						StakerCount:    pool.StakerCount,
						Timestamp:      now,
					})
				}
			}

			state, err := s.supplyService.GetEconomicState(ctx)
			if err == nil {
				hub.UpdateSupply(&websocket.SupplyMessage{
					Price:                state.Price,
					TotalSupply:          state.TotalSupply,
					CircuitBreakerActive: state.CircuitBreakerActive,
					BreakerSeverity:      state.BreakerSeverity,
					Timestamp:            now,
				})
			}

		case <-leaderboardTicker.C:
			entries, err := s.bondService.GetLeaderboard(ctx, 10)
			if err == nil {
				hub.BroadcastLeaderboard(&websocket.LeaderboardMessage{
					Entries:   entries,
					Timestamp: time.Now().Unix(),
				})
			}
		}
	}
}

// Helper functions

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		timer := metrics.NewTimer()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		metrics.GetCollector().RecordAPIRequest(
			r.Method, r.URL.Path, fmt.Sprintf("%d", rec.status), timer.ElapsedMs(),
		)
	})
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-API-Key, X-Owner-Address")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
