package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Twist chain metrics collector
// Provides comprehensive metrics for monitoring

var (
	// Singleton collector
	collector     *Collector
	collectorOnce sync.Once
)

// Collector holds all Twist metrics
type Collector struct {
	// Staking pool metrics
	StakesTotal    *prometheus.CounterVec
	StakedAmount   *prometheus.GaugeVec
	PoolShares     *prometheus.GaugeVec
	PositionsOpen  *prometheus.GaugeVec
	RewardsClaimed *prometheus.CounterVec
	RewardPerShare *prometheus.GaugeVec
	EarlyUnwraps   *prometheus.CounterVec

	// Bond pool metrics
	BondedAmount     *prometheus.GaugeVec
	SectorPoolCount  prometheus.Gauge
	YieldDistributed *prometheus.CounterVec
	LeaderboardSize  prometheus.Gauge

	// Visitor attention metrics
	BurnsTotal      *prometheus.CounterVec
	BurnVolume      *prometheus.CounterVec
	ProcessorFees   *prometheus.CounterVec
	SitesRegistered prometheus.Gauge
	SitesVerified   prometheus.Gauge
	EdgeWorkers     prometheus.Gauge
	BurnLatency     *prometheus.HistogramVec

	// Supply controller metrics
	SupplyAdjustments *prometheus.CounterVec
	AdjustmentAmount  *prometheus.CounterVec
	ControllerOutput  prometheus.Gauge
	TotalSupply       prometheus.Gauge

	// Circuit breaker metrics
	BreakerTrips  *prometheus.CounterVec
	BreakerActive prometheus.Gauge
	BreakerResets *prometheus.CounterVec

	// Oracle metrics
	OraclePrice       prometheus.Gauge
	OracleDeviation   prometheus.Gauge
	OracleSourceCount prometheus.Gauge
	OracleLatency     *prometheus.HistogramVec

	// WebSocket metrics
	WSConnectionsActive *prometheus.GaugeVec
	WSMessagesTotal     *prometheus.CounterVec
	WSMessageLatency    *prometheus.HistogramVec
	WSSubscriptions     *prometheus.GaugeVec

	// API metrics
	APIRequestsTotal  *prometheus.CounterVec
	APIRequestLatency *prometheus.HistogramVec
	APIErrorsTotal    *prometheus.CounterVec
	RateLimitHits     *prometheus.CounterVec

	// System metrics
	ActiveUsers prometheus.Gauge
	BlockHeight prometheus.Gauge
	BlockTime   *prometheus.HistogramVec
	TxPoolSize  prometheus.Gauge
	PeerCount   prometheus.Gauge
}

// GetCollector returns the singleton metrics collector
func GetCollector() *Collector {
	collectorOnce.Do(func() {
		collector = newCollector()
	})
	return collector
}

// newCollector creates a new metrics collector
func newCollector() *Collector {
	c := &Collector{}

	// Staking pool metrics
	c.StakesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "twist",
			Subsystem: "staking",
			Name:      "stakes_total",
			Help:      "Total number of stake operations",
		},
		[]string{"pool_id", "operation"},
	)

	c.StakedAmount = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "twist",
			Subsystem: "staking",
			Name:      "staked_amount",
			Help:      "Total staked amount per pool (in utwist)",
		},
		[]string{"pool_id"},
	)

	c.PoolShares = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "twist",
			Subsystem: "staking",
			Name:      "pool_shares",
			Help:      "Total outstanding shares per pool",
		},
		[]string{"pool_id"},
	)

	c.PositionsOpen = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "twist",
			Subsystem: "staking",
			Name:      "positions_open",
			Help:      "Number of open staking positions",
		},
		[]string{"pool_id"},
	)

	c.RewardsClaimed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "twist",
			Subsystem: "staking",
			Name:      "rewards_claimed",
			Help:      "Total rewards claimed (in utwist)",
		},
		[]string{"pool_id"},
	)

	c.RewardPerShare = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "twist",
			Subsystem: "staking",
			Name:      "reward_per_share",
			Help:      "Accumulated reward per share per pool",
		},
		[]string{"pool_id"},
	)

	c.EarlyUnwraps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "twist",
			Subsystem: "bond",
			Name:      "early_unwraps_total",
			Help:      "Total early unwraps with penalty",
		},
		[]string{"sector"},
	)

	// Bond pool metrics
	c.BondedAmount = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "twist",
			Subsystem: "bond",
			Name:      "bonded_amount",
			Help:      "Total bonded amount per sector (in utwist)",
		},
		[]string{"sector"},
	)

	c.SectorPoolCount = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "twist",
			Subsystem: "bond",
			Name:      "sector_pool_count",
			Help:      "Number of sector bond pools",
		},
	)

	c.YieldDistributed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "twist",
			Subsystem: "bond",
			Name:      "yield_distributed",
			Help:      "Total yield distributed per sector (in utwist)",
		},
		[]string{"sector", "destination"},
	)

	c.LeaderboardSize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "twist",
			Subsystem: "bond",
			Name:      "leaderboard_size",
			Help:      "Number of entries in the TVL leaderboard",
		},
	)

	// Visitor attention metrics
	c.BurnsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "twist",
			Subsystem: "vau",
			Name:      "burns_total",
			Help:      "Total number of visitor burns processed",
		},
		[]string{"sector"},
	)

	c.BurnVolume = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "twist",
			Subsystem: "vau",
			Name:      "burn_volume",
			Help:      "Total burned amount (in utwist)",
		},
		[]string{"sector"},
	)

	c.ProcessorFees = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "twist",
			Subsystem: "vau",
			Name:      "processor_fees",
			Help:      "Total processor fees withheld (in utwist)",
		},
		[]string{"sector"},
	)

	c.SitesRegistered = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "twist",
			Subsystem: "vau",
			Name:      "sites_registered",
			Help:      "Number of registered websites",
		},
	)

	c.SitesVerified = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "twist",
			Subsystem: "vau",
			Name:      "sites_verified",
			Help:      "Number of verified websites",
		},
	)

	c.EdgeWorkers = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "twist",
			Subsystem: "vau",
			Name:      "edge_workers",
			Help:      "Number of authorized edge workers",
		},
	)

	c.BurnLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "twist",
			Subsystem: "vau",
			Name:      "burn_latency_ms",
			Help:      "Burn processing latency in milliseconds",
			Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		},
		[]string{"sector"},
	)

	// Supply controller metrics
	c.SupplyAdjustments = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "twist",
			Subsystem: "supply",
			Name:      "adjustments_total",
			Help:      "Total supply controller adjustments",
		},
		[]string{"type"},
	)

	c.AdjustmentAmount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "twist",
			Subsystem: "supply",
			Name:      "adjustment_amount",
			Help:      "Total adjusted amount (in utwist)",
		},
		[]string{"type"},
	)

	c.ControllerOutput = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "twist",
			Subsystem: "supply",
			Name:      "controller_output_bps",
			Help:      "Last controller output in basis points",
		},
	)

	c.TotalSupply = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "twist",
			Subsystem: "supply",
			Name:      "total_supply",
			Help:      "Current total supply (in utwist)",
		},
	)

	// Circuit breaker metrics
	c.BreakerTrips = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "twist",
			Subsystem: "breaker",
			Name:      "trips_total",
			Help:      "Total circuit breaker trips",
		},
		[]string{"condition", "severity"},
	)

	c.BreakerActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "twist",
			Subsystem: "breaker",
			Name:      "active",
			Help:      "Whether the circuit breaker is active (0 or 1)",
		},
	)

	c.BreakerResets = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "twist",
			Subsystem: "breaker",
			Name:      "resets_total",
			Help:      "Total circuit breaker resets",
		},
		[]string{"mode"},
	)

	// Oracle metrics
	c.OraclePrice = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "twist",
			Subsystem: "oracle",
			Name:      "price",
			Help:      "Current aggregated oracle price (6 decimals)",
		},
	)

	c.OracleDeviation = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "twist",
			Subsystem: "oracle",
			Name:      "deviation_bps",
			Help:      "Price divergence between sources in basis points",
		},
	)

	c.OracleSourceCount = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "twist",
			Subsystem: "oracle",
			Name:      "source_count",
			Help:      "Number of active oracle sources",
		},
	)

	c.OracleLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "twist",
			Subsystem: "oracle",
			Name:      "latency_ms",
			Help:      "Oracle update latency in milliseconds",
			Buckets:   []float64{10, 50, 100, 250, 500, 1000, 2000},
		},
		[]string{"source"},
	)

	// WebSocket metrics
	c.WSConnectionsActive = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "twist",
			Subsystem: "websocket",
			Name:      "connections_active",
			Help:      "Number of active WebSocket connections",
		},
		[]string{},
	)

	c.WSMessagesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "twist",
			Subsystem: "websocket",
			Name:      "messages_total",
			Help:      "Total WebSocket messages sent",
		},
		[]string{"channel"},
	)

	c.WSMessageLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "twist",
			Subsystem: "websocket",
			Name:      "message_latency_ms",
			Help:      "WebSocket message latency in milliseconds",
			Buckets:   []float64{1, 5, 10, 25, 50, 100},
		},
		[]string{"channel"},
	)

	c.WSSubscriptions = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "twist",
			Subsystem: "websocket",
			Name:      "subscriptions",
			Help:      "Number of active subscriptions per channel",
		},
		[]string{"channel"},
	)

	// API metrics
	c.APIRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "twist",
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Total API requests",
		},
		[]string{"method", "path", "status"},
	)

	c.APIRequestLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "twist",
			Subsystem: "api",
			Name:      "request_latency_ms",
			Help:      "API request latency in milliseconds",
			Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		},
		[]string{"method", "path"},
	)

	c.APIErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "twist",
			Subsystem: "api",
			Name:      "errors_total",
			Help:      "Total API errors",
		},
		[]string{"method", "path", "error_type"},
	)

	c.RateLimitHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "twist",
			Subsystem: "api",
			Name:      "rate_limit_hits",
			Help:      "Total rate limit hits",
		},
		[]string{"limit_type"},
	)

	// System metrics
	c.ActiveUsers = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "twist",
			Subsystem: "system",
			Name:      "active_users",
			Help:      "Number of active users",
		},
	)

	c.BlockHeight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "twist",
			Subsystem: "system",
			Name:      "block_height",
			Help:      "Current block height",
		},
	)

	c.BlockTime = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "twist",
			Subsystem: "system",
			Name:      "block_time_ms",
			Help:      "Block time in milliseconds",
			Buckets:   []float64{100, 250, 500, 1000, 2000, 5000},
		},
		[]string{},
	)

	c.TxPoolSize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "twist",
			Subsystem: "system",
			Name:      "tx_pool_size",
			Help:      "Transaction pool size",
		},
	)

	c.PeerCount = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "twist",
			Subsystem: "system",
			Name:      "peer_count",
			Help:      "Number of connected peers",
		},
	)

	// Register all metrics
	c.registerAll()

	return c
}

// registerAll registers all metrics with Prometheus
func (c *Collector) registerAll() {
	// Staking pool metrics
	prometheus.MustRegister(c.StakesTotal)
	prometheus.MustRegister(c.StakedAmount)
	prometheus.MustRegister(c.PoolShares)
	prometheus.MustRegister(c.PositionsOpen)
	prometheus.MustRegister(c.RewardsClaimed)
	prometheus.MustRegister(c.RewardPerShare)

	// Bond pool metrics
	prometheus.MustRegister(c.BondedAmount)
	prometheus.MustRegister(c.SectorPoolCount)
	prometheus.MustRegister(c.YieldDistributed)
	prometheus.MustRegister(c.LeaderboardSize)
	prometheus.MustRegister(c.EarlyUnwraps)

	// Visitor attention metrics
	prometheus.MustRegister(c.BurnsTotal)
	prometheus.MustRegister(c.BurnVolume)
	prometheus.MustRegister(c.ProcessorFees)
	prometheus.MustRegister(c.SitesRegistered)
	prometheus.MustRegister(c.SitesVerified)
	prometheus.MustRegister(c.EdgeWorkers)
	prometheus.MustRegister(c.BurnLatency)

	// Supply controller metrics
	prometheus.MustRegister(c.SupplyAdjustments)
	prometheus.MustRegister(c.AdjustmentAmount)
	prometheus.MustRegister(c.ControllerOutput)
	prometheus.MustRegister(c.TotalSupply)

	// Circuit breaker metrics
	prometheus.MustRegister(c.BreakerTrips)
	prometheus.MustRegister(c.BreakerActive)
	prometheus.MustRegister(c.BreakerResets)

	// Oracle metrics
	prometheus.MustRegister(c.OraclePrice)
	prometheus.MustRegister(c.OracleDeviation)
	prometheus.MustRegister(c.OracleSourceCount)
	prometheus.MustRegister(c.OracleLatency)

	// WebSocket metrics
	prometheus.MustRegister(c.WSConnectionsActive)
	prometheus.MustRegister(c.WSMessagesTotal)
	prometheus.MustRegister(c.WSMessageLatency)
	prometheus.MustRegister(c.WSSubscriptions)

	// API metrics
	prometheus.MustRegister(c.APIRequestsTotal)
	prometheus.MustRegister(c.APIRequestLatency)
	prometheus.MustRegister(c.APIErrorsTotal)
	prometheus.MustRegister(c.RateLimitHits)

	// System metrics
	prometheus.MustRegister(c.ActiveUsers)
	prometheus.MustRegister(c.BlockHeight)
	prometheus.MustRegister(c.BlockTime)
	prometheus.MustRegister(c.TxPoolSize)
	prometheus.MustRegister(c.PeerCount)
}

// ============ Recording Helpers ============

// RecordStake records a stake pool operation
func (c *Collector) RecordStake(poolID, operation string) {
	c.StakesTotal.WithLabelValues(poolID, operation).Inc()
}

// RecordRewardsClaimed records claimed rewards
func (c *Collector) RecordRewardsClaimed(poolID string, amount float64) {
	c.RewardsClaimed.WithLabelValues(poolID).Add(amount)
}

// RecordBurn records a processed visitor burn
func (c *Collector) RecordBurn(sector string, amount, fee float64) {
	c.BurnsTotal.WithLabelValues(sector).Inc()
	c.BurnVolume.WithLabelValues(sector).Add(amount)
	c.ProcessorFees.WithLabelValues(sector).Add(fee)
}

// RecordBurnLatency records burn processing latency
func (c *Collector) RecordBurnLatency(sector string, latencyMs float64) {
	c.BurnLatency.WithLabelValues(sector).Observe(latencyMs)
}

// RecordYieldDistribution records a yield split event
func (c *Collector) RecordYieldDistribution(sector, destination string, amount float64) {
	c.YieldDistributed.WithLabelValues(sector, destination).Add(amount)
}

// RecordSupplyAdjustment records a controller adjustment
func (c *Collector) RecordSupplyAdjustment(adjustmentType string, amount float64, outputBps int64) {
	c.SupplyAdjustments.WithLabelValues(adjustmentType).Inc()
	c.AdjustmentAmount.WithLabelValues(adjustmentType).Add(amount)
	c.ControllerOutput.Set(float64(outputBps))
}

// RecordBreakerTrip records a circuit breaker trip
func (c *Collector) RecordBreakerTrip(condition, severity string) {
	c.BreakerTrips.WithLabelValues(condition, severity).Inc()
	c.BreakerActive.Set(1)
}

// RecordBreakerReset records a circuit breaker reset
func (c *Collector) RecordBreakerReset(mode string) {
	c.BreakerResets.WithLabelValues(mode).Inc()
	c.BreakerActive.Set(0)
}

// RecordOracleUpdate records an aggregated price update
func (c *Collector) RecordOracleUpdate(price float64, deviationBps float64, sources int) {
	c.OraclePrice.Set(price)
	c.OracleDeviation.Set(deviationBps)
	c.OracleSourceCount.Set(float64(sources))
}

// RecordAPIRequest records an API request
func (c *Collector) RecordAPIRequest(method, path, status string, latencyMs float64) {
	c.APIRequestsTotal.WithLabelValues(method, path, status).Inc()
	c.APIRequestLatency.WithLabelValues(method, path).Observe(latencyMs)
}

// RecordWSConnection records WebSocket connection changes
func (c *Collector) RecordWSConnection(delta int) {
	c.WSConnectionsActive.WithLabelValues().Add(float64(delta))
}

// RecordWSMessage records a WebSocket message
func (c *Collector) RecordWSMessage(channel string, latencyMs float64) {
	c.WSMessagesTotal.WithLabelValues(channel).Inc()
	c.WSMessageLatency.WithLabelValues(channel).Observe(latencyMs)
}

// UpdateSystemMetrics updates system-level metrics
func (c *Collector) UpdateSystemMetrics(blockHeight int64, txPoolSize int, peerCount int) {
	c.BlockHeight.Set(float64(blockHeight))
	c.TxPoolSize.Set(float64(txPoolSize))
	c.PeerCount.Set(float64(peerCount))
}

// ============ HTTP Handler ============

// Handler returns the Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// Timer is a helper for measuring latency
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// ElapsedMs returns the elapsed time in milliseconds
func (t *Timer) ElapsedMs() float64 {
	return float64(time.Since(t.start).Microseconds()) / 1000.0
}
