package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Incentives ledger metrics collector

const namespace = "incentives"

var (
	// Singleton collector
	collector     *Collector
	collectorOnce sync.Once
)

// Collector holds all ledger metrics
type Collector struct {
	// Message metrics
	MsgsTotal  *prometheus.CounterVec
	MsgLatency *prometheus.HistogramVec

	// Pool metrics
	PoolsTotal        prometheus.Gauge
	PoolLiquidity     *prometheus.GaugeVec
	PoolRewardBalance *prometheus.GaugeVec
	PoolActive        *prometheus.GaugeVec

	// Reward metrics
	ClaimsTotal *prometheus.CounterVec
	RewardsPaid *prometheus.CounterVec

	// Oracle metrics
	OracleUpdatesTotal *prometheus.CounterVec
	RiskScore          *prometheus.GaugeVec
	VolatilityIndex    *prometheus.GaugeVec

	// Rebalancing metrics
	PoolHealth  *prometheus.GaugeVec
	DynamicRate *prometheus.GaugeVec
	BoostsTotal *prometheus.CounterVec

	// WebSocket metrics
	WSConnectionsActive prometheus.Gauge
	WSMessagesTotal     *prometheus.CounterVec

	// API metrics
	APIRequestsTotal  *prometheus.CounterVec
	APIRequestLatency *prometheus.HistogramVec
	RateLimitHits     *prometheus.CounterVec

	// System metrics
	LedgerHeight      prometheus.Gauge
	Paused            prometheus.Gauge
	InvariantFailures prometheus.Counter
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

	// Message metrics
	c.MsgsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "msgs",
			Name:      "total",
			Help:      "Total number of delivered messages",
		},
		[]string{"msg_type", "status"},
	)

	c.MsgLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "msgs",
			Name:      "latency_ms",
			Help:      "Message execution and commit latency in milliseconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100},
		},
		[]string{"msg_type"},
	)

	// Pool metrics
	c.PoolsTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "pools",
			Name:      "total",
			Help:      "Number of pools ever created",
		},
	)

	c.PoolLiquidity = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "pools",
			Name:      "liquidity",
			Help:      "Total liquidity deposited in a pool",
		},
		[]string{"pool_id"},
	)

	c.PoolRewardBalance = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "pools",
			Name:      "reward_balance",
			Help:      "Remaining reward budget of a pool",
		},
		[]string{"pool_id"},
	)

	c.PoolActive = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "pools",
			Name:      "active",
			Help:      "1 when the pool accepts deposits and claims",
		},
		[]string{"pool_id"},
	)

	// Reward metrics
	c.ClaimsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "rewards",
			Name:      "claims_total",
			Help:      "Total number of successful claims",
		},
		[]string{"pool_id"},
	)

	c.RewardsPaid = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "rewards",
			Name:      "paid",
			Help:      "Total rewards paid out",
		},
		[]string{"pool_id"},
	)

	// Oracle metrics
	c.OracleUpdatesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "oracle",
			Name:      "updates_total",
			Help:      "Total oracle reports applied",
		},
		[]string{"kind"},
	)

	c.RiskScore = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "oracle",
			Name:      "risk_score",
			Help:      "Current risk score of a pool",
		},
		[]string{"pool_id"},
	)

	c.VolatilityIndex = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "oracle",
			Name:      "volatility_index",
			Help:      "Current volatility index of a pool",
		},
		[]string{"pool_id"},
	)

	// Rebalancing metrics
	c.PoolHealth = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "rebalance",
			Name:      "pool_health",
			Help:      "Last computed pool health",
		},
		[]string{"pool_id"},
	)

	c.DynamicRate = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "rebalance",
			Name:      "dynamic_rate",
			Help:      "Last computed dynamic reward rate",
		},
		[]string{"pool_id"},
	)

	c.BoostsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "rebalance",
			Name:      "boosts_total",
			Help:      "Total rebalances that boosted an unhealthy pool",
		},
		[]string{"pool_id"},
	)

	// WebSocket metrics
	c.WSConnectionsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "websocket",
			Name:      "connections_active",
			Help:      "Number of active WebSocket connections",
		},
	)

	c.WSMessagesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "websocket",
			Name:      "messages_total",
			Help:      "Total WebSocket messages sent",
		},
		[]string{"channel"},
	)

	// API metrics
	c.APIRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Total API requests",
		},
		[]string{"method", "path", "status"},
	)

	c.APIRequestLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "request_latency_ms",
			Help:      "API request latency in milliseconds",
			Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		},
		[]string{"method", "path"},
	)

	c.RateLimitHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "rate_limit_hits",
			Help:      "Total rate limit hits",
		},
		[]string{"limit_type"},
	)

	// System metrics
	c.LedgerHeight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "system",
			Name:      "height",
			Help:      "Last committed ledger height",
		},
	)

	c.Paused = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "system",
			Name:      "paused",
			Help:      "1 while the emergency pause is set",
		},
	)

	c.InvariantFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "system",
			Name:      "invariant_failures_total",
			Help:      "Total post-commit invariant check failures",
		},
	)

	// Register all metrics
	c.registerAll()

	return c
}

// registerAll registers all metrics with Prometheus
func (c *Collector) registerAll() {
	prometheus.MustRegister(
		c.MsgsTotal,
		c.MsgLatency,

		c.PoolsTotal,
		c.PoolLiquidity,
		c.PoolRewardBalance,
		c.PoolActive,

		c.ClaimsTotal,
		c.RewardsPaid,

		c.OracleUpdatesTotal,
		c.RiskScore,
		c.VolatilityIndex,

		c.PoolHealth,
		c.DynamicRate,
		c.BoostsTotal,

		c.WSConnectionsActive,
		c.WSMessagesTotal,

		c.APIRequestsTotal,
		c.APIRequestLatency,
		c.RateLimitHits,

		c.LedgerHeight,
		c.Paused,
		c.InvariantFailures,
	)
}

// ============ Recording Helpers ============

// RecordMsg records a delivered message and its outcome
func (c *Collector) RecordMsg(msgType, status string, latencyMs float64) {
	c.MsgsTotal.WithLabelValues(msgType, status).Inc()
	c.MsgLatency.WithLabelValues(msgType).Observe(latencyMs)
}

// RecordPoolCreated records a new pool
func (c *Collector) RecordPoolCreated(poolID string, rewardBalance float64) {
	c.PoolsTotal.Inc()
	c.PoolRewardBalance.WithLabelValues(poolID).Set(rewardBalance)
	c.PoolLiquidity.WithLabelValues(poolID).Set(0)
	c.PoolActive.WithLabelValues(poolID).Set(1)
}

// RecordLiquidity records a pool's total liquidity after a deposit
func (c *Collector) RecordLiquidity(poolID string, totalLiquidity float64) {
	c.PoolLiquidity.WithLabelValues(poolID).Set(totalLiquidity)
}

// RecordClaim records a reward payout
func (c *Collector) RecordClaim(poolID string, amount, rewardBalance float64) {
	c.ClaimsTotal.WithLabelValues(poolID).Inc()
	c.RewardsPaid.WithLabelValues(poolID).Add(amount)
	c.PoolRewardBalance.WithLabelValues(poolID).Set(rewardBalance)
}

// RecordRewardBalance records a pool's remaining reward budget
func (c *Collector) RecordRewardBalance(poolID string, rewardBalance float64) {
	c.PoolRewardBalance.WithLabelValues(poolID).Set(rewardBalance)
}

// RecordScores records an oracle score report
func (c *Collector) RecordScores(poolID string, risk, volatility float64) {
	c.OracleUpdatesTotal.WithLabelValues("scores").Inc()
	c.RiskScore.WithLabelValues(poolID).Set(risk)
	c.VolatilityIndex.WithLabelValues(poolID).Set(volatility)
}

// RecordRebalance records a rebalance outcome
func (c *Collector) RecordRebalance(poolID string, rate, health, risk float64, boosted bool) {
	c.OracleUpdatesTotal.WithLabelValues("rebalance").Inc()
	c.DynamicRate.WithLabelValues(poolID).Set(rate)
	c.PoolHealth.WithLabelValues(poolID).Set(health)
	c.RiskScore.WithLabelValues(poolID).Set(risk)
	if boosted {
		c.BoostsTotal.WithLabelValues(poolID).Inc()
	}
}

// RecordPoolActive records a pool status change
func (c *Collector) RecordPoolActive(poolID string, active bool) {
	c.PoolActive.WithLabelValues(poolID).Set(boolToFloat(active))
}

// RecordPaused records the emergency pause switch
func (c *Collector) RecordPaused(paused bool) {
	c.Paused.Set(boolToFloat(paused))
}

// RecordHeight records the last committed height
func (c *Collector) RecordHeight(height int64) {
	c.LedgerHeight.Set(float64(height))
}

// RecordInvariantFailure records a failed post-commit check
func (c *Collector) RecordInvariantFailure() {
	c.InvariantFailures.Inc()
}

// RecordAPIRequest records an API request
func (c *Collector) RecordAPIRequest(method, path, status string, latencyMs float64) {
	c.APIRequestsTotal.WithLabelValues(method, path, status).Inc()
	c.APIRequestLatency.WithLabelValues(method, path).Observe(latencyMs)
}

// RecordRateLimitHit records a rejected request
func (c *Collector) RecordRateLimitHit(limitType string) {
	c.RateLimitHits.WithLabelValues(limitType).Inc()
}

// RecordWSConnection records WebSocket connection changes
func (c *Collector) RecordWSConnection(delta int) {
	c.WSConnectionsActive.Add(float64(delta))
}

// RecordWSMessage records a WebSocket message
func (c *Collector) RecordWSMessage(channel string) {
	c.WSMessagesTotal.WithLabelValues(channel).Inc()
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
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
