package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Limit types reported in RateLimitInfo and to the OnLimit hook
const (
	LimitTypeRate    = "rate"
	LimitTypeBlocked = "blocked"
	LimitTypeTx      = "tx"
)

// RateLimiter implements a token bucket rate limiter
type RateLimiter struct {
	config *RateLimitConfig

	// Buckets by key (ip:<addr> or tx:<addr>)
	buckets   map[string]*Bucket
	bucketsMu sync.RWMutex

	cleanupTicker *time.Ticker
	stopCh        chan struct{}
	stopOnce      sync.Once
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	// IP-based limits on every request
	IPRequestsPerSecond int
	IPBurst             int
	IPBlockDuration     time.Duration

	// Stricter limits on transaction submission, per IP
	TxPerSecond int
	TxBurst     int

	CleanupInterval time.Duration
	BucketTTL       time.Duration

	// OnLimit is called with the limit type whenever a request is refused
	OnLimit func(limitType string)
}

// DefaultRateLimitConfig returns default configuration
func DefaultRateLimitConfig() *RateLimitConfig {
	return &RateLimitConfig{
		IPRequestsPerSecond: 100,
		IPBurst:             200,
		IPBlockDuration:     time.Minute,

		TxPerSecond: 20,
		TxBurst:     40,

		CleanupInterval: time.Minute * 5,
		BucketTTL:       time.Hour,
	}
}

// Bucket represents a token bucket for rate limiting
type Bucket struct {
	tokens       float64
	maxTokens    float64
	refillRate   float64 // tokens per second
	lastUpdate   time.Time
	blocked      bool
	blockedUntil time.Time
	mu           sync.Mutex
}

// RateLimitInfo contains rate limit information
type RateLimitInfo struct {
	Allowed    bool   `json:"allowed"`
	Remaining  int    `json:"remaining"`
	Limit      int    `json:"limit"`
	RetryAfter int    `json:"retry_after,omitempty"`
	LimitType  string `json:"limit_type"`
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(config *RateLimitConfig) *RateLimiter {
	if config == nil {
		config = DefaultRateLimitConfig()
	}

	rl := &RateLimiter{
		config:        config,
		buckets:       make(map[string]*Bucket),
		cleanupTicker: time.NewTicker(config.CleanupInterval),
		stopCh:        make(chan struct{}),
	}

	go rl.cleanupLoop()

	return rl
}

// Stop stops the rate limiter
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() {
		close(rl.stopCh)
		rl.cleanupTicker.Stop()
	})
}

func (rl *RateLimiter) cleanupLoop() {
	for {
		select {
		case <-rl.cleanupTicker.C:
			rl.cleanup()
		case <-rl.stopCh:
			return
		}
	}
}

// cleanup removes buckets unused for BucketTTL
func (rl *RateLimiter) cleanup() {
	threshold := time.Now().Add(-rl.config.BucketTTL)

	rl.bucketsMu.Lock()
	defer rl.bucketsMu.Unlock()
	for key, bucket := range rl.buckets {
		bucket.mu.Lock()
		if bucket.lastUpdate.Before(threshold) {
			delete(rl.buckets, key)
		}
		bucket.mu.Unlock()
	}
}

// getBucket gets or creates a bucket for a key
func (rl *RateLimiter) getBucket(key string, maxTokens, refillRate float64) *Bucket {
	rl.bucketsMu.RLock()
	bucket, ok := rl.buckets[key]
	rl.bucketsMu.RUnlock()

	if ok {
		return bucket
	}

	rl.bucketsMu.Lock()
	defer rl.bucketsMu.Unlock()

	// Double-check after acquiring write lock
	if bucket, ok := rl.buckets[key]; ok {
		return bucket
	}

	bucket = &Bucket{
		tokens:     maxTokens,
		maxTokens:  maxTokens,
		refillRate: refillRate,
		lastUpdate: time.Now(),
	}
	rl.buckets[key] = bucket
	return bucket
}

// AllowIP checks if a request from an IP is allowed
func (rl *RateLimiter) AllowIP(ip string) (bool, *RateLimitInfo) {
	bucket := rl.getBucket("ip:"+ip, float64(rl.config.IPBurst), float64(rl.config.IPRequestsPerSecond))
	return rl.tryConsume(bucket, LimitTypeRate, rl.config.IPBlockDuration)
}

// AllowTx checks if a transaction submission from an IP is allowed. Tx
// buckets refuse without blocking so a client may retry once refilled.
func (rl *RateLimiter) AllowTx(ip string) (bool, *RateLimitInfo) {
	bucket := rl.getBucket("tx:"+ip, float64(rl.config.TxBurst), float64(rl.config.TxPerSecond))
	return rl.tryConsume(bucket, LimitTypeTx, 0)
}

// tryConsume takes one token from bucket, blocking it for blockFor when empty
func (rl *RateLimiter) tryConsume(bucket *Bucket, limitType string, blockFor time.Duration) (bool, *RateLimitInfo) {
	bucket.mu.Lock()
	defer bucket.mu.Unlock()

	now := time.Now()

	if bucket.blocked && now.Before(bucket.blockedUntil) {
		return false, &RateLimitInfo{
			Allowed:    false,
			Remaining:  0,
			Limit:      int(bucket.maxTokens),
			RetryAfter: int(bucket.blockedUntil.Sub(now).Seconds()) + 1,
			LimitType:  LimitTypeBlocked,
		}
	}
	bucket.blocked = false

	// Refill tokens
	elapsed := now.Sub(bucket.lastUpdate).Seconds()
	bucket.tokens += elapsed * bucket.refillRate
	if bucket.tokens > bucket.maxTokens {
		bucket.tokens = bucket.maxTokens
	}
	bucket.lastUpdate = now

	if bucket.tokens >= 1 {
		bucket.tokens--
		return true, &RateLimitInfo{
			Allowed:   true,
			Remaining: int(bucket.tokens),
			Limit:     int(bucket.maxTokens),
			LimitType: limitType,
		}
	}

	if blockFor > 0 {
		bucket.blocked = true
		bucket.blockedUntil = now.Add(blockFor)
	}

	retryAfter := 1
	if bucket.refillRate > 0 {
		retryAfter = int((1-bucket.tokens)/bucket.refillRate) + 1
	}
	return false, &RateLimitInfo{
		Allowed:    false,
		Remaining:  0,
		Limit:      int(bucket.maxTokens),
		RetryAfter: retryAfter,
		LimitType:  limitType,
	}
}

func (rl *RateLimiter) refused(w http.ResponseWriter, info *RateLimitInfo, message string) {
	if rl.config.OnLimit != nil {
		rl.config.OnLimit(info.LimitType)
	}

	w.Header().Set("Content-Type", "application/json")
	setLimitHeaders(w, info)
	if info.RetryAfter > 0 {
		w.Header().Set("Retry-After", fmt.Sprintf("%d", info.RetryAfter))
	}
	w.WriteHeader(http.StatusTooManyRequests)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error":       "rate_limit_exceeded",
		"message":     message,
		"retry_after": info.RetryAfter,
		"limit_type":  info.LimitType,
	})
}

func setLimitHeaders(w http.ResponseWriter, info *RateLimitInfo) {
	w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
	w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
}

// ============ HTTP Middleware ============

// RateLimitMiddleware limits every request by client IP
func RateLimitMiddleware(rl *RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			allowed, info := rl.AllowIP(ClientIP(r))
			if !allowed {
				rl.refused(w, info, "Too many requests, please slow down")
				return
			}

			setLimitHeaders(w, info)
			next.ServeHTTP(w, r)
		})
	}
}

// TxRateLimitMiddleware limits transaction submission by client IP
func TxRateLimitMiddleware(rl *RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			allowed, info := rl.AllowTx(ClientIP(r))
			if !allowed {
				rl.refused(w, info, "Transaction rate limit exceeded")
				return
			}

			w.Header().Set("X-RateLimit-Tx-Remaining", fmt.Sprintf("%d", info.Remaining))
			next.ServeHTTP(w, r)
		})
	}
}

// ClientIP extracts the client IP from the request
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if i := strings.IndexByte(xff, ','); i >= 0 {
			return strings.TrimSpace(xff[:i])
		}
		return strings.TrimSpace(xff)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	// Fall back to remote address
	ip := r.RemoteAddr
	if i := strings.LastIndexByte(ip, ':'); i >= 0 {
		return ip[:i]
	}
	return ip
}

// Stats returns rate limiter statistics
type Stats struct {
	TotalBuckets   int `json:"total_buckets"`
	BlockedBuckets int `json:"blocked_buckets"`
}

// GetStats returns current rate limiter statistics
func (rl *RateLimiter) GetStats() *Stats {
	rl.bucketsMu.RLock()
	defer rl.bucketsMu.RUnlock()

	now := time.Now()
	stats := &Stats{TotalBuckets: len(rl.buckets)}
	for _, b := range rl.buckets {
		b.mu.Lock()
		if b.blocked && now.Before(b.blockedUntil) {
			stats.BlockedBuckets++
		}
		b.mu.Unlock()
	}
	return stats
}
