package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	apitypes "github.com/openalpha/lp-incentives/api/types"
	"github.com/openalpha/lp-incentives/x/incentives/types"
)

// Config of a load test run
type Config struct {
	BaseURL     string
	Concurrency int
	Duration    time.Duration
	RampUp      time.Duration
	Pools       []uint64
	Depositors  int
	// ReadRatio is the share of requests that query pending rewards
	ReadRatio float64
}

// Results of a load test run
type Results struct {
	TotalRequests     int64
	SuccessRequests   int64
	FailedRequests    int64
	RateLimited       int64
	TotalLatency      int64 // microseconds
	MinLatency        int64
	MaxLatency        int64
	Latencies         []int64
	StatusCodes       map[int]int64
	Errors            map[string]int64
	StartTime         time.Time
	EndTime           time.Time
	RequestsPerSecond float64
	mu                sync.Mutex
}

// LoadTester drives deposits and pending-reward reads against the API
type LoadTester struct {
	config  *Config
	results *Results
	client  *http.Client
	out     io.Writer
	wg      sync.WaitGroup
	stopCh  chan struct{}
}

func NewLoadTester(config *Config, out io.Writer) *LoadTester {
	return &LoadTester{
		config: config,
		results: &Results{
			MinLatency:  int64(^uint64(0) >> 1),
			StatusCodes: make(map[int]int64),
			Errors:      make(map[string]int64),
		},
		client: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        1000,
				MaxIdleConnsPerHost: 100,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		out:    out,
		stopCh: make(chan struct{}),
	}
}

// Run ramps up the workers, runs for the configured duration and
// computes the final statistics
func (lt *LoadTester) Run() error {
	fmt.Fprintf(lt.out, "Load testing %s with %d workers for %v (pools %v)\n",
		lt.config.BaseURL, lt.config.Concurrency, lt.config.Duration, lt.config.Pools)

	if err := lt.checkHealth(); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}

	lt.results.StartTime = time.Now()

	workersPerInterval := lt.config.Concurrency / 10
	if workersPerInterval < 1 {
		workersPerInterval = 1
	}
	rampUpInterval := lt.config.RampUp / 10

	started := 0
	for started < lt.config.Concurrency {
		toAdd := workersPerInterval
		if started+toAdd > lt.config.Concurrency {
			toAdd = lt.config.Concurrency - started
		}
		for i := 0; i < toAdd; i++ {
			lt.wg.Add(1)
			go lt.worker(started + i)
		}
		started += toAdd

		if started < lt.config.Concurrency {
			time.Sleep(rampUpInterval)
		}
	}

	time.Sleep(lt.config.Duration)
	close(lt.stopCh)
	lt.wg.Wait()

	lt.results.EndTime = time.Now()
	lt.calculateMetrics()
	return nil
}

func (lt *LoadTester) checkHealth() error {
	resp, err := lt.client.Get(lt.config.BaseURL + "/health")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unhealthy status: %d", resp.StatusCode)
	}
	return nil
}

func (lt *LoadTester) worker(id int) {
	defer lt.wg.Done()

	depositors := make([]string, lt.config.Depositors)
	for i := range depositors {
		depositors[i] = fmt.Sprintf("lp-%d-%04d", id, i)
	}

	for {
		select {
		case <-lt.stopCh:
			return
		default:
			depositor := depositors[rand.Intn(len(depositors))]
			poolID := lt.config.Pools[rand.Intn(len(lt.config.Pools))]
			if rand.Float64() < lt.config.ReadRatio {
				lt.queryPending(poolID, depositor)
			} else {
				lt.deposit(poolID, depositor)
			}
			time.Sleep(time.Duration(rand.Intn(10)) * time.Millisecond)
		}
	}
}

func (lt *LoadTester) deposit(poolID uint64, depositor string) {
	msg, err := json.Marshal(types.MsgAddLiquidity{
		Depositor: depositor,
		PoolID:    poolID,
		Amount:    strconv.Itoa(rand.Intn(1_000_000) + 1),
	})
	if err != nil {
		lt.recordError("encode_error")
		return
	}
	body, err := json.Marshal(apitypes.TxRequest{Msg: msg})
	if err != nil {
		lt.recordError("encode_error")
		return
	}

	req, err := http.NewRequest(http.MethodPost, lt.config.BaseURL+"/v1/incentives/tx/"+types.TypeMsgAddLiquidity, bytes.NewReader(body))
	if err != nil {
		lt.recordError("create_request_error")
		return
	}
	req.Header.Set("Content-Type", "application/json")
	lt.do(req)
}

func (lt *LoadTester) queryPending(poolID uint64, depositor string) {
	url := fmt.Sprintf("%s/v1/incentives/pools/%d/pending/%s", lt.config.BaseURL, poolID, depositor)
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		lt.recordError("create_request_error")
		return
	}
	lt.do(req)
}

func (lt *LoadTester) do(req *http.Request) {
	start := time.Now()
	resp, err := lt.client.Do(req)
	latency := time.Since(start).Microseconds()

	if err != nil {
		lt.recordError("network_error")
		lt.recordLatency(latency, 0)
		return
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	lt.recordLatency(latency, resp.StatusCode)
}

// recordLatency counts a response. Pending queries for depositors that
// never landed a deposit answer 404, which still counts as served.
func (lt *LoadTester) recordLatency(latency int64, statusCode int) {
	atomic.AddInt64(&lt.results.TotalRequests, 1)
	atomic.AddInt64(&lt.results.TotalLatency, latency)

	switch {
	case statusCode == http.StatusOK || statusCode == http.StatusNotFound:
		atomic.AddInt64(&lt.results.SuccessRequests, 1)
	case statusCode == http.StatusTooManyRequests:
		atomic.AddInt64(&lt.results.RateLimited, 1)
		atomic.AddInt64(&lt.results.FailedRequests, 1)
	default:
		atomic.AddInt64(&lt.results.FailedRequests, 1)
	}

	lt.results.mu.Lock()
	lt.results.Latencies = append(lt.results.Latencies, latency)
	if latency < lt.results.MinLatency {
		lt.results.MinLatency = latency
	}
	if latency > lt.results.MaxLatency {
		lt.results.MaxLatency = latency
	}
	lt.results.StatusCodes[statusCode]++
	lt.results.mu.Unlock()
}

func (lt *LoadTester) recordError(errType string) {
	lt.results.mu.Lock()
	lt.results.Errors[errType]++
	lt.results.mu.Unlock()
}

func (lt *LoadTester) calculateMetrics() {
	elapsed := lt.results.EndTime.Sub(lt.results.StartTime).Seconds()
	if elapsed > 0 {
		lt.results.RequestsPerSecond = float64(lt.results.TotalRequests) / elapsed
	}

	sort.Slice(lt.results.Latencies, func(i, j int) bool {
		return lt.results.Latencies[i] < lt.results.Latencies[j]
	})
}

// percentile returns the p-th latency percentile in milliseconds
func (lt *LoadTester) percentile(p float64) float64 {
	if len(lt.results.Latencies) == 0 {
		return 0
	}
	index := int(float64(len(lt.results.Latencies)) * p)
	if index >= len(lt.results.Latencies) {
		index = len(lt.results.Latencies) - 1
	}
	return float64(lt.results.Latencies[index]) / 1000
}

func (lt *LoadTester) averageLatency() float64 {
	if lt.results.TotalRequests == 0 {
		return 0
	}
	return float64(lt.results.TotalLatency) / float64(lt.results.TotalRequests) / 1000
}

func (lt *LoadTester) successRate() float64 {
	if lt.results.TotalRequests == 0 {
		return 0
	}
	return float64(lt.results.SuccessRequests) / float64(lt.results.TotalRequests) * 100
}

// PrintResults writes a human readable summary
func (lt *LoadTester) PrintResults() {
	r := lt.results
	fmt.Fprintln(lt.out)
	fmt.Fprintf(lt.out, "Test Duration:        %v\n", r.EndTime.Sub(r.StartTime).Round(time.Millisecond))
	fmt.Fprintf(lt.out, "Total Requests:       %d\n", r.TotalRequests)
	fmt.Fprintf(lt.out, "Successful:           %d (%.2f%%)\n", r.SuccessRequests, lt.successRate())
	fmt.Fprintf(lt.out, "Failed:               %d (rate limited %d)\n", r.FailedRequests, r.RateLimited)
	fmt.Fprintf(lt.out, "Requests/Second:      %.2f\n", r.RequestsPerSecond)
	fmt.Fprintln(lt.out)
	fmt.Fprintf(lt.out, "Latency min/avg/max:  %.2f / %.2f / %.2f ms\n",
		float64(r.MinLatency)/1000, lt.averageLatency(), float64(r.MaxLatency)/1000)
	fmt.Fprintf(lt.out, "Latency p50/p95/p99:  %.2f / %.2f / %.2f ms\n",
		lt.percentile(0.50), lt.percentile(0.95), lt.percentile(0.99))

	codes := make([]int, 0, len(r.StatusCodes))
	for code := range r.StatusCodes {
		codes = append(codes, code)
	}
	sort.Ints(codes)
	for _, code := range codes {
		fmt.Fprintf(lt.out, "  HTTP %d: %d\n", code, r.StatusCodes[code])
	}
	for errType, count := range r.Errors {
		fmt.Fprintf(lt.out, "  %s: %d\n", errType, count)
	}
}

// SaveReport writes the results as JSON to filename
func (lt *LoadTester) SaveReport(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	r := lt.results
	report := map[string]interface{}{
		"test_config": map[string]interface{}{
			"base_url":    lt.config.BaseURL,
			"concurrency": lt.config.Concurrency,
			"duration":    lt.config.Duration.String(),
			"pools":       lt.config.Pools,
			"depositors":  lt.config.Depositors,
			"read_ratio":  lt.config.ReadRatio,
		},
		"summary": map[string]interface{}{
			"test_duration":       r.EndTime.Sub(r.StartTime).String(),
			"total_requests":      r.TotalRequests,
			"success_requests":    r.SuccessRequests,
			"failed_requests":     r.FailedRequests,
			"rate_limited":        r.RateLimited,
			"success_rate":        fmt.Sprintf("%.2f%%", lt.successRate()),
			"requests_per_second": r.RequestsPerSecond,
		},
		"latency": map[string]interface{}{
			"min_ms": float64(r.MinLatency) / 1000,
			"max_ms": float64(r.MaxLatency) / 1000,
			"avg_ms": lt.averageLatency(),
			"p50_ms": lt.percentile(0.50),
			"p95_ms": lt.percentile(0.95),
			"p99_ms": lt.percentile(0.99),
		},
		"status_codes": r.StatusCodes,
		"errors":       r.Errors,
		"timestamp":    time.Now().Format(time.RFC3339),
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}
