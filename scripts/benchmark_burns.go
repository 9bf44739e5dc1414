package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// BurnSubmission represents the request to submit a visitor burn
type BurnSubmission struct {
	EdgeWorker string `json:"edge_worker"`
	Visitor    string `json:"visitor"`
	SiteURL    string `json:"site_url"`
	PageID     string `json:"page_id,omitempty"`
	Amount     string `json:"amount"`
}

// BurnResponse represents the recorded burn returned by the API
type BurnResponse struct {
	RecordID     uint64 `json:"record_id"`
	SiteHash     string `json:"site_hash"`
	Visitor      string `json:"visitor"`
	Amount       string `json:"amount"`
	ProcessorFee string `json:"processor_fee"`
	Timestamp    int64  `json:"timestamp"`
}

// LatencyRecord records latency for each burn
type LatencyRecord struct {
	Site      string
	Latency   time.Duration
	Timestamp time.Time
}

// BenchmarkResults holds all test results
type BenchmarkResults struct {
	Burns       int64
	Success     int64
	Failed      int64
	RateLimited int64
	Latencies   []time.Duration
	PerSite     map[string]int64
	mu          sync.Mutex
}

func (r *BenchmarkResults) Add(site string, latency time.Duration, status int) {
	atomic.AddInt64(&r.Burns, 1)
	switch {
	case status == http.StatusOK || status == http.StatusCreated:
		atomic.AddInt64(&r.Success, 1)
	case status == http.StatusTooManyRequests:
		atomic.AddInt64(&r.RateLimited, 1)
		atomic.AddInt64(&r.Failed, 1)
	default:
		atomic.AddInt64(&r.Failed, 1)
	}
	r.mu.Lock()
	r.Latencies = append(r.Latencies, latency)
	r.PerSite[site]++
	r.mu.Unlock()
}

func percentile(latencies []time.Duration, p float64) time.Duration {
	if len(latencies) == 0 {
		return 0
	}
	sorted := make([]time.Duration, len(latencies))
	copy(sorted, latencies)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	idx := int(float64(len(sorted)) * p)
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

func avg(latencies []time.Duration) time.Duration {
	if len(latencies) == 0 {
		return 0
	}
	var total time.Duration
	for _, l := range latencies {
		total += l
	}
	return total / time.Duration(len(latencies))
}

func minLat(latencies []time.Duration) time.Duration {
	if len(latencies) == 0 {
		return 0
	}
	m := latencies[0]
	for _, l := range latencies {
		if l < m {
			m = l
		}
	}
	return m
}

func maxLat(latencies []time.Duration) time.Duration {
	if len(latencies) == 0 {
		return 0
	}
	m := latencies[0]
	for _, l := range latencies {
		if l > m {
			m = l
		}
	}
	return m
}

func submitBurn(client *http.Client, baseURL string, req *BurnSubmission) (time.Duration, int) {
	body, _ := json.Marshal(req)
	start := time.Now()

	httpReq, err := http.NewRequest("POST", baseURL+"/v1/vau/burns", bytes.NewReader(body))
	if err != nil {
		return time.Since(start), 0
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(httpReq)
	latency := time.Since(start)

	if err != nil {
		return latency, 0
	}
	defer resp.Body.Close()

	var burnResp BurnResponse
	json.NewDecoder(resp.Body).Decode(&burnResp)

	return latency, resp.StatusCode
}

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "API base URL")
	burnCount := flag.Int("n", 10000, "Number of burns per site")
	concurrency := flag.Int("c", 100, "Concurrency level")
	worker := flag.String("worker", "twist1benchworker", "Edge worker address")
	amount := flag.String("amount", "1000000", "Burn amount in utwist")
	outputFile := flag.String("o", "", "Output JSON report file")
	flag.Parse()

	sites := []string{
		"https://play.example.com",
		"https://news.example.com",
		"https://swap.example.com",
	}

	fmt.Println("╔══════════════════════════════════════════════════════════════════╗")
	fmt.Println("║        Twist Burn Pipeline Benchmark - Visitor Stress Test       ║")
	fmt.Println("╚══════════════════════════════════════════════════════════════════╝")
	fmt.Println()
	fmt.Printf("Configuration:\n")
	fmt.Printf("  API URL:      %s\n", *baseURL)
	fmt.Printf("  Sites:        %d\n", len(sites))
	fmt.Printf("  Burns/Site:   %d (total: %d)\n", *burnCount, *burnCount*len(sites))
	fmt.Printf("  Concurrency:  %d\n", *concurrency)
	fmt.Printf("  Amount:       %s utwist\n", *amount)
	fmt.Println()

	// Check health
	fmt.Print("Checking API health... ")
	client := &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        1000,
			MaxIdleConnsPerHost: 200,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	resp, err := client.Get(*baseURL + "/health")
	if err != nil {
		fmt.Printf("FAILED: %v\n", err)
		os.Exit(1)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		fmt.Printf("FAILED: status %d\n", resp.StatusCode)
		os.Exit(1)
	}
	fmt.Println("OK")
	fmt.Println()

	results := &BenchmarkResults{
		Latencies: make([]time.Duration, 0, *burnCount*len(sites)),
		PerSite:   make(map[string]int64),
	}

	// Semaphore for concurrency control
	sem := make(chan struct{}, *concurrency)
	var wg sync.WaitGroup

	// Progress tracking
	var processed int64
	total := int64(*burnCount * len(sites))
	done := make(chan struct{})

	go func() {
		ticker := time.NewTicker(500 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p := atomic.LoadInt64(&processed)
				pct := float64(p) / float64(total) * 100
				fmt.Printf("\r  Progress: %d/%d (%.1f%%) | Success: %d | Rate limited: %d    ",
					p, total, pct,
					atomic.LoadInt64(&results.Success),
					atomic.LoadInt64(&results.RateLimited))
			}
		}
	}()

	fmt.Println("Starting benchmark...")
	startTime := time.Now()

	for _, site := range sites {
		for i := 0; i < *burnCount; i++ {
			wg.Add(1)
			go func(siteURL string, idx int) {
				defer wg.Done()
				sem <- struct{}{}
				defer func() { <-sem }()

				req := &BurnSubmission{
					EdgeWorker: *worker,
					Visitor:    fmt.Sprintf("twist1visitor%d", idx),
					SiteURL:    siteURL,
					PageID:     fmt.Sprintf("page-%d", idx%100),
					Amount:     *amount,
				}

				latency, status := submitBurn(client, *baseURL, req)
				results.Add(siteURL, latency, status)
				atomic.AddInt64(&processed, 1)
			}(site, i)
		}
	}

	wg.Wait()
	close(done)
	elapsed := time.Since(startTime)

	fmt.Printf("\r                                                                              \r")
	fmt.Println()
	fmt.Println()

	// Calculate statistics
	successRate := float64(results.Success) / float64(results.Burns) * 100
	throughput := float64(results.Burns) / elapsed.Seconds()

	// Print results
	fmt.Println("╔══════════════════════════════════════════════════════════════════╗")
	fmt.Println("║                       BENCHMARK RESULTS                          ║")
	fmt.Println("╚══════════════════════════════════════════════════════════════════╝")
	fmt.Println()

	fmt.Printf("Test Duration:        %v\n", elapsed.Round(time.Millisecond))
	fmt.Printf("Throughput:           %.2f burns/sec\n", throughput)
	fmt.Println()

	fmt.Println("── Burn Statistics ────────────────────────────────────────────────")
	fmt.Printf("  Total Burns:        %d\n", results.Burns)
	fmt.Printf("  Success:            %d\n", results.Success)
	fmt.Printf("  Failed:             %d\n", results.Failed)
	fmt.Printf("  Rate Limited:       %d\n", results.RateLimited)
	fmt.Printf("  Success Rate:       %.2f%%\n", successRate)
	fmt.Println()

	fmt.Println("── Per-Site Distribution ──────────────────────────────────────────")
	for _, site := range sites {
		fmt.Printf("  %-32s %d\n", site, results.PerSite[site])
	}
	fmt.Println()

	fmt.Println("── Latency ────────────────────────────────────────────────────────")
	fmt.Printf("  Min:                %v\n", minLat(results.Latencies))
	fmt.Printf("  Max:                %v\n", maxLat(results.Latencies))
	fmt.Printf("  Average:            %v\n", avg(results.Latencies))
	fmt.Printf("  P50 (Median):       %v\n", percentile(results.Latencies, 0.50))
	fmt.Printf("  P90:                %v\n", percentile(results.Latencies, 0.90))
	fmt.Printf("  P95:                %v\n", percentile(results.Latencies, 0.95))
	fmt.Printf("  P99:                %v\n", percentile(results.Latencies, 0.99))
	fmt.Println()

	fmt.Println("── Assessment ─────────────────────────────────────────────────────")
	if successRate >= 99.9 {
		fmt.Println("  ✅ Success Rate:    Excellent (>99.9%)")
	} else if successRate >= 99 {
		fmt.Println("  ✅ Success Rate:    Good (>99%)")
	} else if successRate >= 95 {
		fmt.Println("  ⚠️  Success Rate:    Acceptable (>95%)")
	} else {
		fmt.Println("  ❌ Success Rate:    Poor (<95%)")
	}

	avgLat := avg(results.Latencies)
	if avgLat < 1*time.Millisecond {
		fmt.Println("  ✅ Latency:         Excellent (<1ms avg)")
	} else if avgLat < 10*time.Millisecond {
		fmt.Println("  ✅ Latency:         Good (<10ms avg)")
	} else if avgLat < 100*time.Millisecond {
		fmt.Println("  ⚠️  Latency:         Acceptable (<100ms avg)")
	} else {
		fmt.Println("  ❌ Latency:         High (>100ms avg)")
	}

	if throughput > 10000 {
		fmt.Println("  ✅ Throughput:      Excellent (>10K/s)")
	} else if throughput > 1000 {
		fmt.Println("  ✅ Throughput:      Good (>1K/s)")
	} else if throughput > 100 {
		fmt.Println("  ⚠️  Throughput:      Acceptable (>100/s)")
	} else {
		fmt.Println("  ❌ Throughput:      Low (<100/s)")
	}

	fmt.Println()
	fmt.Println("══════════════════════════════════════════════════════════════════")

	// Save report if requested
	if *outputFile != "" {
		perSite := make(map[string]int64, len(results.PerSite))
		for site, count := range results.PerSite {
			perSite[site] = count
		}

		report := map[string]interface{}{
			"config": map[string]interface{}{
				"api_url":        *baseURL,
				"sites":          sites,
				"burns_per_site": *burnCount,
				"concurrency":    *concurrency,
				"amount":         *amount,
			},
			"summary": map[string]interface{}{
				"duration_ms":        elapsed.Milliseconds(),
				"throughput_per_sec": throughput,
				"total_burns":        results.Burns,
				"success_burns":      results.Success,
				"failed_burns":       results.Failed,
				"rate_limited":       results.RateLimited,
				"success_rate":       successRate,
			},
			"per_site": perSite,
			"latency": map[string]interface{}{
				"min_us": minLat(results.Latencies).Microseconds(),
				"max_us": maxLat(results.Latencies).Microseconds(),
				"avg_us": avg(results.Latencies).Microseconds(),
				"p50_us": percentile(results.Latencies, 0.50).Microseconds(),
				"p90_us": percentile(results.Latencies, 0.90).Microseconds(),
				"p95_us": percentile(results.Latencies, 0.95).Microseconds(),
				"p99_us": percentile(results.Latencies, 0.99).Microseconds(),
			},
			"timestamp": time.Now().Format(time.RFC3339),
		}

		file, err := os.Create(*outputFile)
		if err != nil {
			fmt.Printf("Failed to create report file: %v\n", err)
		} else {
			defer file.Close()
			encoder := json.NewEncoder(file)
			encoder.SetIndent("", "  ")
			encoder.Encode(report)
			fmt.Printf("\nReport saved to: %s\n", *outputFile)
		}
	}
}
