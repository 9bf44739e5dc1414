package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/twistprotocol/twist-chain/offchain/worker"
	vautypes "github.com/twistprotocol/twist-chain/x/vau/types"
)

// Config holds the application configuration
type Config struct {
	BatchSize     int           `json:"batch_size"`
	BatchInterval time.Duration `json:"batch_interval"`
	DedupWindow   time.Duration `json:"dedup_window"`
	WebSocketURL  string        `json:"websocket_url"`
	ChainRPCURL   string        `json:"chain_rpc_url"`
	WorkerAddress string        `json:"worker_address"`
	SubmitterType string        `json:"submitter_type"` // "mock" or "batch"
	Demo          bool          `json:"demo"`           // run demo mode
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		BatchSize:     100,
		BatchInterval: 500 * time.Millisecond,
		DedupWindow:   30 * time.Second,
		WebSocketURL:  "ws://localhost:26657/websocket",
		ChainRPCURL:   "http://localhost:26657",
		SubmitterType: "mock",
		Demo:          false,
	}
}

// LoadConfig loads configuration from a file
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	if path == "" {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

func main() {
	// Parse command line flags
	configPath := flag.String("config", "", "Path to config file")
	batchSize := flag.Int("batch-size", 0, "Maximum burns per batch")
	batchInterval := flag.Duration("batch-interval", 0, "Time interval for batch submission")
	dedupWindow := flag.Duration("dedup-window", 0, "Repeat-visit dedup window")
	rpcURL := flag.String("rpc", "", "Chain RPC URL")
	wsURL := flag.String("ws", "", "WebSocket URL")
	workerAddr := flag.String("worker", "", "Registered edge worker address")
	submitterType := flag.String("submitter", "", "Submitter type (mock or batch)")
	demo := flag.Bool("demo", false, "Run demo mode with sample visits")
	flag.Parse()

	// Load configuration
	config, err := LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Override with command line flags
	if *batchSize > 0 {
		config.BatchSize = *batchSize
	}
	if *batchInterval > 0 {
		config.BatchInterval = *batchInterval
	}
	if *dedupWindow > 0 {
		config.DedupWindow = *dedupWindow
	}
	if *rpcURL != "" {
		config.ChainRPCURL = *rpcURL
	}
	if *wsURL != "" {
		config.WebSocketURL = *wsURL
	}
	if *workerAddr != "" {
		config.WorkerAddress = *workerAddr
	}
	if *submitterType != "" {
		config.SubmitterType = *submitterType
	}
	if *demo {
		config.Demo = true
	}

	// Print configuration
	log.Println("=== Twist Edge Worker ===")
	log.Printf("Batch Size: %d", config.BatchSize)
	log.Printf("Batch Interval: %v", config.BatchInterval)
	log.Printf("Dedup Window: %v", config.DedupWindow)
	log.Printf("Chain RPC: %s", config.ChainRPCURL)
	log.Printf("WebSocket: %s", config.WebSocketURL)
	log.Printf("Submitter: %s", config.SubmitterType)
	log.Println("=========================")

	// Create submitter
	factory := worker.NewSubmitterFactory()
	submitter := factory.Create(config.SubmitterType, &worker.BatchSubmitterConfig{
		RPCURL:        config.ChainRPCURL,
		WorkerAddress: config.WorkerAddress,
		BatchSize:     config.BatchSize,
		RetryAttempts: 3,
		RetryDelay:    time.Second,
	})

	// Create worker
	workerConfig := worker.DefaultConfig()
	workerConfig.BatchSize = config.BatchSize
	workerConfig.BatchInterval = config.BatchInterval
	workerConfig.DedupWindow = config.DedupWindow
	workerConfig.WebSocketURL = config.WebSocketURL
	workerConfig.ChainRPCURL = config.ChainRPCURL
	w := worker.NewEdgeWorker(workerConfig, submitter)

	// Setup context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start the worker
	if err := w.Start(ctx); err != nil {
		log.Fatalf("Failed to start worker: %v", err)
	}

	// Run demo if requested
	if config.Demo {
		go runDemo(w)
	}

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	// Periodic stats logging
	statsTicker := time.NewTicker(10 * time.Second)
	defer statsTicker.Stop()

	log.Println("Edge worker is running. Press Ctrl+C to stop.")

	for {
		select {
		case sig := <-sigCh:
			log.Printf("Received signal: %v", sig)
			cancel()
			if err := w.Stop(); err != nil {
				log.Printf("Error stopping worker: %v", err)
			}
			log.Println("Edge worker stopped")
			return
		case <-statsTicker.C:
			stats := w.GetStats()
			log.Printf("Stats: Sites=%d, PendingBurns=%d, TrackedVisits=%d, Accepted=%d, Dropped=%d",
				stats.SiteCount, stats.PendingBurns, stats.TrackedVisits, stats.Accepted, stats.Dropped)
		}
	}
}

// runDemo runs a demonstration with sample sites and visits
func runDemo(w *worker.EdgeWorker) {
	log.Println("Starting demo mode...")
	time.Sleep(time.Second)

	now := time.Now().Unix()
	sites := []struct {
		url    string
		sector string
	}{
		{"https://play.example.com", "gaming"},
		{"https://news.example.com", "media"},
		{"https://swap.example.com", "defi"},
	}

	for _, s := range sites {
		site := vautypes.NewWebsite(s.url, "twist1demo0wner", s.sector, now)
		site.Verified = true
		w.RegisterSite(site)
		log.Printf("Registered site: %s (%s)", s.url, s.sector)
	}

	// A few distinct visitors across the sites
	for i := 0; i < 5; i++ {
		w.SubmitVisit(worker.VisitEvent{
			Visitor: fmt.Sprintf("twist1visitor%d", i+1),
			SiteURL: "https://play.example.com",
			PageID:  "lobby",
			Units:   int64(i + 1),
		})
		time.Sleep(100 * time.Millisecond)
	}

	w.SubmitVisit(worker.VisitEvent{
		Visitor: "twist1visitor1",
		SiteURL: "https://news.example.com",
		PageID:  "frontpage",
		Units:   3,
	})

	// Repeat visit inside the dedup window, should be dropped
	w.SubmitVisit(worker.VisitEvent{
		Visitor: "twist1visitor1",
		SiteURL: "https://news.example.com",
		PageID:  "frontpage",
		Units:   3,
	})

	// Unregistered site, should be dropped
	w.SubmitVisit(worker.VisitEvent{
		Visitor: "twist1visitor2",
		SiteURL: "https://unknown.example.com",
		PageID:  "home",
		Units:   1,
	})

	time.Sleep(time.Second)
	stats := w.GetStats()
	log.Printf("Demo results: accepted=%d dropped=%d pending=%d", stats.Accepted, stats.Dropped, stats.PendingBurns)

	log.Println("Demo completed!")
}
