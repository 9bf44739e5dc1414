package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	vautypes "github.com/twistprotocol/twist-chain/x/vau/types"
)

// TxSubmitter defines the interface for submitting burn batches to the chain
type TxSubmitter interface {
	// SubmitBurns submits a batch of burn events to the chain
	SubmitBurns(ctx context.Context, events []*BurnEvent) error

	// GetStatus returns the submitter status
	GetStatus() SubmitterStatus
}

// SubmitterStatus represents the status of a submitter
type SubmitterStatus struct {
	Connected         bool
	PendingTxCount    int
	LastSubmitTime    time.Time
	LastError         string
	TotalSubmissions  int64
	FailedSubmissions int64
}

// MockSubmitter is a mock implementation for testing
type MockSubmitter struct {
	mu              sync.Mutex
	events          []*BurnEvent
	status          SubmitterStatus
	simulateFailure bool
}

// NewMockSubmitter creates a new mock submitter
func NewMockSubmitter() *MockSubmitter {
	return &MockSubmitter{
		events: make([]*BurnEvent, 0),
		status: SubmitterStatus{
			Connected: true,
		},
	}
}

// SubmitBurns submits burn events (mock implementation)
func (s *MockSubmitter) SubmitBurns(ctx context.Context, events []*BurnEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.simulateFailure {
		s.status.FailedSubmissions++
		s.status.LastError = "simulated failure"
		return fmt.Errorf("simulated failure")
	}

	s.events = append(s.events, events...)
	s.status.TotalSubmissions++
	s.status.LastSubmitTime = time.Now()

	log.Printf("[MockSubmitter] Submitted %d burns", len(events))
	for _, event := range events {
		log.Printf("  Burn: visitor=%s site=%s amount=%s", event.Visitor, event.SiteHash, event.Amount.String())
	}

	return nil
}

// GetStatus returns the mock submitter status
func (s *MockSubmitter) GetStatus() SubmitterStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// GetSubmittedBurns returns all submitted burn events (for testing)
func (s *MockSubmitter) GetSubmittedBurns() []*BurnEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := make([]*BurnEvent, len(s.events))
	copy(result, s.events)
	return result
}

// SetSimulateFailure enables or disables failure simulation
func (s *MockSubmitter) SetSimulateFailure(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.simulateFailure = fail
}

// Clear clears all submitted data (for testing)
func (s *MockSubmitter) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = make([]*BurnEvent, 0)
}

// BatchSubmitter submits burns in batches to the chain
type BatchSubmitter struct {
	rpcURL        string
	workerAddress string
	batchSize     int
	retryAttempts int
	retryDelay    time.Duration

	mu     sync.Mutex
	status SubmitterStatus
}

// BatchSubmitterConfig holds configuration for BatchSubmitter
type BatchSubmitterConfig struct {
	RPCURL        string
	WorkerAddress string
	BatchSize     int
	RetryAttempts int
	RetryDelay    time.Duration
}

// DefaultBatchSubmitterConfig returns default configuration
func DefaultBatchSubmitterConfig() *BatchSubmitterConfig {
	return &BatchSubmitterConfig{
		RPCURL:        "http://localhost:26657",
		BatchSize:     100,
		RetryAttempts: 3,
		RetryDelay:    time.Second,
	}
}

// NewBatchSubmitter creates a new batch submitter
func NewBatchSubmitter(config *BatchSubmitterConfig) *BatchSubmitter {
	if config == nil {
		config = DefaultBatchSubmitterConfig()
	}

	return &BatchSubmitter{
		rpcURL:        config.RPCURL,
		workerAddress: config.WorkerAddress,
		batchSize:     config.BatchSize,
		retryAttempts: config.RetryAttempts,
		retryDelay:    config.RetryDelay,
		status: SubmitterStatus{
			Connected: true,
		},
	}
}

// SubmitBurns submits burns in batches
func (s *BatchSubmitter) SubmitBurns(ctx context.Context, events []*BurnEvent) error {
	if len(events) == 0 {
		return nil
	}

	s.mu.Lock()
	s.status.PendingTxCount = len(events)
	s.mu.Unlock()

	// Split into batches
	for i := 0; i < len(events); i += s.batchSize {
		end := i + s.batchSize
		if end > len(events) {
			end = len(events)
		}
		batch := events[i:end]

		if err := s.submitBatchWithRetry(ctx, batch); err != nil {
			s.mu.Lock()
			s.status.FailedSubmissions++
			s.status.LastError = err.Error()
			s.mu.Unlock()
			return fmt.Errorf("failed to submit batch: %w", err)
		}
	}

	s.mu.Lock()
	s.status.TotalSubmissions++
	s.status.LastSubmitTime = time.Now()
	s.status.PendingTxCount = 0
	s.mu.Unlock()

	return nil
}

// submitBatchWithRetry submits a batch with retry logic
func (s *BatchSubmitter) submitBatchWithRetry(ctx context.Context, batch []*BurnEvent) error {
	var lastErr error
	for attempt := 0; attempt < s.retryAttempts; attempt++ {
		if err := s.submitBatch(ctx, batch); err != nil {
			lastErr = err
			log.Printf("Batch submission attempt %d failed: %v", attempt+1, err)

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(s.retryDelay):
				continue
			}
		}
		return nil
	}
	return fmt.Errorf("all retry attempts failed: %w", lastErr)
}

// submitBatch submits a single batch
func (s *BatchSubmitter) submitBatch(ctx context.Context, batch []*BurnEvent) error {
	// Prepare the transaction message
	msg := struct {
		Jsonrpc string        `json:"jsonrpc"`
		ID      int           `json:"id"`
		Method  string        `json:"method"`
		Params  []interface{} `json:"params"`
	}{
		Jsonrpc: "2.0",
		ID:      1,
		Method:  "broadcast_tx_async",
		Params:  []interface{}{s.encodeBurns(batch)},
	}

	// Log the submission (in production, this would be an actual RPC call)
	msgBytes, _ := json.Marshal(msg)
	log.Printf("[BatchSubmitter] Submitting batch of %d burns to %s", len(batch), s.rpcURL)
	log.Printf("[BatchSubmitter] Message: %s", string(msgBytes))

	// In a real implementation, we would:
	// 1. Build one MsgProcessVisitorBurn per event
	// 2. Sign the transaction with the worker key
	// 3. Broadcast via RPC

	return nil
}

// encodeBurns encodes burn events as MsgProcessVisitorBurn payloads
func (s *BatchSubmitter) encodeBurns(events []*BurnEvent) string {
	msgs := make([]vautypes.MsgProcessVisitorBurn, len(events))
	for i, event := range events {
		msgs[i] = vautypes.MsgProcessVisitorBurn{
			EdgeWorker: s.workerAddress,
			Visitor:    event.Visitor,
			SiteURL:    event.SiteURL,
			PageID:     event.PageID,
			Amount:     event.Amount.String(),
		}
	}
	encoded, _ := json.Marshal(msgs)
	return string(encoded)
}

// GetStatus returns the submitter status
func (s *BatchSubmitter) GetStatus() SubmitterStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// SetRPCURL updates the RPC URL
func (s *BatchSubmitter) SetRPCURL(url string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rpcURL = url
}

// SubmitterFactory creates submitters based on configuration
type SubmitterFactory struct{}

// NewSubmitterFactory creates a new submitter factory
func NewSubmitterFactory() *SubmitterFactory {
	return &SubmitterFactory{}
}

// Create creates a new submitter based on the type
func (f *SubmitterFactory) Create(submitterType string, config *BatchSubmitterConfig) TxSubmitter {
	switch submitterType {
	case "mock":
		return NewMockSubmitter()
	case "batch":
		return NewBatchSubmitter(config)
	default:
		return NewMockSubmitter()
	}
}
