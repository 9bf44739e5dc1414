package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	twistsdk "github.com/twistprotocol/twist-chain/sdk"
)

// SignBatchFn turns a burn batch into signed transaction bytes. The caller
// owns the key material, so signing stays out of the worker process when a
// remote signer is used.
type SignBatchFn func(ctx context.Context, events []*BurnEvent) ([]byte, error)

// GRPCSubmitter submits burn batches through a direct gRPC connection to the
// chain, one signed transaction per batch.
type GRPCSubmitter struct {
	client    *twistsdk.DirectGRPCClient
	signBatch SignBatchFn
	batchSize int

	mu     sync.Mutex
	status SubmitterStatus
}

// NewGRPCSubmitter creates a gRPC submitter
func NewGRPCSubmitter(client *twistsdk.DirectGRPCClient, signBatch SignBatchFn, batchSize int) *GRPCSubmitter {
	if batchSize <= 0 {
		batchSize = 100
	}
	return &GRPCSubmitter{
		client:    client,
		signBatch: signBatch,
		batchSize: batchSize,
		status: SubmitterStatus{
			Connected: true,
		},
	}
}

// SubmitBurns signs and broadcasts burn batches via gRPC
func (s *GRPCSubmitter) SubmitBurns(ctx context.Context, events []*BurnEvent) error {
	if len(events) == 0 {
		return nil
	}
	if s.signBatch == nil {
		return fmt.Errorf("no batch signer configured")
	}

	s.mu.Lock()
	s.status.PendingTxCount = len(events)
	s.mu.Unlock()

	txs := make([][]byte, 0, (len(events)+s.batchSize-1)/s.batchSize)
	for i := 0; i < len(events); i += s.batchSize {
		end := i + s.batchSize
		if end > len(events) {
			end = len(events)
		}

		txBytes, err := s.signBatch(ctx, events[i:end])
		if err != nil {
			s.fail(err)
			return fmt.Errorf("sign batch: %w", err)
		}
		txs = append(txs, txBytes)
	}

	if _, err := s.client.BatchBroadcast(ctx, txs); err != nil {
		s.fail(err)
		return fmt.Errorf("broadcast batch: %w", err)
	}

	s.mu.Lock()
	s.status.TotalSubmissions++
	s.status.LastSubmitTime = time.Now()
	s.status.PendingTxCount = 0
	s.mu.Unlock()

	return nil
}

func (s *GRPCSubmitter) fail(err error) {
	s.mu.Lock()
	s.status.FailedSubmissions++
	s.status.LastError = err.Error()
	s.status.PendingTxCount = 0
	s.mu.Unlock()
}

// GetStatus returns the submitter status
func (s *GRPCSubmitter) GetStatus() SubmitterStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}
