// Package fulfiller drives the in-process randomness oracle: it periodically
// delivers fresh random values for pending wager sequences. Production
// deployments replace it with an external verifiable-randomness provider.
package fulfiller

import (
	"context"
	"crypto/rand"
	"log/slog"
	"math/big"
	"time"
)

// Node is the subset of node functionality the service drives.
type Node interface {
	PendingRandomness() []uint64
	FulfillRandomness(sequence uint64, randomValue *big.Int) error
}

// Service polls for pending randomness requests and fulfils them.
type Service struct {
	node     Node
	interval time.Duration
	log      *slog.Logger
}

// New creates a fulfiller polling at the given interval.
func New(node Node, interval time.Duration, log *slog.Logger) *Service {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	if log == nil {
		log = slog.Default()
	}
	return &Service{node: node, interval: interval, log: log}
}

// Run blocks until the context is cancelled, sweeping pending sequences every
// interval. Individual fulfilment failures are logged and retried on the next
// sweep unless the engine consumed the sequence.
func (s *Service) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *Service) sweep() {
	for _, sequence := range s.node.PendingRandomness() {
		value, err := randomValue()
		if err != nil {
			s.log.Error("randomness source failed", "error", err)
			return
		}
		if err := s.node.FulfillRandomness(sequence, value); err != nil {
			s.log.Warn("fulfilment rejected", "sequence", sequence, "error", err)
			continue
		}
		s.log.Debug("fulfilled randomness", "sequence", sequence)
	}
}

func randomValue() (*big.Int, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return nil, err
	}
	return new(big.Int).SetBytes(buf), nil
}
