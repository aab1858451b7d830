package fulfiller

import (
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeNode struct {
	mu        sync.Mutex
	pending   []uint64
	fulfilled map[uint64]*big.Int
}

func (f *fakeNode) PendingRandomness() []uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]uint64, len(f.pending))
	copy(out, f.pending)
	return out
}

func (f *fakeNode) FulfillRandomness(sequence uint64, randomValue *big.Int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fulfilled == nil {
		f.fulfilled = make(map[uint64]*big.Int)
	}
	f.fulfilled[sequence] = randomValue
	remaining := f.pending[:0]
	for _, seq := range f.pending {
		if seq != sequence {
			remaining = append(remaining, seq)
		}
	}
	f.pending = remaining
	return nil
}

func TestSweepFulfilsAllPending(t *testing.T) {
	node := &fakeNode{pending: []uint64{3, 7, 9}}
	svc := New(node, time.Second, nil)

	svc.sweep()

	require.Empty(t, node.PendingRandomness())
	require.Len(t, node.fulfilled, 3)
	for seq, value := range node.fulfilled {
		require.NotNil(t, value, "sequence %d", seq)
		require.Positive(t, value.Sign())
	}
}

func TestNewAppliesDefaultInterval(t *testing.T) {
	svc := New(&fakeNode{}, 0, nil)
	require.Equal(t, 2*time.Second, svc.interval)
	require.NotNil(t, svc.log)
}
