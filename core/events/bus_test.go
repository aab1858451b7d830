package events

import (
	"fmt"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

// Every payload must expose both the type name and the wire conversion the
// bus relies on.
var (
	_ Event = StakeDeposited{}
	_ Event = StakeUnstakeRequested{}
	_ Event = StakeWithdrawn{}
	_ Event = StakeRewardNotified{}
	_ Event = StakeRewardsClaimed{}
	_ Event = WagerPlaced{}
	_ Event = WagerSettled{}
	_ Event = WagerCancelled{}
	_ Event = WagerEpochAdvanced{}
	_ Event = WagerDividendPaid{}
	_ Event = WagerTransferFailed{}
	_ Event = WagerClaimed{}
	_ Event = WagerParamUpdated{}
)

func TestBusFansOutToSubscribers(t *testing.T) {
	bus := NewBus()
	ch, cancel := bus.Subscribe(4)
	defer cancel()

	bus.Emit(StakeRewardNotified{Amount: big.NewInt(10), RewardPerShare: big.NewInt(1)})

	evt := <-ch
	require.Equal(t, TypeStakeRewardNotified, evt.Type)
	require.Equal(t, "10", evt.Attributes["amount"])

	recent := bus.Recent()
	require.Len(t, recent, 1)
	require.Equal(t, TypeStakeRewardNotified, recent[0].Type)
}

func TestBusDropsInsteadOfBlocking(t *testing.T) {
	bus := NewBus()
	ch, cancel := bus.Subscribe(1)
	defer cancel()

	bus.Emit(StakeRewardNotified{Amount: big.NewInt(1), RewardPerShare: big.NewInt(1)})
	bus.Emit(StakeRewardNotified{Amount: big.NewInt(2), RewardPerShare: big.NewInt(2)})

	// Only the first fits the buffer; the second was dropped for this
	// subscriber but still retained in history.
	require.Len(t, ch, 1)
	require.Len(t, bus.Recent(), 2)
}

func TestBusHistoryIsBounded(t *testing.T) {
	bus := NewBus()
	for i := 0; i < busHistory+10; i++ {
		bus.Emit(StakeRewardNotified{Amount: big.NewInt(int64(i)), RewardPerShare: big.NewInt(0)})
	}
	recent := bus.Recent()
	require.Len(t, recent, busHistory)
	require.Equal(t, fmt.Sprint(10), recent[0].Attributes["amount"])
}

func TestSubscribeCancelIsIdempotent(t *testing.T) {
	bus := NewBus()
	ch, cancel := bus.Subscribe(1)
	cancel()
	cancel()

	_, open := <-ch
	require.False(t, open)

	// Emitting after cancellation must not panic or deliver.
	bus.Emit(StakeRewardNotified{Amount: big.NewInt(1), RewardPerShare: big.NewInt(1)})
}
