package oracle

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

type recordingConsumer struct {
	sequences []uint64
	values    []*big.Int
	err       error
}

func (c *recordingConsumer) RandomnessCallback(sequence uint64, provider [20]byte, randomValue *big.Int) error {
	c.sequences = append(c.sequences, sequence)
	c.values = append(c.values, randomValue)
	return c.err
}

func testProvider() [20]byte {
	var p [20]byte
	p[19] = 0x77
	return p
}

func TestRequestRequiresProviderAndFee(t *testing.T) {
	oracle := NewMemoryOracle(testProvider(), big.NewInt(2))

	fee, err := oracle.QuoteFee(testProvider(), 100)
	require.NoError(t, err)
	require.Equal(t, big.NewInt(200), fee)

	var stranger [20]byte
	stranger[19] = 0x99
	_, err = oracle.QuoteFee(stranger, 100)
	require.ErrorIs(t, err, ErrUnknownProvider)

	_, err = oracle.Request(testProvider(), 100, big.NewInt(199))
	require.ErrorIs(t, err, ErrInsufficientFee)

	seq, err := oracle.Request(testProvider(), 100, big.NewInt(200))
	require.NoError(t, err)
	require.Equal(t, uint64(1), seq)
	require.Equal(t, []uint64{1}, oracle.PendingSequences())
}

func TestFulfillDeliversOnceToConsumer(t *testing.T) {
	oracle := NewMemoryOracle(testProvider(), big.NewInt(0))
	consumer := &recordingConsumer{}
	oracle.SetConsumer(consumer)

	seq, err := oracle.Request(testProvider(), 50, big.NewInt(0))
	require.NoError(t, err)

	require.NoError(t, oracle.Fulfill(seq, big.NewInt(42)))
	require.Equal(t, []uint64{seq}, consumer.sequences)
	require.Equal(t, 0, oracle.Pending())

	// Consumed sequences are not redeliverable.
	require.ErrorIs(t, oracle.Fulfill(seq, big.NewInt(42)), ErrUnknownSequence)
}

func TestPendingSequencesAreSorted(t *testing.T) {
	oracle := NewMemoryOracle(testProvider(), big.NewInt(0))
	for i := 0; i < 5; i++ {
		_, err := oracle.Request(testProvider(), 10, big.NewInt(0))
		require.NoError(t, err)
	}
	require.NoError(t, oracle.Fulfill(3, big.NewInt(1)))
	require.Equal(t, []uint64{1, 2, 4, 5}, oracle.PendingSequences())
}
