package exclusion

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type memState struct {
	deadlines map[[20]byte]uint64
}

func (m *memState) ExclusionDeadline(addr [20]byte) (uint64, error) {
	return m.deadlines[addr], nil
}

func (m *memState) SetExclusionDeadline(addr [20]byte, until uint64) error {
	if m.deadlines == nil {
		m.deadlines = make(map[[20]byte]uint64)
	}
	m.deadlines[addr] = until
	return nil
}

func TestSelfExclusionOnlyExtends(t *testing.T) {
	registry := NewRegistry()
	registry.SetState(&memState{})
	var addr [20]byte
	addr[19] = 0x01

	require.NoError(t, registry.SetSelfExclusion(addr, 1_000))

	excluded, err := registry.Excluded(addr, 999)
	require.NoError(t, err)
	require.True(t, excluded)

	// Deadline boundary: exclusion lapses once now reaches it.
	excluded, err = registry.Excluded(addr, 1_000)
	require.NoError(t, err)
	require.False(t, excluded)

	// Shortening attempts are rejected and leave the deadline untouched.
	require.ErrorIs(t, registry.SetSelfExclusion(addr, 500), ErrDeadlineNotExtended)
	require.ErrorIs(t, registry.SetSelfExclusion(addr, 1_000), ErrDeadlineNotExtended)
	excluded, err = registry.Excluded(addr, 999)
	require.NoError(t, err)
	require.True(t, excluded)

	require.NoError(t, registry.SetSelfExclusion(addr, 2_000))
	excluded, err = registry.Excluded(addr, 1_500)
	require.NoError(t, err)
	require.True(t, excluded)
}

func TestRegistryRequiresState(t *testing.T) {
	registry := NewRegistry()
	var addr [20]byte
	require.ErrorIs(t, registry.SetSelfExclusion(addr, 1), ErrNilState)
	_, err := registry.Excluded(addr, 1)
	require.ErrorIs(t, err, ErrNilState)
}
