package state

import (
	"flipnet/native/stake"
)

const (
	stakeGlobalPrefix   = "stake/global"
	stakePositionPrefix = "stake/position"
	stakeQueuePrefix    = "stake/queue"
)

// StakeGlobal loads the shared vault accumulator. A nil result means the
// vault has never been touched.
func (m *Manager) StakeGlobal() (*stake.Global, error) {
	global := &stake.Global{}
	ok, err := m.load(rawKey(stakeGlobalPrefix), global)
	if err != nil || !ok {
		return nil, err
	}
	return global.EnsureDefaults(), nil
}

// SetStakeGlobal persists the shared vault accumulator.
func (m *Manager) SetStakeGlobal(g *stake.Global) error {
	return m.store(rawKey(stakeGlobalPrefix), g.EnsureDefaults())
}

// StakePosition loads the account's share position. A nil result means the
// account never staked.
func (m *Manager) StakePosition(addr [20]byte) (*stake.Position, error) {
	position := &stake.Position{}
	ok, err := m.load(rawKey(stakePositionPrefix, addr[:]), position)
	if err != nil || !ok {
		return nil, err
	}
	return position.EnsureDefaults(), nil
}

// SetStakePosition persists the account's share position.
func (m *Manager) SetStakePosition(addr [20]byte, pos *stake.Position) error {
	return m.store(rawKey(stakePositionPrefix, addr[:]), pos.EnsureDefaults())
}

// StakeQueue loads the account's withdrawal queue. A nil result means no
// unstake was ever requested.
func (m *Manager) StakeQueue(addr [20]byte) (*stake.WithdrawalQueue, error) {
	queue := &stake.WithdrawalQueue{}
	ok, err := m.load(rawKey(stakeQueuePrefix, addr[:]), queue)
	if err != nil || !ok {
		return nil, err
	}
	return queue, nil
}

// SetStakeQueue persists the account's withdrawal queue.
func (m *Manager) SetStakeQueue(addr [20]byte, q *stake.WithdrawalQueue) error {
	return m.store(rawKey(stakeQueuePrefix, addr[:]), q)
}
