package state

const exclusionPrefix = "exclusion/deadline"

// ExclusionDeadline returns the self-exclusion deadline recorded for the
// address, zero when none exists.
func (m *Manager) ExclusionDeadline(addr [20]byte) (uint64, error) {
	var until uint64
	if _, err := m.load(rawKey(exclusionPrefix, addr[:]), &until); err != nil {
		return 0, err
	}
	return until, nil
}

// SetExclusionDeadline persists the self-exclusion deadline for the address.
func (m *Manager) SetExclusionDeadline(addr [20]byte, until uint64) error {
	return m.store(rawKey(exclusionPrefix, addr[:]), until)
}
