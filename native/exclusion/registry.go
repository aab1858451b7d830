package exclusion

import "errors"

var (
	// ErrNilState is returned when the registry has no state backend
	// configured.
	ErrNilState = errors.New("exclusion: state not configured")
	// ErrDeadlineNotExtended is returned when a self-exclusion request does
	// not move the recorded deadline forward.
	ErrDeadlineNotExtended = errors.New("exclusion: deadline may only extend")
)

// registryState describes the persistence needed by the self-exclusion
// registry.
type registryState interface {
	ExclusionDeadline(addr [20]byte) (uint64, error)
	SetExclusionDeadline(addr [20]byte, until uint64) error
}

// Registry records voluntary self-exclusion deadlines. An account with a
// deadline in the future cannot place wagers.
type Registry struct {
	state registryState
}

// NewRegistry creates a registry without a state backend.
func NewRegistry() *Registry { return &Registry{} }

// SetState configures the state backend used by the registry.
func (r *Registry) SetState(state registryState) { r.state = state }

// SetSelfExclusion records an exclusion deadline for the caller. Deadlines may
// only extend, never shorten: shortening would defeat the purpose of a
// voluntary lockout.
func (r *Registry) SetSelfExclusion(addr [20]byte, until uint64) error {
	if r == nil || r.state == nil {
		return ErrNilState
	}
	current, err := r.state.ExclusionDeadline(addr)
	if err != nil {
		return err
	}
	if until <= current {
		return ErrDeadlineNotExtended
	}
	return r.state.SetExclusionDeadline(addr, until)
}

// Excluded reports whether the address is excluded at the provided time.
func (r *Registry) Excluded(addr [20]byte, now uint64) (bool, error) {
	if r == nil || r.state == nil {
		return false, ErrNilState
	}
	until, err := r.state.ExclusionDeadline(addr)
	if err != nil {
		return false, err
	}
	return until > now, nil
}
