package common

import "errors"

// ErrModulePaused is returned by mutating entry points while the operator has
// the module halted.
var ErrModulePaused = errors.New("module paused")

// PauseView reports whether a named module is administratively halted.
type PauseView interface {
	IsPaused(module string) bool
}

// Guard rejects the call when the named module is paused. A nil view or empty
// module name leaves the operation ungated.
func Guard(view PauseView, module string) error {
	if view == nil || module == "" {
		return nil
	}
	if view.IsPaused(module) {
		return ErrModulePaused
	}
	return nil
}
