package draft

import "fmt"

// InvalidPickError reports a pick that cannot be applied, typically a
// player missing from the pool. State is left unchanged.
type InvalidPickError struct {
	PlayerID string
	Reason   string
}

func (e *InvalidPickError) Error() string {
	return fmt.Sprintf("invalid pick %q: %s", e.PlayerID, e.Reason)
}

// InvalidStateError reports an operation against a draft in the wrong
// phase, such as picking after completion.
type InvalidStateError struct {
	Reason string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("invalid draft state: %s", e.Reason)
}
