package report

// State is the position of a report dispatch in its workflow.
type State int

// Dispatch states.
const (
	StateIdle State = iota
	StatePendingConfirmation
	StateSending
	StateSent
	StateFailed
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePendingConfirmation:
		return "pending_confirmation"
	case StateSending:
		return "sending"
	case StateSent:
		return "sent"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether the state waits for a dismissal.
func (s State) Terminal() bool {
	return s == StateSent || s == StateFailed
}
