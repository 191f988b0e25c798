package scan

// State is the position of a scan submission in its workflow.
type State int

// Submission states.
const (
	StateIdle State = iota
	StatePendingConfirmation
	StateSubmitting
	StateClassified
	StateRejected
	StateTransportFailure
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePendingConfirmation:
		return "pending_confirmation"
	case StateSubmitting:
		return "submitting"
	case StateClassified:
		return "classified"
	case StateRejected:
		return "rejected"
	case StateTransportFailure:
		return "transport_failure"
	default:
		return "unknown"
	}
}

// Terminal reports whether the state waits for a dismissal.
func (s State) Terminal() bool {
	return s == StateClassified || s == StateRejected || s == StateTransportFailure
}

// ResultKind classifies the outcome of one submission request.
type ResultKind int

// Outcomes of a submission.
const (
	ResultClassified ResultKind = iota
	ResultRejected
	ResultTransportFailure
)

// String returns the outcome name stored in the activity log.
func (k ResultKind) String() string {
	switch k {
	case ResultClassified:
		return "classified"
	case ResultRejected:
		return "rejected"
	default:
		return "transport_failure"
	}
}

func (k ResultKind) state() State {
	switch k {
	case ResultClassified:
		return StateClassified
	case ResultRejected:
		return StateRejected
	default:
		return StateTransportFailure
	}
}
