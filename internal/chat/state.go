package chat

// State is the turn state of a Controller
type State int

const (
	// StateIdle has an empty buffer and no request in flight
	StateIdle State = iota
	// StateComposing holds a non-empty buffer
	StateComposing
	// StatePending waits for the assistant; submits are refused
	StatePending
)

// String implements fmt.Stringer
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateComposing:
		return "composing"
	case StatePending:
		return "pending"
	default:
		return "unknown"
	}
}
