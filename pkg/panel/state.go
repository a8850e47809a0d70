package panel

// State is the panel lifecycle position.
type State int

const (
	StateUninitialized State = iota
	StateLoading
	StateReady
	// StateFailed follows a fatal load. The panel shows an error document and
	// accepts another reload.
	StateFailed
	StateDisposed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	case StateDisposed:
		return "disposed"
	default:
		return "unknown"
	}
}
