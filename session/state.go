package session

// State is the lifecycle stage of a session.
type State int

const (
	// Empty has no playlist loaded.
	Empty State = iota
	// Ready has a playlist loaded; the engine is playing, paused or halted at the end.
	Ready
	// Advancing is transient while the session changes tracks.
	Advancing
	// Closed is terminal.
	Closed
)

func (s State) String() string {
	switch s {
	case Empty:
		return "empty"
	case Ready:
		return "ready"
	case Advancing:
		return "advancing"
	case Closed:
		return "closed"
	default:
		return "unknown"
	}
}
