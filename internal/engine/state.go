package engine

// State is the enforcement state. Any state other than Idle suppresses the
// track-end detector.
type State int

const (
	// Idle means no enforcement is in flight or settling.
	Idle State = iota
	// Advancing means the engine moved the remote forward and is waiting for
	// the transition to show up in snapshots.
	Advancing
	// Reversing means the engine moved the remote back to a history entry.
	Reversing
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Advancing:
		return "advancing"
	case Reversing:
		return "reversing"
	default:
		return "unknown"
	}
}
