package stats

// ProcState is the display category for a process state code from
// /proc/<pid>/stat.
type ProcState int

const (
	// StateOther covers state codes we do not recognize.
	StateOther ProcState = iota
	// StateRunning is 'R'.
	StateRunning
	// StateSleeping is 'S' or 'D'. Uninterruptible sleep is folded into
	// Sleeping for display; the blocked count is still tracked
	// separately in the system summary aggregates.
	StateSleeping
	// StateIdle is 'I' (kernel idle threads).
	StateIdle
	// StateZombie is 'Z'.
	StateZombie
	// StateStopped is 'T' or 't'.
	StateStopped
)

// ClassifyState maps a kernel process state code to its display category.
// Unrecognized codes map to StateOther and keep their raw label.
func ClassifyState(code byte) ProcState {
	switch code {
	case 'R':
		return StateRunning
	case 'S', 'D':
		return StateSleeping
	case 'I':
		return StateIdle
	case 'Z':
		return StateZombie
	case 'T', 't':
		return StateStopped
	default:
		return StateOther
	}
}

// StateLabel returns the human-readable label for a state code. Codes
// outside the known set pass through as their raw character so a new
// kernel state never crashes the mapping.
func StateLabel(code byte) string {
	switch ClassifyState(code) {
	case StateRunning:
		return "Running"
	case StateSleeping:
		return "Sleeping"
	case StateIdle:
		return "Idle"
	case StateZombie:
		return "Zombie"
	case StateStopped:
		return "Stopped"
	default:
		return string(code)
	}
}
