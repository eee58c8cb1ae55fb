package model

// Mode represents the current pomodoro phase.
type Mode string

const (
	ModeFocus      Mode = "work"
	ModeShortBreak Mode = "short"
	ModeLongBreak  Mode = "long"
)

// RunState represents the countdown state.
type RunState string

const (
	StateIdle    RunState = "idle"
	StateRunning RunState = "running"
	StatePaused  RunState = "paused"
)

// Pomodoro defaults (minutes).
const (
	DefaultFocusMinutes      = 25
	DefaultShortBreakMinutes = 5
	DefaultLongBreakMinutes  = 15
	DefaultSetsBeforeLong    = 4
)

// MaxDialMinutes is the dial ceiling: the largest duration the dial can set.
const MaxDialMinutes = 60

// Snapshot is the engine state as exposed to observers.
type Snapshot struct {
	Mode                Mode
	State               RunState
	TotalSeconds        int
	RemainingSeconds    int
	CompletedFocusCount int
}

// Label returns the display label for a mode.
func (mode Mode) Label() string {
	switch mode {
	case ModeFocus:
		return "FOCUS"
	case ModeShortBreak:
		return "SHORT BREAK"
	case ModeLongBreak:
		return "LONG BREAK"
	default:
		return string(mode)
	}
}

// Valid reports whether the mode is one of the three known phases.
func (mode Mode) Valid() bool {
	switch mode {
	case ModeFocus, ModeShortBreak, ModeLongBreak:
		return true
	default:
		return false
	}
}

// Modes lists all phases in menu order.
func Modes() []Mode {
	return []Mode{ModeFocus, ModeShortBreak, ModeLongBreak}
}
