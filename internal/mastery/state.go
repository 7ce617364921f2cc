package mastery

import "time"

// Phase is a concept's position in the session mastery cycle.
type Phase string

const (
	PhaseIdle     Phase = "idle"
	PhaseCycling  Phase = "cycling"
	PhaseRecall   Phase = "recall"
	PhaseMastered Phase = "mastered"
)

// Signal is emitted by every recorded attempt.
type Signal string

const (
	SignalWrong           Signal = "wrong"
	SignalCycleContinues  Signal = "cycle_continues"
	SignalCycleToRecall   Signal = "cycle_to_recall"
	SignalRecallCorrect   Signal = "recall_correct"
	SignalAlreadyMastered Signal = "already_mastered"

	// SignalNoChange covers inputs the cycle does not react to, such as a
	// non-recall answer while a recall check is pending.
	SignalNoChange Signal = "no_change"
)

// State is the session-scoped mastery record for one formula. At most one of
// InCycle, InRecall and Mastered is meaningful at a time; Mastered dominates.
type State struct {
	ConsecutiveCorrect int
	InCycle            bool
	InRecall           bool
	Mastered           bool
	LastFailedAt       *time.Time
}

// Phase derives the phase from the flags.
func (s State) Phase() Phase {
	switch {
	case s.Mastered:
		return PhaseMastered
	case s.InRecall:
		return PhaseRecall
	case s.InCycle:
		return PhaseCycling
	default:
		return PhaseIdle
	}
}

// Transition records one step of the cycle for display and event logging.
type Transition struct {
	FormulaID string
	From      Phase
	To        Phase
	Signal    Signal
}

// Changed reports whether the transition moved the concept to a new phase.
func (t Transition) Changed() bool {
	return t.From != t.To
}
