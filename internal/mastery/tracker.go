package mastery

import (
	"sort"
	"time"
)

// DefaultRequired is the number of consecutive correct non-recall answers
// that moves a concept into its recall check.
const DefaultRequired = 3

// Tracker holds per-formula mastery cycles for one session. It is never
// persisted: long-term mastery is derived from formula statistics instead.
type Tracker struct {
	Required int
	Now      func() time.Time

	states map[string]*State
}

// NewTracker creates a Tracker. A threshold below 1 uses DefaultRequired.
func NewTracker(required int) *Tracker {
	if required < 1 {
		required = DefaultRequired
	}
	return &Tracker{
		Required: required,
		Now:      time.Now,
		states:   make(map[string]*State),
	}
}

// Record advances the cycle for formulaID and returns the transition.
func (t *Tracker) Record(formulaID string, correct, isRecall bool) Transition {
	st := t.get(formulaID)
	from := st.Phase()
	sig := t.apply(st, correct, isRecall)
	return Transition{
		FormulaID: formulaID,
		From:      from,
		To:        st.Phase(),
		Signal:    sig,
	}
}

func (t *Tracker) apply(st *State, correct, isRecall bool) Signal {
	if st.Mastered {
		return SignalAlreadyMastered
	}

	if !correct {
		now := t.now()
		st.ConsecutiveCorrect = 0
		st.InCycle = true
		st.InRecall = false
		st.LastFailedAt = &now
		return SignalWrong
	}

	if st.InRecall {
		if !isRecall {
			return SignalNoChange
		}
		st.InRecall = false
		st.InCycle = false
		st.Mastered = true
		return SignalRecallCorrect
	}

	if isRecall {
		// A recall answer before the cycle has earned a recall check.
		return SignalNoChange
	}

	st.InCycle = true
	st.ConsecutiveCorrect++
	if st.ConsecutiveCorrect >= t.Required {
		st.InCycle = false
		st.InRecall = true
		return SignalCycleToRecall
	}
	return SignalCycleContinues
}

// State returns a copy of the state for formulaID. Unknown formulas are idle.
func (t *Tracker) State(formulaID string) State {
	if st, ok := t.states[formulaID]; ok {
		return *st
	}
	return State{}
}

// NeedsRecall reports whether formulaID is waiting on its recall check.
func (t *Tracker) NeedsRecall(formulaID string) bool {
	return t.State(formulaID).InRecall
}

// Mastered returns the formulas mastered this session, sorted.
func (t *Tracker) Mastered() []string {
	var out []string
	for id, st := range t.states {
		if st.Mastered {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

// Reset clears the cycle for one formula, including mastery.
func (t *Tracker) Reset(formulaID string) {
	delete(t.states, formulaID)
}

// ResetAll clears every cycle.
func (t *Tracker) ResetAll() {
	t.states = make(map[string]*State)
}

func (t *Tracker) get(formulaID string) *State {
	if t.states == nil {
		t.states = make(map[string]*State)
	}
	st, ok := t.states[formulaID]
	if !ok {
		st = &State{}
		t.states[formulaID] = st
	}
	return st
}

func (t *Tracker) now() time.Time {
	if t.Now != nil {
		return t.Now()
	}
	return time.Now()
}
