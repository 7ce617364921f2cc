package stats

import (
	"time"

	"github.com/abhisek/drillz/internal/model"
)

const (
	// DefaultAlpha is the EWMA smoothing constant for accuracy.
	DefaultAlpha = 0.25

	// DefaultLatencyAlpha is the EWMA smoothing constant for answer latency.
	DefaultLatencyAlpha = 0.3
)

// Tracker updates rolling performance counters. It performs no I/O.
type Tracker struct {
	Alpha        float64
	LatencyAlpha float64
	Now          func() time.Time
}

// NewTracker creates a Tracker with the given smoothing constants.
// Out-of-range values fall back to the defaults.
func NewTracker(alpha, latencyAlpha float64) *Tracker {
	if alpha <= 0 || alpha > 1 {
		alpha = DefaultAlpha
	}
	if latencyAlpha <= 0 || latencyAlpha > 1 {
		latencyAlpha = DefaultLatencyAlpha
	}
	return &Tracker{Alpha: alpha, LatencyAlpha: latencyAlpha, Now: time.Now}
}

// RecordAttempt applies one attempt to s and returns it. A nil record is
// treated as zeroed and a fresh record is returned.
func (t *Tracker) RecordAttempt(s *model.Stats, correct bool, timeMs int) *model.Stats {
	if s == nil {
		s = &model.Stats{}
	}
	if timeMs < 0 {
		timeMs = 0
	}

	x := 0.0
	if correct {
		x = 1.0
	}

	if !s.Initialized {
		s.Initialized = true
		s.EWMA = 0
		s.AvgTimeMs = float64(timeMs)
	} else {
		s.AvgTimeMs = t.LatencyAlpha*float64(timeMs) + (1-t.LatencyAlpha)*s.AvgTimeMs
	}

	s.Attempts++
	if correct {
		s.Correct++
		s.Streak++
	} else {
		s.Streak = 0
	}

	s.EWMA = clamp(t.Alpha*x+(1-t.Alpha)*s.EWMA, 0, 1)
	s.LastAttemptAt = t.now()
	return s
}

// Record applies an attempt on q to both its category and formula records.
func (t *Tracker) Record(m *model.UserModel, q *model.Question, correct bool, timeMs int) (cat, formula *model.Stats) {
	cat = t.RecordAttempt(m.CategoryStats(q.Category), correct, timeMs)
	if q.FormulaID != "" {
		formula = t.RecordAttempt(m.FormulaStats(q.FormulaID), correct, timeMs)
	}
	return cat, formula
}

func (t *Tracker) now() time.Time {
	if t.Now != nil {
		return t.Now()
	}
	return time.Now()
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
