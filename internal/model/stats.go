package model

import (
	"time"

	"github.com/abhisek/drillz/internal/difficulty"
)

// Stats is a rolling performance record for a category or a formula.
// The zero value is an uninitialized record; Initialized flips on the
// first recorded attempt.
type Stats struct {
	Initialized   bool      `json:"initialized"`
	Attempts      int       `json:"attempts"`
	Correct       int       `json:"correct"`
	AvgTimeMs     float64   `json:"avg_time_ms"`
	LastAttemptAt time.Time `json:"last_attempt_at"`
	Streak        int       `json:"streak"`
	EWMA          float64   `json:"ewma"`
}

// Accuracy returns the lifetime correct ratio, 0 with no attempts.
func (s *Stats) Accuracy() float64 {
	if s == nil || s.Attempts == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Attempts)
}

// Signal returns the accuracy signal used for classification: the EWMA once
// the record has been initialized, otherwise the raw ratio.
func (s *Stats) Signal() float64 {
	if s == nil {
		return 0
	}
	if s.Initialized {
		return s.EWMA
	}
	return s.Accuracy()
}

// Tier classifies the record. Records with no attempts are easy.
func (s *Stats) Tier() difficulty.Tier {
	if s == nil || s.Attempts == 0 {
		return difficulty.TierEasy
	}
	return difficulty.Classify(s.Signal())
}
