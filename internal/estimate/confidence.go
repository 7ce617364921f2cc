package estimate

import (
	"math"
	"time"

	"github.com/abhisek/drillz/internal/model"
)

// Confidence fuses accuracy, speed and recency into a 0-100 score.
//
//	speed   = clamp((60 - min(60, seconds)) / 55, 0, 1)  // 60s+ => 0, 5s => 1
//	recency = clamp((30 - days) / 30, 0, 1)              // 30+ days => 0
//	score   = round(100 * (0.6*accuracy/100 + 0.3*speed + 0.1*recency))
//
// Inputs outside their natural range are clamped rather than rejected.
func Confidence(accuracyPercent, avgSpeedSeconds, recencyDays float64) int {
	accuracy := clamp(nanTo(accuracyPercent, 0), 0, 100) / 100
	speed := clamp((60-math.Min(60, nanTo(avgSpeedSeconds, 60)))/55, 0, 1)
	recency := clamp((30-nanTo(recencyDays, 30))/30, 0, 1)

	score := math.Round(100 * (0.6*accuracy + 0.3*speed + 0.1*recency))
	return int(clamp(score, 0, 100))
}

// QuestionsPerTopic returns how many practice items to assign to a topic at
// the given confidence. Lower confidence means more practice, never fewer
// than one.
func QuestionsPerTopic(confidence int) int {
	if confidence < 0 {
		confidence = 0
	}
	n := 6 - confidence/20
	if n < 1 {
		return 1
	}
	return n
}

// CategoryConfidence computes Confidence from a stats record. A record without
// attempts has no evidence behind it and scores 0.
func CategoryConfidence(s *model.Stats, now time.Time) int {
	if s == nil || s.Attempts == 0 {
		return 0
	}
	days := 30.0
	if !s.LastAttemptAt.IsZero() {
		days = now.Sub(s.LastAttemptAt).Hours() / 24
	}
	return Confidence(s.Accuracy()*100, s.AvgTimeMs/1000, days)
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

func nanTo(v, fallback float64) float64 {
	if math.IsNaN(v) {
		return fallback
	}
	return v
}
