package difficulty

import "math"

// Thresholds are the lower bounds of each tier above easy on the accuracy
// signal. The last interval is closed at 1.0.
var Thresholds = [...]struct {
	Min  float64
	Tier Tier
}{
	{0.94, TierMaster},
	{0.86, TierVeryHard},
	{0.72, TierHard},
	{0.55, TierMedium},
}

// Classify maps an accuracy signal (a lifetime ratio or an EWMA) to a tier.
// Out-of-range signals are clamped to [0, 1]; NaN classifies as easy.
func Classify(signal float64) Tier {
	if math.IsNaN(signal) || signal <= 0 {
		return TierEasy
	}
	if signal > 1 {
		signal = 1
	}
	for _, th := range Thresholds {
		if signal >= th.Min {
			return th.Tier
		}
	}
	return TierEasy
}

// RatioOf returns the fraction of true values in a recent outcome window.
// An empty window has ratio 0.
func RatioOf(outcomes []bool) float64 {
	if len(outcomes) == 0 {
		return 0
	}
	correct := 0
	for _, ok := range outcomes {
		if ok {
			correct++
		}
	}
	return float64(correct) / float64(len(outcomes))
}

// ClassifyOutcomes classifies a recent outcome window.
func ClassifyOutcomes(outcomes []bool) Tier {
	return Classify(RatioOf(outcomes))
}
