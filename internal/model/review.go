package model

import "time"

// ReviewReason explains why an item was queued for forced re-practice.
type ReviewReason string

const (
	ReasonMistake ReviewReason = "mistake"
	ReasonDecay   ReviewReason = "decay"
	ReasonManual  ReviewReason = "manual"
)

// ReviewItem is one entry in the review queue. The queue may hold several
// entries for the same question.
type ReviewItem struct {
	QuestionID int          `json:"question_id"`
	DueAt      int64        `json:"due_at"` // epoch ms
	Priority   int          `json:"priority"`
	Reason     ReviewReason `json:"reason"`

	// Seq is the insertion order, used to break ties between equal DueAt.
	Seq int64 `json:"seq"`
}

// IsDue reports whether the item is due at now.
func (r ReviewItem) IsDue(now time.Time) bool {
	return r.DueAt <= now.UnixMilli()
}
