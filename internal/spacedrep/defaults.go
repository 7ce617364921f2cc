package spacedrep

import "time"

// DefaultMistakeDelayMinutes is how long a missed question waits before it is
// forced back into selection. Short enough to revisit within a session, long
// enough not to repeat immediately.
const DefaultMistakeDelayMinutes = 20

// DefaultDecayAfter is how long a practised formula may go unattempted before
// a decay review is queued for it.
const DefaultDecayAfter = 14 * 24 * time.Hour

// Priorities attached to queued reviews. Higher is more urgent; priority is
// informational and does not override due-time ordering.
const (
	PriorityDecay   = 1
	PriorityMistake = 2
	PriorityManual  = 3
)
