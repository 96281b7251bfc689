package domain

import "time"

// WaitingListEntry represents a pending claim queued against a full slot.
// Entries are served in priority order (higher first), FIFO within a priority.
type WaitingListEntry struct {
	ID        int64
	StudentID int64
	SlotID    int64
	Priority  int // 1-10, higher = served first
	CreatedAt time.Time
	ExpiresAt time.Time // CreatedAt + 7 days
}

// IsExpired returns true if the entry is past its expiry
func (e *WaitingListEntry) IsExpired(now time.Time) bool {
	return !e.ExpiresAt.After(now)
}
