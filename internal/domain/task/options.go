package task

import "time"

// ListOptions filters task listings. Zero values mean "no filter".
type ListOptions struct {
	OwnerID string
	// DueFrom and DueTo bound the due date (inclusive). Tasks without a due
	// date are excluded when either bound is set.
	DueFrom *time.Time
	DueTo   *time.Time
	Limit   int
	Offset  int
}
