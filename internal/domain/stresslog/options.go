package stresslog

import "time"

// ListOptions filters stress log listings. An empty OwnerID lists every
// owner's entries.
type ListOptions struct {
	OwnerID string
	From    *time.Time
	To      *time.Time
	Limit   int
}
