package task

import "time"

// DeriveStatus resolves the presentation status of a task at now.
//
// Completion wins over everything, so a completed task is never reported
// as overdue. Late completions keep their done_late marker.
func DeriveStatus(t Task, now time.Time) Status {
	if t.Completed || t.Status == StatusCompleted {
		return StatusCompleted
	}
	if t.Status == StatusDoneLate {
		return StatusDoneLate
	}
	if due, ok := t.Due(); ok && due.Before(now) {
		return StatusMissing
	}
	switch t.Status {
	case StatusInProgress:
		return StatusInProgress
	case StatusMissing:
		return StatusMissing
	default:
		return StatusTodo
	}
}

// StatusBucket folds a derived status into the four dashboard columns
// (todo, in_progress, missing, completed).
func StatusBucket(t Task, now time.Time) Status {
	st := DeriveStatus(t, now)
	if st == StatusDoneLate {
		return StatusCompleted
	}
	return st
}

// IsOverdue reports whether an unfinished task is past its due date.
func IsOverdue(t Task, now time.Time) bool {
	return DeriveStatus(t, now) == StatusMissing
}
