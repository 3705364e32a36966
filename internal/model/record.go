package model

import (
	"time"
)

// DayFormat is the calendar date layout used on the wire and in storage.
const DayFormat = "2006-01-02"

// CompletionState is the tri-state mark of one habit on one day.
// Storage is sparse: a missing record means StateUnset, an existing
// record holds Done=true (checked) or Done=false (skipped).
type CompletionState string

const (
	StateUnset   CompletionState = "unset"
	StateChecked CompletionState = "checked"
	StateSkipped CompletionState = "skipped"
)

// NextState applies the completion cycle unset -> checked -> skipped -> unset.
func NextState(s CompletionState) CompletionState {
	switch s {
	case StateUnset:
		return StateChecked
	case StateChecked:
		return StateSkipped
	default:
		return StateUnset
	}
}

type CheckedRecord struct {
	ID        string    `db:"id"`
	HabitID   string    `db:"habit_id"`
	Day       string    `db:"day"` // DayFormat
	Done      bool      `db:"done"`
	Note      *string   `db:"note"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// State maps a stored record to its completion state. A nil record is unset.
func (r *CheckedRecord) State() CompletionState {
	if r == nil {
		return StateUnset
	}
	if r.Done {
		return StateChecked
	}
	return StateSkipped
}

// DayTime parses the record's day. Records are only persisted with
// validated dates, so a parse failure indicates corrupted storage.
func (r *CheckedRecord) DayTime() (time.Time, error) {
	return time.Parse(DayFormat, r.Day)
}
