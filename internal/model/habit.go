package model

import (
	"strings"
	"time"
)

// NameDelimiter separates segments of a multi-part habit name,
// e.g. "Gym||Upper body" renders as two lines in clients.
const NameDelimiter = "||"

type Habit struct {
	ID         string    `db:"id"`
	UserID     string    `db:"user_id"`
	ListID     *string   `db:"list_id"`
	Name       string    `db:"name"`
	Order      int       `db:"sort_order"`
	WeeklyGoal int       `db:"weekly_goal"`
	Star       bool      `db:"star"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

// NameSegments splits a multi-part name on the delimiter.
// A plain name yields a single segment.
func (h *Habit) NameSegments() []string {
	parts := strings.Split(h.Name, NameDelimiter)
	segments := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			segments = append(segments, trimmed)
		}
	}
	if len(segments) == 0 {
		segments = append(segments, h.Name)
	}
	return segments
}
