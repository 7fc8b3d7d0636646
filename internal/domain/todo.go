package domain

import "time"

// Todo is an owned task entry. OwnerID is set at creation and never
// transferred.
type Todo struct {
	ID          string
	OwnerID     string
	CategoryID  string
	Title       string
	Description string
	StartDate   time.Time
	EndDate     time.Time
	StartTime   *time.Time
	EndTime     *time.Time
	Done        bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsDue reports whether the todo is past its end date and still open.
func (t *Todo) IsDue(now time.Time) bool {
	if t.Done {
		return false
	}
	end := time.Date(t.EndDate.Year(), t.EndDate.Month(), t.EndDate.Day(), 23, 59, 59, 0, time.UTC)
	return now.After(end)
}
