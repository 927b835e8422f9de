package valueobject

import (
	"encoding/json"
	"time"

	"github.com/procureflow/backend/internal/domain/shared"
)

// Timeline is a value object representing a start/end instant pair, such as
// an order's production window. Invariant: end is never before start.
// Timeline is immutable.
type Timeline struct {
	start time.Time
	end   time.Time
}

// NewTimeline creates a new Timeline. Fails if end is before start.
func NewTimeline(start, end time.Time) (Timeline, error) {
	if end.Before(start) {
		return Timeline{}, shared.NewDomainError("INVALID_TIMELINE", "Timeline end cannot be before start")
	}
	return Timeline{start: start, end: end}, nil
}

// NewTimelineFromDuration creates a Timeline starting at start and ending
// after the given number of days.
func NewTimelineFromDuration(start time.Time, days int) (Timeline, error) {
	if days < 0 {
		return Timeline{}, shared.NewDomainError("INVALID_TIMELINE", "Timeline duration cannot be negative")
	}
	return Timeline{start: start, end: start.AddDate(0, 0, days)}, nil
}

// EmptyTimeline returns a zero-valued timeline (for orders without a
// production window yet)
func EmptyTimeline() Timeline {
	return Timeline{}
}

// Start returns the start instant
func (t Timeline) Start() time.Time {
	return t.start
}

// End returns the end instant
func (t Timeline) End() time.Time {
	return t.end
}

// IsZero returns true if neither endpoint has been set
func (t Timeline) IsZero() bool {
	return t.start.IsZero() && t.end.IsZero()
}

// DurationInDays returns the whole number of days between start and end,
// rounding partial days up.
func (t Timeline) DurationInDays() int {
	d := t.end.Sub(t.start)
	days := int(d / (24 * time.Hour))
	if d%(24*time.Hour) > 0 {
		days++
	}
	return days
}

// Contains returns true if the instant falls within the timeline, inclusive
// of both endpoints.
func (t Timeline) Contains(instant time.Time) bool {
	return !instant.Before(t.start) && !instant.After(t.end)
}

// Overlaps returns true if the two timelines share at least one instant
func (t Timeline) Overlaps(other Timeline) bool {
	return !t.start.After(other.end) && !other.start.After(t.end)
}

// Equals returns true if both endpoints match
func (t Timeline) Equals(other Timeline) bool {
	return t.start.Equal(other.start) && t.end.Equal(other.end)
}

// timelineJSON is the JSON representation of Timeline
type timelineJSON struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// MarshalJSON implements json.Marshaler
func (t Timeline) MarshalJSON() ([]byte, error) {
	return json.Marshal(timelineJSON{Start: t.start, End: t.end})
}

// UnmarshalJSON implements json.Unmarshaler
func (t *Timeline) UnmarshalJSON(data []byte) error {
	var v timelineJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	parsed, err := NewTimeline(v.Start, v.End)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
