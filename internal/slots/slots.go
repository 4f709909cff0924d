// Package slots defines the fixed daily booking grid: whole-hour slots from
// 06:00 to 22:00 on three courts.
package slots

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"tenniscourts/pkg/model"
)

const (
	OpenHour  = 6
	CloseHour = 22
	Courts    = 3

	SlotLength = time.Hour

	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

var (
	ErrInvalidDate  = errors.New("date must be in YYYY-MM-DD format")
	ErrInvalidTime  = errors.New("time must be in HH:MM format")
	ErrNotWholeHour = errors.New("bookings start on the hour")
	ErrOutsideGrid  = fmt.Errorf("bookings start between %02d:00 and %02d:00", OpenHour, CloseHour-1)
	ErrInvalidCourt = fmt.Errorf("court number must be between 1 and %d", Courts)
)

// Key identifies one court-hour on a given day.
type Key struct {
	Time  string
	Court int
}

// SlotCount is the number of slots in a day.
func SlotCount() int {
	return (CloseHour - OpenHour) * Courts
}

// Times returns the slot start times of a day in ascending order.
func Times() []string {
	times := make([]string, 0, CloseHour-OpenHour)
	for h := OpenHour; h < CloseHour; h++ {
		times = append(times, fmt.Sprintf("%02d:00", h))
	}
	return times
}

// ComputeAvailability lays out every slot of the day, ordered by time and
// then court 1..3. A slot is unavailable when occupied holds its key.
func ComputeAvailability(occupied map[Key]bool) []model.Slot {
	out := make([]model.Slot, 0, SlotCount())
	for _, t := range Times() {
		for court := 1; court <= Courts; court++ {
			out = append(out, model.Slot{
				Time:        t,
				CourtNumber: court,
				Available:   !occupied[Key{Time: t, Court: court}],
			})
		}
	}
	return out
}

func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return d, nil
}

// NormalizeStartTime accepts "HH:MM" or "HH:MM:SS" and returns "HH:MM" when
// the value is a whole hour inside the grid.
func NormalizeStartTime(s string) (string, error) {
	s = strings.TrimSpace(s)
	var parsed time.Time
	var err error
	if len(s) > len(TimeLayout) {
		parsed, err = time.Parse("15:04:05", s)
	} else {
		parsed, err = time.Parse(TimeLayout, s)
	}
	if err != nil {
		return "", ErrInvalidTime
	}
	if parsed.Minute() != 0 || parsed.Second() != 0 {
		return "", ErrNotWholeHour
	}
	if parsed.Hour() < OpenHour || parsed.Hour() >= CloseHour {
		return "", ErrOutsideGrid
	}
	return parsed.Format(TimeLayout), nil
}

// EndTime returns the end of the one-hour slot starting at start.
func EndTime(start string) (string, error) {
	parsed, err := time.Parse(TimeLayout, start)
	if err != nil {
		return "", ErrInvalidTime
	}
	return parsed.Add(SlotLength).Format(TimeLayout), nil
}

// HourOf returns the hour component of an "HH:MM" string.
func HourOf(s string) (int, error) {
	hh, _, found := strings.Cut(strings.TrimSpace(s), ":")
	if !found || len(hh) == 0 || len(hh) > 2 {
		return 0, ErrInvalidTime
	}
	var h int
	for _, r := range hh {
		if r < '0' || r > '9' {
			return 0, ErrInvalidTime
		}
		h = h*10 + int(r-'0')
	}
	if h > 23 {
		return 0, ErrInvalidTime
	}
	return h, nil
}

func ValidCourt(court int) bool {
	return court >= 1 && court <= Courts
}
