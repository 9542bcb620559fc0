package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"
)

// RecurrencePattern describes a repeating set of slots: a date range crossed
// with weekdays and a daily window chunked into fixed-length slots. It is a
// transient input and is never persisted.
type RecurrencePattern struct {
	CompanyRef           string
	JobRef               *string
	StartDate            time.Time
	EndDate              time.Time
	DaysOfWeek           []int // ISO weekdays, Monday=1 .. Sunday=7
	DailyStartTime       string
	DailyEndTime         string
	SlotDurationMinutes  int
	BreakMinutes         int
	MaxCandidatesPerSlot int
	AIInterviewType      AIInterviewType
	AIConfiguration      json.RawMessage
	Notes                string
}

// SlotCandidate is one expanded occurrence of a recurrence pattern, not yet
// checked against the calendar or persisted.
type SlotCandidate struct {
	StartTime time.Time
	EndTime   time.Time
}

// SkippedSlot records a candidate dropped during generation together with
// the reason, so a partial batch result stays explainable.
type SkippedSlot struct {
	StartTime time.Time
	EndTime   time.Time
	Reason    string
}

// ExpandPattern expands a recurrence pattern into discrete slot candidates.
// For every calendar date in [StartDate, EndDate] whose weekday is selected,
// the daily window is stepped from DailyStartTime in increments of slot
// duration plus break, emitting a candidate while its end still fits inside
// DailyEndTime. An empty DaysOfWeek yields zero candidates and no error; a
// daily window smaller than one slot yields zero candidates for that day.
func ExpandPattern(p RecurrencePattern) ([]SlotCandidate, error) {
	if p.SlotDurationMinutes < 1 {
		return nil, errors.New("slot duration must be at least one minute")
	}
	if p.BreakMinutes < 0 {
		return nil, errors.New("break minutes must not be negative")
	}

	startDate := dateOnlyUTC(p.StartDate)
	endDate := dateOnlyUTC(p.EndDate)
	if startDate.After(endDate) {
		return nil, errors.New("start date is after end date")
	}

	dayStart, err := parseMinuteOfDay(p.DailyStartTime)
	if err != nil {
		return nil, fmt.Errorf("invalid daily start time: %w", err)
	}
	dayEnd, err := parseMinuteOfDay(p.DailyEndTime)
	if err != nil {
		return nil, fmt.Errorf("invalid daily end time: %w", err)
	}
	if dayEnd <= dayStart {
		return nil, errors.New("daily end time must be after daily start time")
	}

	weekdays := make(map[int]struct{}, len(p.DaysOfWeek))
	for _, wd := range p.DaysOfWeek {
		if wd < 1 || wd > 7 {
			return nil, errors.New("invalid weekday")
		}
		weekdays[wd] = struct{}{}
	}
	if len(weekdays) == 0 {
		return nil, nil
	}

	step := p.SlotDurationMinutes + p.BreakMinutes
	duration := time.Duration(p.SlotDurationMinutes) * time.Minute

	out := make([]SlotCandidate, 0, 16)
	for day := startDate; !day.After(endDate); day = day.AddDate(0, 0, 1) {
		if _, ok := weekdays[isoWeekday(day)]; !ok {
			continue
		}
		for minute := dayStart; minute+p.SlotDurationMinutes <= dayEnd; minute += step {
			start := day.Add(time.Duration(minute) * time.Minute)
			out = append(out, SlotCandidate{
				StartTime: start,
				EndTime:   start.Add(duration),
			})
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

func dateOnlyUTC(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

func isoWeekday(t time.Time) int {
	if t.Weekday() == time.Sunday {
		return 7
	}
	return int(t.Weekday())
}

// parseMinuteOfDay parses "HH:MM" into minutes since midnight. Seconds in
// inputs like "09:00:00" are ignored.
func parseMinuteOfDay(s string) (int, error) {
	if len(s) < 5 {
		return 0, fmt.Errorf("invalid time string: %q", s)
	}
	t, err := time.Parse("15:04", s[:5])
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}
