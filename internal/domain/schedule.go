package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"service-dispatch/internal/apperr"
)

const minutesPerDay = 24 * 60

// WeekdaySet is a bitmask of time.Weekday values. Zero means "any day".
type WeekdaySet uint8

// NewWeekdaySet builds a set from the given days.
func NewWeekdaySet(days ...time.Weekday) WeekdaySet {
	var s WeekdaySet
	for _, d := range days {
		s = s.With(d)
	}
	return s
}

// With returns a copy of the set including d.
func (s WeekdaySet) With(d time.Weekday) WeekdaySet { return s | 1<<uint(d) }

// Has reports whether d is a member.
func (s WeekdaySet) Has(d time.Weekday) bool { return s&(1<<uint(d)) != 0 }

// Empty reports whether no day was declared.
func (s WeekdaySet) Empty() bool { return s == 0 }

// Names returns lower-case day names in Sunday-first order.
func (s WeekdaySet) Names() []string {
	out := make([]string, 0, 7)
	for d := time.Sunday; d <= time.Saturday; d++ {
		if s.Has(d) {
			out = append(out, strings.ToLower(d.String()))
		}
	}
	return out
}

// ParseWeekdays accepts full english day names or their three letter prefixes.
func ParseWeekdays(names []string) (WeekdaySet, error) {
	var s WeekdaySet
	for _, raw := range names {
		d, ok := parseWeekday(raw)
		if !ok {
			return 0, fmt.Errorf("%w: weekday %q", apperr.ErrInvalid, raw)
		}
		s = s.With(d)
	}
	return s, nil
}

func parseWeekday(raw string) (time.Weekday, bool) {
	v := strings.ToLower(strings.TrimSpace(raw))
	if len(v) < 3 {
		return 0, false
	}
	for d := time.Sunday; d <= time.Saturday; d++ {
		name := strings.ToLower(d.String())
		if v == name || v == name[:3] {
			return d, true
		}
	}
	return 0, false
}

// SlotKind tags the declared form of a TimeSlot.
type SlotKind uint8

// Slot kinds.
const (
	SlotHourRange SlotKind = iota + 1
	SlotSinglePoint
	SlotNamedPeriod
)

// named periods, minutes of day
var namedPeriods = map[string][2]int{
	"morning":   {6 * 60, 12 * 60},
	"afternoon": {12 * 60, 18 * 60},
	"evening":   {18 * 60, 23 * 60},
}

// TimeSlot is a parsed availability window. Start and End are minutes of day;
// End <= Start means the window wraps past midnight.
type TimeSlot struct {
	Kind  SlotKind
	Start int
	End   int
	Raw   string
}

// String returns the slot as the courier declared it.
func (s TimeSlot) String() string { return s.Raw }

// Contains reports whether minute (0..1439) falls into [Start, End).
func (s TimeSlot) Contains(minute int) bool {
	if s.Start < s.End {
		return minute >= s.Start && minute < s.End
	}
	return minute >= s.Start || minute < s.End
}

// ParseTimeSlot normalizes one of "HH:MM-HH:MM", "H-H", "H", "HH:MM" or a named
// period (morning, afternoon, evening).
func ParseTimeSlot(raw string) (TimeSlot, error) {
	v := strings.ToLower(strings.TrimSpace(raw))
	if v == "" {
		return TimeSlot{}, invalidSlot(raw)
	}

	if p, ok := namedPeriods[v]; ok {
		return TimeSlot{Kind: SlotNamedPeriod, Start: p[0], End: p[1], Raw: v}, nil
	}

	if from, to, ok := strings.Cut(v, "-"); ok {
		start, err := parseClock(from)
		if err != nil || start >= minutesPerDay {
			return TimeSlot{}, invalidSlot(raw)
		}
		end, err := parseClock(to)
		if err != nil || end == start {
			return TimeSlot{}, invalidSlot(raw)
		}
		if end == minutesPerDay {
			end = 0
			if start == 0 {
				end = minutesPerDay
			}
		}
		return TimeSlot{Kind: SlotHourRange, Start: start, End: end, Raw: v}, nil
	}

	start, err := parseClock(v)
	if err != nil || start >= minutesPerDay {
		return TimeSlot{}, invalidSlot(raw)
	}
	return TimeSlot{
		Kind:  SlotSinglePoint,
		Start: start,
		End:   (start + 60) % minutesPerDay,
		Raw:   v,
	}, nil
}

// ParseTimeSlots parses every slot and fails on the first malformed one.
func ParseTimeSlots(raw []string) ([]TimeSlot, error) {
	out := make([]TimeSlot, 0, len(raw))
	for _, r := range raw {
		s, err := ParseTimeSlot(r)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// SlotStrings renders slots back to their declared form.
func SlotStrings(slots []TimeSlot) []string {
	out := make([]string, len(slots))
	for i, s := range slots {
		out[i] = s.Raw
	}
	return out
}

// MinuteOfDay returns the wall clock minute of t in its own location.
func MinuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// parseClock accepts "H", "HH", "H:MM", "HH:MM"; 24:00 is allowed as end of day.
func parseClock(s string) (int, error) {
	s = strings.TrimSpace(s)
	hs, ms, hasMinutes := strings.Cut(s, ":")
	if hs == "" || len(hs) > 2 {
		return 0, fmt.Errorf("bad hour %q", s)
	}
	h, err := strconv.Atoi(hs)
	if err != nil || h < 0 || h > 24 {
		return 0, fmt.Errorf("bad hour %q", s)
	}
	m := 0
	if hasMinutes {
		if len(ms) != 2 {
			return 0, fmt.Errorf("bad minutes %q", s)
		}
		m, err = strconv.Atoi(ms)
		if err != nil || m < 0 || m > 59 {
			return 0, fmt.Errorf("bad minutes %q", s)
		}
	}
	if h == 24 && m != 0 {
		return 0, fmt.Errorf("bad clock %q", s)
	}
	return h*60 + m, nil
}

func invalidSlot(raw string) error {
	return fmt.Errorf("%w: time slot %q", apperr.ErrInvalid, raw)
}
