package availability

import (
	"time"

	"service-dispatch/internal/domain"
)

// Validator compares "now" with a courier's declared schedule.
// The result is advisory and never blocks going online.
type Validator struct {
	loc     *time.Location
	catalog catalog
}

// NewValidator creates a Validator evaluating schedules in loc with warnings in locale.
func NewValidator(loc *time.Location, locale string) *Validator {
	if loc == nil {
		loc = time.UTC
	}
	return &Validator{loc: loc, catalog: catalogFor(locale)}
}

// Check reports whether now falls within the declared days and slots.
// Days are checked first; a day mismatch is the only warning reported then.
func (v *Validator) Check(p *domain.Profile, now time.Time) domain.AvailabilityCheck {
	if p == nil {
		return domain.AvailabilityCheck{WithinSchedule: true}
	}
	local := now.In(v.loc)

	if !p.Days.Empty() && !p.Days.Has(local.Weekday()) {
		msg := v.catalog.dayWarning(local.Weekday(), declaredDays(p.Days))
		return domain.AvailabilityCheck{WithinSchedule: false, Warning: &msg}
	}

	// нераспознанные слоты расписание не отменяют
	if len(p.Slots) > 0 || len(p.UnparsedSlots) > 0 {
		minute := domain.MinuteOfDay(local)
		for _, s := range p.Slots {
			if s.Contains(minute) {
				return domain.AvailabilityCheck{WithinSchedule: true}
			}
		}
		declared := append(domain.SlotStrings(p.Slots), p.UnparsedSlots...)
		msg := v.catalog.slotWarning(local, declared)
		return domain.AvailabilityCheck{WithinSchedule: false, Warning: &msg}
	}

	return domain.AvailabilityCheck{WithinSchedule: true}
}

func declaredDays(set domain.WeekdaySet) []time.Weekday {
	out := make([]time.Weekday, 0, 7)
	for d := time.Sunday; d <= time.Saturday; d++ {
		if set.Has(d) {
			out = append(out, d)
		}
	}
	return out
}
