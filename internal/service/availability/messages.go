package availability

import (
	"fmt"
	"strings"
	"time"
)

// catalog renders schedule warnings for one locale.
type catalog struct {
	days       [7]string
	offDay     string
	offSlot    string
	listJoiner string
}

var catalogs = map[string]catalog{
	"en": {
		days:       [7]string{"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday"},
		offDay:     "today (%s) is not one of your working days: %s",
		offSlot:    "current time %s is outside your time slots: %s",
		listJoiner: ", ",
	},
	"nl": {
		days:       [7]string{"zondag", "maandag", "dinsdag", "woensdag", "donderdag", "vrijdag", "zaterdag"},
		offDay:     "vandaag (%s) is geen werkdag volgens je rooster: %s",
		offSlot:    "het huidige tijdstip %s valt buiten je tijdsloten: %s",
		listJoiner: ", ",
	},
}

// catalogFor falls back to English for unknown locales.
func catalogFor(locale string) catalog {
	tag := strings.ToLower(strings.TrimSpace(locale))
	if base, _, ok := strings.Cut(tag, "-"); ok {
		tag = base
	}
	if base, _, ok := strings.Cut(tag, "_"); ok {
		tag = base
	}
	if c, ok := catalogs[tag]; ok {
		return c
	}
	return catalogs["en"]
}

func (c catalog) dayWarning(today time.Weekday, declared []time.Weekday) string {
	names := make([]string, len(declared))
	for i, d := range declared {
		names[i] = c.days[d]
	}
	return fmt.Sprintf(c.offDay, c.days[today], strings.Join(names, c.listJoiner))
}

func (c catalog) slotWarning(now time.Time, slots []string) string {
	return fmt.Sprintf(c.offSlot, now.Format("15:04"), strings.Join(slots, c.listJoiner))
}
