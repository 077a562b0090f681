package schedule

import "time"

// Weekday numbers days from Monday (0) to Sunday (6).
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// DayOff is shown for days the sheet leaves blank.
const DayOff = "выходной"

// dayKeys are the sheet column headers, indexed by Weekday.
var dayKeys = [7]string{"пн", "вт", "ср", "чт", "пт", "сб", "вс"}

// Key returns the sheet column header for the day.
func (d Weekday) Key() string {
	if d < Monday || d > Sunday {
		return ""
	}
	return dayKeys[d]
}

// Label returns the capitalised short name used in replies.
func (d Weekday) Label() string {
	switch d {
	case Monday:
		return "Пн"
	case Tuesday:
		return "Вт"
	case Wednesday:
		return "Ср"
	case Thursday:
		return "Чт"
	case Friday:
		return "Пт"
	case Saturday:
		return "Сб"
	case Sunday:
		return "Вс"
	}
	return ""
}

// WeekdayOf converts a time to the Monday-based numbering.
func WeekdayOf(t time.Time) Weekday {
	return Weekday((int(t.Weekday()) + 6) % 7)
}

// WeeklyHours holds free-text hours per day.
type WeeklyHours [7]string

func (h WeeklyHours) On(d Weekday) string {
	if d < Monday || d > Sunday {
		return DayOff
	}
	return h[d]
}

type Doctor struct {
	ID             int64       `json:"id"`
	Name           string      `json:"name"`
	Specialization string      `json:"specialization"`
	Hours          WeeklyHours `json:"hours"`
}

// TodaySchedule is the single-day projection of a doctor's week.
type TodaySchedule struct {
	ID             int64
	Name           string
	Specialization string
	Day            Weekday
	Hours          string
}
