// Package openinghours converts between the compact weekly-schedule wire
// format used on a court's opening_hours field (OSM style, e.g.
// "Mo-Fr 07:30-22:00; Sa 09:00-23:00") and a structured per-day schedule.
//
// Parsing is best effort: malformed tokens are skipped silently so that a
// partially valid string still yields the valid portion. Parse, Format and
// DisplayLines are pure functions and safe to call arbitrarily often.
package openinghours

import "strings"

// Day is a two-letter weekday code in fixed calendar order Mo..Su.
type Day string

const (
	Monday    Day = "Mo"
	Tuesday   Day = "Tu"
	Wednesday Day = "We"
	Thursday  Day = "Th"
	Friday    Day = "Fr"
	Saturday  Day = "Sa"
	Sunday    Day = "Su"
)

// Days lists all weekday codes in the fixed order used by the wire format.
// Day ranges like "Mo-Fr" are resolved against this order.
var Days = []Day{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

var dayNames = map[Day]string{
	Monday:    "Monday",
	Tuesday:   "Tuesday",
	Wednesday: "Wednesday",
	Thursday:  "Thursday",
	Friday:    "Friday",
	Saturday:  "Saturday",
	Sunday:    "Sunday",
}

// Name returns the full English name for a day code, or "" for an
// unrecognized code.
func (d Day) Name() string {
	return dayNames[d]
}

func dayIndex(d Day) int {
	for i, day := range Days {
		if day == d {
			return i
		}
	}
	return -1
}

// DaySchedule is one day's opening interval. Both times are HH:MM 24-hour
// strings. A zero DaySchedule means closed / not set. A half-filled pair is
// tolerated as an in-progress edit state but is never emitted by Format.
type DaySchedule struct {
	Start string `json:"start_time,omitempty"`
	End   string `json:"end_time,omitempty"`
}

// IsZero reports whether neither time is set.
func (s DaySchedule) IsZero() bool {
	return s.Start == "" && s.End == ""
}

// Complete reports whether both times are set.
func (s DaySchedule) Complete() bool {
	return s.Start != "" && s.End != ""
}

// WeeklySchedule maps every day of the week to its schedule. All seven keys
// are always present; use Days for deterministic iteration order.
type WeeklySchedule map[Day]DaySchedule

// NewWeeklySchedule returns an all-empty week.
func NewWeeklySchedule() WeeklySchedule {
	w := make(WeeklySchedule, len(Days))
	for _, d := range Days {
		w[d] = DaySchedule{}
	}
	return w
}

// Equal reports whether two schedules have identical day entries.
func (w WeeklySchedule) Equal(other WeeklySchedule) bool {
	for _, d := range Days {
		if w[d] != other[d] {
			return false
		}
	}
	return true
}

// rangeToken is one parsed "<days> <start>-<end>" segment.
type rangeToken struct {
	days     []Day
	schedule DaySchedule
}

// splitTokens splits the wire string on ',' and ';' and trims each segment.
func splitTokens(text string) []string {
	tokens := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == ';'
	})
	for i, tok := range tokens {
		tokens[i] = strings.TrimSpace(tok)
	}
	return tokens
}

// parseToken resolves one segment into its day set and time pair. It returns
// ok=false for tokens that contribute nothing: a missing days or time part,
// or a day set in which no code resolves. Reversed day ranges ("Fr-Mo")
// resolve to an empty day set and are therefore dropped; the week is not
// treated as circular.
func parseToken(token string) (rangeToken, bool) {
	daysPart, timePart, found := strings.Cut(token, " ")
	if !found || daysPart == "" || strings.TrimSpace(timePart) == "" {
		return rangeToken{}, false
	}

	start, end, _ := strings.Cut(strings.TrimSpace(timePart), "-")
	schedule := DaySchedule{Start: start, End: end}

	var days []Day
	if from, to, isRange := strings.Cut(daysPart, "-"); isRange {
		fromIdx := dayIndex(Day(from))
		toIdx := dayIndex(Day(to))
		if fromIdx >= 0 && toIdx >= 0 {
			for i := fromIdx; i <= toIdx; i++ {
				days = append(days, Days[i])
			}
		}
	} else {
		for _, code := range strings.Split(daysPart, ",") {
			if dayIndex(Day(code)) >= 0 {
				days = append(days, Day(code))
			}
		}
	}

	if len(days) == 0 {
		return rangeToken{}, false
	}
	return rangeToken{days: days, schedule: schedule}, true
}

// Parse converts an opening-hours wire string into a WeeklySchedule. An
// empty input yields the all-empty week. Malformed tokens never abort the
// parse and never affect sibling tokens; when two tokens mention the same
// day the later one wins.
func Parse(text string) WeeklySchedule {
	week := NewWeeklySchedule()

	for _, token := range splitTokens(text) {
		parsed, ok := parseToken(token)
		if !ok {
			continue
		}
		for _, d := range parsed.days {
			week[d] = parsed.schedule
		}
	}

	return week
}

// Format renders a WeeklySchedule back to the wire format, one entry per day
// in fixed Mo..Su order, e.g. "Mo 09:00-17:00; Tu 09:00-17:00". Days without
// a complete time pair are omitted, so a malformed range is never emitted.
// Consecutive identical days are not merged into a range form; the output
// re-parses to the same schedule regardless.
func Format(week WeeklySchedule) string {
	var b strings.Builder
	for _, d := range Days {
		s := week[d]
		if !s.Complete() {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("; ")
		}
		b.WriteString(string(d))
		b.WriteByte(' ')
		b.WriteString(s.Start)
		b.WriteByte('-')
		b.WriteString(s.End)
	}
	return b.String()
}

// DisplayLines expands an opening-hours string into read-only display lines,
// one per resolved day per token, preserving the original range grouping:
// "Mo-We 08:00-12:00" becomes three "<FullDayName>: 08:00 - 12:00" lines.
func DisplayLines(text string) []string {
	var lines []string
	for _, token := range splitTokens(text) {
		parsed, ok := parseToken(token)
		if !ok {
			continue
		}
		interval := parsed.schedule.Start + " - " + parsed.schedule.End
		for _, d := range parsed.days {
			lines = append(lines, d.Name()+": "+interval)
		}
	}
	return lines
}
