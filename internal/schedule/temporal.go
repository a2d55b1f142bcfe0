package schedule

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const isoDateLayout = "2006-01-02"

var (
	timePattern    = regexp.MustCompile(`^(\d{1,2}):(\d{2})(?:\s?([AaPp][Mm]))?$`)
	isoDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	dmyDatePattern = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)
)

// NormalizeTime converts "H:MM", "HH:MM" or either with an AM/PM suffix to
// zero-padded 24-hour "HH:MM". Fixed width keeps lexical order chronological.
func NormalizeTime(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	m := timePattern.FindStringSubmatch(s)
	if m == nil {
		return "", invalidInput("invalid time %q: expected HH:MM or H:MM AM/PM", raw)
	}

	hour, err := strconv.Atoi(m[1])
	if err != nil {
		return "", invalidInput("invalid time %q", raw)
	}
	minute, err := strconv.Atoi(m[2])
	if err != nil || minute > 59 {
		return "", invalidInput("invalid time %q", raw)
	}

	switch strings.ToUpper(m[3]) {
	case "":
		if hour > 23 {
			return "", invalidInput("invalid time %q", raw)
		}
	case "AM":
		if hour < 1 || hour > 12 {
			return "", invalidInput("invalid time %q", raw)
		}
		hour %= 12
	case "PM":
		if hour < 1 || hour > 12 {
			return "", invalidInput("invalid time %q", raw)
		}
		hour = hour%12 + 12
	}

	return fmt.Sprintf("%02d:%02d", hour, minute), nil
}

// NormalizeDate accepts ISO "YYYY-MM-DD" or day-first "D/M/YYYY" and returns
// the ISO form. Month-first input is never guessed.
func NormalizeDate(raw string) (string, error) {
	s := strings.TrimSpace(raw)

	var iso string
	switch {
	case isoDatePattern.MatchString(s):
		iso = s
	case dmyDatePattern.MatchString(s):
		m := dmyDatePattern.FindStringSubmatch(s)
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		iso = fmt.Sprintf("%s-%02d-%02d", m[3], month, day)
	default:
		return "", invalidInput("invalid date %q: expected YYYY-MM-DD or DD/MM/YYYY", raw)
	}

	if _, err := time.Parse(isoDateLayout, iso); err != nil {
		return "", invalidInput("invalid date %q: not a calendar date", raw)
	}
	return iso, nil
}

// WeekdayOf evaluates the calendar date itself, so no timezone shift can move it.
func WeekdayOf(isoDate string) (time.Weekday, error) {
	d, err := time.Parse(isoDateLayout, isoDate)
	if err != nil {
		return 0, invalidInput("invalid date %q", isoDate)
	}
	return d.Weekday(), nil
}

// Instant composes a canonical date and time into an absolute instant in loc.
func Instant(isoDate, canonicalTime string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(isoDateLayout+" 15:04", isoDate+" "+canonicalTime, loc)
	if err != nil {
		return time.Time{}, invalidInput("invalid date/time %q %q", isoDate, canonicalTime)
	}
	return t, nil
}

// IsFutureInstant reports whether date+time in loc is strictly after now.
func IsFutureInstant(isoDate, canonicalTime string, loc *time.Location, now time.Time) bool {
	t, err := Instant(isoDate, canonicalTime, loc)
	if err != nil {
		return false
	}
	return t.After(now)
}

// IsPureDateFuture reports whether the calendar date is today or later in loc.
func IsPureDateFuture(isoDate string, loc *time.Location, now time.Time) bool {
	if _, err := time.Parse(isoDateLayout, isoDate); err != nil {
		return false
	}
	return isoDate >= Today(loc, now)
}

// Today returns the ISO calendar date of now in loc.
func Today(loc *time.Location, now time.Time) string {
	return now.In(loc).Format(isoDateLayout)
}

var weekdayAliases = map[string]time.Weekday{
	"sunday": time.Sunday, "sun": time.Sunday, "domingo": time.Sunday,
	"monday": time.Monday, "mon": time.Monday, "lunes": time.Monday,
	"tuesday": time.Tuesday, "tue": time.Tuesday, "martes": time.Tuesday,
	"wednesday": time.Wednesday, "wed": time.Wednesday, "miércoles": time.Wednesday, "miercoles": time.Wednesday,
	"thursday": time.Thursday, "thu": time.Thursday, "jueves": time.Thursday,
	"friday": time.Friday, "fri": time.Friday, "viernes": time.Friday,
	"saturday": time.Saturday, "sat": time.Saturday, "sábado": time.Saturday, "sabado": time.Saturday,
}

// ParseWeekday maps English names, their three-letter abbreviations and the
// Spanish names used by legacy data to a weekday.
func ParseWeekday(name string) (time.Weekday, error) {
	wd, ok := weekdayAliases[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, invalidInput("unknown weekday %q", name)
	}
	return wd, nil
}

// normalizeWeekdays returns the canonical names in input order without duplicates.
func normalizeWeekdays(names []string) ([]string, error) {
	seen := make(map[time.Weekday]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		wd, err := ParseWeekday(n)
		if err != nil {
			return nil, err
		}
		if seen[wd] {
			continue
		}
		seen[wd] = true
		out = append(out, wd.String())
	}
	return out, nil
}
