package schedule

import (
	"regexp"
	"strings"
	"unicode"
)

const minPhoneDigits = 10

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func validEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// validPhone counts digits only, so "+1 (555) 123-4567" passes.
func validPhone(phone string) bool {
	n := 0
	for _, r := range phone {
		if unicode.IsDigit(r) {
			n++
		}
	}
	return n >= minPhoneDigits
}

func validatePatient(p Patient) error {
	switch {
	case strings.TrimSpace(p.Name) == "":
		return invalidInput("name is required")
	case p.Age <= 0:
		return invalidInput("age must be greater than 0")
	case !validPhone(p.Phone):
		return invalidInput("phone must contain at least %d digits", minPhoneDigits)
	case !validEmail(p.Email):
		return invalidInput("invalid email %q", p.Email)
	}
	return nil
}

// normalizeDoctor validates d and rewrites its hours and weekdays to canonical form.
func normalizeDoctor(d Doctor) (Doctor, error) {
	if strings.TrimSpace(d.Name) == "" || strings.TrimSpace(d.Specialty) == "" {
		return Doctor{}, invalidInput("name and specialty are required")
	}
	start, err := NormalizeTime(d.Start)
	if err != nil {
		return Doctor{}, err
	}
	end, err := NormalizeTime(d.End)
	if err != nil {
		return Doctor{}, err
	}
	if start >= end {
		return Doctor{}, invalidInput("working hours start %s must be before end %s", start, end)
	}
	if len(d.Weekdays) == 0 {
		return Doctor{}, invalidInput("weekdays must not be empty")
	}
	days, err := normalizeWeekdays(d.Weekdays)
	if err != nil {
		return Doctor{}, err
	}
	d.Start, d.End, d.Weekdays = start, end, days
	return d, nil
}
