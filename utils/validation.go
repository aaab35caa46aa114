package utils

import (
	"regexp"
	"strconv"
	"strings"
)

// dateTimePattern matches "dd/mm/yyyy hh:mm" with 1-2 digit day, month and
// hour, a mandatory 4-digit year and a 2-digit minute.
var dateTimePattern = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4}) (\d{1,2}):(\d{2})$`)

// IsValidDateTime reports whether input is an acceptable appointment
// date/time. Field ranges are checked (month 1-12, day 1-31, hour 0-23,
// minute 0-59) but not calendar correctness: 31/02 passes, matching the
// behavior the booking flow has always had.
func IsValidDateTime(input string) bool {
	m := dateTimePattern.FindStringSubmatch(input)
	if m == nil {
		return false
	}

	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	hour, _ := strconv.Atoi(m[4])
	minute, _ := strconv.Atoi(m[5])

	if month < 1 || month > 12 {
		return false
	}
	if day < 1 || day > 31 {
		return false
	}
	if hour < 0 || hour > 23 {
		return false
	}
	if minute < 0 || minute > 59 {
		return false
	}
	return true
}

// IsValidName reports whether input is usable as a patient name: at least 3
// characters once trimmed, and not something that parses as a plain number.
func IsValidName(input string) bool {
	name := strings.TrimSpace(input)
	if len(name) < 3 {
		return false
	}
	if _, err := strconv.ParseFloat(name, 64); err == nil {
		return false
	}
	return true
}
