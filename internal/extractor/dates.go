package extractor

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const (
	minYear = 1900
	maxYear = 2100
)

var (
	dayMonthYear = regexp.MustCompile(`^(\d{1,2})[/-](\d{1,2})[/-](\d{4})$`)
	yearMonthDay = regexp.MustCompile(`^(\d{4})[/-](\d{1,2})[/-](\d{1,2})$`)
	dayNameYear  = regexp.MustCompile(`^(\d{1,2})\s+([A-Za-z]{3,})\.?\s+(\d{4})$`)
)

var monthPrefixes = []string{"jan", "feb", "mar", "apr", "may", "jun", "jul", "aug", "sep", "oct", "nov", "dec"}

// NormalizeDate converts D/M/YYYY, YYYY/M/D (slash or dash) and "D Month YYYY"
// into YYYY-MM-DD. It reports false for any other spelling, for years outside
// 1900..2100 and for out-of-range months or days.
func NormalizeDate(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)

	if m := dayMonthYear.FindStringSubmatch(raw); m != nil {
		return formatDate(m[3], m[2], m[1])
	}
	if m := yearMonthDay.FindStringSubmatch(raw); m != nil {
		return formatDate(m[1], m[2], m[3])
	}
	if m := dayNameYear.FindStringSubmatch(raw); m != nil {
		month := monthNumber(m[2])
		if month == 0 {
			return "", false
		}
		return formatDate(m[3], strconv.Itoa(month), m[1])
	}
	return "", false
}

func monthNumber(name string) int {
	prefix := strings.ToLower(name[:3])
	for i, p := range monthPrefixes {
		if p == prefix {
			return i + 1
		}
	}
	return 0
}

func formatDate(yearStr, monthStr, dayStr string) (string, bool) {
	year, err := strconv.Atoi(yearStr)
	if err != nil || year < minYear || year > maxYear {
		return "", false
	}
	month, err := strconv.Atoi(monthStr)
	if err != nil || month < 1 || month > 12 {
		return "", false
	}
	day, err := strconv.Atoi(dayStr)
	if err != nil || day < 1 || day > 31 {
		return "", false
	}
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day), true
}
