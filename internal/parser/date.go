package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Date patterns, in priority order. The first pattern that matches
// decides the outcome; a match with out-of-range components falls back
// to the message timestamp rather than trying the next pattern.
var (
	// "on 25 Dec 2024" or "on 25-Dec-2024"
	dateDayMonYear = regexp.MustCompile(`(?i)on\s+(\d{1,2})[- ]([A-Za-z]{3})[- ](\d{4})`)
	// "on 25/12/2024" or "on 25-12-2024"
	dateNumeric = regexp.MustCompile(`on\s+(\d{1,2})[/-](\d{1,2})[/-](\d{4})`)
	// "25 Dec" or "25-Dec" (year taken from the fallback timestamp)
	dateDayMon = regexp.MustCompile(`(?i)(\d{1,2})[- ]([A-Za-z]{3})`)
	// "at 14:30" or "at 2:30 PM" (date taken from the fallback timestamp)
	timeOfDay = regexp.MustCompile(`(?i)at\s+(\d{1,2}):(\d{2})\s*(AM|PM)?`)
)

// monthAbbrevs maps three-letter month abbreviations case-insensitively.
// An unrecognized abbreviation defaults to January.
var monthAbbrevs = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// extractPaymentDate recovers the effective transaction time from the
// message text, in epoch milliseconds. When no pattern matches, or a
// matched date has out-of-range components, it returns fallbackMs (the
// message receipt time) unchanged.
func extractPaymentDate(text string, fallbackMs int64, loc *time.Location) int64 {
	fallback := time.UnixMilli(fallbackMs).In(loc)

	if m := dateDayMonYear.FindStringSubmatch(text); m != nil {
		day := atoi(m[1])
		month := monthFromAbbrev(m[2])
		year := atoi(m[3])
		return makeDate(year, month, day, loc, fallbackMs)
	}

	if m := dateNumeric.FindStringSubmatch(text); m != nil {
		day := atoi(m[1])
		monthNum := atoi(m[2])
		year := atoi(m[3])
		if monthNum < 1 || monthNum > 12 {
			return fallbackMs
		}
		return makeDate(year, time.Month(monthNum), day, loc, fallbackMs)
	}

	if m := dateDayMon.FindStringSubmatch(text); m != nil {
		day := atoi(m[1])
		month := monthFromAbbrev(m[2])
		return makeDate(fallback.Year(), month, day, loc, fallbackMs)
	}

	if m := timeOfDay.FindStringSubmatch(text); m != nil {
		hour := atoi(m[1])
		minute := atoi(m[2])
		ampm := strings.ToUpper(m[3])

		switch ampm {
		case "PM":
			if hour < 1 || hour > 12 {
				return fallbackMs
			}
			if hour != 12 {
				hour += 12
			}
		case "AM":
			if hour < 1 || hour > 12 {
				return fallbackMs
			}
			if hour == 12 {
				hour = 0
			}
		}
		if hour > 23 || minute > 59 {
			return fallbackMs
		}

		t := time.Date(fallback.Year(), fallback.Month(), fallback.Day(),
			hour, minute, fallback.Second(), 0, loc)
		return t.UnixMilli()
	}

	return fallbackMs
}

// makeDate builds midnight of the given date, guarding against days that
// do not exist in the month (time.Date would silently normalize them).
func makeDate(year int, month time.Month, day int, loc *time.Location, fallbackMs int64) int64 {
	if day < 1 || day > 31 {
		return fallbackMs
	}
	t := time.Date(year, month, day, 0, 0, 0, 0, loc)
	if t.Month() != month || t.Day() != day {
		return fallbackMs
	}
	return t.UnixMilli()
}

func monthFromAbbrev(abbrev string) time.Month {
	if m, ok := monthAbbrevs[strings.ToLower(abbrev)]; ok {
		return m
	}
	return time.January
}

// atoi converts a digits-only regex capture; the error cannot occur.
func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
