package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/halloway/timeline-companion/internal/record"
)

var (
	clock24Pattern  = regexp.MustCompile(`^(\d{1,2}):(\d{2})(?::\d{2})?$`)
	clock12Pattern  = regexp.MustCompile(`^(\d{1,2})(?::(\d{2}))?\s*([AaPp])\.?\s*[Mm]\.?$`)
	digitsPattern   = regexp.MustCompile(`^\d+$`)
	embeddedPattern = regexp.MustCompile(`\d{1,2}:\d{2}(?::\d{2})?(?:\s*[AaPp]\.?\s*[Mm]\.?)?`)
)

// UnknownClock is the sentinel for a missing or unparseable time-of-day.
// It sorts after every known time on the same date.
var UnknownClock = record.Clock{}

// ParseClock parses a time-of-day value into a minute offset and a 12-hour
// display label. Accepted forms: 24-hour H:MM[:SS], 12-hour H[:MM] AM/PM
// (punctuation in the meridiem optional), and bare numeric encodings: a 3-4
// digit value is HHMM when in range, otherwise the value is interpreted as
// minutes, then seconds, then milliseconds since midnight. A literal zero is
// "not provided", not midnight. Anything else yields the unknown sentinel.
func ParseClock(s string) record.Clock {
	s = strings.TrimSpace(s)
	if s == "" || IsFormulaError(s) {
		return UnknownClock
	}

	if m := clock24Pattern.FindStringSubmatch(s); m != nil {
		h, _ := strconv.Atoi(m[1])
		min, _ := strconv.Atoi(m[2])
		if h < 24 && min < 60 {
			return ClockFromMinutes(h*60 + min)
		}
		return UnknownClock
	}

	if m := clock12Pattern.FindStringSubmatch(s); m != nil {
		h, _ := strconv.Atoi(m[1])
		min := 0
		if m[2] != "" {
			min, _ = strconv.Atoi(m[2])
		}
		if h < 1 || h > 12 || min > 59 {
			return UnknownClock
		}
		if h == 12 {
			h = 0
		}
		if strings.EqualFold(m[3], "p") {
			h += 12
		}
		return ClockFromMinutes(h*60 + min)
	}

	if digitsPattern.MatchString(s) {
		return clockFromNumber(s)
	}

	return UnknownClock
}

// clockFromNumber decodes bare numeric time encodings seen in the exports.
func clockFromNumber(s string) record.Clock {
	n, err := strconv.Atoi(s)
	if err != nil || n == 0 {
		// A literal zero means "not provided", not midnight.
		return UnknownClock
	}

	if len(s) == 3 || len(s) == 4 {
		h, min := n/100, n%100
		if h < 24 && min < 60 {
			return ClockFromMinutes(h*60 + min)
		}
	}

	switch {
	case n <= 1439:
		return ClockFromMinutes(n)
	case n <= 86399:
		return ClockFromMinutes(n / 60)
	case n%1000 == 0 && n/1000 <= 86399:
		return ClockFromMinutes(n / 60000)
	}

	return UnknownClock
}

// ClockFromMinutes builds a known Clock from a minute offset (0-1439).
func ClockFromMinutes(minutes int) record.Clock {
	if minutes < 0 || minutes > 1439 {
		return UnknownClock
	}
	return record.Clock{
		Minutes: minutes,
		Label:   clockLabel(minutes),
		Known:   true,
	}
}

// clockLabel renders a minute offset as a 12-hour H:MM AM/PM label.
func clockLabel(minutes int) string {
	h, m := minutes/60, minutes%60
	meridiem := "AM"
	if h >= 12 {
		meridiem = "PM"
	}
	h12 := h % 12
	if h12 == 0 {
		h12 = 12
	}
	return fmt.Sprintf("%d:%02d %s", h12, m, meridiem)
}

// ExtractClock scans free text (the "timing" field) for an embedded
// clock-like pattern and parses it. Text with no such pattern never
// qualifies, so narrative values like "Early morning" stay unknown.
func ExtractClock(s string) record.Clock {
	match := embeddedPattern.FindString(s)
	if match == "" {
		return UnknownClock
	}
	return ParseClock(strings.TrimSpace(match))
}

// BestClock returns the first candidate that parses to a known clock, in
// the given priority order. Candidates that need pattern extraction should
// be pre-processed with ExtractClock by the caller.
func BestClock(candidates ...record.Clock) record.Clock {
	for _, c := range candidates {
		if c.Known {
			return c
		}
	}
	return UnknownClock
}
