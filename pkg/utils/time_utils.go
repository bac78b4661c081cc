package utils

import (
	"strconv"
	"time"
)

// Clock returns the current time. Services take one so expiry can be tested.
type Clock func() time.Time

func SystemClock() time.Time { return time.Now().UTC() }

// LoadLocation falls back to a fixed zone when tzdata is missing on the host.
func LoadLocation(name string, fallbackOffsetHours int) *time.Location {
	if name == "" {
		return time.UTC
	}
	if loc, err := time.LoadLocation(name); err == nil {
		return loc
	}
	return time.FixedZone(name, fallbackOffsetHours*3600)
}

func FormatRFC3339(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	return t.In(loc).Format(time.RFC3339)
}

func FormatDisplay(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	return t.In(loc).Format("2 January 2006, 15:04 MST")
}

// FormatAmount renders whole currency units with thousands separators, e.g. 290,000.
func FormatAmount(amount int64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}
	digits := []byte{}
	s := []byte(strconv.FormatInt(amount, 10))
	for i := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			digits = append(digits, ',')
		}
		digits = append(digits, s[i])
	}
	if neg {
		return "-" + string(digits)
	}
	return string(digits)
}
