// Package units converts quantities from config files into the SI units the
// simulation uses internally: meters, seconds, meters per second.
package units

import (
	"fmt"
	"time"
)

// ParseDate converts an RFC 3339 timestamp (with offset) to seconds since
// the unix epoch.
func ParseDate(s string) (float64, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return 0, fmt.Errorf("parsing date %q: %w", s, err)
	}
	return float64(t.Unix()), nil
}

// Distance converts a distance in the given unit to meters.
func Distance(d float64, unit string) (float64, error) {
	switch unit {
	case "m":
		return d, nil
	case "km":
		return d * 1000.0, nil
	}
	return 0, fmt.Errorf("unsupported distance unit %q", unit)
}

// Duration converts a duration in the given unit to seconds.
func Duration(t float64, unit string) (float64, error) {
	switch unit {
	case "s":
		return t, nil
	case "min":
		return t * 60.0, nil
	case "h":
		return t * 3600.0, nil
	}
	return 0, fmt.Errorf("unsupported duration unit %q", unit)
}

// Speed converts a speed in the given unit to meters per second.
func Speed(s float64, unit string) (float64, error) {
	switch unit {
	case "m/s":
		return s, nil
	case "km/h", "kph":
		return s / 3.6, nil
	case "mi/h", "mph":
		return s / 2.23694, nil
	}
	return 0, fmt.Errorf("unsupported speed unit %q", unit)
}
