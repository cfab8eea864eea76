package helpers

import "time"

// IntSecondConfigDefault config seconds to time.Duration, def when zero or negative.
func IntSecondConfigDefault(sec int, def int) time.Duration {
	if sec <= 0 {
		sec = def
	}
	return time.Duration(sec) * time.Second
}
