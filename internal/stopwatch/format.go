package stopwatch

import (
	"fmt"
	"time"
)

// Format renders d as MM:SS.CC, or HH:MM:SS.CC once at least an hour has
// elapsed. Sub-centisecond precision is truncated. Hours are not wrapped.
func Format(d time.Duration) string {
	return formatMillis(d.Milliseconds())
}

func formatMillis(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	cs := (ms / 10) % 100
	s := (ms / 1000) % 60
	m := (ms / 60000) % 60
	h := ms / 3600000
	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d.%02d", h, m, s, cs)
	}
	return fmt.Sprintf("%02d:%02d.%02d", m, s, cs)
}
