package utils

import (
	"fmt"
	"strconv"
	"time"
)

// OrderIDFromTime returns "RNI-" followed by the last six digits of the unix
// millisecond timestamp. Two checkouts in the same millisecond (or 1e6 ms apart)
// collide; stored orders already use this format.
func OrderIDFromTime(t time.Time) string {
	ms := strconv.FormatInt(t.UnixMilli(), 10)
	if len(ms) > 6 {
		ms = ms[len(ms)-6:]
	}
	return "RNI-" + ms
}

// ProductIDFromTime returns "PRD-<unix millis>".
func ProductIDFromTime(t time.Time) string {
	return fmt.Sprintf("PRD-%d", t.UnixMilli())
}
