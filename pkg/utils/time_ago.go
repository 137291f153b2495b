package utils

import (
	"fmt"
	"time"
)

type ageBucket struct {
	unit    string
	seconds int64
}

// Largest first; TimeAgo picks the first bucket that fits at least once.
var ageBuckets = []ageBucket{
	{"year", 31536000},
	{"month", 2592000},
	{"week", 604800},
	{"day", 86400},
	{"hour", 3600},
	{"minute", 60},
}

// JustNow is returned for ages under one minute.
const JustNow = "Just now"

// TimeAgo renders the coarse age of t relative to now, e.g. "2 hours ago".
// A t after now counts as zero elapsed time.
func TimeAgo(t, now time.Time) string {
	elapsed := int64(now.Sub(t) / time.Second)
	if elapsed < 0 {
		elapsed = 0
	}

	for _, b := range ageBuckets {
		count := elapsed / b.seconds
		if count >= 1 {
			plural := ""
			if count > 1 {
				plural = "s"
			}
			return fmt.Sprintf("%d %s%s ago", count, b.unit, plural)
		}
	}

	return JustNow
}
