package aiusage

import (
	"errors"
	"time"
)

// ErrInsufficientTokens is returned when a caller has no chat calls remaining for the current month.
var ErrInsufficientTokens = errors.New("insufficient tokens")

// keyTTL outlives the longest month so a counter never expires mid-period.
const keyTTL = 32 * 24 * time.Hour

const keyPrefix = "wayfare:chat_usage:"

func usageKey(subject string, now time.Time) string {
	return keyPrefix + subject + ":" + now.UTC().Format("2006-01")
}
