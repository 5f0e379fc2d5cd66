package upstreamapi

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseUpstreamDate parses the upstream's peculiar date encoding, e.g.
// "/Date(1700000000000-0800)/". Only the embedded epoch-millisecond
// integer is authoritative; the trailing signed four-digit offset (if
// present) is informational only and does not change the returned
// absolute instant.
func ParseUpstreamDate(raw string) (time.Time, error) {
	inner := strings.TrimSuffix(strings.TrimPrefix(raw, "/Date("), ")/")
	if inner == raw {
		return time.Time{}, fmt.Errorf("upstreamapi: %q is not a wrapped date literal", raw)
	}

	msEnd := len(inner)
	for i, r := range inner {
		if r == '+' || r == '-' {
			msEnd = i
			break
		}
	}

	ms, err := strconv.ParseInt(inner[:msEnd], 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("upstreamapi: bad epoch millis in %q: %w", raw, err)
	}

	return time.UnixMilli(ms).UTC(), nil
}

// ParseUpstreamDatePtr is the nullable variant used for upstream fields the
// payload may omit or send empty.
func ParseUpstreamDatePtr(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := ParseUpstreamDate(raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
