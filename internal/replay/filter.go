package replay

import (
	"strings"
	"time"

	"github.com/SmitUplenchwar2687/Retrace/internal/timeline"
)

// Filter selects key events for marker rendering.
type Filter struct {
	Keys   []timeline.Key // Only include these keys (empty = all)
	After  time.Duration  // Only include events after this session time (zero = no limit)
	Before time.Duration  // Only include events before this session time (zero = no limit)
}

// Match returns true if the event passes the filter.
func (f *Filter) Match(e timeline.KeyEvent) bool {
	if len(f.Keys) > 0 && !containsKey(f.Keys, e.Key) {
		return false
	}
	at := e.At()
	if f.After > 0 && at <= f.After {
		return false
	}
	if f.Before > 0 && at >= f.Before {
		return false
	}
	return true
}

// ParseKeys splits a comma separated key list such as "Space,M".
// Blank entries are dropped.
func ParseKeys(s string) []timeline.Key {
	var keys []timeline.Key
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			keys = append(keys, timeline.Key(part))
		}
	}
	return keys
}

func containsKey(keys []timeline.Key, k timeline.Key) bool {
	for _, v := range keys {
		if v == k {
			return true
		}
	}
	return false
}
