package transcript

import "time"

// groupWindow is the maximum gap between consecutive messages that still
// share a group header.
const groupWindow = 60 * time.Second

// timestampLayouts are tried in order when parsing message timestamps.
// RFC 3339 covers the common producer output; the rest cover locale-style
// strings some exporters emit.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"1/2/2006, 3:04:05 PM",
}

// Group partitions messages into maximal runs rendered under one shared
// author/time header. It is a pure function over the input order (input
// order is treated as chronological) and is total for any input, including
// an empty one.
//
// A message starts a new group when any of the following holds:
//   - it is the first message,
//   - its author differs from the previous message's author,
//   - it is more than 60,000 ms apart from the previous message,
//   - the previous message carries one or more embeds (an embed always
//     terminates its group).
func Group(msgs []Message) [][]Message {
	groups := make([][]Message, 0, len(msgs))
	for i, m := range msgs {
		if i == 0 || breaksGroup(msgs[i-1], m) {
			groups = append(groups, []Message{m})
			continue
		}
		last := len(groups) - 1
		groups[last] = append(groups[last], m)
	}
	return groups
}

func breaksGroup(prev, cur Message) bool {
	if prev.Author != cur.Author {
		return true
	}
	if len(prev.Embeds) > 0 {
		return true
	}
	return apartMoreThan(prev.Timestamp, cur.Timestamp, groupWindow)
}

// apartMoreThan reports whether two timestamps are further apart than d.
// When either side fails to parse there is no usable instant, so the time
// rule never fires (the remaining rules still apply).
func apartMoreThan(a, b string, d time.Duration) bool {
	ta, okA := ParseTimestamp(a)
	tb, okB := ParseTimestamp(b)
	if !okA || !okB {
		return false
	}
	gap := tb.Sub(ta)
	if gap < 0 {
		gap = -gap
	}
	return gap > d
}

// ParseTimestamp parses a message timestamp against the accepted layouts,
// reporting whether any matched.
func ParseTimestamp(s string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
