package transcript

import (
	"reflect"
	"testing"
	"time"
)

func msg(author, ts string, embeds int) Message {
	m := Message{Author: author, Timestamp: ts, Content: "x"}
	for i := 0; i < embeds; i++ {
		m.Embeds = append(m.Embeds, Embed{Type: "rich"})
	}
	return m
}

// at formats an offset from a fixed base with nanosecond precision, so
// sub-second offsets survive the round trip through the timestamp string.
func at(d time.Duration) string {
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	return base.Add(d).Format(time.RFC3339Nano)
}

func shape(groups [][]Message) []int {
	out := make([]int, len(groups))
	for i, g := range groups {
		out[i] = len(g)
	}
	return out
}

func TestGroupEmpty(t *testing.T) {
	if got := Group(nil); len(got) != 0 {
		t.Fatalf("Group(nil) = %v, want empty", got)
	}
	if got := Group([]Message{}); len(got) != 0 {
		t.Fatalf("Group(empty) = %v, want empty", got)
	}
}

func TestGroupSameAuthorWithinWindow(t *testing.T) {
	msgs := []Message{
		msg("alice", at(0), 0),
		msg("alice", at(10*time.Second), 0),
		msg("alice", at(20*time.Second), 0),
	}
	if got := shape(Group(msgs)); !reflect.DeepEqual(got, []int{3}) {
		t.Fatalf("shape = %v, want [3]", got)
	}
}

func TestGroupSplitsOnTimeGap(t *testing.T) {
	msgs := []Message{
		msg("alice", at(0), 0),
		msg("alice", at(120*time.Second), 0),
	}
	if got := shape(Group(msgs)); !reflect.DeepEqual(got, []int{1, 1}) {
		t.Fatalf("shape = %v, want [1 1]", got)
	}
}

func TestGroupWindowBoundary(t *testing.T) {
	// Exactly 60,000 ms apart still merges; the rule is strictly greater.
	msgs := []Message{
		msg("alice", at(0), 0),
		msg("alice", at(60*time.Second), 0),
		msg("alice", at(120*time.Second+time.Millisecond), 0),
	}
	if got := shape(Group(msgs)); !reflect.DeepEqual(got, []int{2, 1}) {
		t.Fatalf("shape = %v, want [2 1]", got)
	}
}

func TestGroupSplitsOnAuthorChange(t *testing.T) {
	msgs := []Message{
		msg("alice", at(0), 0),
		msg("bob", at(time.Second), 0),
		msg("bob", at(2*time.Second), 0),
	}
	if got := shape(Group(msgs)); !reflect.DeepEqual(got, []int{1, 2}) {
		t.Fatalf("shape = %v, want [1 2]", got)
	}
}

func TestGroupEmbedTerminatesGroup(t *testing.T) {
	// Same author, 1s apart: the embed on the first message forces a break.
	msgs := []Message{
		msg("bot", at(0), 1),
		msg("bot", at(time.Second), 0),
	}
	if got := shape(Group(msgs)); !reflect.DeepEqual(got, []int{1, 1}) {
		t.Fatalf("shape = %v, want [1 1]", got)
	}
}

func TestGroupEmbedOnCurrentDoesNotBreak(t *testing.T) {
	// Only the previous message's embeds matter.
	msgs := []Message{
		msg("bot", at(0), 0),
		msg("bot", at(time.Second), 1),
	}
	if got := shape(Group(msgs)); !reflect.DeepEqual(got, []int{2}) {
		t.Fatalf("shape = %v, want [2]", got)
	}
}

func TestGroupUnparseableTimestampsNeverFireTimeRule(t *testing.T) {
	msgs := []Message{
		msg("alice", "not a time", 0),
		msg("alice", "also not a time", 0),
	}
	if got := shape(Group(msgs)); !reflect.DeepEqual(got, []int{2}) {
		t.Fatalf("shape = %v, want [2]", got)
	}
}

func TestGroupDeterministic(t *testing.T) {
	msgs := []Message{
		msg("alice", at(0), 0),
		msg("alice", at(10*time.Second), 1),
		msg("alice", at(11*time.Second), 0),
		msg("bob", at(12*time.Second), 0),
		msg("bob", at(5*time.Minute), 0),
	}
	first := Group(msgs)
	second := Group(msgs)
	if !reflect.DeepEqual(first, second) {
		t.Fatal("Group is not deterministic")
	}
	if got := shape(first); !reflect.DeepEqual(got, []int{2, 1, 1, 1}) {
		t.Fatalf("shape = %v, want [2 1 1 1]", got)
	}
}

func TestGroupPreservesInputOrder(t *testing.T) {
	msgs := []Message{
		msg("alice", at(0), 0),
		msg("alice", at(time.Second), 0),
	}
	groups := Group(msgs)
	if len(groups) != 1 || len(groups[0]) != 2 {
		t.Fatalf("groups = %v", shape(groups))
	}
	if groups[0][0].Timestamp != msgs[0].Timestamp || groups[0][1].Timestamp != msgs[1].Timestamp {
		t.Fatal("input order not preserved within group")
	}
}

func TestParseTimestampLayouts(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"2024-05-01T10:00:00Z", true},
		{"2024-05-01T10:00:00.123+02:00", true},
		{"2024-05-01 10:00:00", true},
		{"5/1/2024, 10:00:00 AM", true},
		{"yesterday", false},
		{"", false},
	}
	for _, tc := range cases {
		if _, ok := ParseTimestamp(tc.in); ok != tc.ok {
			t.Errorf("ParseTimestamp(%q) ok = %v, want %v", tc.in, ok, tc.ok)
		}
	}
}
