package event

import "strings"

// Topic is a hierarchical event name using dot notation, such as
// "document.modified" or "config.changed".
type Topic string

// Separator divides topic segments.
const Separator = "."

// String returns the topic as a string.
func (t Topic) String() string {
	return string(t)
}

// Segments returns the topic split by the separator.
func (t Topic) Segments() []string {
	if t == "" {
		return nil
	}
	return strings.Split(string(t), Separator)
}

// Parent returns the topic with its last segment removed, or "" when
// there is no parent.
func (t Topic) Parent() Topic {
	s := string(t)
	idx := strings.LastIndex(s, Separator)
	if idx < 0 {
		return ""
	}
	return Topic(s[:idx])
}

// Child returns the topic extended by one segment.
func (t Topic) Child(segment string) Topic {
	if t == "" {
		return Topic(segment)
	}
	return Topic(string(t) + Separator + segment)
}

// Base returns the last segment.
func (t Topic) Base() string {
	s := string(t)
	idx := strings.LastIndex(s, Separator)
	if idx < 0 {
		return s
	}
	return s[idx+1:]
}

// Covers reports whether an event published as other is delivered to a
// subscription on t: the topics are equal or other is a descendant.
func (t Topic) Covers(other Topic) bool {
	if t == other {
		return true
	}
	return len(other) > len(t) && strings.HasPrefix(string(other), string(t)) &&
		other[len(t)] == Separator[0]
}
