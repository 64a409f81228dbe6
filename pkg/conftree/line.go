// Package conftree models device configuration as an ordered forest of
// configuration lines, built from flat text with indentation or explicit
// parent context.
package conftree

import "strings"

// Line is one configuration statement, normalized for comparison. Parents
// holds the ancestor section texts, outermost first, as an owned copy — a
// line's identity is its text plus its full parent path.
type Line struct {
	Text    string
	Parents []string
}

// Depth returns the nesting depth; always equal to len(Parents).
func (l Line) Depth() int {
	return len(l.Parents)
}

// Path returns the full path including the line itself, for logs and errors.
func (l Line) Path() string {
	if len(l.Parents) == 0 {
		return l.Text
	}
	return strings.Join(l.Parents, " / ") + " / " + l.Text
}

// Equal reports whether two lines have the same text and parent path.
func (l Line) Equal(other Line) bool {
	if l.Text != other.Text || len(l.Parents) != len(other.Parents) {
		return false
	}
	for i, p := range l.Parents {
		if other.Parents[i] != p {
			return false
		}
	}
	return true
}
