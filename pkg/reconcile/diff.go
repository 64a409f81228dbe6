package reconcile

import (
	"github.com/newtron-network/confsync/pkg/conftree"
	"github.com/newtron-network/confsync/pkg/session"
)

// Diff computes the ordered commands needed to satisfy the desired tree
// against the running tree under the given match strategy. The explicit
// parents path is entry context only: strategy evaluation starts at the
// desired group beneath it. Each returned command carries the full section
// path it must run under, so the transport can restore CLI mode per command;
// flatten renders the same sequence as the lines a reader would type.
// Desired-line order is preserved verbatim within each parent. An empty
// result means applying it is a no-op.
func Diff(desired, running *conftree.Tree, parents []string, match MatchStrategy, replace bool) []session.Command {
	d := &differ{
		running: running,
		match:   match,
		replace: replace,
	}
	d.group(parents, desired.Children(parents))
	return d.out
}

type differ struct {
	running *conftree.Tree
	match   MatchStrategy
	replace bool

	out []session.Command
}

// group evaluates one sibling set under parentPath and recurses into each
// child's own sibling set.
func (d *differ) group(parentPath []string, nodes []*conftree.Node) {
	if len(nodes) == 0 {
		return
	}

	unsatisfied := d.unsatisfied(parentPath, nodes)

	if d.replace && anyTrue(unsatisfied) {
		for i := range unsatisfied {
			unsatisfied[i] = true
		}
	}

	for i, n := range nodes {
		if unsatisfied[i] {
			d.out = append(d.out, session.Command{Text: n.Line.Text, Context: n.Line.Parents})
		}
		if len(n.Children) > 0 {
			d.group(append(append([]string{}, parentPath...), n.Line.Text), n.Children)
		}
	}
}

func (d *differ) unsatisfied(parentPath []string, nodes []*conftree.Node) []bool {
	out := make([]bool, len(nodes))

	switch d.match {
	case MatchNone:
		for i := range out {
			out[i] = true
		}
	case MatchStrict:
		parent := d.running.Get(parentPath)
		for i, n := range nodes {
			out[i] = !parent.HasChild(n.Line.Text)
		}
	case MatchExact:
		// Any ordered difference between the groups re-emits the whole
		// desired group.
		runKids := d.running.Children(parentPath)
		if !sameSequence(nodes, runKids) {
			for i := range out {
				out[i] = true
			}
		}
	}
	return out
}

// flatten renders commands as the line sequence a reader would type:
// section-entry prefixes appear where the open context changes, shared
// leading sections are not re-entered, and a line that just opened a section
// is not repeated before its own children.
func flatten(cmds []session.Command) []string {
	out := make([]string, 0, len(cmds))
	var open []string
	for _, c := range cmds {
		for _, seg := range c.Context[commonPrefix(c.Context, open):] {
			out = append(out, seg)
		}
		out = append(out, c.Text)
		open = append(append([]string{}, c.Context...), c.Text)
	}
	return out
}

func sameSequence(desired []*conftree.Node, running []*conftree.Node) bool {
	if len(desired) != len(running) {
		return false
	}
	for i, n := range desired {
		if running[i].Line.Text != n.Line.Text {
			return false
		}
	}
	return true
}

func commonPrefix(a, b []string) int {
	i := 0
	for i < len(a) && i < len(b) && a[i] == b[i] {
		i++
	}
	return i
}

func anyTrue(flags []bool) bool {
	for _, f := range flags {
		if f {
			return true
		}
	}
	return false
}
