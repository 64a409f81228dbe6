package conftree

import (
	"strings"

	"github.com/newtron-network/confsync/pkg/util"
)

// openContext is one entry on the stack of open parent sections while
// parsing indented text.
type openContext struct {
	indent int
	node   *Node
}

// Parse builds a tree from raw running-config text, inferring hierarchy from
// leading whitespace. Blank lines and comment lines ("!" or "#") are
// skipped. The first configuration line must start at column zero; an
// initial indent claims a parent that was never declared.
func Parse(text string) (*Tree, error) {
	t := NewTree()
	stack := make([]openContext, 0, 8)

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimRight(raw, " \t\r")
		trimmed := strings.TrimLeft(line, " \t")
		if trimmed == "" || strings.HasPrefix(trimmed, "!") || strings.HasPrefix(trimmed, "#") {
			continue
		}
		indent := len(line) - len(trimmed)

		for len(stack) > 0 && stack[len(stack)-1].indent >= indent {
			stack = stack[:len(stack)-1]
		}
		if indent > 0 && len(stack) == 0 {
			return nil, util.NewMalformedInputError(trimmed, nil,
				"indented line has no open parent section")
		}

		var node *Node
		if len(stack) == 0 {
			node = t.Add(nil, trimmed)
		} else {
			parent := stack[len(stack)-1].node
			node = parent.addChild(trimmed)
		}
		stack = append(stack, openContext{indent: indent, node: node})
	}
	return t, nil
}

// Build constructs a desired-configuration tree from caller-supplied lines
// rooted under an optional explicit parent path. Relative indentation among
// the lines nests them the same way Parse does; the first line sets the base
// column and no later line may dedent below it.
func Build(lines []string, parents []string) (*Tree, error) {
	t := NewTree()

	cleaned := make([]string, 0, len(parents))
	for _, p := range parents {
		p = strings.TrimSpace(p)
		if p == "" {
			return nil, util.NewMalformedInputError(p, parents, "blank parent line")
		}
		cleaned = append(cleaned, p)
	}

	base := -1
	stack := make([]openContext, 0, 4)
	for _, raw := range lines {
		line := strings.TrimRight(raw, " \t\r")
		trimmed := strings.TrimLeft(line, " \t")
		if trimmed == "" {
			return nil, util.NewMalformedInputError(raw, cleaned, "blank configuration line")
		}
		indent := len(line) - len(trimmed)
		if base < 0 {
			base = indent
		}
		if indent < base {
			return nil, util.NewMalformedInputError(trimmed, cleaned,
				"line dedents below the first line; parent context cannot be inferred")
		}

		for len(stack) > 0 && stack[len(stack)-1].indent >= indent {
			stack = stack[:len(stack)-1]
		}

		var node *Node
		if len(stack) == 0 {
			node = t.Add(cleaned, trimmed)
		} else {
			node = stack[len(stack)-1].node.addChild(trimmed)
		}
		stack = append(stack, openContext{indent: indent, node: node})
	}
	return t, nil
}
