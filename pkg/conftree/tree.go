package conftree

// Node is one configuration line and its ordered children. Nodes hold no
// back-reference to their parent; the parent path lives in Line.Parents as
// an immutable copy.
type Node struct {
	Line     Line
	Children []*Node

	index map[string]*Node
}

// Child returns the direct child with the given text, or nil.
func (n *Node) Child(text string) *Node {
	if n == nil {
		return nil
	}
	return n.index[text]
}

// HasChild reports whether a direct child with the given text exists.
func (n *Node) HasChild(text string) bool {
	return n.Child(text) != nil
}

func (n *Node) addChild(text string) *Node {
	if existing := n.index[text]; existing != nil {
		return existing
	}
	parents := make([]string, 0, len(n.Line.Parents)+1)
	parents = append(parents, n.Line.Parents...)
	if n.Line.Text != "" {
		parents = append(parents, n.Line.Text)
	}
	child := &Node{
		Line:  Line{Text: text, Parents: parents},
		index: make(map[string]*Node),
	}
	n.Children = append(n.Children, child)
	n.index[text] = child
	return child
}

// Tree is an ordered forest of configuration lines. Children keep insertion
// order; inserting a line that already exists under the same parent is a
// no-op returning the existing node.
type Tree struct {
	root *Node
}

// NewTree creates an empty configuration tree.
func NewTree() *Tree {
	return &Tree{root: &Node{index: make(map[string]*Node)}}
}

// Add inserts text under the given parent path, creating any missing
// ancestors along the way. Insertion is idempotent per sibling set.
func (t *Tree) Add(parents []string, text string) *Node {
	n := t.root
	for _, p := range parents {
		n = n.addChild(p)
	}
	return n.addChild(text)
}

// Get returns the node at the given path, or nil if any segment is missing.
// An empty path returns the synthetic root.
func (t *Tree) Get(path []string) *Node {
	n := t.root
	for _, p := range path {
		n = n.Child(p)
		if n == nil {
			return nil
		}
	}
	return n
}

// Children returns the ordered children under the given path, or nil if the
// path does not exist. An empty path returns the top-level lines.
func (t *Tree) Children(path []string) []*Node {
	n := t.Get(path)
	if n == nil {
		return nil
	}
	return n.Children
}

// Roots returns the ordered top-level nodes.
func (t *Tree) Roots() []*Node {
	return t.root.Children
}

// IsEmpty reports whether the tree has no lines.
func (t *Tree) IsEmpty() bool {
	return len(t.root.Children) == 0
}

// Lines returns every line in the tree in depth-first order.
func (t *Tree) Lines() []Line {
	var out []Line
	var walk func(nodes []*Node)
	walk = func(nodes []*Node) {
		for _, n := range nodes {
			out = append(out, n.Line)
			walk(n.Children)
		}
	}
	walk(t.root.Children)
	return out
}
