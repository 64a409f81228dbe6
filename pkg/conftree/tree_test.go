package conftree

import "testing"

func TestAddAndGet(t *testing.T) {
	tree := NewTree()
	tree.Add(nil, "hostname veos01")
	tree.Add([]string{"interface Ethernet1"}, "mtu 9000")

	if n := tree.Get([]string{"hostname veos01"}); n == nil {
		t.Fatal("top-level line not found")
	}
	n := tree.Get([]string{"interface Ethernet1", "mtu 9000"})
	if n == nil {
		t.Fatal("nested line not found")
	}
	if got := n.Line.Path(); got != "interface Ethernet1 / mtu 9000" {
		t.Errorf("Path() = %q", got)
	}
	if n.Line.Depth() != 1 {
		t.Errorf("Depth() = %d, want 1", n.Line.Depth())
	}
}

func TestAddCreatesAncestors(t *testing.T) {
	tree := NewTree()
	tree.Add([]string{"router bgp 65000", "address-family ipv4"}, "redistribute connected")

	if tree.Get([]string{"router bgp 65000"}) == nil {
		t.Error("intermediate parent should be created")
	}
	kids := tree.Children([]string{"router bgp 65000", "address-family ipv4"})
	if len(kids) != 1 || kids[0].Line.Text != "redistribute connected" {
		t.Errorf("unexpected children: %v", kids)
	}
}

func TestAddIsIdempotent(t *testing.T) {
	tree := NewTree()
	a := tree.Add([]string{"interface Ethernet1"}, "mtu 9000")
	b := tree.Add([]string{"interface Ethernet1"}, "mtu 9000")

	if a != b {
		t.Error("duplicate insertion should return the existing node")
	}
	if got := len(tree.Children([]string{"interface Ethernet1"})); got != 1 {
		t.Errorf("sibling count = %d, want 1", got)
	}
}

func TestSameTextDifferentParent(t *testing.T) {
	tree := NewTree()
	tree.Add([]string{"interface Ethernet1"}, "mtu 9000")
	tree.Add([]string{"interface Ethernet2"}, "mtu 9000")

	a := tree.Get([]string{"interface Ethernet1", "mtu 9000"})
	b := tree.Get([]string{"interface Ethernet2", "mtu 9000"})
	if a == nil || b == nil {
		t.Fatal("both lines should exist")
	}
	if a == b {
		t.Error("identical text under different parents must be distinct lines")
	}
	if a.Line.Equal(b.Line) {
		t.Error("lines under different parents must not compare equal")
	}
}

func TestChildrenOrder(t *testing.T) {
	tree := NewTree()
	tree.Add(nil, "third")
	tree.Add(nil, "first")
	tree.Add(nil, "second")

	want := []string{"third", "first", "second"}
	roots := tree.Roots()
	if len(roots) != len(want) {
		t.Fatalf("root count = %d, want %d", len(roots), len(want))
	}
	for i, w := range want {
		if roots[i].Line.Text != w {
			t.Errorf("roots[%d] = %q, want %q", i, roots[i].Line.Text, w)
		}
	}
}

func TestGetMissing(t *testing.T) {
	tree := NewTree()
	tree.Add(nil, "hostname veos01")

	if tree.Get([]string{"no such line"}) != nil {
		t.Error("missing path should return nil")
	}
	if tree.Children([]string{"no such line"}) != nil {
		t.Error("missing path should have nil children")
	}
}

func TestIsEmpty(t *testing.T) {
	tree := NewTree()
	if !tree.IsEmpty() {
		t.Error("new tree should be empty")
	}
	tree.Add(nil, "hostname veos01")
	if tree.IsEmpty() {
		t.Error("tree with a line should not be empty")
	}
}
