package conftree

import (
	"errors"
	"testing"

	"github.com/newtron-network/confsync/pkg/util"
)

const runningFixture = `!
hostname veos01
!
interface Ethernet1
   description uplink
   mtu 9000
!
interface Ethernet2
   shutdown
!
router bgp 65000
   neighbor 10.0.0.1 remote-as 65001
   address-family ipv4
      redistribute connected
!
end
`

func TestParseRunningConfig(t *testing.T) {
	tree, err := Parse(runningFixture)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if tree.Get([]string{"hostname veos01"}) == nil {
		t.Error("hostname line missing")
	}
	if tree.Get([]string{"interface Ethernet1", "mtu 9000"}) == nil {
		t.Error("nested mtu line missing")
	}
	if tree.Get([]string{"router bgp 65000", "address-family ipv4", "redistribute connected"}) == nil {
		t.Error("doubly nested line missing")
	}
	// Comment separators must not become lines.
	if tree.Get([]string{"!"}) != nil {
		t.Error("comment line should be skipped")
	}
}

func TestParseSiblingAfterDedent(t *testing.T) {
	tree, err := Parse("interface Ethernet1\n   mtu 9000\ninterface Ethernet2\n   mtu 1500\n")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if tree.Get([]string{"interface Ethernet2", "mtu 1500"}) == nil {
		t.Error("second section child missing")
	}
	if tree.Get([]string{"interface Ethernet1", "mtu 1500"}) != nil {
		t.Error("child attached to wrong section")
	}
}

func TestParseInitialIndentFails(t *testing.T) {
	_, err := Parse("   mtu 9000\n")
	if err == nil {
		t.Fatal("expected error for indented first line")
	}
	if !errors.Is(err, util.ErrMalformedInput) {
		t.Errorf("expected ErrMalformedInput, got %v", err)
	}
}

func TestParseEmpty(t *testing.T) {
	tree, err := Parse("")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !tree.IsEmpty() {
		t.Error("empty text should parse to an empty tree")
	}
}

func TestBuildFlatLines(t *testing.T) {
	tree, err := Build([]string{"hostname foo", "ip routing"}, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	roots := tree.Roots()
	if len(roots) != 2 || roots[0].Line.Text != "hostname foo" || roots[1].Line.Text != "ip routing" {
		t.Errorf("unexpected roots: %v", roots)
	}
}

func TestBuildUnderParents(t *testing.T) {
	tree, err := Build([]string{"mtu 9000", "no shutdown"}, []string{"interface Ethernet1"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	kids := tree.Children([]string{"interface Ethernet1"})
	if len(kids) != 2 {
		t.Fatalf("child count = %d, want 2", len(kids))
	}
	if kids[0].Line.Depth() != 1 {
		t.Errorf("depth = %d, want 1", kids[0].Line.Depth())
	}
}

func TestBuildNestedIndentation(t *testing.T) {
	lines := []string{
		"address-family ipv4",
		"   redistribute connected",
	}
	tree, err := Build(lines, []string{"router bgp 65000"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if tree.Get([]string{"router bgp 65000", "address-family ipv4", "redistribute connected"}) == nil {
		t.Error("indented desired line should nest under its section")
	}
}

func TestBuildCollapsesDuplicates(t *testing.T) {
	tree, err := Build([]string{"mtu 9000", "mtu 9000"}, []string{"interface Ethernet1"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if got := len(tree.Children([]string{"interface Ethernet1"})); got != 1 {
		t.Errorf("sibling count = %d, want 1", got)
	}
}

func TestBuildRejectsBlankLine(t *testing.T) {
	_, err := Build([]string{"hostname foo", "   "}, nil)
	if !errors.Is(err, util.ErrMalformedInput) {
		t.Errorf("expected ErrMalformedInput, got %v", err)
	}
}

func TestBuildRejectsBlankParent(t *testing.T) {
	_, err := Build([]string{"mtu 9000"}, []string{" "})
	if !errors.Is(err, util.ErrMalformedInput) {
		t.Errorf("expected ErrMalformedInput, got %v", err)
	}
}

func TestBuildRejectsDedentBelowBase(t *testing.T) {
	_, err := Build([]string{"   mtu 9000", "no shutdown"}, []string{"interface Ethernet1"})
	if !errors.Is(err, util.ErrMalformedInput) {
		t.Errorf("expected ErrMalformedInput, got %v", err)
	}
}

func TestBuildEmpty(t *testing.T) {
	tree, err := Build(nil, []string{"interface Ethernet1"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !tree.IsEmpty() {
		t.Error("no desired lines should build an empty tree")
	}
}
