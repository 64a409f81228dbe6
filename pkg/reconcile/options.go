// Package reconcile computes the minimal ordered command set that converges
// a device's running configuration to a desired line set, applies it
// transactionally over a session, and reports whether a change occurred.
package reconcile

import (
	"fmt"

	"github.com/newtron-network/confsync/pkg/util"
)

// MatchStrategy governs how strictly desired lines must already be present
// in the running configuration to be considered satisfied.
type MatchStrategy string

const (
	// MatchStrict requires line-by-line presence among the running siblings
	// of the same parent, ignoring order.
	MatchStrict MatchStrategy = "strict"
	// MatchExact requires the whole sibling group to match the running group
	// as an ordered sequence; any difference re-emits the full desired group.
	MatchExact MatchStrategy = "exact"
	// MatchNone applies every desired line unconditionally.
	MatchNone MatchStrategy = "none"
)

// ParseMatchStrategy converts a string option into a MatchStrategy.
func ParseMatchStrategy(s string) (MatchStrategy, error) {
	switch MatchStrategy(s) {
	case MatchStrict, MatchExact, MatchNone:
		return MatchStrategy(s), nil
	case "":
		return MatchStrict, nil
	}
	return "", util.NewInvalidConfigError(fmt.Sprintf("unknown match strategy %q (want strict, exact or none)", s))
}

// Options control one reconciliation call.
type Options struct {
	// Parents is the section context the desired lines live under.
	Parents []string
	// Before and After are anchor commands sent around the computed diff.
	// Anchors accompany a change; a no-op reconciliation sends neither.
	Before []string
	After  []string
	// Match selects the satisfaction check; empty means strict.
	Match MatchStrategy
	// Replace widens emission to the whole desired sibling group once any
	// line in the group is unsatisfied.
	Replace bool
	// DryRun computes the command sequence without touching the device.
	DryRun bool
	// Save issues the platform persist command after a successful apply,
	// when the session supports it.
	Save bool

	// Device names the target in logs; optional.
	Device string
}

func (o *Options) validate() error {
	m, err := ParseMatchStrategy(string(o.Match))
	if err != nil {
		return err
	}
	o.Match = m
	return nil
}

// Result reports the outcome of one reconciliation call.
type Result struct {
	// Changed is true when at least one command was sent (or would be sent
	// in dry-run mode).
	Changed bool `json:"changed"`
	// Updates lists the exact commands in send order, anchors included.
	Updates []string `json:"updates"`
}
