package reconcile

import (
	"github.com/newtron-network/confsync/pkg/session"
)

// withAnchors surrounds a non-empty diff with the before/after anchor
// commands. Anchors run at config-mode root, with no section context.
// They accompany a change, not standalone mutations: an empty diff
// suppresses them entirely so an idempotent call stays a true no-op.
func withAnchors(diff []session.Command, before, after []string) []session.Command {
	if len(diff) == 0 {
		return nil
	}
	out := make([]session.Command, 0, len(before)+len(diff)+len(after))
	for _, b := range before {
		out = append(out, session.Command{Text: b})
	}
	out = append(out, diff...)
	for _, a := range after {
		out = append(out, session.Command{Text: a})
	}
	return out
}
