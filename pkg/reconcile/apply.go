package reconcile

import (
	"context"
	"errors"

	"github.com/newtron-network/confsync/pkg/session"
	"github.com/newtron-network/confsync/pkg/util"
)

// apply sends the final command sequence as one transactional batch. Every
// transport-layer failure is converted to *util.ApplyError here; callers of
// Reconcile never see raw session errors.
func apply(ctx context.Context, sess session.Session, commands []session.Command) error {
	util.WithOperation("apply").Debugf("sending %d command(s)", len(commands))
	if err := sess.Execute(ctx, commands); err != nil {
		var serr *session.Error
		if errors.As(err, &serr) {
			return util.NewApplyError(serr.Command, true, err)
		}
		return util.NewApplyError("", true, err)
	}
	return nil
}
