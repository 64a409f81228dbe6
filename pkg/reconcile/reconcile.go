package reconcile

import (
	"context"
	"fmt"
	"strings"

	"github.com/newtron-network/confsync/pkg/conftree"
	"github.com/newtron-network/confsync/pkg/session"
	"github.com/newtron-network/confsync/pkg/util"
)

// Reconcile converges the device behind sess to the desired lines and
// reports whether a change occurred.
//
// Input validation happens before any device contact; a desired line that
// cannot be placed under a declared or inferable parent fails with
// *util.MalformedInputError. The running configuration is fetched fresh as a
// read-only snapshot, diffed under opts.Match, surrounded by anchors when a
// change is needed, and applied as one transactional batch. On rejection the
// batch is rolled back and the call fails with *util.ApplyError; device
// state is then unchanged from before the call.
func Reconcile(ctx context.Context, sess session.Session, lines []string, opts Options) (*Result, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	log := util.WithDevice(opts.Device)

	parents := make([]string, len(opts.Parents))
	for i, p := range opts.Parents {
		parents[i] = strings.TrimSpace(p)
	}

	desired, err := conftree.Build(lines, parents)
	if err != nil {
		return nil, err
	}

	raw, err := sess.RunningConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching running config: %w", err)
	}
	running, err := conftree.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing running config: %w", err)
	}

	diff := Diff(desired, running, parents, opts.Match, opts.Replace)
	final := withAnchors(diff, opts.Before, opts.After)
	if len(final) == 0 {
		log.Debug("already converged, nothing to send")
		return &Result{Changed: false, Updates: []string{}}, nil
	}
	updates := flatten(final)

	if opts.DryRun {
		log.Infof("dry run: %d command(s) would be sent", len(updates))
		return &Result{Changed: true, Updates: updates}, nil
	}

	if err := apply(ctx, sess, final); err != nil {
		return nil, err
	}

	if opts.Save {
		if saver, ok := sess.(session.Saver); ok {
			if err := saver.Save(ctx); err != nil {
				return nil, fmt.Errorf("saving configuration: %w", err)
			}
		} else {
			log.Warnf("session does not support save, skipping")
		}
	}

	log.Infof("applied %d command(s)", len(updates))
	return &Result{Changed: true, Updates: updates}, nil
}
