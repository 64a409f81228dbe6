package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/newtron-network/confsync/pkg/configlet"
	"github.com/newtron-network/confsync/pkg/reconcile"
)

var (
	pushParents   []string
	pushBefore    []string
	pushAfter     []string
	pushMatch     string
	pushReplace   bool
	pushSave      bool
	pushConfiglet string
	configletDir  string
)

var pushCmd = &cobra.Command{
	Use:   "push [lines...]",
	Short: "Reconcile desired configuration lines onto the device",
	Long: `Push desired configuration lines to a device.

The lines are diffed against the running configuration under the chosen
match strategy; only unsatisfied lines are sent, prefixed by their section
context, surrounded by --before/--after anchors. An already-converged
device gets zero commands and reports changed=false.

Previews by default; use -x to execute.

Examples:
  confsync -d veos01 push "hostname veos01"
  confsync -d veos01 push --parents "router bgp 65000" "neighbor 10.0.0.1 remote-as 65001" -x
  confsync -d veos01 push --match none "hostname veos01" -x
  confsync -d veos01 push --configlet ntp -x`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		lines := args
		opts := reconcile.Options{
			Parents: pushParents,
			Before:  pushBefore,
			After:   pushAfter,
			Match:   reconcile.MatchStrategy(pushMatch),
			Replace: pushReplace,
			Save:    pushSave,
			DryRun:  !executeMode,
			Device:  deviceName,
		}

		if pushConfiglet != "" {
			if len(args) > 0 {
				return fmt.Errorf("--configlet and explicit lines are mutually exclusive")
			}
			c, err := configlet.Load(configletDir, pushConfiglet)
			if err != nil {
				return err
			}
			copts, err := c.Options()
			if err != nil {
				return err
			}
			copts.Save = pushSave
			copts.DryRun = !executeMode
			copts.Device = deviceName
			opts = copts
			lines = c.Lines
		}

		if len(lines) == 0 {
			return fmt.Errorf("no configuration lines given")
		}

		dev, err := requireDevice()
		if err != nil {
			return err
		}
		sess, cleanup, err := connect(ctx, dev)
		if err != nil {
			return err
		}
		defer cleanup()

		result, err := reconcile.Reconcile(ctx, sess, lines, opts)
		if err != nil {
			return err
		}

		if jsonOutput {
			return json.NewEncoder(os.Stdout).Encode(result)
		}
		printResult(result, !executeMode)
		return nil
	},
}

func printResult(result *reconcile.Result, dryRun bool) {
	if !result.Changed {
		fmt.Println("No changes (already converged)")
		return
	}
	if dryRun {
		fmt.Println("Would send (use -x to execute):")
	} else {
		fmt.Println("Sent:")
	}
	for _, cmd := range result.Updates {
		fmt.Printf("  %s\n", cmd)
	}
}

func init() {
	pushCmd.Flags().StringArrayVar(&pushParents, "parents", nil, "Parent section context for the lines (repeatable, ordered)")
	pushCmd.Flags().StringArrayVar(&pushBefore, "before", nil, "Commands sent before the diff when a change occurs (repeatable)")
	pushCmd.Flags().StringArrayVar(&pushAfter, "after", nil, "Commands sent after the diff when a change occurs (repeatable)")
	pushCmd.Flags().StringVar(&pushMatch, "match", "strict", "Match strategy: strict, exact or none")
	pushCmd.Flags().BoolVar(&pushReplace, "replace", false, "Re-emit the whole sibling group once any line in it is unsatisfied")
	pushCmd.Flags().StringVar(&pushConfiglet, "configlet", "", "Push a named configlet instead of explicit lines")
	pushCmd.Flags().StringVar(&configletDir, "configlet-dir", "/etc/confsync/configlets", "Configlet directory")
	pushCmd.Flags().BoolVarP(&executeMode, "execute", "x", false, "Execute changes (default is dry-run preview)")
	pushCmd.Flags().BoolVarP(&pushSave, "save", "s", false, "Persist configuration after a successful apply")
	pushCmd.Flags().BoolVar(&jsonOutput, "json", false, "JSON output")
}
