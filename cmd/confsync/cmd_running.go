package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var runningCmd = &cobra.Command{
	Use:   "running",
	Short: "Fetch and print the device's running configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		dev, err := requireDevice()
		if err != nil {
			return err
		}
		sess, cleanup, err := connect(ctx, dev)
		if err != nil {
			return err
		}
		defer cleanup()

		raw, err := sess.RunningConfig(ctx)
		if err != nil {
			return err
		}
		fmt.Print(raw)
		return nil
	},
}
