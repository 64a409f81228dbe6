package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/newtron-network/confsync/pkg/lock"
)

var lockCmd = &cobra.Command{
	Use:   "lock",
	Short: "Inspect the distributed device lock",
}

var lockStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show who holds the device lock",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		dev, err := requireDevice()
		if err != nil {
			return err
		}
		if dev.LockAddr == "" {
			fmt.Println("Locking not configured for this device")
			return nil
		}

		locker := lock.New(dev.LockAddr)
		defer locker.Close()
		if err := locker.Connect(ctx); err != nil {
			return err
		}

		holder, acquired, err := locker.Holder(ctx, deviceName)
		if err != nil {
			return err
		}
		if holder == "" {
			fmt.Println("Unlocked")
			return nil
		}
		fmt.Printf("Locked by %s since %s\n", holder, acquired.Format("2006-01-02 15:04:05 MST"))
		return nil
	},
}

func init() {
	lockCmd.AddCommand(lockStatusCmd)
}
