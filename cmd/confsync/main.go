// Confsync - Declarative CLI Configuration Push Tool
//
// A CLI tool for reconciling line-oriented network device configuration:
//   - Computes the minimal ordered command set from desired lines vs the
//     device's running configuration
//   - Idempotent: an already-converged device gets zero commands
//   - Transactional apply with rollback on rejection
//   - Dry-run by default (preview commands, require -x to execute)
//   - Redis-backed device locking across cooperating processes
//
// Examples:
//
//	confsync -d veos01 push "hostname veos01"
//	confsync -d veos01 push --parents "interface Ethernet1" "mtu 9000" -x
//	confsync -d veos01 push --before "snmp-server contact ops" "hostname foo" -x
//	confsync -d veos01 push --configlet ntp -x
//	confsync -d veos01 running
package main

import (
	"context"
	"fmt"
	"os"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/newtron-network/confsync/pkg/inventory"
	"github.com/newtron-network/confsync/pkg/lock"
	"github.com/newtron-network/confsync/pkg/session"
	"github.com/newtron-network/confsync/pkg/util"
)

var (
	// Context flags
	deviceName    string // -d, --device
	inventoryPath string // --inventory

	// Option flags
	executeMode bool
	verbose     bool
	jsonOutput  bool

	// Global state
	inv *inventory.Inventory
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:               "confsync",
	Short:             "Declarative CLI configuration push tool",
	SilenceUsage:      true,
	SilenceErrors:     true,
	CompletionOptions: cobra.CompletionOptions{HiddenDefaultCmd: true},
	Long: `Confsync reconciles line-oriented device configuration.

Desired lines are diffed against the running configuration and only the
missing commands are sent, in order, as one transactional batch.
Write commands preview changes by default — use -x to execute.

  confsync -d <device> push [lines...] [-x]`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		// Logs go to stderr so --json output on stdout stays parseable.
		util.SetLogOutput(os.Stderr)
		if verbose {
			util.SetLogLevel("debug")
		} else {
			util.SetLogLevel("warn")
		}

		if inventoryPath == "" {
			inventoryPath = os.Getenv("CONFSYNC_INVENTORY")
		}
		if inventoryPath == "" {
			inventoryPath = inventory.DefaultPath
		}

		var err error
		inv, err = inventory.Load(inventoryPath)
		if err != nil {
			return fmt.Errorf("loading inventory: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&deviceName, "device", "d", "", "Device name (object selector)")
	rootCmd.PersistentFlags().StringVar(&inventoryPath, "inventory", "", "Inventory file (default $CONFSYNC_INVENTORY or "+inventory.DefaultPath+")")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	rootCmd.AddCommand(pushCmd)
	rootCmd.AddCommand(runningCmd)
	rootCmd.AddCommand(lockCmd)
	rootCmd.AddCommand(versionCmd)
}

// requireDevice resolves the -d flag against the inventory.
func requireDevice() (*inventory.Device, error) {
	if deviceName == "" {
		return nil, fmt.Errorf("device is required: use -d <device>")
	}
	return inv.Device(deviceName)
}

// connect opens an SSH session to the device, prompting for a password when
// the inventory omits one, and acquires the distributed lock when the device
// has a lock address. The returned release func must always run.
func connect(ctx context.Context, dev *inventory.Device) (*session.SSHSession, func(), error) {
	password := dev.Password
	if password == "" {
		fmt.Fprintf(os.Stderr, "Password for %s@%s: ", dev.Username, dev.Host)
		raw, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return nil, nil, fmt.Errorf("reading password: %w", err)
		}
		password = string(raw)
	}

	var locker *lock.Locker
	holder := lockHolder()
	if dev.LockAddr != "" {
		locker = lock.New(dev.LockAddr)
		if err := locker.Connect(ctx); err != nil {
			locker.Close()
			return nil, nil, err
		}
		if err := locker.Acquire(ctx, deviceName, holder, 5*time.Minute); err != nil {
			locker.Close()
			return nil, nil, err
		}
	}

	release := func() {
		if locker != nil {
			if err := locker.Release(context.Background(), deviceName, holder); err != nil {
				util.WithDevice(deviceName).Warnf("Failed to release lock: %v", err)
			}
			locker.Close()
		}
	}

	sess, err := session.Dial(session.SSHConfig{
		Host:        dev.Host,
		Port:        dev.Port,
		Username:    dev.Username,
		Password:    password,
		RunningCmd:  dev.RunningCmd,
		SaveCmd:     dev.SaveCmd,
		ReplayApply: dev.ReplayApply,
	})
	if err != nil {
		release()
		return nil, nil, err
	}

	cleanup := func() {
		sess.Close()
		release()
	}
	return sess, cleanup, nil
}

func lockHolder() string {
	host, err := os.Hostname()
	if err != nil {
		host = "unknown"
	}
	return fmt.Sprintf("%s@%s/%d", os.Getenv("USER"), host, os.Getpid())
}
