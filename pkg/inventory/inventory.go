// Package inventory loads and validates the YAML device inventory.
package inventory

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/newtron-network/confsync/pkg/util"
)

// DefaultPath is the default inventory location.
var DefaultPath = "/etc/confsync/inventory.yaml"

// Device describes how to reach and coordinate on one device.
type Device struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port,omitempty"`
	Username string `yaml:"username,omitempty"`
	Password string `yaml:"password,omitempty"`

	// ReplayApply selects the replay-transaction apply path for platforms
	// without native commit/abort config sessions.
	ReplayApply bool `yaml:"replay_apply,omitempty"`

	// RunningCmd and SaveCmd override the platform defaults.
	RunningCmd string `yaml:"running_cmd,omitempty"`
	SaveCmd    string `yaml:"save_cmd,omitempty"`

	// LockAddr is the Redis address used for the distributed device lock;
	// empty disables locking.
	LockAddr string `yaml:"lock_addr,omitempty"`
}

// Inventory is the parsed inventory file. Defaults fill in fields a device
// entry leaves empty.
type Inventory struct {
	Defaults Device             `yaml:"defaults"`
	Devices  map[string]*Device `yaml:"devices"`
}

// Load parses and validates an inventory file.
func Load(path string) (*Inventory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading inventory: %w", err)
	}

	var inv Inventory
	if err := yaml.Unmarshal(data, &inv); err != nil {
		return nil, fmt.Errorf("parsing inventory YAML: %w", err)
	}

	if err := validate(&inv); err != nil {
		return nil, fmt.Errorf("validating inventory: %w", err)
	}
	return &inv, nil
}

func validate(inv *Inventory) error {
	if len(inv.Devices) == 0 {
		return util.NewInvalidConfigError("at least one device is required")
	}
	for name, d := range inv.Devices {
		if d == nil {
			return util.NewInvalidConfigError(fmt.Sprintf("device %s: empty entry", name))
		}
		if d.Host == "" && inv.Defaults.Host == "" {
			return util.NewInvalidConfigError(fmt.Sprintf("device %s: host is required", name))
		}
	}
	return nil
}

// Device returns the named device with defaults merged in. Returns
// util.ErrNotFound when the device is not in the inventory.
func (inv *Inventory) Device(name string) (*Device, error) {
	d, ok := inv.Devices[name]
	if !ok {
		return nil, fmt.Errorf("device %s: %w", name, util.ErrNotFound)
	}

	merged := *d
	if merged.Host == "" {
		merged.Host = inv.Defaults.Host
	}
	if merged.Port == 0 {
		merged.Port = inv.Defaults.Port
	}
	if merged.Username == "" {
		merged.Username = inv.Defaults.Username
	}
	if merged.Password == "" {
		merged.Password = inv.Defaults.Password
	}
	if merged.RunningCmd == "" {
		merged.RunningCmd = inv.Defaults.RunningCmd
	}
	if merged.SaveCmd == "" {
		merged.SaveCmd = inv.Defaults.SaveCmd
	}
	if merged.LockAddr == "" {
		merged.LockAddr = inv.Defaults.LockAddr
	}
	if !merged.ReplayApply {
		merged.ReplayApply = inv.Defaults.ReplayApply
	}
	return &merged, nil
}

// Names returns the device names in the inventory.
func (inv *Inventory) Names() []string {
	names := make([]string, 0, len(inv.Devices))
	for name := range inv.Devices {
		names = append(names, name)
	}
	return names
}
