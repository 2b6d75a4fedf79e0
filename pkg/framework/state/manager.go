// Package state saves and restores parameter presets.
//
// A preset is a small little-endian binary blob: a magic header, a format
// version, the owning plugin ID and the normalized value of every parameter.
package state

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/justyntemme/lfogo/pkg/framework/param"
)

const (
	magic = "LFOPST"

	// Version is the preset format written by Save.
	Version uint32 = 1

	maxIDLength = 256
)

var (
	// ErrInvalidState is returned for data that is not a readable preset.
	ErrInvalidState = errors.New("state: invalid preset")

	// ErrPluginMismatch is returned when a preset belongs to another plugin.
	ErrPluginMismatch = errors.New("state: preset belongs to another plugin")
)

// Manager saves and loads the parameters of one plugin instance
type Manager struct {
	pluginID string
	registry *param.Registry
}

// NewManager creates a manager for the given plugin ID and parameters
func NewManager(pluginID string, registry *param.Registry) *Manager {
	return &Manager{
		pluginID: pluginID,
		registry: registry,
	}
}

// Save writes the current parameter values to w
func (m *Manager) Save(w io.Writer) error {
	if _, err := io.WriteString(w, magic); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, Version); err != nil {
		return err
	}

	if err := binary.Write(w, binary.LittleEndian, uint16(len(m.pluginID))); err != nil {
		return err
	}
	if _, err := io.WriteString(w, m.pluginID); err != nil {
		return err
	}

	params := m.registry.All()
	if err := binary.Write(w, binary.LittleEndian, uint32(len(params))); err != nil {
		return err
	}
	for _, p := range params {
		if err := binary.Write(w, binary.LittleEndian, p.ID); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, p.GetValue()); err != nil {
			return err
		}
	}
	return nil
}

type entry struct {
	id    uint32
	value float64
}

// Load reads a preset from r. Values are applied only when the whole preset
// is valid; IDs the registry does not know are skipped.
func (m *Manager) Load(r io.Reader) error {
	header := make([]byte, len(magic))
	if _, err := io.ReadFull(r, header); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidState, err)
	}
	if string(header) != magic {
		return fmt.Errorf("%w: bad header %q", ErrInvalidState, header)
	}

	var version uint32
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidState, err)
	}
	if version == 0 || version > Version {
		return fmt.Errorf("%w: version %d is not supported", ErrInvalidState, version)
	}

	var idLen uint16
	if err := binary.Read(r, binary.LittleEndian, &idLen); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidState, err)
	}
	if idLen > maxIDLength {
		return fmt.Errorf("%w: plugin ID length %d", ErrInvalidState, idLen)
	}
	id := make([]byte, idLen)
	if _, err := io.ReadFull(r, id); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidState, err)
	}
	if string(id) != m.pluginID {
		return fmt.Errorf("%w: %q, want %q", ErrPluginMismatch, id, m.pluginID)
	}

	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidState, err)
	}

	var entries []entry
	for i := uint32(0); i < count; i++ {
		var e entry
		if err := binary.Read(r, binary.LittleEndian, &e.id); err != nil {
			return fmt.Errorf("%w: parameter %d: %v", ErrInvalidState, i, err)
		}
		if err := binary.Read(r, binary.LittleEndian, &e.value); err != nil {
			return fmt.Errorf("%w: parameter %d: %v", ErrInvalidState, i, err)
		}
		if math.IsNaN(e.value) || e.value < 0 || e.value > 1 {
			return fmt.Errorf("%w: parameter %d value %g", ErrInvalidState, e.id, e.value)
		}
		entries = append(entries, e)
	}

	for _, e := range entries {
		if p := m.registry.Get(e.id); p != nil {
			p.SetValue(e.value)
		}
	}
	return nil
}
