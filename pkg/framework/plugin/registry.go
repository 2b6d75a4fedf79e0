package plugin

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ErrUnknownPlugin is returned by Lookup for unregistered names.
var ErrUnknownPlugin = errors.New("plugin: unknown plugin")

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Plugin)
)

// Register makes a plugin available under name. It panics on an invalid
// Info or a duplicate name, both of which are programming errors.
func Register(name string, p Plugin) {
	if err := p.GetInfo().Validate(); err != nil {
		panic(err)
	}

	registryMu.Lock()
	defer registryMu.Unlock()

	key := strings.ToLower(name)
	if _, exists := registry[key]; exists {
		panic(fmt.Sprintf("plugin: %s registered twice", name))
	}
	registry[key] = p
}

// Lookup returns the plugin registered under name, ignoring case.
func Lookup(name string) (Plugin, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	p, ok := registry[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w %q (available: %s)", ErrUnknownPlugin, name, strings.Join(namesLocked(), ", "))
	}
	return p, nil
}

// Names returns the registered plugin names in sorted order.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return namesLocked()
}

func namesLocked() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
