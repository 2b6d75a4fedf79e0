package plugin

import (
	"errors"
	"fmt"
	"strings"
)

// Info contains plugin metadata
type Info struct {
	ID       string // Unique plugin identifier (e.g., "com.example.myplugin")
	Name     string // Display name
	Version  string // Semantic version (e.g., "1.0.0")
	Vendor   string // Company/developer name
	Category string // Plugin category (e.g., "Modulator")
}

// ErrInvalidInfo is returned by Validate for incomplete metadata.
var ErrInvalidInfo = errors.New("plugin: invalid info")

// Validate checks that the identifying fields are present and well formed.
func (i Info) Validate() error {
	if i.ID == "" || strings.ContainsAny(i.ID, " \t\n") {
		return fmt.Errorf("%w: id %q", ErrInvalidInfo, i.ID)
	}
	if i.Name == "" {
		return fmt.Errorf("%w: %s has no name", ErrInvalidInfo, i.ID)
	}
	if strings.Count(i.Version, ".") != 2 {
		return fmt.Errorf("%w: %s version %q is not major.minor.patch", ErrInvalidInfo, i.ID, i.Version)
	}
	return nil
}

// String returns "Name version (id)"
func (i Info) String() string {
	return fmt.Sprintf("%s %s (%s)", i.Name, i.Version, i.ID)
}
