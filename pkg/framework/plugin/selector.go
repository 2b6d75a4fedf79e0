package plugin

import (
	"math"

	"github.com/justyntemme/lfogo/pkg/framework/debug"
)

// SelectorGuard converts host selector codes at the processor boundary.
// A rejected code keeps the last valid value and is logged once until a
// different code is rejected.
type SelectorGuard struct {
	logger   *debug.Logger
	rejected map[uint32]float64
}

// NewSelectorGuard creates a guard for the given parameter IDs.
func NewSelectorGuard(logger *debug.Logger, ids ...uint32) *SelectorGuard {
	g := &SelectorGuard{
		logger:   logger,
		rejected: make(map[uint32]float64, len(ids)),
	}
	for _, id := range ids {
		g.rejected[id] = math.NaN()
	}
	return g
}

// SetLogger replaces the warning destination.
func (g *SelectorGuard) SetLogger(logger *debug.Logger) {
	g.logger = logger
}

// Select converts code with convert. On error it returns current.
func Select[T any](g *SelectorGuard, id uint32, code float64, convert func(float64) (T, error), current T) T {
	v, err := convert(code)
	if err != nil {
		if last, seen := g.rejected[id]; !seen || last != code {
			g.rejected[id] = code
			if g.logger != nil {
				g.logger.Warn("%v; keeping %v", err, current)
			}
		}
		return current
	}
	return v
}
