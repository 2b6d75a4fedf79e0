package plugin

import (
	"github.com/justyntemme/lfogo/pkg/framework/bus"
	"github.com/justyntemme/lfogo/pkg/framework/param"
	"github.com/justyntemme/lfogo/pkg/framework/process"
)

// Plugin is the main interface that users implement
type Plugin interface {
	// GetInfo returns plugin metadata
	GetInfo() Info

	// CreateProcessor creates a new instance of the processor
	CreateProcessor() Processor
}

// Processor handles the actual block processing
type Processor interface {
	// Initialize is called when the processor is created
	Initialize(sampleRate float64, maxBlockSize int32) error

	// ProcessAudio processes one block - ZERO ALLOCATIONS!
	ProcessAudio(ctx *process.Context)

	// GetParameters returns the parameter registry
	GetParameters() *param.Registry

	// GetBuses returns the bus configuration
	GetBuses() *bus.Configuration

	// SetActive is called when processing starts/stops
	SetActive(active bool) error
}

// Seeder is implemented by processors with stochastic output.
type Seeder interface {
	SetSeed(seed int64)
}
