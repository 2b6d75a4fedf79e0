// Package bus declares the ports a processor exposes to its host.
package bus

import "fmt"

// MediaType represents the signal carried by a bus
type MediaType int32

const (
	// MediaTypeCV carries control voltage in volts
	MediaTypeCV MediaType = 0
	// MediaTypeAudio carries audio in [-1, 1]
	MediaTypeAudio MediaType = 1
)

// String returns the display name of the media type
func (m MediaType) String() string {
	switch m {
	case MediaTypeCV:
		return "CV"
	case MediaTypeAudio:
		return "Audio"
	default:
		return "Unknown"
	}
}

// Direction represents the bus direction
type Direction int32

const (
	// DirectionInput represents input bus
	DirectionInput Direction = 0
	// DirectionOutput represents output bus
	DirectionOutput Direction = 1
)

// Info contains bus configuration
type Info struct {
	MediaType    MediaType
	Direction    Direction
	ChannelCount int32
	Name         string
	IsActive     bool
}

// Configuration lists a processor's buses in declaration order
type Configuration struct {
	buses []Info
}

// NewCVConfiguration declares one mono CV bus per name.
func NewCVConfiguration(inputs, outputs []string) *Configuration {
	c := &Configuration{}
	for _, name := range inputs {
		c.Add(MediaTypeCV, DirectionInput, name, 1)
	}
	for _, name := range outputs {
		c.Add(MediaTypeCV, DirectionOutput, name, 1)
	}
	return c
}

// Add appends an active bus
func (c *Configuration) Add(mediaType MediaType, direction Direction, name string, channels int32) *Configuration {
	c.buses = append(c.buses, Info{
		MediaType:    mediaType,
		Direction:    direction,
		ChannelCount: channels,
		Name:         name,
		IsActive:     true,
	})
	return c
}

// GetBusCount returns the number of buses for a given type and direction
func (c *Configuration) GetBusCount(mediaType MediaType, direction Direction) int32 {
	count := int32(0)
	for _, bus := range c.buses {
		if bus.MediaType == mediaType && bus.Direction == direction {
			count++
		}
	}
	return count
}

// GetBusInfo returns information about a specific bus
func (c *Configuration) GetBusInfo(mediaType MediaType, direction Direction, index int32) *Info {
	busIndex := int32(0)
	for i := range c.buses {
		if c.buses[i].MediaType == mediaType && c.buses[i].Direction == direction {
			if busIndex == index {
				return &c.buses[i]
			}
			busIndex++
		}
	}
	return nil
}

// ChannelCount returns the total channels of active buses in one direction,
// the width of the matching process.Context buffers.
func (c *Configuration) ChannelCount(direction Direction) int {
	total := 0
	for _, bus := range c.buses {
		if bus.Direction == direction && bus.IsActive {
			total += int(bus.ChannelCount)
		}
	}
	return total
}

// ChannelNames returns one label per channel in one direction
func (c *Configuration) ChannelNames(direction Direction) []string {
	var names []string
	for _, bus := range c.buses {
		if bus.Direction != direction || !bus.IsActive {
			continue
		}
		if bus.ChannelCount == 1 {
			names = append(names, bus.Name)
			continue
		}
		for ch := int32(0); ch < bus.ChannelCount; ch++ {
			names = append(names, fmt.Sprintf("%s %d", bus.Name, ch+1))
		}
	}
	return names
}
