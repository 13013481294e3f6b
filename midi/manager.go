package midi

import (
	"context"
	"strings"
	"sync"
	"time"

	"fretloop/debug"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register MIDI driver
)

// DeviceEvent is emitted when controllers connect/disconnect
type DeviceEvent struct {
	Type       DeviceEventType
	Controller Controller
	ID         string
}

type DeviceEventType int

const (
	DeviceConnected DeviceEventType = iota
	DeviceDisconnected
)

// Virtual/system ports that are never auto-connected.
var excludedPorts = []string{"midi through", "through port", "dummy"}

// DeviceManager handles hot-plug detection of MIDI keyboards
type DeviceManager struct {
	match       string // case-insensitive substring of the port name, "" = any
	controllers map[string]Controller
	mu          sync.RWMutex
	events      chan DeviceEvent
	pollRate    time.Duration
}

// NewDeviceManager creates a device manager that connects inputs whose name
// contains match.
func NewDeviceManager(match string) *DeviceManager {
	return &DeviceManager{
		match:       strings.ToLower(match),
		controllers: make(map[string]Controller),
		events:      make(chan DeviceEvent, 16),
		pollRate:    time.Second,
	}
}

// Events returns a channel of device connect/disconnect events
func (dm *DeviceManager) Events() <-chan DeviceEvent {
	return dm.events
}

// Controllers returns a snapshot of connected controllers
func (dm *DeviceManager) Controllers() map[string]Controller {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	out := make(map[string]Controller, len(dm.controllers))
	for k, v := range dm.controllers {
		out[k] = v
	}
	return out
}

// Run starts the polling loop (blocking - run in goroutine)
func (dm *DeviceManager) Run(ctx context.Context) {
	ticker := time.NewTicker(dm.pollRate)
	defer ticker.Stop()

	dm.scan()

	for {
		select {
		case <-ctx.Done():
			dm.closeAll()
			close(dm.events)
			return
		case <-ticker.C:
			dm.scan()
		}
	}
}

// Wanted reports whether a port name should be auto-connected.
func (dm *DeviceManager) Wanted(name string) bool {
	lower := strings.ToLower(name)
	for _, pat := range excludedPorts {
		if strings.Contains(lower, pat) {
			return false
		}
	}
	return dm.match == "" || strings.Contains(lower, dm.match)
}

func (dm *DeviceManager) scan() {
	// Port listing can hang on some backends
	ch := make(chan []drivers.In, 1)
	go func() {
		ch <- gomidi.GetInPorts()
	}()

	var inPorts []drivers.In
	select {
	case inPorts = <-ch:
	case <-time.After(3 * time.Second):
		debug.Log("devices", "port scan timed out")
		return
	}

	seenIDs := make(map[string]bool)

	for _, inPort := range inPorts {
		id := inPort.String()
		if !dm.Wanted(id) {
			continue
		}
		seenIDs[id] = true

		dm.mu.RLock()
		_, exists := dm.controllers[id]
		dm.mu.RUnlock()
		if exists {
			continue
		}

		kb, err := NewKeyboardController(id, inPort)
		if err != nil {
			debug.Log("devices", "connect %s failed: %v", id, err)
			continue
		}

		dm.mu.Lock()
		dm.controllers[id] = kb
		dm.mu.Unlock()

		debug.Log("devices", "connected %s", id)
		dm.events <- DeviceEvent{
			Type:       DeviceConnected,
			Controller: kb,
			ID:         id,
		}
	}

	dm.mu.Lock()
	var toRemove []string
	for id := range dm.controllers {
		if !seenIDs[id] {
			toRemove = append(toRemove, id)
		}
	}
	for _, id := range toRemove {
		dm.controllers[id].Close()
		delete(dm.controllers, id)
		debug.Log("devices", "disconnected %s", id)
		dm.events <- DeviceEvent{
			Type: DeviceDisconnected,
			ID:   id,
		}
	}
	dm.mu.Unlock()
}

func (dm *DeviceManager) closeAll() {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	for _, c := range dm.controllers {
		c.Close()
	}
	dm.controllers = make(map[string]Controller)
}
