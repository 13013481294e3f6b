package midi

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"fretloop/debug"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

var (
	ErrPortNotFound = errors.New("midi output port not found")
	ErrNotReady     = errors.New("midi output not opened")
)

// Output sends events to a MIDI out port. The port is opened lazily by
// Ready so start-up never blocks on a missing synth.
type Output struct {
	portName string

	mu   sync.Mutex
	port drivers.Out
	send func(gomidi.Message) error

	// listPorts is replaced in tests
	listPorts func() []drivers.Out
}

// NewOutput targets the first port whose name contains portName (case
// insensitive). An empty name picks the first available port.
func NewOutput(portName string) *Output {
	return &Output{
		portName: portName,
		listPorts: func() []drivers.Out {
			return gomidi.GetOutPorts()
		},
	}
}

// PortName returns the name of the opened port, or "".
func (o *Output) PortName() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.port == nil {
		return ""
	}
	return o.port.String()
}

// Ready opens the port if needed.
func (o *Output) Ready(ctx context.Context) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.send != nil {
		return nil
	}

	type result struct {
		ports []drivers.Out
	}
	ch := make(chan result, 1)
	go func() {
		ch <- result{ports: o.listPorts()}
	}()

	var ports []drivers.Out
	select {
	case r := <-ch:
		ports = r.ports
	case <-ctx.Done():
		return fmt.Errorf("list output ports: %w", ctx.Err())
	}

	port := pickPort(ports, o.portName)
	if port == nil {
		return fmt.Errorf("%q: %w", o.portName, ErrPortNotFound)
	}
	send, err := gomidi.SendTo(port)
	if err != nil {
		return fmt.Errorf("open output %q: %w", port.String(), err)
	}
	o.port = port
	o.send = send
	debug.Log("output", "opened %s", port.String())
	return nil
}

// Send writes one event immediately.
func (o *Output) Send(evt Event) error {
	o.mu.Lock()
	send := o.send
	o.mu.Unlock()
	if send == nil {
		return ErrNotReady
	}

	switch evt.Type {
	case NoteOn:
		return send(gomidi.NoteOn(evt.Channel, evt.Note, evt.Velocity))
	case NoteOff:
		return send(gomidi.NoteOff(evt.Channel, evt.Note))
	}
	return fmt.Errorf("unsupported event type 0x%x", evt.Type)
}

// Close silences every channel and closes the port.
func (o *Output) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.send == nil {
		return nil
	}
	for ch := uint8(0); ch < 16; ch++ {
		o.send(gomidi.ControlChange(ch, 123, 0)) // all notes off
	}
	err := o.port.Close()
	o.port = nil
	o.send = nil
	return err
}

func pickPort(ports []drivers.Out, name string) drivers.Out {
	if len(ports) == 0 {
		return nil
	}
	if name == "" {
		return ports[0]
	}
	want := strings.ToLower(name)
	for _, p := range ports {
		if strings.Contains(strings.ToLower(p.String()), want) {
			return p
		}
	}
	return nil
}

// ListPorts returns input and output port names.
func ListPorts() (ins, outs []string) {
	for _, p := range gomidi.GetInPorts() {
		ins = append(ins, p.String())
	}
	for _, p := range gomidi.GetOutPorts() {
		outs = append(outs, p.String())
	}
	return ins, outs
}

// CloseDriver releases the MIDI backend.
func CloseDriver() {
	gomidi.CloseDriver()
}
