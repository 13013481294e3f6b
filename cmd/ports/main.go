package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"fretloop/fretboard"
	"fretloop/midi"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}
	defer midi.CloseDriver()

	switch os.Args[1] {
	case "list":
		listPorts()
	case "tone":
		port := ""
		if len(os.Args) > 2 {
			port = os.Args[2]
		}
		if err := playTone(port); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	case "poll":
		pollKeyboards()
	default:
		usage()
	}
}

func usage() {
	fmt.Println("MIDI port tools")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  list         - List all MIDI ports")
	fmt.Println("  tone [port]  - Play C4 on an output port")
	fmt.Println("  poll         - Watch keyboards connect and print notes")
}

func listPorts() {
	fmt.Println("=== MIDI Ports ===")
	fmt.Println("(waiting up to 3 seconds...)")

	type result struct {
		ins, outs []string
	}
	ch := make(chan result, 1)
	go func() {
		ins, outs := midi.ListPorts()
		ch <- result{ins: ins, outs: outs}
	}()

	select {
	case r := <-ch:
		fmt.Println("Inputs:")
		for i, p := range r.ins {
			fmt.Printf("  %d: %s\n", i, p)
		}
		fmt.Println("\nOutputs:")
		for i, p := range r.outs {
			fmt.Printf("  %d: %s\n", i, p)
		}
	case <-time.After(3 * time.Second):
		fmt.Println("\nTIMEOUT! The MIDI backend is not answering.")
	}
}

func playTone(port string) error {
	out := midi.NewOutput(port)
	defer out.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := out.Ready(ctx); err != nil {
		return err
	}
	fmt.Printf("Playing C4 on %s\n", out.PortName())

	on := midi.Event{Type: midi.NoteOn, Channel: 0, Note: 60, Velocity: 100}
	if err := out.Send(on); err != nil {
		return err
	}
	time.Sleep(500 * time.Millisecond)
	return out.Send(on.Off())
}

func pollKeyboards() {
	fmt.Println("Watching for keyboards. Ctrl+C to exit.")

	dm := midi.NewDeviceManager("")
	go dm.Run(context.Background())

	for ev := range dm.Events() {
		stamp := time.Now().Format("15:04:05")
		switch ev.Type {
		case midi.DeviceConnected:
			fmt.Printf("[%s] connected %s\n", stamp, ev.ID)
			go printNotes(ev.Controller)
		case midi.DeviceDisconnected:
			fmt.Printf("[%s] disconnected %s\n", stamp, ev.ID)
		}
	}
}

func printNotes(c midi.Controller) {
	for n := range c.NoteEvents() {
		p := fretboard.PitchFromMIDI(int(n.Note))
		fmt.Printf("  %-12s %-4s vel=%d ch=%d\n", c.ID(), p, n.Velocity, n.Channel)
	}
}
