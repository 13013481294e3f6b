package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"fretloop/config"
	"fretloop/debug"
	"fretloop/fretboard"
	"fretloop/midi"
	"fretloop/sequencer"
	"fretloop/theme"
	"fretloop/tui"
)

func main() {
	var err error
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "export":
			err = runExport(os.Args[2:])
		case "init":
			err = runInit(os.Args[2:])
		default:
			err = run(os.Args[1:])
		}
	} else {
		err = run(nil)
	}

	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if err := config.LoadDotEnv(); err != nil {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	if path != "" {
		return config.LoadFile(path)
	}
	return config.Load()
}

func clockFromConfig(cfg *config.Config) sequencer.Clock {
	return sequencer.NewClock(cfg.Clock.Tempo, cfg.Clock.BeatsPerMeasure)
}

func voicesFromConfig(cfg *config.Config) sequencer.Voices {
	return sequencer.Voices{
		Chord:  sequencer.Voice{Channel: cfg.Output.ChordChannel, Velocity: cfg.Output.ChordVelocity},
		Melody: sequencer.Voice{Channel: cfg.Output.MelodyChannel, Velocity: cfg.Output.MelodyVelocity},
	}
}

func gridFromConfig(cfg *config.Config) (*fretboard.Grid, error) {
	tuning, err := cfg.Tuning()
	if err != nil {
		return nil, err
	}
	return fretboard.NewGrid(tuning, cfg.Instrument.Frets)
}

func run(args []string) error {
	fs := flag.NewFlagSet("fretloop", flag.ContinueOnError)
	configPath := fs.String("config", "", "config file (default ~/.config/fretloop/config.yaml)")
	port := fs.String("port", "", "MIDI output port, matched by substring")
	noInput := fs.Bool("no-input", false, "do not connect MIDI keyboards")
	debugLog := fs.Bool("debug", false, "write ~/.config/fretloop/debug.log")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	if *port != "" {
		cfg.Output.PortName = *port
	}
	if *noInput {
		cfg.Input.Enabled = false
	}
	if *debugLog {
		cfg.Debug = true
	}

	if cfg.Debug {
		if path, err := config.DebugLogPath(); err == nil {
			if err := debug.Enable(path); err != nil {
				return fmt.Errorf("debug log: %w", err)
			}
			defer debug.Disable()
		}
	}

	palette := theme.DefaultPalette()
	if cfg.UI.Palette != "" {
		if palette, err = theme.LoadGPL(cfg.UI.Palette); err != nil {
			return err
		}
	}
	th := theme.New(palette)

	grid, err := gridFromConfig(cfg)
	if err != nil {
		return err
	}

	out := midi.NewOutput(cfg.Output.PortName)
	defer midi.CloseDriver()
	defer out.Close()

	manager := sequencer.NewManager(grid, out, clockFromConfig(cfg), voicesFromConfig(cfg))
	defer manager.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// MIDI keyboard hot-plug
	var deviceMgr *midi.DeviceManager
	if cfg.Input.Enabled {
		deviceMgr = midi.NewDeviceManager(cfg.Input.PortMatch)
		go deviceMgr.Run(ctx)
	}

	debug.Log("main", "start tempo=%d beats=%d port=%q", cfg.Clock.Tempo, cfg.Clock.BeatsPerMeasure, cfg.Output.PortName)

	m := tui.NewModel(ctx, manager, deviceMgr, th)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

// runInit writes the default config file unless one exists.
func runInit(args []string) error {
	fs := flag.NewFlagSet("fretloop init", flag.ContinueOnError)
	force := fs.Bool("force", false, "overwrite an existing config")
	if err := fs.Parse(args); err != nil {
		return err
	}

	path, err := config.ConfigPath()
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err == nil && !*force {
		return fmt.Errorf("%s already exists (use -force)", path)
	}
	if err := config.DefaultConfig().SaveFile(path); err != nil {
		return err
	}
	fmt.Println("wrote", path)
	return nil
}
