package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"fretloop/fretboard"
	"fretloop/midi"
	"fretloop/sequencer"
)

// runExport renders the loop described by flags to a Standard MIDI File.
//
//	fretloop export -frets 0:0,4:3 -steps 0,4,7 -root G -measures 8 -o loop.mid
func runExport(args []string) error {
	fs := flag.NewFlagSet("fretloop export", flag.ContinueOnError)
	configPath := fs.String("config", "", "config file (default ~/.config/fretloop/config.yaml)")
	frets := fs.String("frets", "", "engaged frets as string:fret pairs, e.g. 0:0,4:3")
	steps := fs.String("steps", "", "marked scale steps 0-11, e.g. 0,4,7")
	root := fs.String("root", "C", "root note")
	measures := fs.Int("measures", 4, "number of measures")
	outPath := fs.String("o", "loop.mid", "output file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *measures < 1 {
		return fmt.Errorf("measures must be at least 1")
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	grid, err := gridFromConfig(cfg)
	if err != nil {
		return err
	}

	snap, err := buildSnapshot(grid, *frets, *steps, *root)
	if err != nil {
		return err
	}
	if len(snap.Chord) == 0 {
		return fmt.Errorf("no frets selected")
	}

	song := sequencer.Render(snap, clockFromConfig(cfg), voicesFromConfig(cfg), *measures)

	f, err := os.Create(*outPath)
	if err != nil {
		return err
	}
	if err := midi.WriteSMF(f, song); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Printf("wrote %d measures to %s\n", *measures, *outPath)
	return nil
}

// buildSnapshot resolves the flag values the same way the UI intents do.
func buildSnapshot(grid *fretboard.Grid, frets, steps, root string) (sequencer.Snapshot, error) {
	var sel fretboard.Selection
	coords, err := parseCoords(frets)
	if err != nil {
		return sequencer.Snapshot{}, err
	}
	for _, c := range coords {
		if err := grid.Check(c); err != nil {
			return sequencer.Snapshot{}, fmt.Errorf("-frets %s: %w", c, err)
		}
		sel.Toggle(c)
	}

	var marks fretboard.StepMarks
	nums, err := parseInts(steps)
	if err != nil {
		return sequencer.Snapshot{}, fmt.Errorf("-steps: %w", err)
	}
	for _, n := range nums {
		if marks.Has(n) {
			continue
		}
		if err := marks.Toggle(n); err != nil {
			return sequencer.Snapshot{}, fmt.Errorf("-steps: %w", err)
		}
	}

	rootNote, err := fretboard.ParseNote(root)
	if err != nil {
		return sequencer.Snapshot{}, fmt.Errorf("-root: %w", err)
	}
	chromatic, _ := fretboard.CanonicalChromatic().Rotate(rootNote)

	return sequencer.Snapshot{
		Chord:  sel.Resolve(grid),
		Melody: marks.Resolve(chromatic),
	}, nil
}

func parseCoords(s string) ([]fretboard.Coord, error) {
	var out []fretboard.Coord
	for _, part := range splitList(s) {
		str, fret, ok := strings.Cut(part, ":")
		if !ok {
			return nil, fmt.Errorf("-frets %q: want string:fret", part)
		}
		si, err := strconv.Atoi(str)
		if err != nil {
			return nil, fmt.Errorf("-frets %q: %w", part, err)
		}
		fi, err := strconv.Atoi(fret)
		if err != nil {
			return nil, fmt.Errorf("-frets %q: %w", part, err)
		}
		out = append(out, fretboard.Coord{Str: si, Fret: fi})
	}
	return out, nil
}

func parseInts(s string) ([]int, error) {
	var out []int
	for _, part := range splitList(s) {
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
