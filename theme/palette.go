package theme

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

type RGB [3]uint8

// Palette is an ordered gradient of colors. Roles pick a point along it.
type Palette struct {
	Name   string
	Colors []RGB
}

// DefaultPalette is a dark-to-warm gradient used when no .gpl file is set.
func DefaultPalette() *Palette {
	return &Palette{
		Name: "ember",
		Colors: []RGB{
			{0x1b, 0x12, 0x2e},
			{0x2d, 0x1b, 0x4a},
			{0x5a, 0x2a, 0x6e},
			{0x8e, 0x3b, 0x7d},
			{0xc0, 0x4f, 0x7a},
			{0xe4, 0x6f, 0x5c},
			{0xf5, 0x9e, 0x3f},
			{0xfa, 0xd2, 0x3c},
			{0xfc, 0xf2, 0x8a},
		},
	}
}

// LoadGPL reads a GIMP palette file.
func LoadGPL(path string) (*Palette, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load palette: %w", err)
	}
	defer f.Close()

	p, err := ParseGPL(f)
	if err != nil {
		return nil, fmt.Errorf("load palette %s: %w", path, err)
	}
	return p, nil
}

// ParseGPL reads GIMP palette text: an optional "Name:" line, then one
// "R G B [label]" entry per line.
func ParseGPL(r io.Reader) (*Palette, error) {
	p := &Palette{}
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if strings.HasPrefix(line, "Name:") {
			p.Name = strings.TrimSpace(strings.TrimPrefix(line, "Name:"))
			continue
		}

		// Skip headers and comments
		if line == "" || line[0] == '#' || strings.HasPrefix(line, "GIMP") || strings.HasPrefix(line, "Columns") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 3 {
			continue
		}
		var c RGB
		ok := true
		for i := range c {
			v, err := strconv.Atoi(fields[i])
			if err != nil || v < 0 || v > 255 {
				ok = false
				break
			}
			c[i] = uint8(v)
		}
		if ok {
			p.Colors = append(p.Colors, c)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(p.Colors) == 0 {
		return nil, fmt.Errorf("no colors found")
	}
	return p, nil
}

// Lookup returns interpolated color for normalized value 0-1
func (p *Palette) Lookup(norm float64) RGB {
	if norm <= 0 || len(p.Colors) == 1 {
		return p.Colors[0]
	}
	if norm >= 1 {
		return p.Colors[len(p.Colors)-1]
	}

	pos := norm * float64(len(p.Colors)-1)
	i := int(pos)
	frac := pos - float64(i)

	c0 := p.Colors[i]
	c1 := p.Colors[i+1]

	return RGB{
		lerp(c0[0], c1[0], frac),
		lerp(c0[1], c1[1], frac),
		lerp(c0[2], c1[2], frac),
	}
}

func lerp(a, b uint8, t float64) uint8 {
	return uint8(float64(a)*(1-t) + float64(b)*t)
}

// Hex formats c as #rrggbb.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2])
}
