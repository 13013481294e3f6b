package theme

import (
	"github.com/charmbracelet/lipgloss"
)

type Theme struct {
	Palette *Palette
	Symbols Symbols
}

// Symbols drawn for each fretboard cell state
type Symbols struct {
	Fret    rune // · empty fret
	Engaged rune // ● engaged fret
	InScale rune // ○ pitch is in the marked scale

	StepOff rune // · step not marked
	StepOn  rune // ● step marked

	Nut rune // ║ between open string and fret 1
	Bar rune // │ fret wire
}

func New(palette *Palette) *Theme {
	if palette == nil {
		palette = DefaultPalette()
	}
	return &Theme{
		Palette: palette,
		Symbols: Symbols{
			Fret:    '·',
			Engaged: '●',
			InScale: '○',

			StepOff: '·',
			StepOn:  '●',

			Nut: '║',
			Bar: '│',
		},
	}
}

// Color roles mapped to palette positions (0-1)
const (
	RoleBG      = 0.0
	RoleSurface = 0.1
	RoleMuted   = 0.3
	RoleFG      = 0.5
	RoleAccent  = 0.6
	RoleCursor  = 0.7
	RoleActive  = 0.8
	RoleWarning = 0.9
	RoleSuccess = 1.0
)

func (t *Theme) BG() lipgloss.Color      { return t.Color(RoleBG) }
func (t *Theme) Surface() lipgloss.Color { return t.Color(RoleSurface) }
func (t *Theme) FG() lipgloss.Color      { return t.Color(RoleFG) }
func (t *Theme) Accent() lipgloss.Color  { return t.Color(RoleAccent) }
func (t *Theme) Muted() lipgloss.Color   { return t.Color(RoleMuted) }
func (t *Theme) Active() lipgloss.Color  { return t.Color(RoleActive) }
func (t *Theme) Cursor() lipgloss.Color  { return t.Color(RoleCursor) }
func (t *Theme) Warning() lipgloss.Color { return t.Color(RoleWarning) }
func (t *Theme) Success() lipgloss.Color { return t.Color(RoleSuccess) }

// Color returns lipgloss color for any normalized value 0-1
func (t *Theme) Color(norm float64) lipgloss.Color {
	return lipgloss.Color(t.Palette.Lookup(norm).Hex())
}
