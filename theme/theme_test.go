package theme

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleGPL = `GIMP Palette
Name: two
Columns: 2
# comment
0 0 0	black
255 255 255	white
300 1 1	out of range
`

func TestParseGPL(t *testing.T) {
	p, err := ParseGPL(strings.NewReader(sampleGPL))
	require.NoError(t, err)
	assert.Equal(t, "two", p.Name)
	assert.Equal(t, []RGB{{0, 0, 0}, {255, 255, 255}}, p.Colors)

	_, err = ParseGPL(strings.NewReader("GIMP Palette\n"))
	assert.Error(t, err)
}

func TestLoadGPL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "two.gpl")
	require.NoError(t, os.WriteFile(path, []byte(sampleGPL), 0644))

	p, err := LoadGPL(path)
	require.NoError(t, err)
	assert.Len(t, p.Colors, 2)

	_, err = LoadGPL(filepath.Join(t.TempDir(), "missing.gpl"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLookup(t *testing.T) {
	p := &Palette{Colors: []RGB{{0, 0, 0}, {200, 100, 50}}}
	assert.Equal(t, RGB{0, 0, 0}, p.Lookup(-1))
	assert.Equal(t, RGB{200, 100, 50}, p.Lookup(2))
	assert.Equal(t, RGB{100, 50, 25}, p.Lookup(0.5))

	single := &Palette{Colors: []RGB{{1, 2, 3}}}
	assert.Equal(t, RGB{1, 2, 3}, single.Lookup(0.7))
}

func TestThemeColors(t *testing.T) {
	th := New(nil)
	assert.Equal(t, "ember", th.Palette.Name)
	assert.Equal(t, lipgloss.Color("#1b122e"), th.BG())
	assert.Equal(t, lipgloss.Color("#fcf28a"), th.Success())
	assert.Equal(t, "#0a0b0c", RGB{10, 11, 12}.Hex())
}
