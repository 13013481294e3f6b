package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// KeySection groups related key bindings
type KeySection struct {
	Title string
	Keys  []KeyBinding
}

// KeyBinding is a single key and its description
type KeyBinding struct {
	Key  string
	Desc string
}

// RenderKeyHelp formats key bindings one per line under section titles
func RenderKeyHelp(sections []KeySection) string {
	var lines []string
	for _, sec := range sections {
		if sec.Title != "" {
			lines = append(lines, sec.Title)
		}
		for _, k := range sec.Keys {
			lines = append(lines, fmt.Sprintf("  %-12s %s", k.Key, k.Desc))
		}
	}
	return strings.Join(lines, "\n")
}

// RenderKeyLine formats every binding on a single line: "key:desc  key:desc"
func RenderKeyLine(sections []KeySection) string {
	var parts []string
	for _, sec := range sections {
		for _, k := range sec.Keys {
			parts = append(parts, k.Key+":"+k.Desc)
		}
	}
	return strings.Join(parts, "  ")
}

// RenderLegendItem renders "● name" with the symbol in the given color
func RenderLegendItem(symbol rune, color lipgloss.Color, name string) string {
	return lipgloss.NewStyle().Foreground(color).Render(string(symbol)) + " " + name
}
