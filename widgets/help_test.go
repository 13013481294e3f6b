package widgets

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var sections = []KeySection{
	{Title: "Board", Keys: []KeyBinding{{"hjkl", "move"}, {"space", "toggle"}}},
	{Keys: []KeyBinding{{"q", "quit"}}},
}

func TestRenderKeyHelp(t *testing.T) {
	want := "Board\n  hjkl         move\n  space        toggle\n  q            quit"
	assert.Equal(t, want, RenderKeyHelp(sections))
}

func TestRenderKeyLine(t *testing.T) {
	assert.Equal(t, "hjkl:move  space:toggle  q:quit", RenderKeyLine(sections))
	assert.Empty(t, RenderKeyLine(nil))
}
