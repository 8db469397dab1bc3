package sym

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestCommandAndSymbolAreBidirectional(t *testing.T) {
	assert.Len(t, CommandToSymbol, len(commands))
	for cmd, glyph := range CommandToSymbol {
		assert.Equal(t, cmd, SymbolToCommand[glyph], "glyph %q", glyph)
		assert.NotEmpty(t, CommandDescriptions[cmd])
	}
}

func TestGlyphsAreSingleRunes(t *testing.T) {
	seen := map[string]string{}
	for _, e := range append(append([]entry{}, commands...), tasks...) {
		assert.Equal(t, 1, utf8.RuneCountInString(e.glyph), "%s", e.name)
		if prev, ok := seen[e.glyph]; ok {
			t.Errorf("%s reuses the glyph of %s", e.name, prev)
		}
		seen[e.glyph] = e.name
	}
}

func TestTask(t *testing.T) {
	assert.Equal(t, Entity, Task("EntityLinking"))
	assert.Equal(t, UnknownTask, Task("Gate"))
	assert.Equal(t, "Best supported property per column", TaskDescription("PropertyLinking"))
	assert.Empty(t, TaskDescription("Gate"))
}
