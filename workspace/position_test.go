package workspace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/dhamidi/ptree/text"
)

func pos(line, char int) protocol.Position {
	return protocol.Position{Line: protocol.UInteger(line), Character: protocol.UInteger(char)}
}

func TestLineIndex(t *testing.T) {
	// é takes two bytes and one UTF-16 unit, 𝄞 four bytes and two units.
	li := NewLineIndex([]byte("héllo\n𝄞x\n"))

	tests := []struct {
		name   string
		pos    protocol.Position
		offset text.Unit
	}{
		{"start", pos(0, 0), 0},
		{"after two byte rune", pos(0, 2), 3},
		{"end of first line", pos(0, 5), 6},
		{"after surrogate pair", pos(1, 2), 11},
		{"start of last line", pos(2, 0), 13},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.offset, li.Offset(tt.pos))
			assert.Equal(t, tt.pos, li.Position(tt.offset))
		})
	}
}

func TestLineIndex_Clamps(t *testing.T) {
	li := NewLineIndex([]byte("héllo\n𝄞x\n"))

	assert.Equal(t, text.Unit(6), li.Offset(pos(0, 100)), "past the end of a line")
	assert.Equal(t, text.Unit(13), li.Offset(pos(5, 0)), "past the last line")
	assert.Equal(t, text.Unit(7), li.Offset(pos(1, 1)), "inside a surrogate pair")
	assert.Equal(t, pos(2, 0), li.Position(100))
}

func TestLineIndex_Range(t *testing.T) {
	li := NewLineIndex([]byte("ab\ncd"))
	assert.Equal(t, protocol.Range{Start: pos(0, 1), End: pos(1, 1)}, li.Range(text.FromTo(1, 4)))
}
