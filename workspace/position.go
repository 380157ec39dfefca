package workspace

import (
	"sort"
	"unicode/utf16"
	"unicode/utf8"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/dhamidi/ptree/text"
)

// LineIndex converts between byte offsets and LSP positions, whose
// characters count UTF-16 code units.
type LineIndex struct {
	content    []byte
	lineStarts []int
}

func NewLineIndex(content []byte) *LineIndex {
	starts := []int{0}
	for i, b := range content {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &LineIndex{content: content, lineStarts: starts}
}

// Offset returns the byte offset of pos. Positions past the end of a line
// clamp to the line end, lines past the end of the content clamp to its
// length.
func (li *LineIndex) Offset(pos protocol.Position) text.Unit {
	line := int(pos.Line)
	if line >= len(li.lineStarts) {
		return text.Unit(len(li.content))
	}
	offset := li.lineStarts[line]
	end := li.lineEnd(line)

	units := int(pos.Character)
	for offset < end && units > 0 {
		r, size := utf8.DecodeRune(li.content[offset:end])
		n := utf16.RuneLen(r)
		if n < 0 {
			n = 1
		}
		if n > units {
			break
		}
		units -= n
		offset += size
	}
	return text.Unit(offset)
}

// Position returns the LSP position of a byte offset.
func (li *LineIndex) Position(offset text.Unit) protocol.Position {
	off := min(int(offset), len(li.content))
	line := sort.Search(len(li.lineStarts), func(i int) bool {
		return li.lineStarts[i] > off
	}) - 1

	var units int
	for i := li.lineStarts[line]; i < off; {
		r, size := utf8.DecodeRune(li.content[i:off])
		n := utf16.RuneLen(r)
		if n < 0 {
			n = 1
		}
		units += n
		i += size
	}
	return protocol.Position{Line: protocol.UInteger(line), Character: protocol.UInteger(units)}
}

// Range converts a text range to an LSP range.
func (li *LineIndex) Range(r text.Range) protocol.Range {
	return protocol.Range{Start: li.Position(r.Start()), End: li.Position(r.End())}
}

// lineEnd returns the offset of the line's newline, or the content length
// for the last line.
func (li *LineIndex) lineEnd(line int) int {
	if line+1 < len(li.lineStarts) {
		return li.lineStarts[line+1] - 1
	}
	return len(li.content)
}
