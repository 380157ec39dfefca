// Package text defines offsets and half-open ranges over source text.
//
// The types here never hold the text itself. Callers keep the source and
// use a Range to cut pieces out of it.
package text

import "fmt"

// Unit is an offset into source text, measured in bytes.
type Unit uint32

// Add returns u + other.
func (u Unit) Add(other Unit) Unit {
	return u + other
}

// Sub returns u - other. It panics if other is greater than u.
func (u Unit) Sub(other Unit) Unit {
	if other > u {
		panic(fmt.Sprintf("text unit underflow: %d - %d", u, other))
	}
	return u - other
}

func (u Unit) String() string {
	return fmt.Sprintf("%d", uint32(u))
}

// Range is the half-open interval [Start, End) of source text. Empty ranges
// are valid; they mark a position rather than a span.
type Range struct {
	start Unit
	end   Unit
}

// FromTo returns the range [start, end). It panics if start > end.
func FromTo(start, end Unit) Range {
	if start > end {
		panic(fmt.Sprintf("invalid text range [%d; %d)", start, end))
	}
	return Range{start: start, end: end}
}

// FromLen returns the range of the given length beginning at start.
func FromLen(start, length Unit) Range {
	return FromTo(start, start.Add(length))
}

// Empty returns the zero-length range at offset 0.
func Empty() Range {
	return Range{}
}

func (r Range) Start() Unit { return r.start }

func (r Range) End() Unit { return r.end }

func (r Range) Len() Unit { return r.end - r.start }

func (r Range) IsEmpty() bool { return r.start == r.end }

// ContainsOffset reports whether off lies within r. Both ends are inclusive,
// so an offset sitting exactly on a boundary is contained.
func (r Range) ContainsOffset(off Unit) bool {
	return r.start <= off && off <= r.end
}

// ContainsRange reports whether sub lies within r, inclusive at both ends.
func (r Range) ContainsRange(sub Range) bool {
	return r.start <= sub.start && sub.end <= r.end
}

// Slice returns the part of src covered by r.
func (r Range) Slice(src string) string {
	return src[r.start:r.end]
}

func (r Range) String() string {
	return fmt.Sprintf("[%d; %d)", r.start, r.end)
}
