package parse

import (
	"fmt"

	"github.com/dhamidi/ptree/parsetree"
	"github.com/dhamidi/ptree/text"
)

// EventKind tells what an Event does to the tree under construction.
type EventKind uint8

const (
	// EventStart opens an internal node.
	EventStart EventKind = iota
	// EventToken adds a leaf.
	EventToken
	// EventFinish closes the innermost open node.
	EventFinish
)

func (k EventKind) String() string {
	switch k {
	case EventStart:
		return "Start"
	case EventToken:
		return "Token"
	case EventFinish:
		return "Finish"
	}
	return fmt.Sprintf("EventKind(%d)", uint8(k))
}

// Event is one step of a depth-first walk over a parse tree.
type Event struct {
	Kind   EventKind
	Symbol parsetree.Symbol
	Len    text.Unit
}

func (e Event) String() string {
	switch e.Kind {
	case EventToken:
		return fmt.Sprintf("Token(%d, %d)", e.Symbol, e.Len)
	case EventStart:
		return fmt.Sprintf("Start(%d)", e.Symbol)
	}
	return e.Kind.String()
}

// Events is the recorded output of a parse. It can be replayed into either
// tree builder.
type Events []Event

// Discipline selects the builder that events are replayed into.
type Discipline string

const (
	TopDown  Discipline = "top-down"
	BottomUp Discipline = "bottom-up"
)

// ParseDiscipline parses the name of a builder discipline.
func ParseDiscipline(s string) (Discipline, error) {
	switch d := Discipline(s); d {
	case TopDown, BottomUp:
		return d, nil
	case "":
		return TopDown, nil
	}
	return "", fmt.Errorf("unknown builder %q: want %q or %q", s, TopDown, BottomUp)
}

// Build replays the events with the builder selected by d.
func (evs Events) Build(d Discipline) *parsetree.Tree {
	if d == BottomUp {
		return evs.BuildBottomUp()
	}
	return evs.BuildTopDown()
}

// BuildTopDown replays the events into a TopDownBuilder.
func (evs Events) BuildTopDown() *parsetree.Tree {
	b := parsetree.NewTopDownBuilder()
	for _, ev := range evs {
		switch ev.Kind {
		case EventStart:
			b.StartInternal(ev.Symbol)
		case EventToken:
			b.Leaf(ev.Symbol, ev.Len)
		case EventFinish:
			b.FinishInternal()
		}
	}
	return b.Finish()
}

// BuildBottomUp replays the events into a BottomUpBuilder. An internal node
// without children is shifted as an empty node.
func (evs Events) BuildBottomUp() *parsetree.Tree {
	type frame struct {
		symbol   parsetree.Symbol
		children int
	}

	b := parsetree.NewBottomUpBuilder()
	var frames []frame
	addChild := func() {
		if n := len(frames); n > 0 {
			frames[n-1].children++
		}
	}

	for _, ev := range evs {
		switch ev.Kind {
		case EventStart:
			frames = append(frames, frame{symbol: ev.Symbol})
		case EventToken:
			b.Shift(ev.Symbol, ev.Len)
			addChild()
		case EventFinish:
			if len(frames) == 0 {
				panic("finish event without a matching start")
			}
			top := frames[len(frames)-1]
			frames = frames[:len(frames)-1]
			if top.children == 0 {
				b.Shift(top.symbol, 0)
			} else {
				b.Reduce(top.symbol, top.children)
			}
			addChild()
		}
	}
	return b.Finish()
}
