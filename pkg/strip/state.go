// Package strip regroups a flat ribbon of cross-section points into the
// overlapping quads that make up an extruded mesh strip.
//
// Chunking is a small state machine. The first quad reads the head of the
// ribbon, each interior quad reuses the second half of the quad before it,
// and on a closed ribbon the final quad reads the tail and wraps back to
// index 0.
package strip

import (
	"errors"
	"fmt"
)

// Width is the number of upper-face points in one quad.
type Width int

const (
	Edge Width = 4 // two points per cross-section
	Road Width = 6 // left, center, right per cross-section
)

// Step returns how many new ribbon points each quad consumes.
func (w Width) Step() int { return int(w) / 2 }

// Valid reports whether w is a supported quad width.
func (w Width) Valid() bool { return w == Edge || w == Road }

func (w Width) String() string {
	switch w {
	case Edge:
		return "edge"
	case Road:
		return "road"
	default:
		return fmt.Sprintf("width(%d)", int(w))
	}
}

// ErrIndexing is matched by every *IndexingError.
var ErrIndexing = errors.New("strip window out of ribbon bounds")

// ErrWidth is returned for a quad width other than Edge or Road.
var ErrWidth = errors.New("unsupported quad width")

// IndexingError reports a chunk request the ribbon cannot satisfy. It
// signals a mismatch between the segment count and the ribbon length.
type IndexingError struct {
	Segment int // segment being built, -1 when rejected up front
	Index   int // offending ribbon index
	Length  int // ribbon length
	Reason  string
}

func (e *IndexingError) Error() string {
	if e.Segment < 0 {
		return fmt.Sprintf("strip: ribbon length %d: %s", e.Length, e.Reason)
	}
	return fmt.Sprintf("strip: segment %d: index %d outside ribbon of length %d: %s",
		e.Segment, e.Index, e.Length, e.Reason)
}

// Is reports whether target is ErrIndexing.
func (e *IndexingError) Is(target error) bool {
	return target == ErrIndexing
}

// State is the chunker's position in the first/interior/closing ladder.
type State int

const (
	First State = iota
	Interior
	Closing
	Done
)

func (s State) String() string {
	switch s {
	case First:
		return "first"
	case Interior:
		return "interior"
	case Closing:
		return "closing"
	case Done:
		return "done"
	default:
		return "unknown"
	}
}

// Plan fixes the shape of one chunking pass.
type Plan struct {
	Length   int // ribbon length
	Segments int // quads to emit
	Width    Width
}

// NewPlan validates that a ribbon of the given length can yield segments
// quads of width w. A ribbon of k cross-sections yields at most k-1 quads
// as an open strip, or exactly k quads when the last one closes the loop.
func NewPlan(length, segments int, w Width) (Plan, error) {
	if !w.Valid() {
		return Plan{}, fmt.Errorf("strip: %w: %d", ErrWidth, int(w))
	}
	p := Plan{Length: length, Segments: segments, Width: w}
	step := w.Step()
	switch {
	case length%step != 0:
		return Plan{}, &IndexingError{Segment: -1, Index: length, Length: length,
			Reason: fmt.Sprintf("not a multiple of the %s step %d", w, step)}
	case length < int(w):
		return Plan{}, &IndexingError{Segment: -1, Index: int(w) - 1, Length: length,
			Reason: fmt.Sprintf("shorter than one %s quad", w)}
	case segments < 1:
		return Plan{}, &IndexingError{Segment: -1, Index: 0, Length: length,
			Reason: fmt.Sprintf("segment count %d is not positive", segments)}
	case segments > p.Slots():
		return Plan{}, &IndexingError{Segment: -1, Index: segments * step, Length: length,
			Reason: fmt.Sprintf("%d segments need %d cross-sections, ribbon has %d",
				segments, segments, p.Slots())}
	}
	return p, nil
}

// Slots returns the number of cross-sections in the ribbon.
func (p Plan) Slots() int { return p.Length / p.Width.Step() }

// Closed reports whether the final quad wraps back to the ribbon head.
func (p Plan) Closed() bool { return p.Segments == p.Slots() }

// Cursor is the sliding window: the segment about to be built and the
// ribbon indices of the previous quad's second half.
type Cursor struct {
	Segment int
	Window  []int
}

// Start returns the initial state and cursor for a plan. A plan with no
// segments, such as the zero Plan, starts in Done.
func Start(p Plan) (State, Cursor) {
	if p.Segments < 1 {
		return Done, Cursor{}
	}
	return First, Cursor{}
}

// Step produces the ribbon indices of the next quad and advances the
// machine. It never reads the ribbon; bounds are checked against the plan.
func Step(s State, c Cursor, p Plan) ([]int, State, Cursor, error) {
	step := p.Width.Step()

	var idx []int
	switch s {
	case First:
		idx = make([]int, int(p.Width))
		for i := range idx {
			idx[i] = i
		}

	case Interior:
		if len(c.Window) != step {
			return nil, s, c, fmt.Errorf("strip: segment %d: window holds %d indices, want %d",
				c.Segment, len(c.Window), step)
		}
		idx = make([]int, 0, int(p.Width))
		idx = append(idx, c.Window...)
		next := c.Window[step-1] + 1
		for i := 0; i < step; i++ {
			idx = append(idx, next+i)
		}

	case Closing:
		idx = make([]int, 0, int(p.Width))
		for i := p.Length - step; i < p.Length; i++ {
			idx = append(idx, i)
		}
		for i := 0; i < step; i++ {
			idx = append(idx, i)
		}

	default:
		return nil, s, c, fmt.Errorf("strip: step called in state %s", s)
	}

	for _, i := range idx {
		if i < 0 || i >= p.Length {
			return nil, s, c, &IndexingError{Segment: c.Segment, Index: i, Length: p.Length,
				Reason: fmt.Sprintf("%s quad", s)}
		}
	}

	nc := Cursor{
		Segment: c.Segment + 1,
		Window:  append([]int(nil), idx[step:]...),
	}
	return idx, next(nc.Segment, p), nc, nil
}

// next picks the state that builds segment seg.
func next(seg int, p Plan) State {
	switch {
	case seg >= p.Segments:
		return Done
	case seg == p.Segments-1 && p.Closed():
		return Closing
	default:
		return Interior
	}
}
