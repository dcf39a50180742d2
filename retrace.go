package retrace

import (
	"fmt"
	"math"
)

// --- Spans ------------------------------------------------------------

// Span is a small type for capturing a run of input bytes. Every node of a
// parse tree tracks which input positions it covers. A span denotes a start
// position and the position just behind the end, i.e. [x…y).
type Span [2]uint64 // [x…y)

// From returns the start value of a span.
func (s Span) From() uint64 {
	return s[0]
}

// To returns the end value of a span.
func (s Span) To() uint64 {
	return s[1]
}

// Len returns the length of [x…y)
func (s Span) Len() uint64 {
	return s[1] - s[0]
}

func (s Span) IsNull() bool {
	return s == Span{}
}

// Extend returns the smallest span covering both s and other.
func (s Span) Extend(other Span) Span {
	if other[0] < s[0] {
		s[0] = other[0]
	}
	if other[1] > s[1] {
		s[1] = other[1]
	}
	return s
}

// Contains is true if other lies completely within s.
func (s Span) Contains(other Span) bool {
	return other[0] >= s[0] && other[1] <= s[1]
}

func (s Span) String() string {
	return fmt.Sprintf("[%d…%d)", s[0], s[1])
}

// --- Stamps -----------------------------------------------------------

// Stamp is an abstract text position. During reverse decoding the real byte
// offsets are not known yet; positions are handed out as
//
//    StampMax - i
//
// where i is an index into the offset table under construction. As the table
// grows from the end of the text towards its start, stamps compare in document
// order: a smaller stamp never denotes a later position.
type Stamp uint64

// StampMax is the stamp for table index 0.
const StampMax Stamp = math.MaxUint64

// StampAt returns the stamp for offset table index i.
func StampAt(i uint64) Stamp {
	return StampMax - Stamp(i)
}

// Index returns the offset table index a stamp refers to.
func (st Stamp) Index() uint64 {
	return uint64(StampMax - st)
}

func (st Stamp) String() string {
	return fmt.Sprintf("@%d", st.Index())
}
