package interp

import (
	"fmt"

	"github.com/npillmayer/retrace"
	"golang.org/x/exp/slices"
)

// offsetTable maps stamps to text offsets. During the reverse pass it grows
// from the end of the text towards its start; once decoding is complete it is
// reversed, so that index 0 holds the leftmost offset.
type offsetTable struct {
	offsets  []uint64
	reversed bool
}

func newOffsetTable(capacity int) *offsetTable {
	return &offsetTable{offsets: make([]uint64, 0, capacity)}
}

// next is the number of offsets pushed so far.
func (ot *offsetTable) next() uint64 {
	return uint64(len(ot.offsets))
}

// pushPair appends the offsets for a region [to…from) of the text, with from
// being nearer to the end of the text. It returns to.
func (ot *offsetTable) pushPair(from, to uint64) uint64 {
	tracer().Debugf("offsets %d: (%d, %d)", len(ot.offsets), from, to)
	ot.offsets = append(ot.offsets, from, to)
	return to
}

func (ot *offsetTable) reverse() {
	if !ot.reversed {
		slices.Reverse(ot.offsets)
		ot.reversed = true
	}
}

// resolve returns the text offset a stamp denotes. The table must have been
// reversed.
func (ot *offsetTable) resolve(st retrace.Stamp) (uint64, error) {
	n := uint64(len(ot.offsets))
	i := st.Index()
	if !ot.reversed || i >= n {
		return 0, fmt.Errorf("stamp %v does not resolve in offset table of size %d", st, n)
	}
	return ot.offsets[n-1-i], nil
}
