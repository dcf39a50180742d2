package scanner

import (
	"context"
	"fmt"
	"strings"
	"sync"

	pool "github.com/jolestar/go-commons-pool"
	"github.com/npillmayer/retrace/grammar"
)

// RunCapacity is the maximum number of tokens in a run.
const RunCapacity = 256

// Run is a batch of tokens produced by one scanner advance.
//
// Tokens and States are parallel. States are filled in by the forward
// driver, Tokens may be rewritten by it. For every token with text, lengths
// holds two numbers: the whitespace preceding the token and the token's
// length. Pseudo-tokens have no entry.
type Run struct {
	Tokens  []grammar.Symbol
	States  []grammar.State
	lengths []byte
	Prev    *Run
}

func newRun() *Run {
	return &Run{
		Tokens:  make([]grammar.Symbol, 0, RunCapacity),
		States:  make([]grammar.State, 0, RunCapacity),
		lengths: make([]byte, 0, 2*RunCapacity),
	}
}

// Len returns the number of tokens in the run.
func (r *Run) Len() int {
	return len(r.Tokens)
}

func (r *Run) reset() {
	r.Tokens = r.Tokens[:0]
	r.States = r.States[:0]
	r.lengths = r.lengths[:0]
	r.Prev = nil
}

func (r *Run) full() bool {
	return len(r.Tokens) >= RunCapacity-1 // leave room for a pseudo-token
}

// Append appends a token with text.
func (r *Run) Append(sym grammar.Symbol, whitespace, length uint64) {
	r.Tokens = append(r.Tokens, sym)
	r.States = append(r.States, grammar.State{})
	r.lengths = appendLength(r.lengths, whitespace)
	r.lengths = appendLength(r.lengths, length)
}

// AppendPseudo appends a token without text.
func (r *Run) AppendPseudo(sym grammar.Symbol) {
	r.Tokens = append(r.Tokens, sym)
	r.States = append(r.States, grammar.State{})
}

// Lengths are stored most significant group first, 7 bits per byte. All
// bytes but the last of a number have the high bit set, so a sequence of
// numbers may be decoded from its end.
func appendLength(buf []byte, v uint64) []byte {
	var groups [10]byte
	n := 0
	for {
		groups[n] = byte(v & 0x7f)
		n++
		v >>= 7
		if v == 0 {
			break
		}
	}
	for i := n - 1; i > 0; i-- {
		buf = append(buf, groups[i]|0x80)
	}
	return append(buf, groups[0])
}

// LengthCursor decodes the lengths of a run back to front.
type LengthCursor struct {
	buf []byte
	pos int // index of the next byte to read, backwards
}

// Lengths returns a cursor positioned behind the last token's length.
func (r *Run) Lengths() *LengthCursor {
	return &LengthCursor{buf: r.lengths, pos: len(r.lengths) - 1}
}

func (c *LengthCursor) prev() (uint64, bool) {
	if c.pos < 0 || c.buf[c.pos]&0x80 != 0 {
		return 0, false
	}
	v := uint64(c.buf[c.pos])
	shift := uint(7)
	c.pos--
	for c.pos >= 0 && c.buf[c.pos]&0x80 != 0 {
		v |= uint64(c.buf[c.pos]&0x7f) << shift
		shift += 7
		c.pos--
	}
	return v, true
}

// Prev decodes the length of the previous token with text and the
// whitespace preceding it.
func (c *LengthCursor) Prev() (whitespace, length uint64, err error) {
	var ok bool
	if length, ok = c.prev(); !ok {
		return 0, 0, fmt.Errorf("token length encoding exhausted")
	}
	if whitespace, ok = c.prev(); !ok {
		return 0, 0, fmt.Errorf("token whitespace encoding exhausted")
	}
	return whitespace, length, nil
}

// ForwardCursor decodes the lengths of a run front to back.
type ForwardCursor struct {
	buf []byte
	pos int
}

// Forward returns a cursor positioned at the first token's length.
func (r *Run) Forward() *ForwardCursor {
	return &ForwardCursor{buf: r.lengths}
}

func (c *ForwardCursor) next() (uint64, bool) {
	var v uint64
	for c.pos < len(c.buf) {
		b := c.buf[c.pos]
		c.pos++
		v = v<<7 | uint64(b&0x7f)
		if b&0x80 == 0 {
			return v, true
		}
	}
	return 0, false
}

// Next decodes the whitespace preceding the next token with text and the
// token's length.
func (c *ForwardCursor) Next() (whitespace, length uint64, err error) {
	var ok bool
	if whitespace, ok = c.next(); !ok {
		return 0, 0, fmt.Errorf("token whitespace encoding exhausted")
	}
	if length, ok = c.next(); !ok {
		return 0, 0, fmt.Errorf("token length encoding exhausted")
	}
	return whitespace, length, nil
}

// String lists the tokens of a run with their states.
func (r *Run) String() string {
	var b strings.Builder
	b.WriteString("run[")
	for i, tok := range r.Tokens {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(fmt.Sprintf("%s:%s", tok, r.States[i]))
	}
	b.WriteString("]")
	return b.String()
}

// --- Pooling ---------------------------------------------------------------

// Runs are short-lived and sized for a fixed number of tokens. To avoid
// allocating them for every parse we will pool them.
type runPool struct {
	opool *pool.ObjectPool
	ctx   context.Context
}

var globalRunPool *runPool
var runPoolOnce sync.Once

func runs() *runPool {
	runPoolOnce.Do(func() {
		globalRunPool = &runPool{ctx: context.Background()}
		factory := pool.NewPooledObjectFactorySimple(
			func(context.Context) (interface{}, error) {
				return newRun(), nil
			})
		config := pool.NewDefaultPoolConfig()
		config.MaxTotal = -1 // infinity
		config.BlockWhenExhausted = false
		globalRunPool.opool = pool.NewObjectPool(globalRunPool.ctx, factory, config)
	})
	return globalRunPool
}

// NewRun returns an empty run from the pool, chained to prev.
func NewRun(prev *Run) *Run {
	p := runs()
	o, err := p.opool.BorrowObject(p.ctx)
	if err != nil {
		tracer().Errorf("run pool: %v", err)
		o = newRun()
	}
	r := o.(*Run)
	r.reset()
	r.Prev = prev
	return r
}

// ReleaseRuns clears the chain of runs ending in last and puts all of them
// back into the pool. The runs must not be used afterwards.
func ReleaseRuns(last *Run) {
	p := runs()
	for r := last; r != nil; {
		prev := r.Prev
		r.reset()
		_ = p.opool.ReturnObject(p.ctx, r)
		r = prev
	}
}
