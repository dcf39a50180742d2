/*
Package sparse implements a simple type for sparse integer cubes.
It is used for action map lookups, where an entry is addressed by a triple
(reversed state, deterministic state, token symbol) and the address space is
far too large to be stored densely.

This implementation uses the COO algorithm (a.k.a. triplet-encoding),
extended to three coordinates. Coordinates are kept in lexicographic order.

   https://medium.com/@jmaxg3/101-ways-to-store-a-sparse-matrix-c7f2bf15a229


License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package sparse

import (
	"fmt"
	"sort"
)

// IntCube is a type for a sparse cube of integer values. Construct with
//
//     C := NewIntCube(-1)            // parameter is C's null-value
//
// Now
//
//     C.Set(2, 3, 5, 4711)           // set a value
//     v := C.Value(2, 3, 5)          // returns 4711
//     C.Set(2, 3, 5, 123)            // overwrite it
//     cnt := C.ValueCount()          // still returns 1 (one position set)
//     v = C.Value(10, 10, 10)        // returns -1, i.e. the null-value
//
// Values cannot be deleted, but may be overwritten with the null-value. Space for
// null-values is not re-claimed.
type IntCube struct {
	values  []quad
	nullval int32
}

// coordinates plus value
type quad struct {
	i, j, k uint32
	value   int32
}

// NewIntCube creates a new cube of int32 values. The argument is a null-value,
// indicating empty entries (use DefaultNullValue if you haven't any specific
// requirements).
func NewIntCube(nullValue int32) *IntCube {
	return &IntCube{
		values:  []quad{},
		nullval: nullValue,
	}
}

// DefaultNullValue is the default empty-value for cubes (min int32).
const DefaultNullValue = -2147483648

// NullValue returns this cube's null value
func (c *IntCube) NullValue() int32 {
	return c.nullval
}

// ValueCount returns the number of positions set in the cube.
func (c *IntCube) ValueCount() int {
	return len(c.values)
}

// Value returns the value at position (i,j,k), or NullValue
func (c *IntCube) Value(i, j, k uint32) int32 {
	at := c.search(i, j, k)
	if at < len(c.values) && c.values[at].storedAt(i, j, k) {
		return c.values[at].value
	}
	return c.nullval
}

// Set a value in the cube at position (i,j,k).
func (c *IntCube) Set(i, j, k uint32, value int32) *IntCube {
	at := c.search(i, j, k) // will be position of new value
	if at < len(c.values) && c.values[at].storedAt(i, j, k) {
		c.values[at].value = value
		return c
	}
	qnew := quad{i: i, j: j, k: k, value: value}
	// the following 3 lines have to work for at being the right edge of values or not
	c.values = append(c.values, qnew)    // make room
	copy(c.values[at+1:], c.values[at:]) // copy remainder values one index to right
	c.values[at] = qnew                  // if not append-case: insert new quad
	return c
}

// Each calls f for every position set, in coordinate order.
func (c *IntCube) Each(f func(i, j, k uint32, value int32)) {
	for _, q := range c.values {
		f(q.i, q.j, q.k, q.value)
	}
}

// search returns the index of the first quad not stored left of (i,j,k).
func (c *IntCube) search(i, j, k uint32) int {
	return sort.Search(len(c.values), func(n int) bool {
		return !c.values[n].storedLeftOf(i, j, k)
	})
}

func (q *quad) storedLeftOf(i, j, k uint32) bool {
	return q.i < i || q.i == i && (q.j < j || q.j == j && q.k < k)
}

func (q *quad) storedAt(i, j, k uint32) bool {
	return q.i == i && q.j == j && q.k == k
}

func (q quad) String() string {
	return fmt.Sprintf("(%d,%d,%d)=%d", q.i, q.j, q.k, q.value)
}
