package sparse

import (
	"math"
	"testing"
)

func TestCubeSetValue(t *testing.T) {
	C := NewIntCube(-1)
	C.Set(2, 3, 5, 4711)
	if v := C.Value(2, 3, 5); v != 4711 {
		t.Errorf("Expected value at (2,3,5) to be 4711, is %d", v)
	}
	if v := C.Value(2, 3, 4); v != -1 {
		t.Errorf("Expected null value at (2,3,4), is %d", v)
	}
	C.Set(2, 3, 5, 123)
	if C.ValueCount() != 1 {
		t.Errorf("Expected overwrite to keep value count 1, is %d", C.ValueCount())
	}
	if v := C.Value(2, 3, 5); v != 123 {
		t.Errorf("Expected overwritten value 123, is %d", v)
	}
}

func TestCubeOrder(t *testing.T) {
	C := NewIntCube(DefaultNullValue)
	C.Set(1, 0, math.MaxUint32, 3)
	C.Set(0, 7, 2, 1)
	C.Set(1, 0, 0, 2)
	C.Set(0, 0, 9, 0)
	var seen []int32
	C.Each(func(i, j, k uint32, v int32) {
		seen = append(seen, v)
	})
	for n, v := range seen {
		if int32(n) != v {
			t.Fatalf("Expected quads in coordinate order, got %v", seen)
		}
	}
	if v := C.Value(1, 0, math.MaxUint32); v != 3 {
		t.Errorf("Expected value 3 at max coordinate, is %d", v)
	}
	if v := C.Value(5, 5, 5); v != DefaultNullValue {
		t.Errorf("Expected null value beyond last quad, is %d", v)
	}
}
