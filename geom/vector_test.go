package geom

import (
	"testing"
)

func TestVector2(t *testing.T) {
	zero := NewVector2(0, 0)
	if zero.Len() != 0 || zero.LenSqr() != 0 || zero.Dot(zero) != 0 {
		t.Error("zero vector has nonzero length")
	}
	if *zero.Normalize() != *NewVector2(1, 0) {
		t.Error("normalizing zero should fall back to a unit vector, got", zero)
	}

	a, b := NewVector2(1, 0), NewVector2(0, 1)
	if *a.Add(b) != *NewVector2(1, 1) {
		t.Error("Add")
	}
	if *a.Sub(b) != *NewVector2(1, -1) {
		t.Error("Sub")
	}
	if a.Cross(b) != 1 {
		t.Error("Cross")
	}
	if *NewVector2(3, 4).Scale(2) != *NewVector2(6, 8) {
		t.Error("Scale")
	}
	if NewVector2(3, 4).Len() != 5 {
		t.Error("Len")
	}
}

func TestVector3(t *testing.T) {
	zero := NewVector3(0, 0, 0)
	if zero.Len() != 0 || zero.LenSqr() != 0 || zero.Dot(zero) != 0 {
		t.Error("zero vector has nonzero length")
	}
	if *zero.Normalize() != *NewVector3(1, 0, 0) {
		t.Error("normalizing zero should fall back to a unit vector, got", zero)
	}

	x, y := NewVector3(1, 0, 0), NewVector3(0, 1, 0)
	if *x.Add(y) != *NewVector3(1, 1, 0) {
		t.Error("Add")
	}
	if *x.Cross(y) != *NewVector3(0, 0, 1) {
		t.Error("Cross")
	}
	if *y.Cross(x) != *NewVector3(0, 0, -1) {
		t.Error("Cross is anticommutative")
	}
	if *NewVector3(1, 2, 3).Scale(-1) != *NewVector3(-1, -2, -3) {
		t.Error("Scale")
	}
}

func TestVector3Construction(t *testing.T) {
	want := Vector3{X: 1, Y: 2, Z: 3}
	if *NewVector3FromArray([3]Element{1, 2, 3}) != want {
		t.Error("NewVector3FromArray")
	}
	if *NewVector3FromSlice([]Element{1, 2, 3}) != want {
		t.Error("NewVector3FromSlice")
	}

	arr := make([]Element, 3)
	want.ToArray(arr)
	if arr[0] != 1 || arr[1] != 2 || arr[2] != 3 {
		t.Error("ToArray =", arr)
	}
}

// Clone must detach the copy; normalizing it leaves the source untouched.
func TestVector3Clone(t *testing.T) {
	v := NewVector3(3, 0, 0)
	c := v.Clone()
	if c == v || *c != *v {
		t.Fatal("Clone =", c)
	}
	c.Normalize()
	if v.X != 3 {
		t.Error("Clone shares storage with its source")
	}
	if c.X != 1 {
		t.Error("Normalize =", c)
	}
}

func TestVector4(t *testing.T) {
	zero := NewVector4(0, 0, 0, 0)
	if zero.Len() != 0 || zero.LenSqr() != 0 || zero.Dot(zero) != 0 {
		t.Error("zero vector has nonzero length")
	}
	if *zero.Normalize() != *NewVector4(0, 0, 0, 1) {
		t.Error("normalizing zero should fall back to identity, got", zero)
	}

	if *NewVector4(1, 0, 0, 0).Add(NewVector4(0, 1, 0, 0)) != *NewVector4(1, 1, 0, 0) {
		t.Error("Add")
	}
	if NewVector4(1, 2, 3, 4).Dot(NewVector4(4, 3, 2, 1)) != 20 {
		t.Error("Dot")
	}
}
