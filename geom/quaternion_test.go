package geom

import (
	"math"
	"testing"
)

func TestQuaternion(t *testing.T) {
	const eps = 0.00001

	{
		q := NewQuaternion(0, 0, 0, 1)
		v1 := NewVector3(1, 2, 3)
		v2 := q.ApplyTo(v1)
		if v2.Sub(v1).Len() > eps {
			t.Error("v1 != v2: ", v1, v2)
		}
	}

	{
		q := NewQuaternionFromAxisAngle(NewVector3(1, 0, 0), 2*math.Pi)
		v1 := NewVector3(1, 2, 3)
		v2 := q.ApplyTo(v1)
		if v2.Sub(v1).Len() > eps {
			t.Error("v1 != v2: ", v1, v2)
		}
	}

	{
		q := NewQuaternionFromAxisAngle(NewVector3(1, 0, 0), math.Pi)
		q = q.Mul(q)
		v1 := NewVector3(1, 2, 3)
		v2 := q.ApplyTo(v1)
		if v2.Sub(v1).Len() > eps {
			t.Error("v1 != v2: ", v1, v2)
		}
	}

	{
		q := NewQuaternionFromAxisAngle(NewVector3(1, 2, 3), 1.5)
		q = q.Mul(q.Inverse())
		v1 := NewVector3(1, 2, 3)
		v2 := q.ApplyTo(v1)
		if v2.Sub(v1).Len() > eps {
			t.Error("v1 != v2: ", v1, v2)
		}
	}
}

func TestQuaternionMatchesMatrix(t *testing.T) {
	const eps = 0.00001

	q := NewQuaternionFromAxisAngle(NewVector3(0.5, -1, 0.25), 0.8)
	m := NewRotationMatrix4FromQuaternion(q)
	v := NewVector3(1, 2, 3)

	byQuat := q.ApplyTo(v)
	byMat := m.ApplyTo(v)
	if byQuat.Sub(byMat).Len() > eps {
		t.Error("rotation mismatch: ", byQuat, byMat)
	}
}
