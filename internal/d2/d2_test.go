package d2

import (
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

func TestArrowHead(t *testing.T) {
	const tol = 1e-12
	left, right := ArrowHead(r2.Vec{}, r2.Vec{X: 10}, 0.1)
	// Barbs are 1 long at 45° behind the tip.
	h := math.Sqrt2 / 2
	for _, tc := range []struct{ got, want r2.Vec }{
		{left, r2.Vec{X: 10 - h, Y: -h}},
		{right, r2.Vec{X: 10 - h, Y: h}},
	} {
		if r2.Norm(r2.Sub(tc.got, tc.want)) > tol {
			t.Errorf("got barb %v, want %v", tc.got, tc.want)
		}
	}
	p := r2.Vec{X: 3, Y: 4}
	left, right = ArrowHead(p, p, 0.1)
	if left != p || right != p {
		t.Errorf("zero length arrow: got %v %v, want %v", left, right, p)
	}
}

func TestRandomSet(t *testing.T) {
	box := Box{Min: r2.Vec{X: -1, Y: 2}, Max: r2.Vec{X: 3, Y: 2.5}}
	rng := rand.New(rand.NewSource(1))
	set := box.RandomSet(rng, 1000)
	if len(set) != 1000 {
		t.Fatalf("got %d points", len(set))
	}
	for _, v := range set {
		if !box.Contains(v) || v.X == box.Max.X || v.Y == box.Max.Y {
			t.Fatalf("point %v not in [%v,%v)", v, box.Min, box.Max)
		}
	}
	if got := box.Size(); got != (r2.Vec{X: 4, Y: 0.5}) {
		t.Errorf("size %v", got)
	}
	if len(set.MS2()) != len(set) {
		t.Error("MS2 changed length")
	}
}

func TestElementwise(t *testing.T) {
	a, b := r2.Vec{X: 2, Y: 9}, r2.Vec{X: 4, Y: 3}
	if got := MulElem(a, b); got != (r2.Vec{X: 8, Y: 27}) {
		t.Errorf("MulElem %v", got)
	}
	if got := DivElem(b, a); got != (r2.Vec{X: 2, Y: 1.0 / 3}) {
		t.Errorf("DivElem %v", got)
	}
	if Min(a) != 2 {
		t.Errorf("Min %v", Min(a))
	}
}
