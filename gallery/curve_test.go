package gallery

import (
	"math"
	"testing"
)

func TestCurveFlatWhenBendIsZero(t *testing.T) {
	for _, x := range []float64{-20, -3, 0, 0.5, 11, 400} {
		y, rot := Curve(x, 10, 0)
		if y != 0 || rot != 0 {
			t.Errorf("Curve(%v, 10, 0) = (%v, %v), want (0, 0)", x, y, rot)
		}
	}
}

func TestCurveReachesBendAtEdge(t *testing.T) {
	for _, bend := range []float64{0.5, 3, 8} {
		y, _ := Curve(10, 10, bend)
		if math.Abs(y+bend) > 1e-9 {
			t.Errorf("bend %v: edge offset = %v, want %v", bend, y, -bend)
		}
		y, _ = Curve(0, 10, bend)
		if y != 0 {
			t.Errorf("bend %v: centre offset = %v, want 0", bend, y)
		}
	}
}

func TestCurveClampsBeyondHalfWidth(t *testing.T) {
	edgeY, edgeRot := Curve(10, 10, 3)
	farY, farRot := Curve(55, 10, 3)
	if edgeY != farY || edgeRot != farRot {
		t.Errorf("beyond half width: got (%v, %v), want edge pose (%v, %v)", farY, farRot, edgeY, edgeRot)
	}
}

func TestCurveSymmetry(t *testing.T) {
	for _, x := range []float64{0.3, 2, 7.5} {
		yl, rl := Curve(-x, 10, 3)
		yr, rr := Curve(x, 10, 3)
		if yl != yr {
			t.Errorf("x=±%v: offsets differ (%v vs %v)", x, yl, yr)
		}
		if rl != -rr {
			t.Errorf("x=±%v: rotations not mirrored (%v vs %v)", x, rl, rr)
		}
		if rr >= 0 {
			t.Errorf("x=%v: positive bend should tilt right-hand tiles clockwise, got %v", x, rr)
		}

		// Negative bend flips the rail.
		ny, nr := Curve(x, 10, -3)
		if ny != -yr || nr != -rr {
			t.Errorf("x=%v: negative bend = (%v, %v), want (%v, %v)", x, ny, nr, -yr, -rr)
		}
	}
}

func TestCurveMonotonicOffset(t *testing.T) {
	prev := 0.0
	for x := 0.0; x <= 10; x += 0.25 {
		y, _ := Curve(x, 10, 3)
		if -y < prev-1e-12 {
			t.Fatalf("offset decreased at x=%v: %v < %v", x, -y, prev)
		}
		prev = -y
	}
}
