package gallery

import "math"

// Curve places a tile at horizontal offset x on a circular rail whose sagitta
// over the half-width is bend. It returns the vertical offset and the in-plane
// rotation (radians, counter-clockwise). Offsets beyond the half-width are
// clamped so tiles outside the viewport keep the edge pose.
func Curve(x, halfWidth, bend float64) (offsetY, rotZ float64) {
	if bend == 0 || halfWidth <= 0 {
		return 0, 0
	}
	b := math.Abs(bend)
	r := (halfWidth*halfWidth + b*b) / (2 * b)
	effX := math.Min(math.Abs(x), halfWidth)
	arc := r - math.Sqrt(r*r-effX*effX)
	angle := math.Asin(effX / r)
	sign := sgn(x)
	if bend > 0 {
		return -arc, -sign * angle
	}
	return arc, sign * angle
}

func sgn(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
