package interaction

// Lerp interpolates from a to b by t.
func Lerp(a, b, t float32) float32 {
	return a + (b-a)*t
}

// Smooth moves current toward target by factor k (exponential smoothing).
func Smooth(current, target, k float32) float32 {
	return current + (target-current)*k
}

// Clamp01 restricts v to [0, 1].
func Clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// clampFactor keeps a smoothing factor in (0, 1] so smoothing always converges.
func clampFactor(k float32) float32 {
	if !(k > 0) {
		return 0.05
	}
	if k > 1 {
		return 1
	}
	return k
}
