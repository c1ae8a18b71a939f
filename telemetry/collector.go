package telemetry

// Collector accumulates events within time windows and produces WindowStats.
type Collector struct {
	windowDurationSec float64

	// Current window tracking
	windowStartSec float64

	frames       int
	wheelEvents  int
	drags        int
	settles      int
	imagesLoaded int
	imagesFailed int
	resizes      int
	reloads      int

	// Dwell tracking spans windows.
	lastSettleSec float64
	haveSettle    bool
	dwells        []float64
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in page seconds.
func NewCollector(windowDurationSec float64) *Collector {
	if windowDurationSec <= 0 {
		windowDurationSec = 5
	}
	return &Collector{windowDurationSec: windowDurationSec}
}

// RecordFrame counts one rendered frame.
func (c *Collector) RecordFrame() {
	c.frames++
}

// Record counts an event. Settle events also close the dwell on the
// previously settled item.
func (c *Collector) Record(ev Event) {
	switch ev.Type {
	case EventSettle:
		c.settles++
		if c.haveSettle {
			c.dwells = append(c.dwells, ev.Time-c.lastSettleSec)
		}
		c.lastSettleSec = ev.Time
		c.haveSettle = true
	case EventWheel:
		c.wheelEvents++
	case EventDrag:
		c.drags++
	case EventImageLoaded:
		c.imagesLoaded++
	case EventImageFailed:
		c.imagesFailed++
	case EventResize:
		c.resizes++
	case EventReload:
		c.reloads++
	}
}

// ShouldFlush returns true if enough time has passed to flush the window.
func (c *Collector) ShouldFlush(nowSec float64) bool {
	return nowSec-c.windowStartSec >= c.windowDurationSec
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(nowSec float64, centerIndex int, phase string) WindowStats {
	dwell := Summarize(c.dwells)
	stats := WindowStats{
		WindowStartSec: c.windowStartSec,
		WindowEndSec:   nowSec,
		Frames:         c.frames,
		WheelEvents:    c.wheelEvents,
		Drags:          c.drags,
		Settles:        c.settles,
		DwellMean:      dwell.Mean,
		DwellStd:       dwell.Std,
		DwellP50:       dwell.P50,
		DwellP90:       dwell.P90,
		ImagesLoaded:   c.imagesLoaded,
		ImagesFailed:   c.imagesFailed,
		Resizes:        c.resizes,
		Reloads:        c.reloads,
		CenterIndex:    centerIndex,
		Phase:          phase,
	}

	// Reset for next window
	c.windowStartSec = nowSec
	c.frames = 0
	c.wheelEvents = 0
	c.drags = 0
	c.settles = 0
	c.imagesLoaded = 0
	c.imagesFailed = 0
	c.resizes = 0
	c.reloads = 0
	c.dwells = c.dwells[:0]

	return stats
}

// WindowDuration returns the window length in seconds.
func (c *Collector) WindowDuration() float64 {
	return c.windowDurationSec
}
