package page

import (
	"fmt"
	"io"
	"time"

	"github.com/trgs-studio/nightreel/journey"
	"github.com/trgs-studio/nightreel/telemetry"
)

// logWriter is the destination for log output.
var logWriter io.Writer

// SetLogWriter sets the log output destination.
func SetLogWriter(w io.Writer) {
	logWriter = w
}

// Logf writes a formatted log message.
func Logf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if logWriter != nil {
		fmt.Fprintln(logWriter, msg)
	} else {
		fmt.Println(msg)
	}
}

// logPerf logs the per-phase frame breakdown.
func (p *Page) logPerf() {
	s := p.perf.Stats()
	Logf("=== Perf @ %.1fs | moment %d (%s) ===", p.clock/1000, p.index, p.phase)
	Logf("Frame: avg %s  p95 %s  max %s  headroom %.0f fps",
		s.AvgFrame.Round(time.Microsecond), s.P95Frame.Round(time.Microsecond),
		s.MaxFrame.Round(time.Microsecond), s.Headroom)

	for _, phase := range telemetry.Phases {
		avg, ok := s.PhaseAvg[phase]
		if !ok {
			continue
		}
		Logf("  %-10s %10s  %5.1f%%", phase, avg.Round(time.Microsecond), s.PhasePct[phase])
	}
	Logf("")
}

// LogOutline writes the screen-reader outline of a journey, one moment per line.
func LogOutline(j *journey.Journey) {
	for _, line := range j.Outline() {
		Logf("%s", line)
	}
}
