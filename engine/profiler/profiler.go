package profiler

import (
	"runtime"
	"time"

	"github.com/Carmen-Shannon/oxy-forward/common"
)

// Stats is one profiler report.
type Stats struct {
	FPS       float64
	HeapMB    float64
	SysMB     float64
	GCCount   uint32
	DrawCalls int
	Triangles int
}

// Profiler tracks frame rate, memory and renderer counters. Stats are logged at Info once per
// update interval.
type Profiler struct {
	logger         common.Logger
	now            func() time.Time
	frameCount     int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	last           Stats
}

// NewProfiler creates a new Profiler. Update interval defaults to 1 second.
//
// Parameters:
//   - options: variadic list of ProfilerOption functions
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerOption) *Profiler {
	p := &Profiler{
		now:            time.Now,
		updateInterval: time.Second,
	}
	for _, opt := range options {
		opt(p)
	}
	p.logger = common.LoggerOrNop(p.logger)
	p.lastTime = p.now()
	return p
}

// ProfilerOption configures a Profiler.
type ProfilerOption func(*Profiler)

// WithLogger sets the logger stats are written to.
func WithLogger(logger common.Logger) ProfilerOption {
	return func(p *Profiler) { p.logger = logger }
}

// WithInterval sets how often stats are reported. Zero keeps the default.
func WithInterval(interval time.Duration) ProfilerOption {
	return func(p *Profiler) { p.updateInterval = common.Coalesce(interval, p.updateInterval) }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) ProfilerOption {
	return func(p *Profiler) { p.now = now }
}

// Tick should be called once per rendered frame with that frame's counters.
//
// Parameters:
//   - drawCalls: draw calls recorded in the frame
//   - triangles: triangles drawn in the frame
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick(drawCalls, triangles int) bool {
	p.frameCount++
	currentTime := p.now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	runtime.ReadMemStats(&p.memStats)
	p.last = Stats{
		FPS:       float64(p.frameCount) / elapsed.Seconds(),
		HeapMB:    float64(p.memStats.Alloc) / 1024 / 1024,
		SysMB:     float64(p.memStats.Sys) / 1024 / 1024,
		GCCount:   p.memStats.NumGC,
		DrawCalls: drawCalls,
		Triangles: triangles,
	}
	p.logger.Infof("FPS: %.2f | Draw calls: %d | Triangles: %d | Heap: %.2f MB | GC: %d | Sys: %.2f MB",
		p.last.FPS, p.last.DrawCalls, p.last.Triangles, p.last.HeapMB, p.last.GCCount, p.last.SysMB)

	p.frameCount = 0
	p.lastTime = currentTime
	return true
}

// Last returns the most recent report.
func (p *Profiler) Last() Stats { return p.last }
