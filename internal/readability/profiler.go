package readability

import (
	"time"

	"github.com/rs/zerolog"
)

// StageStat is the accumulated cost of one named stage.
type StageStat struct {
	Calls   int
	Elapsed time.Duration
}

type profiler struct {
	enabled bool
	logger  zerolog.Logger
	level   int
	stats   map[string]*StageStat
	order   []string
}

func newProfiler(enabled bool, logger zerolog.Logger) *profiler {
	return &profiler{
		enabled: enabled,
		logger:  logger,
		stats:   make(map[string]*StageStat),
	}
}

// timed runs fn, recording its duration under name when profiling is on.
func (p *profiler) timed(name string, fn func()) {
	if !p.enabled {
		fn()
		return
	}

	st, ok := p.stats[name]
	if !ok {
		st = &StageStat{}
		p.stats[name] = st
		p.order = append(p.order, name)
	}

	p.level++
	start := time.Now()
	fn()
	elapsed := time.Since(start)
	p.level--

	st.Elapsed += elapsed
	st.Calls++
	p.logger.Debug().Int("depth", p.level).Dur("elapsed", elapsed).Str("stage", name).Msg("timed")
}

// report emits one event per stage, in first-seen order.
func (p *profiler) report() {
	if !p.enabled {
		return
	}
	for _, name := range p.order {
		st := p.stats[name]
		p.logger.Info().
			Str("stage", name).
			Int("calls", st.Calls).
			Dur("elapsed", st.Elapsed).
			Msg("profile")
	}
}

// snapshot copies the collected stats.
func (p *profiler) snapshot() map[string]StageStat {
	out := make(map[string]StageStat, len(p.stats))
	for name, st := range p.stats {
		out[name] = *st
	}
	return out
}
