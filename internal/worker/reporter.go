package worker

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// Reporter aggregates per-job render outcomes and reports progress as
// structured log events. Layer renders are coarse units of work -- seconds
// each, a handful per invocation -- so one log line per completed layer
// carries more signal than a repainted terminal bar, and it composes with
// the rest of the slog output instead of fighting it for the tty.
type Reporter struct {
	mu      sync.Mutex
	start   time.Time
	total   int
	done    int
	failed  int
	busy    time.Duration // per-job wall time summed across workers
	slowest Result
	logger  *slog.Logger
}

// NewReporter tracks progress over total jobs, logging to logger (the
// default slog logger if nil).
func NewReporter(total int, logger *slog.Logger) *Reporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reporter{total: total, start: time.Now(), logger: logger}
}

// Record ingests one completed job. It satisfies ProgressFunc.
func (r *Reporter) Record(res Result) {
	r.mu.Lock()
	r.done++
	if res.Err != nil {
		r.failed++
	}
	r.busy += res.Elapsed
	if res.Elapsed > r.slowest.Elapsed {
		r.slowest = res
	}
	done, total := r.done, r.total
	r.mu.Unlock()

	if res.Err != nil {
		r.logger.Warn("layer failed",
			"layer", res.Task.Job.Name,
			"elapsed", res.Elapsed.Round(time.Millisecond),
			"progress", fmt.Sprintf("%d/%d", done, total),
			"error", res.Err)
		return
	}
	r.logger.Info("layer rendered",
		"layer", res.Task.Job.Name,
		"path", res.Path,
		"elapsed", res.Elapsed.Round(time.Millisecond),
		"progress", fmt.Sprintf("%d/%d", done, total))
}

// Failed returns how many recorded jobs ended in an error.
func (r *Reporter) Failed() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.failed
}

// Summary describes the whole run: success/failure counts, wall time, the
// effective parallelism (summed per-job time over wall time), and the
// slowest layer, which is usually the one worth investigating when a render
// takes too long.
func (r *Reporter) Summary() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	wall := time.Since(r.start)

	var b strings.Builder
	fmt.Fprintf(&b, "rendered %d of %d layers in %s", r.done-r.failed, r.total, wall.Round(10*time.Millisecond))
	if r.failed > 0 {
		fmt.Fprintf(&b, " (%d failed)", r.failed)
	}
	if r.done > 1 && wall > 0 {
		fmt.Fprintf(&b, ", %.1fx effective parallelism", float64(r.busy)/float64(wall))
	}
	if r.slowest.Task.Job.Name != "" {
		fmt.Fprintf(&b, ", slowest: %s (%s)", r.slowest.Task.Job.Name, r.slowest.Elapsed.Round(time.Millisecond))
	}
	return b.String()
}
