package worker

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/MeKo-Tech/gpkg2png/internal/pipeline"
)

func testReporter(total int) (*Reporter, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	return NewReporter(total, logger), &buf
}

func resultFor(name string, elapsed time.Duration, err error) Result {
	return Result{
		Task:    Task{Job: pipeline.Job{Name: name}},
		Path:    "/tmp/" + name + ".png",
		Err:     err,
		Elapsed: elapsed,
	}
}

func TestReporterLogsEachLayer(t *testing.T) {
	r, buf := testReporter(2)

	r.Record(resultFor("parcels", 20*time.Millisecond, nil))
	r.Record(resultFor("water", 10*time.Millisecond, errors.New("disk full")))

	output := buf.String()
	if !strings.Contains(output, "layer rendered") || !strings.Contains(output, "layer=parcels") {
		t.Errorf("expected a success log line for parcels, got:\n%s", output)
	}
	if !strings.Contains(output, "layer failed") || !strings.Contains(output, "layer=water") {
		t.Errorf("expected a failure log line for water, got:\n%s", output)
	}
	if !strings.Contains(output, "progress=2/2") {
		t.Errorf("expected progress to reach 2/2, got:\n%s", output)
	}
}

func TestReporterFailedCount(t *testing.T) {
	r, _ := testReporter(3)

	r.Record(resultFor("a", time.Millisecond, nil))
	r.Record(resultFor("b", time.Millisecond, errors.New("boom")))
	r.Record(resultFor("c", time.Millisecond, errors.New("boom")))

	if got := r.Failed(); got != 2 {
		t.Errorf("Failed() = %d, want 2", got)
	}
}

func TestReporterSummary(t *testing.T) {
	r, _ := testReporter(3)

	r.Record(resultFor("roads", 5*time.Millisecond, nil))
	r.Record(resultFor("parcels", 50*time.Millisecond, nil))
	r.Record(resultFor("water", 10*time.Millisecond, errors.New("boom")))

	summary := r.Summary()
	if !strings.Contains(summary, "rendered 2 of 3 layers") {
		t.Errorf("expected success count in summary, got: %s", summary)
	}
	if !strings.Contains(summary, "(1 failed)") {
		t.Errorf("expected failure count in summary, got: %s", summary)
	}
	if !strings.Contains(summary, "slowest: parcels") {
		t.Errorf("expected the slowest layer to be named, got: %s", summary)
	}
}

func TestReporterSummarySingleJobOmitsParallelism(t *testing.T) {
	r, _ := testReporter(1)
	r.Record(resultFor("only", time.Millisecond, nil))

	if strings.Contains(r.Summary(), "parallelism") {
		t.Error("expected no parallelism figure for a single job")
	}
}
