package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/lumafield/s3-api-suite/gateway"
)

const bannerWidth = 60

// Reporter accumulates the records of a run and prints them as they arrive.
type Reporter struct {
	out     io.Writer
	summary *Summary
	start   time.Time
	now     func() time.Time
}

func NewReporter(out io.Writer) *Reporter {
	return &Reporter{out: out, now: time.Now}
}

// Begin starts a new run on summary and prints the title banner.
func (r *Reporter) Begin(summary *Summary, title string) {
	r.summary = summary
	r.start = r.now()
	if summary.DateTimeUTC == "" {
		summary.DateTimeUTC = r.start.UTC().Format(time.RFC3339)
	}
	r.banner(title)
}

// Add records the outcome of a procedure and prints its line.
func (r *Reporter) Add(test, group, phase string, res gateway.Result) Record {
	record := NewRecord(test, group, phase, res)
	if r.summary != nil {
		r.summary.Records = append(r.summary.Records, record)
	}

	r.printRecord(record)
	return record
}

func (r *Reporter) printRecord(record Record) {
	marker := "✓"
	if !record.OK() {
		marker = "✗"
	}
	label := record.Test
	if record.Phase != PhaseTarget {
		label = fmt.Sprintf("%s (%s)", record.Test, record.Phase)
	}
	fmt.Fprintf(r.out, "%s %s: %s\n", marker, label, record.Message)
}

// Replay prints a summary saved by an earlier run, one line per record
// followed by its totals block.
func (r *Reporter) Replay(s *Summary) {
	r.banner(fmt.Sprintf("Run %s (%s) at %s", s.RunID, s.Mode, s.DateTimeUTC))
	for _, rec := range s.Records {
		r.printRecord(rec)
	}
	if s.Error != "" {
		r.Notef("✗ %s", s.Error)
	}
	r.PrintSummary(s)
}

// Notef prints an informational line that isn't counted as a result.
func (r *Reporter) Notef(format string, args ...interface{}) {
	fmt.Fprintf(r.out, "  "+format+"\n", args...)
}

// Finish tallies the run and returns its summary.
func (r *Reporter) Finish() *Summary {
	if r.summary == nil {
		return nil
	}
	r.summary.Tally(r.now().Sub(r.start))
	return r.summary
}

// PrintSummary prints the totals block of a finished run.
func (r *Reporter) PrintSummary(s *Summary) {
	fmt.Fprintln(r.out)
	r.banner("TEST SUMMARY")
	fmt.Fprintf(r.out, "Total:  %d\n", s.Total)
	fmt.Fprintf(r.out, "Passed: %d\n", s.Passed)
	fmt.Fprintf(r.out, "Failed: %d\n", s.Failed)

	if failed := s.FailedRecords(); len(failed) > 0 {
		fmt.Fprintln(r.out, "\nFailed tests:")
		for _, rec := range failed {
			fmt.Fprintf(r.out, "  ✗ %s: %s\n", rec.Test, rec.Message)
		}
	}

	if len(s.Durations) > 0 {
		fmt.Fprintf(r.out, "\nDuration (s): avg %.3f  min %.3f  p50 %.3f  p90 %.3f  max %.3f\n",
			s.Durations["avg"], s.Durations["min"], s.Durations["p50"], s.Durations["p90"], s.Durations["max"])
	}
	fmt.Fprintf(r.out, "Elapsed: %.2fs\n", s.DurationSeconds)
	fmt.Fprintln(r.out, strings.Repeat("=", bannerWidth))
}

func (r *Reporter) banner(title string) {
	line := strings.Repeat("=", bannerWidth)
	fmt.Fprintf(r.out, "%s\n%s\n%s\n", line, title, line)
}
