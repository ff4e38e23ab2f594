package report

import (
	"time"

	"github.com/montanaflynn/stats"

	"github.com/lumafield/s3-api-suite/gateway"
)

// Phases a record can belong to.
const (
	PhaseSetup        = "setup"
	PhasePrerequisite = "prerequisite"
	PhaseTarget       = "target"
)

type Summary struct {
	RunID           string             `json:"run_id" yaml:"run_id"`
	Mode            string             `json:"mode" yaml:"mode"` // all or the name of the single test
	Endpoint        string             `json:"endpoint" yaml:"endpoint"`
	Region          string             `json:"region" yaml:"region"`
	Bucket          string             `json:"bucket" yaml:"bucket"`
	LockBucket      string             `json:"lock_bucket" yaml:"lock_bucket"`
	ClientEnv       string             `json:"client_env" yaml:"client_env"` // Description of the environment the suite ran in.
	DateTimeUTC     string             `json:"datetime_utc" yaml:"datetime_utc"`
	Records         []Record           `json:"records" yaml:"records"`
	Passed          int                `json:"passed" yaml:"passed"`
	Failed          int                `json:"failed" yaml:"failed"`
	Total           int                `json:"total" yaml:"total"`
	DurationSeconds float64            `json:"duration_secs" yaml:"duration_secs"`
	Durations       map[string]float64 `json:"durations" yaml:"durations"`
	States          []string           `json:"states" yaml:"states"`
	FinalState      string             `json:"final_state" yaml:"final_state"`
	Error           string             `json:"error,omitempty" yaml:"error,omitempty"`
}

type Record struct {
	Test            string                 `json:"test" yaml:"test"`
	Group           string                 `json:"group" yaml:"group"`
	Phase           string                 `json:"phase" yaml:"phase"`
	Status          gateway.Status         `json:"status" yaml:"status"`
	Message         string                 `json:"message" yaml:"message"`
	DurationSeconds float64                `json:"duration_secs" yaml:"duration_secs"`
	Latency         map[string]float64     `json:"latency_ms" yaml:"latency_ms"`
	Details         map[string]interface{} `json:"details,omitempty" yaml:"details,omitempty"`
}

func NewRecord(test, group, phase string, res gateway.Result) Record {
	return Record{
		Test:            test,
		Group:           group,
		Phase:           phase,
		Status:          res.Status,
		Message:         res.Message,
		DurationSeconds: res.Duration.Seconds(),
		Latency:         res.Latency.Milliseconds(),
		Details:         res.Details,
	}
}

func (r *Record) OK() bool {
	return r.Status == gateway.StatusSuccess
}

// FailedRecords returns the records with an error status, in run order.
func (s *Summary) FailedRecords() []Record {
	var failed []Record
	for _, r := range s.Records {
		if !r.OK() {
			failed = append(failed, r)
		}
	}
	return failed
}

// Tally recomputes the totals and the duration statistics from the records.
func (s *Summary) Tally(elapsed time.Duration) {
	s.Passed, s.Failed = 0, 0
	dataPoints := make(stats.Float64Data, 0, len(s.Records))
	for _, r := range s.Records {
		if r.OK() {
			s.Passed++
		} else {
			s.Failed++
		}
		dataPoints = append(dataPoints, r.DurationSeconds)
	}
	s.Total = len(s.Records)
	s.DurationSeconds = elapsed.Seconds()
	s.Durations = durationStats(dataPoints)
}

func durationStats(dataPoints stats.Float64Data) map[string]float64 {
	d := make(map[string]float64)
	if dataPoints.Len() == 0 {
		return d
	}
	d["avg"], _ = stats.Mean(dataPoints)
	d["min"], _ = stats.Min(dataPoints)
	d["p50"], _ = stats.Percentile(dataPoints, 50)
	d["p90"], _ = stats.Percentile(dataPoints, 90)
	d["max"], _ = stats.Max(dataPoints)
	d["sum"], _ = stats.Sum(dataPoints)
	return d
}
