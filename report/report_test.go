package report

import (
	"bytes"
	"encoding/csv"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/lumafield/s3-api-suite/gateway"
)

func result(ok bool, msg string, d time.Duration) gateway.Result {
	res := gateway.Succeeded("%s", msg)
	if !ok {
		res = gateway.Failed("%s", msg)
	}
	res.Duration = d
	res.Latency = gateway.Latency{LastByte: d}
	return res
}

func sampleRun(t *testing.T) (*Reporter, *bytes.Buffer, *Summary) {
	t.Helper()
	out := &bytes.Buffer{}
	rep := NewReporter(out)
	clock := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	rep.now = func() time.Time { return clock }

	s := &Summary{RunID: "run-1", Mode: "all", ClientEnv: "linux/amd64"}
	rep.Begin(s, "S3 API TEST SUITE")
	rep.Add("create_bucket", "bucket", PhaseSetup, result(true, "Bucket b created successfully", time.Second))
	rep.Add("put_object", "object", PhasePrerequisite, result(true, "Object test-object.txt uploaded successfully", 2*time.Second))
	rep.Add("get_object", "object", PhaseTarget, result(false, "Object not found", 3*time.Second))

	clock = clock.Add(10 * time.Second)
	return rep, out, rep.Finish()
}

func TestReporter_Lines(t *testing.T) {
	_, out, _ := sampleRun(t)
	text := out.String()

	assert.Contains(t, text, "S3 API TEST SUITE")
	assert.Contains(t, text, "✓ create_bucket (setup): Bucket b created successfully\n")
	assert.Contains(t, text, "✓ put_object (prerequisite): Object test-object.txt uploaded successfully\n")
	assert.Contains(t, text, "✗ get_object: Object not found\n")
}

func TestReporter_Summary(t *testing.T) {
	rep, out, s := sampleRun(t)
	require.NotNil(t, s)

	assert.Equal(t, 3, s.Total)
	assert.Equal(t, 2, s.Passed)
	assert.Equal(t, 1, s.Failed)
	assert.Equal(t, s.Total, s.Passed+s.Failed)
	assert.Equal(t, 10.0, s.DurationSeconds)
	assert.Equal(t, "2026-01-02T03:04:05Z", s.DateTimeUTC)
	assert.InDelta(t, 2.0, s.Durations["avg"], 1e-9)
	assert.InDelta(t, 1.0, s.Durations["min"], 1e-9)
	assert.InDelta(t, 3.0, s.Durations["max"], 1e-9)

	out.Reset()
	rep.PrintSummary(s)
	text := out.String()
	assert.Contains(t, text, "Total:  3\n")
	assert.Contains(t, text, "Passed: 2\n")
	assert.Contains(t, text, "Failed: 1\n")
	assert.Contains(t, text, "Failed tests:\n  ✗ get_object: Object not found\n")
}

func TestTally_Empty(t *testing.T) {
	s := &Summary{}
	s.Tally(0)
	assert.Zero(t, s.Total)
	assert.Empty(t, s.Durations)
}

func TestJson_RoundTrip(t *testing.T) {
	_, _, s := sampleRun(t)
	fs := afero.NewMemMapFs()

	b, err := ToJson(s)
	require.NoError(t, err)
	require.NoError(t, afero.WriteFile(fs, "/reports/run.json", b, 0o644))

	got, err := FromJsonFile(fs, "/reports/run.json")
	require.NoError(t, err)
	assert.Equal(t, s.RunID, got.RunID)
	require.Len(t, got.Records, 3)
	assert.Equal(t, gateway.StatusError, got.Records[2].Status)
	assert.InDelta(t, 3000.0, got.Records[2].Latency["ttlb"], 1e-6)
}

func TestFromJsonByteArray_Invalid(t *testing.T) {
	_, err := FromJsonByteArray([]byte("not json"))
	require.Error(t, err)

	_, err = FromJsonByteArray([]byte(`{"mode":"all"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing run_id")
}

func TestReporter_Replay(t *testing.T) {
	_, _, s := sampleRun(t)

	out := &bytes.Buffer{}
	NewReporter(out).Replay(s)
	text := out.String()

	assert.Contains(t, text, "Run run-1 (all)")
	assert.Contains(t, text, "✓ create_bucket (setup): Bucket b created successfully\n")
	assert.Contains(t, text, "✗ get_object: Object not found\n")
	assert.Contains(t, text, "Failed: 1\n")
}

func TestYaml(t *testing.T) {
	_, _, s := sampleRun(t)
	b, err := ToYaml(s)
	require.NoError(t, err)

	var doc map[string]interface{}
	require.NoError(t, yaml.Unmarshal(b, &doc))
	assert.Equal(t, "run-1", doc["run_id"])
	assert.Equal(t, 3, doc["total"])
}

func TestCsvReader(t *testing.T) {
	_, _, s := sampleRun(t)
	rows, err := csv.NewReader(CsvReader(s)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, csvHeader, rows[0])
	assert.Equal(t, []string{"run-1", "linux/amd64", "get_object", "object", "target", "error", "3.000"}, rows[3][:7])
	assert.Equal(t, "Object not found", rows[3][len(rows[3])-1])
}

func TestWriteMetrics(t *testing.T) {
	_, _, s := sampleRun(t)
	path := filepath.Join(t.TempDir(), "s3suite.prom")
	require.NoError(t, WriteMetrics(path, s))

	b, err := afero.ReadFile(afero.NewOsFs(), path)
	require.NoError(t, err)
	text := string(b)
	assert.Contains(t, text, `s3suite_tests{status="failed"} 1`)
	assert.Contains(t, text, `s3suite_tests{status="passed"} 2`)
	assert.True(t, strings.Contains(text, `s3suite_test_duration_seconds{group="object",phase="target",status="error",test="get_object"} 3`))
	assert.Contains(t, text, "s3suite_run_duration_seconds 10")
}
