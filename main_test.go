package main

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumafield/s3-api-suite/gateway"
	"github.com/lumafield/s3-api-suite/report"
	"github.com/lumafield/s3-api-suite/suite"
)

func resetFlags(t *testing.T) {
	t.Cleanup(func() {
		runAll, testName, listTests, failOnError = false, "", false, false
		jsonFileName, csvFileName, yamlFileName, metricsFileName = "", "", "", ""
	})
}

func testCommand() (*cobra.Command, *bytes.Buffer) {
	out := &bytes.Buffer{}
	cmd := &cobra.Command{Use: "s3-api-suite"}
	cmd.SetOut(out)
	cmd.SetErr(out)
	return cmd, out
}

func TestCheckCatalog(t *testing.T) {
	out := &bytes.Buffer{}
	require.NoError(t, checkCatalog(out))
	assert.Contains(t, out.String(), "✓ Catalog is consistent: 59 tests")
	assert.Contains(t, out.String(), "Object Lock Tests")
}

func TestPrintCatalog(t *testing.T) {
	out := &bytes.Buffer{}
	printCatalog(out, suite.DefaultCatalog())
	text := out.String()
	assert.Contains(t, text, "Available Bucket Tests:\n  - create_bucket\n")
	assert.Contains(t, text, "  - put_object_50mb\n")
}

func TestRunSuite_List(t *testing.T) {
	resetFlags(t)
	listTests = true
	cmd, out := testCommand()
	require.NoError(t, runSuite(cmd, nil))
	assert.Contains(t, out.String(), "Available SSE (Server-Side Encryption) Tests:")
}

func TestRunSuite_RequiresMode(t *testing.T) {
	resetFlags(t)
	cmd, _ := testCommand()
	err := runSuite(cmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--all or --test")
}

func TestRunSuite_UnknownTest(t *testing.T) {
	resetFlags(t)
	testName = "no_such_test"
	cmd, out := testCommand()
	err := runSuite(cmd, nil)
	require.ErrorIs(t, err, suite.ErrNotFound)
	assert.Contains(t, out.String(), "✗ Test 'no_such_test' not found.")
	assert.Contains(t, out.String(), "Available Object Lock Tests:")
}

func TestWriteReports(t *testing.T) {
	resetFlags(t)
	fs := afero.NewMemMapFs()
	jsonFileName, csvFileName, yamlFileName = "/out/run.json", "/out/run.csv", "/out/run.yaml"

	rep := report.NewReporter(&bytes.Buffer{})
	s := &report.Summary{RunID: "run-1", Mode: "create_bucket"}
	rep.Begin(s, "run")
	rep.Add("create_bucket", "bucket", report.PhaseTarget, gateway.Succeeded("Bucket b created successfully"))
	summary := rep.Finish()

	out := &bytes.Buffer{}
	require.NoError(t, writeReports(fs, out, summary))

	loaded, err := report.FromJsonFile(fs, jsonFileName)
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.Passed)

	csvData, err := afero.ReadFile(fs, csvFileName)
	require.NoError(t, err)
	assert.Contains(t, string(csvData), "create_bucket")

	exists, err := afero.Exists(fs, yamlFileName)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Contains(t, out.String(), "JSON results were written to /out/run.json")
}

func TestRunError(t *testing.T) {
	resetFlags(t)
	failed := &report.Summary{RunID: "run-1", Passed: 57, Failed: 2, Total: 59}

	t.Run("failures without flag", func(t *testing.T) {
		failOnError = false
		assert.NoError(t, runError(failed, nil))
	})

	t.Run("failures with flag", func(t *testing.T) {
		failOnError = true
		err := runError(failed, nil)
		require.ErrorIs(t, err, errTestsFailed)
		assert.Contains(t, err.Error(), "2 of 59")
	})

	t.Run("all passed with flag", func(t *testing.T) {
		failOnError = true
		assert.NoError(t, runError(&report.Summary{RunID: "run-2", Passed: 1, Total: 1}, nil))
	})

	t.Run("setup error passes through", func(t *testing.T) {
		failOnError = true
		setupErr := errors.New("creating fixture directory: disk full")
		err := runError(&report.Summary{RunID: "run-3", Error: setupErr.Error()}, setupErr)
		assert.Same(t, setupErr, err)
		assert.False(t, errors.Is(err, errTestsFailed))
	})
}

func TestLogFilename(t *testing.T) {
	dir := filepath.Join("/var", "log", "suite")
	assert.Equal(t, filepath.Join(dir, "s3-api-suite.log"), logFilename("", dir))
	assert.Equal(t, filepath.Join(dir, "runs", "today.log"), logFilename(filepath.Join("runs", "today.log"), dir))
	assert.Equal(t, "/tmp/run.log", logFilename("/tmp/run.log", dir))
}

func TestPrintSavedSummary(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := &report.Summary{
		RunID: "run-9",
		Mode:  "all",
		Records: []report.Record{
			{Test: "create_bucket", Phase: report.PhaseTarget, Status: gateway.StatusSuccess, Message: "Bucket b created successfully"},
		},
		Passed: 1,
		Total:  1,
	}
	b, err := report.ToJson(s)
	require.NoError(t, err)
	require.NoError(t, afero.WriteFile(fs, "/out/run.json", b, 0o644))

	out := &bytes.Buffer{}
	require.NoError(t, printSavedSummary(fs, out, "/out/run.json"))
	assert.Contains(t, out.String(), "✓ create_bucket: Bucket b created successfully\n")
	assert.Contains(t, out.String(), "Passed: 1\n")

	require.Error(t, printSavedSummary(fs, out, "/out/missing.json"))
}

func TestDisplayVersion(t *testing.T) {
	out := &bytes.Buffer{}
	displayVersion(out)
	assert.Contains(t, out.String(), "Git Commit Hash: "+githash)
}
