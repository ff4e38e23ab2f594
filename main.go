package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/lumafield/s3-api-suite/config"
	"github.com/lumafield/s3-api-suite/gateway"
	"github.com/lumafield/s3-api-suite/logging"
	"github.com/lumafield/s3-api-suite/report"
	"github.com/lumafield/s3-api-suite/suite"
)

// use go build -ldflags "-X main.buildstamp=`date -u '+%Y-%m-%d_%I:%M:%S%p'` -X main.githash=`git rev-parse HEAD`"
var buildstamp = "No build stamp provided"
var githash = "No git hash provided"

var errTestsFailed = errors.New("one or more tests failed")

// run every test of the catalog
var runAll bool

// name of a single test to run
var testName string

// credentials file, any format viper reads
var configFile string

// print the catalog and exit
var listTests bool

// force debug logging
var debug bool

// directory of the log file
var logPath string

// overrides the level from the config file
var logLevel string

// leave the buckets created by the run in place
var keepBuckets bool

// exit with 1 when a test failed
var failOnError bool

// if not empty, the results of the run are saved as .json file
var jsonFileName string

// if not empty, the results of the run are saved as .csv file
var csvFileName string

// if not empty, the results of the run are saved as .yaml file
var yamlFileName string

// if not empty, the results of the run are saved as Prometheus textfile
var metricsFileName string

var rootCmd = &cobra.Command{
	Use:   "s3-api-suite",
	Short: "S3 API automation test suite",
	Long: `Runs bucket and object operations against an S3 compatible endpoint and
reports a pass/fail result for every operation.`,
	Example: `  s3-api-suite --all                              # Run all tests
  s3-api-suite --test create_bucket               # Run a specific test
  s3-api-suite --test put_get_5mb_immediate       # Put 5MB and get immediately
  s3-api-suite --list                             # List the available tests`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runSuite,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Displays the version information",
	Run: func(cmd *cobra.Command, _ []string) {
		displayVersion(cmd.OutOrStdout())
	},
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Checks the test catalog for consistency",
	Long: `Verifies that test names are unique, every prerequisite exists, there are
no prerequisite cycles, and the run order lists every test exactly once.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return checkCatalog(cmd.OutOrStdout())
	},
}

var summaryCmd = &cobra.Command{
	Use:   "summary <results.json>",
	Short: "Prints the results saved with --json",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return printSavedSummary(afero.NewOsFs(), cmd.OutOrStdout(), args[0])
	},
}

// program entry point
func main() {
	if err := rootCmd.Execute(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.Flags()
	flags.BoolVar(&runAll, "all", false, "Run all tests.")
	flags.StringVar(&testName, "test", "", "Run a specific test and the tests it depends on.")
	flags.StringVarP(&configFile, "config", "c", config.DefaultFile, "Credentials and endpoint configuration file.")
	flags.BoolVar(&listTests, "list", false, "List the available tests by category.")
	flags.BoolVarP(&debug, "debug", "d", false, "Enable debug logging.")
	flags.StringVar(&logPath, "log-path", "", "Specify the path of the log file. Default is 'currentDir'")
	flags.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn or error. Overrides the config file.")
	flags.BoolVar(&keepBuckets, "keep-buckets", false, "Do not delete the buckets created by the run.")
	flags.BoolVar(&failOnError, "fail-on-error", false, "Exit with status 1 when any test failed.")
	flags.StringVar(&jsonFileName, "json", "", "Saves the results as .json file.")
	flags.StringVar(&csvFileName, "csv", "", "Saves the results as .csv file.")
	flags.StringVar(&yamlFileName, "yaml", "", "Saves the results as .yaml file.")
	flags.StringVar(&metricsFileName, "metrics-file", "", "Saves the results in the Prometheus textfile format.")
	rootCmd.MarkFlagsMutuallyExclusive("all", "test", "list")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(summaryCmd)
}

func runSuite(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	catalog := suite.DefaultCatalog()

	if listTests {
		printCatalog(out, catalog)
		return nil
	}
	if !runAll && testName == "" {
		_ = cmd.Usage()
		return errors.New("please specify --all or --test <test_name>")
	}
	if testName != "" {
		if _, err := catalog.Lookup(testName); err != nil {
			fmt.Fprintf(out, "✗ Test '%s' not found.\n", testName)
			printCatalog(out, catalog)
			return err
		}
	}

	fs := afero.NewOsFs()
	cfg, err := config.Load(fs, configFile)
	if err != nil {
		return err
	}

	logger, flush, err := setupLogger(cfg)
	if err != nil {
		return err
	}
	defer flush()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gw, err := gateway.NewS3Gateway(ctx, cfg, fs, logger)
	if err != nil {
		return err
	}

	orchestrator := suite.New(catalog, gw, report.NewReporter(out), fs, logger, suite.Options{
		BucketPrefix: cfg.BucketPrefix,
		KeepBuckets:  keepBuckets,
		Progress:     cmd.ErrOrStderr(),
		Endpoint:     cfg.EndpointURL,
		Region:       cfg.Region,
	})

	var summary *report.Summary
	if runAll {
		summary, err = orchestrator.RunAll(ctx)
	} else {
		summary, err = orchestrator.RunOne(ctx, testName)
	}
	if summary != nil {
		if werr := writeReports(fs, out, summary); werr != nil {
			logger.WithError(werr).Error("writing reports failed")
			if err == nil {
				err = werr
			}
		}
	}
	return runError(summary, err)
}

// runError decides the exit status of a finished run. Failed tests only
// count when --fail-on-error is set.
func runError(summary *report.Summary, err error) error {
	if err != nil {
		return err
	}
	if failOnError && summary != nil && summary.Failed > 0 {
		return fmt.Errorf("%w: %d of %d", errTestsFailed, summary.Failed, summary.Total)
	}
	return nil
}

func setupLogger(cfg *config.Config) (logging.Interface, func(), error) {
	dir := logPath
	if dir == "" {
		dir, _ = os.Getwd()
	}
	filename := logFilename(cfg.Logging.Filename, dir)
	if err := cfg.Logging.Apply(logging.WithFilename(filename), logging.WithLevel(logLevel), logging.WithDebug(debug)); err != nil {
		return nil, nil, err
	}

	zapLogger, err := logging.NewLogger(&cfg.Logging)
	if err != nil {
		return nil, nil, fmt.Errorf("creating logger: %w", err)
	}
	return logging.ForZap(zapLogger), func() { _ = zapLogger.Sync() }, nil
}

// logFilename places a relative log file under dir.
func logFilename(configured, dir string) string {
	if configured == "" {
		configured = logging.DefaultFilename
	}
	if filepath.IsAbs(configured) {
		return configured
	}
	return filepath.Join(dir, configured)
}

func writeReports(fs afero.Fs, out io.Writer, summary *report.Summary) error {
	// if the json option is set, save the report as .json
	if jsonFileName != "" {
		jsonReport, err := report.ToJson(summary)
		if err != nil {
			return fmt.Errorf("failed to create .json output: %w", err)
		}
		if err := afero.WriteFile(fs, jsonFileName, jsonReport, 0o644); err != nil {
			return fmt.Errorf("failed to create .json output: %w", err)
		}
		fmt.Fprintf(out, "JSON results were written to %s\n", jsonFileName)
	}

	// if the csv option is set, save the report as .csv
	if csvFileName != "" {
		if err := afero.WriteReader(fs, csvFileName, report.CsvReader(summary)); err != nil {
			return fmt.Errorf("failed to create .csv output: %w", err)
		}
		fmt.Fprintf(out, "CSV results were written to %s\n", csvFileName)
	}

	if yamlFileName != "" {
		yamlReport, err := report.ToYaml(summary)
		if err != nil {
			return fmt.Errorf("failed to create .yaml output: %w", err)
		}
		if err := afero.WriteFile(fs, yamlFileName, yamlReport, 0o644); err != nil {
			return fmt.Errorf("failed to create .yaml output: %w", err)
		}
		fmt.Fprintf(out, "YAML results were written to %s\n", yamlFileName)
	}

	if metricsFileName != "" {
		if err := report.WriteMetrics(metricsFileName, summary); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
		fmt.Fprintf(out, "Metrics were written to %s\n", metricsFileName)
	}
	return nil
}

func printCatalog(out io.Writer, catalog *suite.Catalog) {
	for _, g := range catalog.Groups() {
		fmt.Fprintf(out, "\nAvailable %s:\n", g.Group.Title())
		for _, id := range g.Tests {
			fmt.Fprintf(out, "  - %s\n", id)
		}
	}
}

func checkCatalog(out io.Writer) error {
	catalog, err := suite.ValidateDefaultCatalog()
	if err != nil {
		fmt.Fprintln(out, "✗ Catalog is inconsistent")
		return err
	}
	fmt.Fprintf(out, "✓ Catalog is consistent: %d tests, run order lists each test once\n", catalog.Len())
	for _, g := range catalog.Groups() {
		fmt.Fprintf(out, "  %-40s %d\n", g.Group.Title(), len(g.Tests))
	}
	return nil
}

func printSavedSummary(fs afero.Fs, out io.Writer, path string) error {
	summary, err := report.FromJsonFile(fs, path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	report.NewReporter(out).Replay(summary)
	return nil
}

func displayVersion(out io.Writer) {
	fmt.Fprintf(out, "Git Commit Hash: %s\n", githash)
	fmt.Fprintf(out, "UTC Build Time: %s\n", buildstamp)
}
