package suite

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/spf13/afero"

	"github.com/lumafield/s3-api-suite/gateway"
	"github.com/lumafield/s3-api-suite/logging"
	"github.com/lumafield/s3-api-suite/report"
)

// State is a step of a run.
type State string

const (
	StateIdle          State = "Idle"
	StateSetup         State = "Setup"
	StatePrerequisites State = "Prerequisites"
	StateTarget        State = "Target"
	StateCleanup       State = "Cleanup"
	StateTeardown      State = "Teardown"
	StateReported      State = "Reported"
)

type Options struct {
	BucketPrefix string
	// KeepBuckets skips deleting the buckets a run created.
	KeepBuckets bool
	// Progress receives the fixture progress bar; nil disables it.
	Progress io.Writer
	Endpoint string
	Region   string
}

// Orchestrator runs catalog tests against a gateway, one at a time.
type Orchestrator struct {
	catalog  *Catalog
	gw       gateway.Gateway
	reporter *report.Reporter
	fs       afero.Fs
	logger   logging.Interface
	opts     Options

	newFixtures func() *Fixtures
}

func New(catalog *Catalog, gw gateway.Gateway, reporter *report.Reporter, fs afero.Fs, logger logging.Interface, opts Options) *Orchestrator {
	o := &Orchestrator{
		catalog:  catalog,
		gw:       gw,
		reporter: reporter,
		fs:       fs,
		logger:   logger,
		opts:     opts,
	}
	o.newFixtures = func() *Fixtures {
		return NewFixtures(o.fs, o.opts.BucketPrefix, o.opts.Progress)
	}
	return o
}

// RunAll runs every test in catalog order, continuing past failures.
func (o *Orchestrator) RunAll(ctx context.Context) (*report.Summary, error) {
	return o.run(ctx, "all", "Running S3 API Automation Test Suite - ALL TESTS", func(r *run) {
		r.transition(StateTarget)
		for _, id := range o.catalog.Order() {
			if ctx.Err() != nil {
				o.logger.WithError(ctx.Err()).Warn("run interrupted, skipping remaining tests")
				return
			}
			r.execute(ctx, o.catalog.cases[id], report.PhaseTarget)
		}
	})
}

// RunOne runs a single test after the tests it depends on. An unknown name
// fails with ErrNotFound before anything is created.
func (o *Orchestrator) RunOne(ctx context.Context, name string) (*report.Summary, error) {
	tc, err := o.catalog.Lookup(name)
	if err != nil {
		return nil, err
	}

	title := fmt.Sprintf("Running S3 API Test - %s", strings.ToUpper(name))
	return o.run(ctx, name, title, func(r *run) {
		if tc.Bucket == BucketMain && !tc.CreatesBucket {
			if creator, ok := o.catalog.BucketCreator(BucketMain); ok {
				r.execute(ctx, creator, report.PhaseSetup)
			}
		}

		r.transition(StatePrerequisites)
		for _, id := range o.catalog.Prerequisites(tc.ID) {
			r.execute(ctx, o.catalog.cases[id], report.PhasePrerequisite)
		}

		r.transition(StateTarget)
		r.execute(ctx, tc, report.PhaseTarget)
	})
}

// run holds the state of a single invocation.
type run struct {
	o      *Orchestrator
	fx     *Fixtures
	done   map[ID]bool
	states []State
}

func (r *run) transition(s State) {
	r.states = append(r.states, s)
	r.o.logger.WithField("state", string(s)).Debug("run state changed")
}

// execute runs tc once per run. A panicking procedure is recorded as an error.
func (r *run) execute(ctx context.Context, tc TestCase, phase string) {
	if r.done[tc.ID] {
		return
	}
	r.done[tc.ID] = true

	var res gateway.Result
	defer func() {
		if p := recover(); p != nil {
			r.o.logger.WithField("test", string(tc.ID)).Errorf("test panicked: %v", p)
			res = gateway.Failed("Test panicked: %v", p)
		}
		r.o.reporter.Add(string(tc.ID), string(tc.Group), phase, res)

		l := r.o.logger.WithField("test", string(tc.ID)).WithField("phase", phase)
		if res.OK() {
			l.Info(res.Message)
		} else {
			l.Warn(res.Message)
		}
	}()
	res = tc.Procedure(ctx, r.o.gw, r.fx)
}

func (o *Orchestrator) run(ctx context.Context, mode, title string, body func(r *run)) (*report.Summary, error) {
	fx := o.newFixtures()
	r := &run{o: o, fx: fx, done: make(map[ID]bool), states: []State{StateIdle}}

	summary := &report.Summary{
		RunID:      fx.RunID,
		Mode:       mode,
		Endpoint:   o.opts.Endpoint,
		Region:     o.opts.Region,
		Bucket:     fx.Bucket,
		LockBucket: fx.LockBucket,
		ClientEnv:  fmt.Sprintf("%s/%s %s", runtime.GOOS, runtime.GOARCH, runtime.Version()),
	}
	o.logger.WithField("run_id", fx.RunID).WithField("mode", mode).WithField("bucket", fx.Bucket).Info("starting run")
	o.reporter.Begin(summary, title)

	tornDown := false
	teardown := func() {
		if tornDown {
			return
		}
		tornDown = true
		r.transition(StateTeardown)
		if err := fx.Teardown(); err != nil {
			o.logger.WithError(err).Warn("fixture teardown failed")
			return
		}
		o.reporter.Notef("✓ Cleanup complete - Test files removed")
	}
	defer teardown()

	r.transition(StateSetup)
	if err := fx.Setup(); err != nil {
		o.logger.WithError(err).Error("setup failed")
		o.reporter.Notef("✗ Setup failed: %v", err)
		teardown()
		o.reporter.Finish()
		r.transition(StateReported)
		summary.States, summary.FinalState = stateNames(r.states), string(StateReported)
		summary.Error = err.Error()
		return summary, err
	}
	o.reporter.Notef("✓ Setup complete - Test files created (1KB and 5MB files)")

	body(r)

	r.transition(StateCleanup)
	// buckets are removed even when the run was interrupted
	o.cleanup(context.WithoutCancel(ctx), fx)
	teardown()

	o.reporter.Finish()
	r.transition(StateReported)
	summary.States, summary.FinalState = stateNames(r.states), string(StateReported)
	o.reporter.PrintSummary(summary)
	return summary, nil
}

// cleanup empties and deletes the buckets the run created. Outcomes are
// logged and not counted.
func (o *Orchestrator) cleanup(ctx context.Context, fx *Fixtures) {
	buckets := fx.CreatedBuckets()
	if len(buckets) == 0 {
		return
	}
	if o.opts.KeepBuckets {
		o.reporter.Notef("Keeping buckets: %s", strings.Join(buckets, ", "))
		return
	}

	for _, b := range buckets {
		l := o.logger.WithField("bucket", b)
		if res := o.gw.HeadBucket(ctx, b); !res.OK() {
			l.Debugf("bucket not reachable, skipping cleanup: %s", res.Message)
			continue
		}
		if res := o.gw.EmptyBucket(ctx, b); !res.OK() {
			l.Warnf("emptying bucket failed: %s", res.Message)
		}
		res := o.gw.DeleteBucket(ctx, b)
		if !res.OK() {
			l.Warnf("deleting bucket failed: %s", res.Message)
			o.reporter.Notef("✗ Cleanup: bucket %s not deleted: %s", b, res.Message)
			continue
		}
		fx.MarkDeleted(b)
		l.Info("bucket deleted")
		o.reporter.Notef("✓ Cleanup: bucket %s deleted", b)
	}
}

func stateNames(states []State) []string {
	names := make([]string, len(states))
	for i, s := range states {
		names[i] = string(s)
	}
	return names
}
