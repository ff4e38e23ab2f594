package suite

import (
	"bytes"
	"context"
	"errors"
	"os"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumafield/s3-api-suite/gateway"
	"github.com/lumafield/s3-api-suite/logging"
	"github.com/lumafield/s3-api-suite/report"
)

// fakeGateway records the calls it gets. Operations it doesn't implement
// panic through the nil embedded interface.
type fakeGateway struct {
	gateway.Gateway

	fs       afero.Fs
	calls    []string
	fail     map[string]bool
	uploaded map[string]int64
}

func newFakeGateway(fs afero.Fs) *fakeGateway {
	return &fakeGateway{fs: fs, fail: map[string]bool{}, uploaded: map[string]int64{}}
}

func (f *fakeGateway) result(op string) gateway.Result {
	f.calls = append(f.calls, op)
	if f.fail[op] {
		return gateway.Failed("%s failed", op)
	}
	return gateway.Succeeded("%s ok", op)
}

func (f *fakeGateway) count(op string) int {
	n := 0
	for _, c := range f.calls {
		if c == op {
			n++
		}
	}
	return n
}

func (f *fakeGateway) CreateBucket(context.Context, string) gateway.Result {
	return f.result("CreateBucket")
}

func (f *fakeGateway) CreateBucketWithObjectLock(context.Context, string) gateway.Result {
	return f.result("CreateBucketWithObjectLock")
}

func (f *fakeGateway) HeadBucket(context.Context, string) gateway.Result {
	return f.result("HeadBucket")
}

func (f *fakeGateway) EmptyBucket(context.Context, string) gateway.Result {
	return f.result("EmptyBucket")
}

func (f *fakeGateway) DeleteBucket(context.Context, string) gateway.Result {
	return f.result("DeleteBucket")
}

func (f *fakeGateway) PutObject(_ context.Context, _, key, path string) gateway.Result {
	res := f.result("PutObject")
	if info, err := f.fs.Stat(path); err == nil {
		f.uploaded[key] = info.Size()
	}
	return res
}

func (f *fakeGateway) UploadLargeObject(_ context.Context, _, key, path string) gateway.Result {
	res := f.result("UploadLargeObject")
	if info, err := f.fs.Stat(path); err == nil {
		f.uploaded[key] = info.Size()
	}
	return res
}

func (f *fakeGateway) DeleteObject(context.Context, string, string) gateway.Result {
	return f.result("DeleteObject")
}

func (f *fakeGateway) CopyObject(context.Context, string, string, string, string) gateway.Result {
	return f.result("CopyObject")
}

func (f *fakeGateway) DeleteObjects(context.Context, string, []string) gateway.Result {
	return f.result("DeleteObjects")
}

func (f *fakeGateway) PutObjectTagging(context.Context, string, string, map[string]string) gateway.Result {
	return f.result("PutObjectTagging")
}

func (f *fakeGateway) GetObjectTagging(context.Context, string, string) gateway.Result {
	return f.result("GetObjectTagging")
}

func (f *fakeGateway) ListObjects(context.Context, string, string) gateway.Result {
	return f.result("ListObjects").With("count", 1)
}

func (f *fakeGateway) GetObjectLockConfiguration(context.Context, string) gateway.Result {
	return f.result("GetObjectLockConfiguration")
}

type harness struct {
	orch     *Orchestrator
	gw       *fakeGateway
	fs       afero.Fs
	out      *bytes.Buffer
	fixtures []*Fixtures
}

func newHarness(t *testing.T, catalog *Catalog, opts Options) *harness {
	t.Helper()
	if opts.BucketPrefix == "" {
		opts.BucketPrefix = "test-bucket"
	}
	h := &harness{fs: afero.NewMemMapFs(), out: &bytes.Buffer{}}
	h.gw = newFakeGateway(h.fs)
	h.orch = New(catalog, h.gw, report.NewReporter(h.out), h.fs, logging.NewTestLogger(), opts)

	newFixtures := h.orch.newFixtures
	h.orch.newFixtures = func() *Fixtures {
		fx := newFixtures()
		h.fixtures = append(h.fixtures, fx)
		return fx
	}
	return h
}

func count(states []string, s State) int {
	n := 0
	for _, st := range states {
		if st == string(s) {
			n++
		}
	}
	return n
}

func tests(s *report.Summary) []string {
	var ids []string
	for _, r := range s.Records {
		ids = append(ids, r.Test+"/"+r.Phase)
	}
	return ids
}

func TestRunOne_UnknownName(t *testing.T) {
	h := newHarness(t, DefaultCatalog(), Options{})

	s, err := h.orch.RunOne(context.Background(), "no_such_test")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Nil(t, s)

	assert.Empty(t, h.fixtures, "no fixtures for an unknown test")
	assert.Empty(t, h.gw.calls, "no remote calls for an unknown test")
	entries, _ := afero.ReadDir(h.fs, os.TempDir())
	assert.Empty(t, entries)
	assert.Empty(t, h.out.String())
}

func TestRunOne_CreateBucketIsNotPreCreated(t *testing.T) {
	h := newHarness(t, DefaultCatalog(), Options{})

	s, err := h.orch.RunOne(context.Background(), "create_bucket")
	require.NoError(t, err)

	assert.Equal(t, 1, h.gw.count("CreateBucket"))
	assert.Equal(t, []string{"create_bucket/target"}, tests(s))
	// the bucket created by the test is removed afterwards
	assert.Equal(t, []string{"CreateBucket", "HeadBucket", "EmptyBucket", "DeleteBucket"}, h.gw.calls)
}

func TestRunOne_PutObjectPreCreatesBucket(t *testing.T) {
	h := newHarness(t, DefaultCatalog(), Options{})

	s, err := h.orch.RunOne(context.Background(), "put_object")
	require.NoError(t, err)

	assert.Equal(t, []string{"create_bucket/setup", "put_object/target"}, tests(s))
	assert.Equal(t, "CreateBucket", h.gw.calls[0])
	assert.Equal(t, "PutObject", h.gw.calls[1])
	assert.Equal(t, 2, s.Passed)
	assert.Contains(t, h.out.String(), "Running S3 API Test - PUT_OBJECT")
}

func TestRunOne_PrerequisitesRunFirst(t *testing.T) {
	h := newHarness(t, DefaultCatalog(), Options{})

	s, err := h.orch.RunOne(context.Background(), "delete_object_tagging")
	require.NoError(t, err)
	assert.Len(t, s.Records, 4)
	assert.Equal(t, []string{
		"create_bucket/setup",
		"put_object/prerequisite",
		"put_object_tagging/prerequisite",
		"delete_object_tagging/target",
	}, tests(s))
	// delete_object_tagging isn't implemented by the fake and panics
	assert.Equal(t, gateway.StatusError, s.Records[3].Status)
	assert.Contains(t, s.Records[3].Message, "Test panicked")
}

func TestRunOne_PrerequisiteRunsOnce(t *testing.T) {
	h := newHarness(t, DefaultCatalog(), Options{})

	s, err := h.orch.RunOne(context.Background(), "delete_objects")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"create_bucket/setup",
		"put_object/prerequisite",
		"copy_object/prerequisite",
		"delete_objects/target",
	}, tests(s))
	assert.Equal(t, 1, h.gw.count("PutObject"))
	assert.Equal(t, s.Total, s.Passed)
}

func TestRunOne_FailedPrerequisiteStillRunsTarget(t *testing.T) {
	h := newHarness(t, DefaultCatalog(), Options{})
	h.gw.fail["PutObjectTagging"] = true

	s, err := h.orch.RunOne(context.Background(), "get_object_tagging")
	require.NoError(t, err)
	assert.Equal(t, 1, h.gw.count("GetObjectTagging"))
	assert.Equal(t, 1, s.Failed)
	assert.Equal(t, 3, s.Passed)
}

func TestRunOne_LockTestsSkipMainBucket(t *testing.T) {
	h := newHarness(t, DefaultCatalog(), Options{})

	s, err := h.orch.RunOne(context.Background(), "get_object_lock_configuration")
	require.NoError(t, err)
	assert.Zero(t, h.gw.count("CreateBucket"))
	assert.Equal(t, []string{
		"create_bucket_with_object_lock/prerequisite",
		"get_object_lock_configuration/target",
	}, tests(s))
	assert.Equal(t, 1, h.gw.count("DeleteBucket"))
}

func TestRunOne_TeardownExactlyOnce(t *testing.T) {
	for _, id := range DefaultCatalog().Order() {
		t.Run(string(id), func(t *testing.T) {
			h := newHarness(t, DefaultCatalog(), Options{})

			s, err := h.orch.RunOne(context.Background(), string(id))
			require.NoError(t, err)
			assert.Equal(t, 1, count(s.States, StateTeardown))
			assert.Equal(t, string(StateReported), s.FinalState)
			assert.Equal(t, s.Total, s.Passed+s.Failed)

			require.Len(t, h.fixtures, 1)
			exists, err := afero.DirExists(h.fs, h.fixtures[0].Dir)
			require.NoError(t, err)
			assert.False(t, exists)
		})
	}
}

func TestRunOne_PanickingProcedure(t *testing.T) {
	boom := func(context.Context, gateway.Gateway, *Fixtures) gateway.Result { panic("boom") }
	catalog, err := NewCatalog([]TestCase{
		{ID: "make", Group: GroupBucket, Procedure: createBucket, CreatesBucket: true},
		{ID: "explode", Group: GroupBucket, Procedure: boom},
	}, []ID{"make", "explode"})
	require.NoError(t, err)

	h := newHarness(t, catalog, Options{})
	s, err := h.orch.RunOne(context.Background(), "explode")
	require.NoError(t, err)

	require.Len(t, s.Records, 2)
	assert.Equal(t, "Test panicked: boom", s.Records[1].Message)
	assert.Equal(t, 1, count(s.States, StateTeardown))
	assert.Equal(t, []string{"Idle", "Setup", "Prerequisites", "Target", "Cleanup", "Teardown", "Reported"}, s.States)
	assert.Contains(t, h.out.String(), "✗ explode: Test panicked: boom")
}

func TestRunOne_SetupFailure(t *testing.T) {
	h := newHarness(t, DefaultCatalog(), Options{BucketPrefix: "Not_A_Valid_Prefix"})

	s, err := h.orch.RunOne(context.Background(), "put_object")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSetup))
	require.NotNil(t, s)
	assert.Equal(t, []string{"Idle", "Setup", "Teardown", "Reported"}, s.States)
	assert.Empty(t, h.gw.calls)
	assert.Zero(t, s.Total)
	assert.NotContains(t, h.out.String(), "TEST SUMMARY")
}

func TestRunOne_KeepBuckets(t *testing.T) {
	h := newHarness(t, DefaultCatalog(), Options{KeepBuckets: true})

	_, err := h.orch.RunOne(context.Background(), "put_object")
	require.NoError(t, err)
	assert.Zero(t, h.gw.count("DeleteBucket"))
	assert.Zero(t, h.gw.count("EmptyBucket"))
	assert.Contains(t, h.out.String(), "Keeping buckets: "+h.fixtures[0].Bucket)
}

func TestRunOne_Upload50MB(t *testing.T) {
	h := newHarness(t, DefaultCatalog(), Options{KeepBuckets: true})

	s, err := h.orch.RunOne(context.Background(), "put_object_50mb")
	require.NoError(t, err)
	assert.Equal(t, s.Total, s.Passed)
	assert.Equal(t, int64(50*1024*1024), h.gw.uploaded[KeyObject50MB])

	path := h.fixtures[0].file50MB
	require.NotEmpty(t, path)
	exists, err := afero.Exists(h.fs, path)
	require.NoError(t, err)
	assert.False(t, exists, "teardown removes the local artifact")
	assert.Zero(t, h.gw.count("DeleteObject"), "teardown leaves the remote object alone")
	assert.Zero(t, h.gw.count("DeleteObjects"))
}

func TestRunAll_Totals(t *testing.T) {
	h := newHarness(t, DefaultCatalog(), Options{})
	h.gw.fail["HeadBucket"] = true

	s, err := h.orch.RunAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 59, s.Total)
	assert.Equal(t, s.Total, s.Passed+s.Failed)
	assert.Positive(t, s.Failed)
	assert.Equal(t, "create_bucket", s.Records[0].Test)
	assert.Equal(t, "delete_bucket", s.Records[len(s.Records)-1].Test)
	assert.Equal(t, 1, count(s.States, StateTeardown))
	assert.Contains(t, h.out.String(), "Running S3 API Automation Test Suite - ALL TESTS")
	assert.Contains(t, h.out.String(), "TEST SUMMARY")
}

func TestRunAll_Interrupted(t *testing.T) {
	h := newHarness(t, DefaultCatalog(), Options{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s, err := h.orch.RunAll(ctx)
	require.NoError(t, err)
	assert.Zero(t, s.Total)
	assert.Equal(t, 1, count(s.States, StateTeardown))
}
