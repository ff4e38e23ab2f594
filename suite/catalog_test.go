package suite

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lumafield/s3-api-suite/gateway"
)

func noop(context.Context, gateway.Gateway, *Fixtures) gateway.Result { return gateway.Succeeded("ok") }

func TestDefaultCatalog(t *testing.T) {
	c := DefaultCatalog()
	assert.Equal(t, 59, c.Len())
	assert.Len(t, c.Order(), c.Len())

	creator, ok := c.BucketCreator(BucketMain)
	require.True(t, ok)
	assert.Equal(t, CreateBucket, creator.ID)

	creator, ok = c.BucketCreator(BucketLock)
	require.True(t, ok)
	assert.Equal(t, CreateBucketWithObjectLock, creator.ID)
}

func TestDefaultCatalog_OrderRespectsPrerequisites(t *testing.T) {
	c := DefaultCatalog()
	position := make(map[ID]int)
	for i, id := range c.Order() {
		position[id] = i
	}
	for _, id := range c.Order() {
		for _, p := range c.Prerequisites(id) {
			assert.Less(t, position[p], position[id], "%s runs before %s", p, id)
		}
	}
}

func TestCatalog_Lookup(t *testing.T) {
	c := DefaultCatalog()

	tc, err := c.Lookup("put_object")
	require.NoError(t, err)
	assert.Equal(t, GroupObject, tc.Group)

	_, err = c.Lookup("no_such_test")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Contains(t, err.Error(), "no_such_test")
}

func TestCatalog_Prerequisites(t *testing.T) {
	c := DefaultCatalog()

	assert.Empty(t, c.Prerequisites(CreateBucket))
	assert.Equal(t, []ID{PutObject, PutObjectTagging}, c.Prerequisites(DeleteObjectTagging))
	assert.Equal(t, []ID{PutObject, CopyObject}, c.Prerequisites(DeleteObjects))
	assert.Equal(t,
		[]ID{CreateBucketWithObjectLock, PutObjectRetention, PutObjectLegalHold},
		c.Prerequisites(GetObjectLegalHold))
}

func TestCatalog_Groups(t *testing.T) {
	groups := DefaultCatalog().Groups()
	require.Len(t, groups, 6)
	assert.Equal(t, GroupBucket, groups[0].Group)
	assert.Equal(t, GroupObjectLock, groups[5].Group)
	assert.Equal(t, "Object Lock Tests", groups[5].Group.Title())

	total := 0
	for _, g := range groups {
		total += len(g.Tests)
	}
	assert.Equal(t, 59, total)
	assert.Contains(t, groups[2].Tests, PutGet50MBMultipartImmediate)
}

func TestNewCatalog_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		cases []TestCase
		order []ID
		want  string
	}{
		{
			name:  "duplicate id",
			cases: []TestCase{{ID: "a", Procedure: noop}, {ID: "a", Procedure: noop}},
			order: []ID{"a"},
			want:  `duplicate test "a"`,
		},
		{
			name:  "unknown prerequisite",
			cases: []TestCase{{ID: "a", Procedure: noop, Prerequisites: []ID{"b"}}},
			order: []ID{"a"},
			want:  `test "a" requires unknown test "b"`,
		},
		{
			name: "cycle",
			cases: []TestCase{
				{ID: "a", Procedure: noop, Prerequisites: []ID{"b"}},
				{ID: "b", Procedure: noop, Prerequisites: []ID{"a"}},
			},
			order: []ID{"a", "b"},
			want:  "prerequisite cycle",
		},
		{
			name:  "missing from order",
			cases: []TestCase{{ID: "a", Procedure: noop}, {ID: "b", Procedure: noop}},
			order: []ID{"a"},
			want:  `test "b" is missing from the run order`,
		},
		{
			name:  "listed twice",
			cases: []TestCase{{ID: "a", Procedure: noop}},
			order: []ID{"a", "a"},
			want:  `test "a" is listed 2 times in the run order`,
		},
		{
			name:  "unknown in order",
			cases: []TestCase{{ID: "a", Procedure: noop}},
			order: []ID{"a", "z"},
			want:  `run order lists unknown test "z"`,
		},
		{
			name: "prerequisite after dependent",
			cases: []TestCase{
				{ID: "put", Procedure: noop},
				{ID: "get", Procedure: noop, Prerequisites: []ID{"put"}},
			},
			order: []ID{"get", "put"},
			want:  `run order lists "get" before its prerequisite "put"`,
		},
		{
			name:  "no procedure",
			cases: []TestCase{{ID: "a"}},
			order: []ID{"a"},
			want:  `test "a" has no procedure`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewCatalog(tt.cases, tt.order)
			require.Error(t, err)
			assert.Nil(t, c)
			assert.True(t, errors.Is(err, ErrInvalidCatalog))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
