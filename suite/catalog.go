package suite

import (
	"context"
	"fmt"
	"sort"

	"github.com/hashicorp/go-multierror"

	"github.com/lumafield/s3-api-suite/gateway"
)

// ID names a test case, as given to --test.
type ID string

type Group string

const (
	GroupBucket     Group = "bucket"
	GroupObject     Group = "object"
	GroupLargeFile  Group = "large_file"
	GroupSSE        Group = "sse"
	GroupLifecycle  Group = "lifecycle"
	GroupObjectLock Group = "object_lock"
)

var groupOrder = []Group{GroupBucket, GroupObject, GroupLargeFile, GroupSSE, GroupLifecycle, GroupObjectLock}

var groupTitles = map[Group]string{
	GroupBucket:     "Bucket Tests",
	GroupObject:     "Object Tests",
	GroupLargeFile:  "Large File Tests",
	GroupSSE:        "SSE (Server-Side Encryption) Tests",
	GroupLifecycle:  "Lifecycle Rules Tests",
	GroupObjectLock: "Object Lock Tests",
}

func (g Group) Title() string {
	if t, ok := groupTitles[g]; ok {
		return t
	}
	return string(g)
}

// BucketRole tells which fixture bucket a test works in.
type BucketRole int

const (
	BucketMain BucketRole = iota
	BucketLock
)

// Procedure performs one test against the gateway.
type Procedure func(ctx context.Context, gw gateway.Gateway, fx *Fixtures) gateway.Result

type TestCase struct {
	ID            ID
	Group         Group
	Description   string
	Procedure     Procedure
	Prerequisites []ID
	Bucket        BucketRole
	// CreatesBucket is set for the tests that create their fixture bucket themselves.
	CreatesBucket bool
}

// Catalog is the immutable set of test cases plus the order --all runs them in.
type Catalog struct {
	cases map[ID]TestCase
	order []ID
}

// NewCatalog validates cases against order. Every problem found is reported.
func NewCatalog(cases []TestCase, order []ID) (*Catalog, error) {
	c := &Catalog{
		cases: make(map[ID]TestCase, len(cases)),
		order: append([]ID(nil), order...),
	}

	var result *multierror.Error
	for _, tc := range cases {
		if _, dup := c.cases[tc.ID]; dup {
			result = multierror.Append(result, fmt.Errorf("duplicate test %q", tc.ID))
			continue
		}
		if tc.Procedure == nil {
			result = multierror.Append(result, fmt.Errorf("test %q has no procedure", tc.ID))
		}
		c.cases[tc.ID] = tc
	}

	for _, tc := range cases {
		for _, p := range tc.Prerequisites {
			if _, ok := c.cases[p]; !ok {
				result = multierror.Append(result, fmt.Errorf("test %q requires unknown test %q", tc.ID, p))
			}
		}
	}

	for _, id := range sortedIDs(c.cases) {
		if cycle := c.findCycle(id); cycle != nil {
			result = multierror.Append(result, fmt.Errorf("prerequisite cycle: %v", cycle))
			break
		}
	}

	seen := make(map[ID]int, len(order))
	for _, id := range order {
		seen[id]++
		if _, ok := c.cases[id]; !ok {
			result = multierror.Append(result, fmt.Errorf("run order lists unknown test %q", id))
		}
	}
	for _, id := range sortedIDs(c.cases) {
		switch n := seen[id]; {
		case n == 0:
			result = multierror.Append(result, fmt.Errorf("test %q is missing from the run order", id))
		case n > 1:
			result = multierror.Append(result, fmt.Errorf("test %q is listed %d times in the run order", id, n))
		}
	}

	position := make(map[ID]int, len(order))
	for i, id := range order {
		if _, ok := position[id]; !ok {
			position[id] = i
		}
	}
	for _, id := range sortedIDs(c.cases) {
		at, listed := position[id]
		if !listed {
			continue
		}
		for _, p := range c.cases[id].Prerequisites {
			if pos, ok := position[p]; ok && pos >= at {
				result = multierror.Append(result, fmt.Errorf("run order lists %q before its prerequisite %q", id, p))
			}
		}
	}

	if err := result.ErrorOrNil(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	return c, nil
}

// Lookup returns the test case registered under name.
func (c *Catalog) Lookup(name string) (TestCase, error) {
	tc, ok := c.cases[ID(name)]
	if !ok {
		return TestCase{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return tc, nil
}

// Order returns the test IDs in run-all order.
func (c *Catalog) Order() []ID {
	return append([]ID(nil), c.order...)
}

func (c *Catalog) Len() int {
	return len(c.cases)
}

// Prerequisites returns the transitive prerequisites of id, each once, with
// every test placed after the tests it depends on.
func (c *Catalog) Prerequisites(id ID) []ID {
	var closure []ID
	visited := map[ID]bool{id: true}
	var visit func(ID)
	visit = func(cur ID) {
		for _, p := range c.cases[cur].Prerequisites {
			if visited[p] {
				continue
			}
			visited[p] = true
			visit(p)
			closure = append(closure, p)
		}
	}
	visit(id)
	return closure
}

// BucketCreator returns the test that creates the bucket of the given role.
func (c *Catalog) BucketCreator(role BucketRole) (TestCase, bool) {
	for _, id := range c.order {
		tc := c.cases[id]
		if tc.CreatesBucket && tc.Bucket == role {
			return tc, true
		}
	}
	return TestCase{}, false
}

type GroupListing struct {
	Group Group
	Tests []ID
}

// Groups lists the tests of every group, sorted by name.
func (c *Catalog) Groups() []GroupListing {
	byGroup := make(map[Group][]ID)
	for id, tc := range c.cases {
		byGroup[tc.Group] = append(byGroup[tc.Group], id)
	}

	var listings []GroupListing
	emit := func(g Group) {
		ids := byGroup[g]
		if len(ids) == 0 {
			return
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		listings = append(listings, GroupListing{Group: g, Tests: ids})
		delete(byGroup, g)
	}
	for _, g := range groupOrder {
		emit(g)
	}
	// groups outside the known set, by name
	rest := make([]string, 0, len(byGroup))
	for g := range byGroup {
		rest = append(rest, string(g))
	}
	sort.Strings(rest)
	for _, g := range rest {
		emit(Group(g))
	}
	return listings
}

func (c *Catalog) findCycle(start ID) []ID {
	const (
		unvisited = iota
		inProgress
		done
	)
	state := make(map[ID]int)
	var path []ID
	var walk func(ID) []ID
	walk = func(id ID) []ID {
		state[id] = inProgress
		path = append(path, id)
		for _, p := range c.cases[id].Prerequisites {
			if _, ok := c.cases[p]; !ok {
				continue
			}
			switch state[p] {
			case inProgress:
				return append(append([]ID(nil), path...), p)
			case unvisited:
				if cycle := walk(p); cycle != nil {
					return cycle
				}
			}
		}
		path = path[:len(path)-1]
		state[id] = done
		return nil
	}
	return walk(start)
}

func sortedIDs(cases map[ID]TestCase) []ID {
	ids := make([]ID, 0, len(cases))
	for id := range cases {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
