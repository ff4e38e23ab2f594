package suite

import "errors"

var (
	// ErrNotFound is returned for a test name that isn't in the catalog.
	ErrNotFound = errors.New("test not found")
	// ErrSetup is returned when the local fixtures could not be created.
	ErrSetup = errors.New("fixture setup failed")
	// ErrInvalidCatalog is returned by NewCatalog for an inconsistent catalog.
	ErrInvalidCatalog = errors.New("invalid catalog")
)
