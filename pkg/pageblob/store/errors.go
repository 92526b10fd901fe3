package store

import "errors"

// errNotPageAligned guards the invariant that every write issued
// through this package is a whole number of pages.
var errNotPageAligned = errors.New("write length is not a multiple of the page size")
