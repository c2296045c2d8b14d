// Package apperr defines sentinel errors shared across packages.
package apperr

import "errors"

// ErrInconsistent marks a finalized graph whose relationships reference
// entities missing from the node set. It signals an internal defect
// rather than bad input and fails the whole run.
var ErrInconsistent = errors.New("inconsistent graph")
