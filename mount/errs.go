package mount

import "errors"

var (
	// ErrNotApplicable signals that this mount point has no configuration
	// for the data at hand, or that the data does not decode against the
	// mounted schema. The host may try other candidate extensions; it is
	// not a failure.
	ErrNotApplicable = errors.New("schema mount not applicable")

	// ErrValidation reports malformed or contradictory mount data:
	// missing configuration pieces, content-id drift, wrong schema shape.
	ErrValidation = errors.New("schema mount validation failed")

	// ErrInternal reports caller contract violations, e.g. unvalidated
	// extension data or mutually exclusive configuration.
	ErrInternal = errors.New("schema mount internal error")
)
