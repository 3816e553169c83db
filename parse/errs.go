package parse

import "errors"

// ErrMalformed reports input that could not be decoded or does not belong
// to the target schema. Callers probing several candidate schemas treat it
// as "not mine" rather than as a hard failure.
var ErrMalformed = errors.New("malformed data")
