package talent

import "errors"

// ErrInvalidArgument marks caller-side data bugs: a non-positive result limit,
// or a negative/NaN numeric field that cannot be meaningfully scored. Missing
// optional data is never an invalid argument.
var ErrInvalidArgument = errors.New("invalid argument")
