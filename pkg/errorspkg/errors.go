// Package errorspkg provides common app errors.
package errorspkg

import "errors"

// ErrInternal indicates internal server error. Store failures are logged and
// surfaced as this opaque error so implementation details never reach callers.
var ErrInternal = errors.New("internal")
