package ticket

import "errors"

// ErrNotFound is returned when no ticket exists for the requested ID.
// It is an expected, named condition — the API layer translates it into a
// 404 rather than a generic failure.
var ErrNotFound = errors.New("ticket not found")
