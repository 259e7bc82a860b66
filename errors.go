package worldbox

import "errors"

// ErrNotFound is returned by registry operations that reference an instance
// id absent from the registry. Never fatal: the operation is a no-op and the
// caller decides whether to surface it.
var ErrNotFound = errors.New("worldbox: entry not found")

// ErrResourceUnavailable is returned when a resource key cannot be resolved
// to a constructible renderable. The core's contract is that keys are
// resolved before Acquire is called; Prewarm treats this as a soft failure.
var ErrResourceUnavailable = errors.New("worldbox: resource unavailable")
