package ccworld

import "errors"

// Sentinel errors. Conditions not listed here (querying an unregistered
// peer class, polling enter with no events, destroying an already-destroyed
// collider) return falsy/empty values instead of an error.
var (
	ErrDuplicateClass   = errors.New("ccworld: collision class already registered")
	ErrUnknownClass     = errors.New("ccworld: unknown collision class")
	ErrDuplicateShape   = errors.New("ccworld: shape name already exists on collider")
	ErrCategoryOverflow = errors.New("ccworld: ignore graph needs more than 16 categories")
	ErrFrozenConfig     = errors.New("ccworld: explicit-events mode must be set before the first collision class")
	ErrInvalidClassTable = errors.New("ccworld: invalid class table")
	ErrScriptCompile    = errors.New("ccworld: script failed to compile")
	ErrScriptRuntime    = errors.New("ccworld: script failed at runtime")
)
