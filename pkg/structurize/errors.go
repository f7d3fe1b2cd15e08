package structurize

import "errors"

// Failures surfaced by the structuring pass. All of them abort the pass
// for the routine being processed; the embedding translator is expected to
// fall back to an unstructured rendition rather than crash.
var (
	// ErrUnknownLabel reports a jump or label insertion referencing an
	// address that was never declared
	ErrUnknownLabel = errors.New("structurize: unknown label")

	// ErrUnstructurable reports a routine whose gotos never converge to
	// their labels within the pass budget
	ErrUnstructurable = errors.New("structurize: unstructurable program")

	// ErrInvariant reports a broken tree or linking invariant, recovered
	// from the zipper's contract checks
	ErrInvariant = errors.New("structurize: invariant violated")
)
