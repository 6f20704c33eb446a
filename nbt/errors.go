package nbt

import "errors"

// Sentinel errors surfaced by the codec and document operations. Tag
// accessors never return these; contract violations on accessors go
// through Diagnostic instead.
var (
	// ErrTruncated is returned when a parse reads past the end of the
	// input.
	ErrTruncated = errors.New("nbt: truncated")
	// ErrMalformed is returned for invalid length fields, bad UTF-8, or
	// negative counts.
	ErrMalformed = errors.New("nbt: malformed")
	// ErrUnknownKind is returned when a tag-kind byte falls outside 0-10.
	ErrUnknownKind = errors.New("nbt: unknown tag kind")
)
