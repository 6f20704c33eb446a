package nbt

// Diagnostic receives the non-fatal programmer-contract violations tag
// accessors hit: a typed accessor called on a tag of the wrong kind, a
// List.Insert with a mismatched child kind, and so on. It defaults to a
// no-op; callers that want to observe these (tests, mostly) can replace
// it. Library code never panics or exits on these paths, mirroring the
// non-fatal branch of the original's rs_error_log.
var Diagnostic func(format string, args ...any) = func(string, ...any) {}

func diagf(format string, args ...any) {
	Diagnostic(format, args...)
}

func wrongKind(op string, want, got Kind) {
	diagf("nbt: %s called on %s tag, want %s", op, got, want)
}
