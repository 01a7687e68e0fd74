// Package derepctx wires the ambient stack (package errors, package
// log) to this repo's domain: it maps SPEC_FULL.md §7's named error
// kinds onto github.com/biocore/pipeclust/errors.Kind values, and
// installs a log.Outputter that prefixes every non-informational message
// with the process's [rank/size], matching the reference implementation's
// error_handler.
package derepctx

import "github.com/biocore/pipeclust/errors"

// The error kinds of SPEC_FULL.md §7, expressed as the generalized
// Kind values of package errors. These are aliases, not new types: call
// sites read e.g. derepctx.InputOpen for readability, but errors.Is and
// errors.E work exactly as they do with the underlying errors.Kind.
const (
	InputOpen          = errors.NotExist
	InputParse         = errors.Integrity
	LineTooLong        = errors.Invalid
	OutputOpen         = errors.NotExist
	BadCliOptions      = errors.Invalid
	TransportFailure   = errors.Net
	WireCorruption     = errors.Integrity
	UnsupportedCommand = errors.NotSupported
)
