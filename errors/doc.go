// Package errors provides structured error types for the volt-shim library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error
// category). The Error type includes rich context: the versioned interface
// name, the module file path, the forwarded operation, and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseLookup, errors.KindTypeMismatch).
//		Interface("VoltPhysics031").
//		Module("bin/volt_avx2.wasm").
//		Detail("delegate is int, want physics.Physics").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.LoadFailed("VoltPhysics031", path, cause)
//	err := errors.Closed("VoltCollision007")
//
// All errors implement the standard error interface and support errors.Is/As.
// Is matches on Phase and Kind, so callers can classify failures without
// string comparison:
//
//	import (
//		stderrors "errors"
//
//		"github.com/voltworks/volt-shim/errors"
//	)
//
//	if stderrors.Is(err, &errors.Error{Phase: errors.PhaseForward, Kind: errors.KindClosed}) {
//		// facade was used after Close
//	}
package errors
