package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseDetect   Phase = "detect"   // capability detection
	PhaseLoad     Phase = "load"     // module loading
	PhaseLookup   Phase = "lookup"   // factory export lookup
	PhaseForward  Phase = "forward"  // forwarded engine calls
	PhaseRegister Phase = "register" // interface registration
	PhaseShutdown Phase = "shutdown" // module unloading
)

// Kind categorizes the error
type Kind string

const (
	KindLoadFailed     Kind = "load_failed"
	KindNotFound       Kind = "not_found"
	KindTypeMismatch   Kind = "type_mismatch"
	KindNotInitialized Kind = "not_initialized"
	KindClosed         Kind = "closed"
	KindTrap           Kind = "trap"
	KindInvalidInput   Kind = "invalid_input"
	KindUnsupported    Kind = "unsupported"
	KindDuplicate      Kind = "duplicate"
	KindAllocation     Kind = "allocation"
	KindOutOfBounds    Kind = "out_of_bounds"
)

// Error is the structured error type used throughout the shim
type Error struct {
	Value     any
	Cause     error
	Phase     Phase
	Kind      Kind
	Interface string // versioned interface name
	Module    string // module file path
	Op        string // forwarded operation
	Detail    string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Interface != "" {
		b.WriteString(" at ")
		b.WriteString(e.Interface)
		if e.Op != "" {
			b.WriteByte('.')
			b.WriteString(e.Op)
		}
	}

	if e.Module != "" {
		b.WriteString(": module ")
		b.WriteString(e.Module)
	}

	if e.Detail != "" {
		if e.Module != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Interface sets the versioned interface name
func (b *Builder) Interface(name string) *Builder {
	b.err.Interface = name
	return b
}

// Module sets the module file path
func (b *Builder) Module(path string) *Builder {
	b.err.Module = path
	return b
}

// Op sets the forwarded operation name
func (b *Builder) Op(name string) *Builder {
	b.err.Op = name
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// LoadFailed creates a module loading error
func LoadFailed(name, module string, cause error) *Error {
	return &Error{
		Phase:     PhaseLoad,
		Kind:      KindLoadFailed,
		Interface: name,
		Module:    module,
		Detail:    "load module",
		Cause:     cause,
	}
}

// ExportNotFound creates an error for a missing factory export
func ExportNotFound(name, module string) *Error {
	return &Error{
		Phase:     PhaseLookup,
		Kind:      KindNotFound,
		Interface: name,
		Module:    module,
		Detail:    "factory export not found",
	}
}

// FactoryFailed creates an error for a factory that produced no delegate
func FactoryFailed(name, module string, cause error) *Error {
	return &Error{
		Phase:     PhaseLookup,
		Kind:      KindNotFound,
		Interface: name,
		Module:    module,
		Detail:    "factory returned no interface",
		Cause:     cause,
	}
}

// TypeMismatch creates an error for a delegate of the wrong type
func TypeMismatch(name, module, got, want string) *Error {
	return &Error{
		Phase:     PhaseLookup,
		Kind:      KindTypeMismatch,
		Interface: name,
		Module:    module,
		Detail:    fmt.Sprintf("delegate is %s, want %s", got, want),
	}
}

// NotInitialized creates an error for use of an unresolved interface
func NotInitialized(name string) *Error {
	return &Error{
		Phase:     PhaseForward,
		Kind:      KindNotInitialized,
		Interface: name,
		Detail:    "interface not resolved",
	}
}

// Closed creates an error for use of an interface after unload
func Closed(name string) *Error {
	return &Error{
		Phase:     PhaseForward,
		Kind:      KindClosed,
		Interface: name,
		Detail:    "module unloaded",
	}
}

// Trap creates an error for a forwarded call that faulted in the engine
func Trap(name, op string, cause error) *Error {
	return &Error{
		Phase:     PhaseForward,
		Kind:      KindTrap,
		Interface: name,
		Op:        op,
		Cause:     cause,
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// Duplicate creates an error for registering a name twice
func Duplicate(name string) *Error {
	return &Error{
		Phase:     PhaseRegister,
		Kind:      KindDuplicate,
		Interface: name,
		Detail:    "interface already registered",
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// AllocationFailed creates an allocation failure error
func AllocationFailed(phase Phase, size uint32, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindAllocation,
		Detail: fmt.Sprintf("failed to allocate %d bytes", size),
		Cause:  cause,
	}
}

// OutOfBounds creates an out of bounds error for module memory access
func OutOfBounds(phase Phase, what string, offset, length uint32) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Detail: fmt.Sprintf("%s out of bounds: offset=%d, length=%d", what, offset, length),
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
