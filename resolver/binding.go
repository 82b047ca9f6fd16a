package resolver

import (
	"context"
	stderrors "errors"
	"fmt"
	"reflect"
	"sync"

	"go.uber.org/zap"

	voltshim "github.com/voltworks/volt-shim"
	"github.com/voltworks/volt-shim/errors"
)

// State is the lifecycle state of a Binding.
type State int

const (
	// Unresolved means the module has not been loaded yet.
	Unresolved State = iota
	// Active means the delegate was resolved and forwards calls.
	Active
	// Failed means resolution failed. The state is terminal; the
	// binding keeps returning the recorded error and never retries.
	Failed
	// Closed means the binding was released. Terminal.
	Closed
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case Unresolved:
		return "unresolved"
	case Active:
		return "active"
	case Failed:
		return "failed"
	case Closed:
		return "closed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Config configures a Binding.
type Config struct {
	// Loader opens module files.
	Loader voltshim.Loader

	// Path is the module file to load, typically from ModulePath.
	Path string

	// Name is the versioned interface name passed to the module's
	// factory.
	Name string

	// Logger receives resolution events. Defaults to a no-op logger.
	Logger *zap.Logger
}

// Binding lazily resolves one versioned interface out of one module
// file and memoizes the outcome.
//
// The first Delegate call loads the module and asks its factory for
// Name; every later call returns the memoized delegate or the memoized
// failure. If the factory lookup or the type assertion fails, the
// freshly loaded module is closed again before the failure is
// recorded. All methods are safe for concurrent use.
type Binding[T any] struct {
	loader voltshim.Loader
	path   string
	name   string
	log    *zap.Logger

	mu       sync.Mutex
	state    State
	module   voltshim.Module
	delegate T
	err      error
}

// NewBinding creates an unresolved binding. Nothing is loaded until
// the first Delegate call.
func NewBinding[T any](cfg Config) *Binding[T] {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Binding[T]{
		loader: cfg.Loader,
		path:   cfg.Path,
		name:   cfg.Name,
		log:    log,
	}
}

// Name returns the versioned interface name this binding resolves.
func (b *Binding[T]) Name() string { return b.name }

// Path returns the module file this binding loads from.
func (b *Binding[T]) Path() string { return b.path }

// State returns the current lifecycle state.
func (b *Binding[T]) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Delegate returns the resolved delegate, resolving it on first use.
func (b *Binding[T]) Delegate(ctx context.Context) (T, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case Active:
		return b.delegate, nil
	case Failed:
		var zero T
		return zero, b.err
	case Closed:
		var zero T
		return zero, errors.Closed(b.name)
	}
	return b.resolveLocked(ctx)
}

// resolveLocked performs the one-shot load, lookup and type assertion.
// Caller holds b.mu and b.state is Unresolved.
func (b *Binding[T]) resolveLocked(ctx context.Context) (T, error) {
	var zero T

	mod, err := b.loader.Load(ctx, b.path)
	if err != nil {
		return zero, b.failLocked(errors.LoadFailed(b.name, b.path, err))
	}

	raw, err := mod.CreateInterface(ctx, b.name)
	if err != nil {
		b.unloadAfterFailure(ctx, mod)
		var serr *errors.Error
		if !stderrors.As(err, &serr) {
			err = errors.FactoryFailed(b.name, b.path, err)
		}
		return zero, b.failLocked(err)
	}

	delegate, ok := raw.(T)
	if !ok {
		b.unloadAfterFailure(ctx, mod)
		want := reflect.TypeOf((*T)(nil)).Elem().String()
		return zero, b.failLocked(errors.TypeMismatch(b.name, b.path,
			fmt.Sprintf("%T", raw), want))
	}

	b.state = Active
	b.module = mod
	b.delegate = delegate
	b.log.Debug("interface resolved",
		zap.String("interface", b.name),
		zap.String("module", b.path))
	return delegate, nil
}

// failLocked records the terminal failure and returns it.
func (b *Binding[T]) failLocked(err error) error {
	b.state = Failed
	b.err = err
	b.log.Error("interface resolution failed",
		zap.String("interface", b.name),
		zap.String("module", b.path),
		zap.Error(err))
	return err
}

// unloadAfterFailure releases a module whose factory could not produce
// the delegate. The original failure is what the caller reports; a
// close error here is only logged.
func (b *Binding[T]) unloadAfterFailure(ctx context.Context, mod voltshim.Module) {
	if cerr := mod.Close(ctx); cerr != nil {
		b.log.Warn("module close after resolution failure",
			zap.String("interface", b.name),
			zap.String("module", b.path),
			zap.Error(cerr))
	}
}

// Close releases the binding. An Active binding closes its module; an
// Unresolved one just transitions so later Delegate calls fail fast. A
// Failed binding stays Failed and keeps reporting its resolution
// error. Close is idempotent.
func (b *Binding[T]) Close(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case Closed, Failed:
		return nil
	case Unresolved:
		b.state = Closed
		return nil
	}

	mod := b.module
	b.module = nil
	var zero T
	b.delegate = zero
	b.state = Closed

	b.log.Debug("interface released",
		zap.String("interface", b.name),
		zap.String("module", b.path))
	if mod == nil {
		return nil
	}
	return mod.Close(ctx)
}
