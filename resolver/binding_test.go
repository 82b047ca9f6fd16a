package resolver

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync"
	"testing"

	"github.com/voltworks/volt-shim/errors"
	"github.com/voltworks/volt-shim/physics"
	"github.com/voltworks/volt-shim/testmod"
)

func newSurfaceBinding(ld *testmod.Loader) *Binding[physics.SurfaceProps] {
	return NewBinding[physics.SurfaceProps](Config{
		Loader: ld,
		Path:   "bin/volt_sse2.testmod",
		Name:   physics.SurfacePropsVersion,
	})
}

func TestBinding_ResolvesOnce(t *testing.T) {
	stub := &testmod.StubSurfaceProps{Count: 7}
	ld := testmod.NewLoader()
	ld.Delegates[physics.SurfacePropsVersion] = stub

	b := newSurfaceBinding(ld)
	ctx := context.Background()

	if got := b.State(); got != Unresolved {
		t.Fatalf("state before first use = %v, want %v", got, Unresolved)
	}
	if n := ld.LoadCount(); n != 0 {
		t.Fatalf("loads before first use = %d, want 0", n)
	}

	first, err := b.Delegate(ctx)
	if err != nil {
		t.Fatalf("Delegate() error = %v", err)
	}
	second, err := b.Delegate(ctx)
	if err != nil {
		t.Fatalf("Delegate() second error = %v", err)
	}
	if first != second {
		t.Fatal("Delegate() returned different delegates across calls")
	}
	if n := ld.LoadCount(); n != 1 {
		t.Fatalf("loads = %d, want 1", n)
	}
	if got := b.State(); got != Active {
		t.Fatalf("state = %v, want %v", got, Active)
	}

	count, err := first.SurfacePropCount(ctx)
	if err != nil || count != 7 {
		t.Fatalf("SurfacePropCount() = %d, %v, want 7, nil", count, err)
	}
}

func TestBinding_LoadFailureIsTerminal(t *testing.T) {
	ld := testmod.NewLoader()
	ld.FailLoad = fmt.Errorf("no such file")

	b := newSurfaceBinding(ld)
	ctx := context.Background()

	_, err := b.Delegate(ctx)
	if err == nil {
		t.Fatal("Delegate() error = nil, want load failure")
	}
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseLoad, Kind: errors.KindLoadFailed}) {
		t.Fatalf("Delegate() error = %v, want load/load_failed", err)
	}
	if got := b.State(); got != Failed {
		t.Fatalf("state = %v, want %v", got, Failed)
	}

	// The failure is memoized: no retry even once loading would work.
	ld.FailLoad = nil
	_, again := b.Delegate(ctx)
	if again != err {
		t.Fatalf("second Delegate() error = %v, want memoized %v", again, err)
	}
	if n := ld.LoadCount(); n != 0 {
		t.Fatalf("loads = %d, want 0 (no retry)", n)
	}
}

func TestBinding_LookupFailureUnloadsModule(t *testing.T) {
	ld := testmod.NewLoader() // nothing registered, lookup must fail

	b := newSurfaceBinding(ld)
	ctx := context.Background()

	_, err := b.Delegate(ctx)
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseLookup, Kind: errors.KindNotFound}) {
		t.Fatalf("Delegate() error = %v, want lookup/not_found", err)
	}

	mods := ld.Modules()
	if len(mods) != 1 {
		t.Fatalf("modules handed out = %d, want 1", len(mods))
	}
	if !mods[0].Closed() {
		t.Fatal("module still open after lookup failure, want unloaded")
	}

	_, again := b.Delegate(ctx)
	if again != err {
		t.Fatalf("second Delegate() error = %v, want memoized %v", again, err)
	}
	if n := ld.LoadCount(); n != 1 {
		t.Fatalf("loads = %d, want 1 (no retry)", n)
	}
}

func TestBinding_TypeMismatchUnloadsModule(t *testing.T) {
	ld := testmod.NewLoader()
	ld.Delegates[physics.SurfacePropsVersion] = "not a surface table"

	b := newSurfaceBinding(ld)

	_, err := b.Delegate(context.Background())
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseLookup, Kind: errors.KindTypeMismatch}) {
		t.Fatalf("Delegate() error = %v, want lookup/type_mismatch", err)
	}

	mods := ld.Modules()
	if len(mods) != 1 {
		t.Fatalf("modules handed out = %d, want 1", len(mods))
	}
	if !mods[0].Closed() {
		t.Fatal("module still open after type mismatch, want unloaded")
	}
	if got := b.State(); got != Failed {
		t.Fatalf("state = %v, want %v", got, Failed)
	}
}

func TestBinding_CloseReleasesModuleOnce(t *testing.T) {
	ld := testmod.NewLoader()
	ld.Delegates[physics.SurfacePropsVersion] = &testmod.StubSurfaceProps{}

	b := newSurfaceBinding(ld)
	ctx := context.Background()

	if _, err := b.Delegate(ctx); err != nil {
		t.Fatalf("Delegate() error = %v", err)
	}
	if err := b.Close(ctx); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if got := b.State(); got != Closed {
		t.Fatalf("state = %v, want %v", got, Closed)
	}

	mod := ld.Modules()[0]
	if !mod.Closed() {
		t.Fatal("module still open after Close")
	}

	if err := b.Close(ctx); err != nil {
		t.Fatalf("second Close() error = %v", err)
	}
	if n := mod.CloseCount(); n != 1 {
		t.Fatalf("module closes = %d, want 1", n)
	}

	_, err := b.Delegate(ctx)
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseForward, Kind: errors.KindClosed}) {
		t.Fatalf("Delegate() after Close error = %v, want forward/closed", err)
	}
}

func TestBinding_CloseBeforeUse(t *testing.T) {
	ld := testmod.NewLoader()
	ld.Delegates[physics.SurfacePropsVersion] = &testmod.StubSurfaceProps{}

	b := newSurfaceBinding(ld)
	ctx := context.Background()

	if err := b.Close(ctx); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if _, err := b.Delegate(ctx); !stderrors.Is(err, &errors.Error{Phase: errors.PhaseForward, Kind: errors.KindClosed}) {
		t.Fatalf("Delegate() error = %v, want forward/closed", err)
	}
	if n := ld.LoadCount(); n != 0 {
		t.Fatalf("loads = %d, want 0 (closed before use)", n)
	}
}

func TestBinding_CloseAfterFailureKeepsError(t *testing.T) {
	ld := testmod.NewLoader() // lookup will fail

	b := newSurfaceBinding(ld)
	ctx := context.Background()

	_, err := b.Delegate(ctx)
	if err == nil {
		t.Fatal("Delegate() error = nil, want lookup failure")
	}
	if cerr := b.Close(ctx); cerr != nil {
		t.Fatalf("Close() after failure = %v, want nil", cerr)
	}
	if got := b.State(); got != Failed {
		t.Fatalf("state after Close = %v, want %v", got, Failed)
	}
	if _, again := b.Delegate(ctx); again != err {
		t.Fatalf("Delegate() = %v, want memoized %v", again, err)
	}
}

func TestBinding_ConcurrentFirstUse(t *testing.T) {
	ld := testmod.NewLoader()
	ld.Delegates[physics.SurfacePropsVersion] = &testmod.StubSurfaceProps{}

	b := newSurfaceBinding(ld)

	const workers = 16
	errs := make([]error, workers)

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func(i int) {
			defer wg.Done()
			_, errs[i] = b.Delegate(context.Background())
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("worker %d: Delegate() error = %v", i, err)
		}
	}
	if n := ld.LoadCount(); n != 1 {
		t.Fatalf("loads = %d, want 1", n)
	}
}
