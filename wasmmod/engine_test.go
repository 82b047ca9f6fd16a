package wasmmod

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/voltworks/volt-shim/errors"
	"github.com/voltworks/volt-shim/physics"
)

// Handcrafted minimal modules. Every length below fits a single LEB128
// byte, so sections can be assembled by simple concatenation.

func sect(id byte, content ...byte) []byte {
	return append([]byte{id, byte(len(content))}, content...)
}

func buildModule(sections ...[]byte) []byte {
	b := []byte{0x00, 0x61, 0x73, 0x6D, 0x01, 0x00, 0x00, 0x00}
	for _, s := range sections {
		b = append(b, s...)
	}
	return b
}

// factoryModule has one memory page and exports a VoltPhysics031
// factory that returns the given token.
func factoryModule(token byte) []byte {
	name := physics.PhysicsVersion

	exports := append([]byte{0x01, byte(len(name))}, name...)
	exports = append(exports, 0x00, 0x00) // func kind, index 0

	return buildModule(
		sect(1, 0x01, 0x60, 0x00, 0x01, 0x7F), // () -> i32
		sect(3, 0x01, 0x00),
		sect(5, 0x01, 0x00, 0x01), // memory, min 1 page
		sect(7, exports...),
		sect(10, 0x01, 0x04, 0x00, 0x41, token, 0x0B), // i32.const token
	)
}

func writeModule(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "volt_sse2"+Ext)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write module: %v", err)
	}
	return path
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	ctx := context.Background()
	e, err := NewEngine(ctx)
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	t.Cleanup(func() { e.Close(ctx) })
	return e
}

func TestEngine_Ext(t *testing.T) {
	if got := newTestEngine(t).Ext(); got != ".wasm" {
		t.Fatalf("Ext() = %q, want .wasm", got)
	}
}

func TestEngine_LoadMissingFile(t *testing.T) {
	e := newTestEngine(t)
	_, err := e.Load(context.Background(), filepath.Join(t.TempDir(), "volt_avx2.wasm"))
	if err == nil {
		t.Fatal("Load() of a missing file succeeded")
	}
	if !strings.Contains(err.Error(), "read module") {
		t.Fatalf("error = %v, want read failure", err)
	}
}

func TestEngine_LoadInvalidModule(t *testing.T) {
	ctx := context.Background()
	e, err := NewEngineWithConfig(ctx, &Config{MemoryLimitPages: 256})
	if err != nil {
		t.Fatalf("NewEngineWithConfig() error = %v", err)
	}
	defer e.Close(ctx)

	path := writeModule(t, []byte("not a wasm module"))
	if _, err := e.Load(ctx, path); err == nil || !strings.Contains(err.Error(), "compile failed") {
		t.Fatalf("error = %v, want compile failure", err)
	}
}

func TestEngine_LoadModuleWithoutMemory(t *testing.T) {
	e := newTestEngine(t)
	path := writeModule(t, buildModule())

	if _, err := e.Load(context.Background(), path); err == nil || !strings.Contains(err.Error(), "memory") {
		t.Fatalf("error = %v, want missing-memory failure", err)
	}
}

func TestEngine_FactoryExport(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t)
	path := writeModule(t, factoryModule(1))

	mod, err := e.Load(ctx, path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	raw, err := mod.CreateInterface(ctx, physics.PhysicsVersion)
	if err != nil {
		t.Fatalf("CreateInterface() error = %v", err)
	}
	phys, ok := raw.(physics.Physics)
	if !ok {
		t.Fatalf("CreateInterface() = %T, want physics.Physics", raw)
	}

	// The factory exists but no method exports do.
	if err := phys.Shutdown(ctx); !stderrors.Is(err, &errors.Error{Phase: errors.PhaseForward, Kind: errors.KindNotFound}) {
		t.Fatalf("Shutdown() error = %v, want forward/not_found", err)
	}

	// Other interface factories are absent.
	if _, err := mod.CreateInterface(ctx, physics.CollisionVersion); !stderrors.Is(err, &errors.Error{Phase: errors.PhaseLookup, Kind: errors.KindNotFound}) {
		t.Fatalf("CreateInterface(collision) error = %v, want lookup/not_found", err)
	}

	if err := mod.Close(ctx); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if _, err := mod.CreateInterface(ctx, physics.PhysicsVersion); !stderrors.Is(err, &errors.Error{Phase: errors.PhaseForward, Kind: errors.KindClosed}) {
		t.Fatalf("CreateInterface() after close = %v, want forward/closed", err)
	}
	if err := phys.Shutdown(ctx); !stderrors.Is(err, &errors.Error{Phase: errors.PhaseForward, Kind: errors.KindClosed}) {
		t.Fatalf("Shutdown() after close = %v, want forward/closed", err)
	}
}

func TestEngine_FactoryRefusesName(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t)
	path := writeModule(t, factoryModule(0))

	mod, err := e.Load(ctx, path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	defer mod.Close(ctx)

	if _, err := mod.CreateInterface(ctx, physics.PhysicsVersion); !stderrors.Is(err, &errors.Error{Phase: errors.PhaseLookup, Kind: errors.KindNotFound}) {
		t.Fatalf("CreateInterface() error = %v, want lookup/not_found", err)
	}
}

func TestEngine_LoadSameFileTwice(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(t)
	path := writeModule(t, factoryModule(1))

	first, err := e.Load(ctx, path)
	if err != nil {
		t.Fatalf("first Load() error = %v", err)
	}
	second, err := e.Load(ctx, path)
	if err != nil {
		t.Fatalf("second Load() error = %v", err)
	}
	if first == second {
		t.Fatal("expected distinct instances")
	}

	// Closing one instance leaves the other usable.
	if err := first.Close(ctx); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if _, err := second.CreateInterface(ctx, physics.PhysicsVersion); err != nil {
		t.Fatalf("CreateInterface() on surviving instance error = %v", err)
	}
	second.Close(ctx)
}
