//go:build linux || darwin

package goplugin

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/voltworks/volt-shim/errors"
)

func TestLoader_Ext(t *testing.T) {
	if got := NewLoader().Ext(); got != ".so" {
		t.Fatalf("Ext() = %q, want .so", got)
	}
}

func TestLoader_LoadMissingFile(t *testing.T) {
	ld := NewLoader()
	if _, err := ld.Load(context.Background(), filepath.Join(t.TempDir(), "volt_sse2.so")); err == nil {
		t.Fatal("Load() of a missing file succeeded")
	}
}

func TestLoader_LoadInvalidPlugin(t *testing.T) {
	path := filepath.Join(t.TempDir(), "volt_avx2.so")
	if err := os.WriteFile(path, []byte("not a shared object"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	if _, err := NewLoader().Load(context.Background(), path); err == nil || !strings.Contains(err.Error(), "open plugin") {
		t.Fatalf("error = %v, want open failure", err)
	}
}

// The factory path is tested against an in-process module; building a
// real plugin needs the exact host toolchain and is covered by the
// integration targets instead.

func newFactoryModule(factory func(string) (any, error)) *Module {
	return &Module{path: "bin/volt_avx2.so", factory: factory, log: zap.NewNop()}
}

func TestModule_CreateInterface(t *testing.T) {
	type probe struct{ name string }
	m := newFactoryModule(func(name string) (any, error) {
		if name == "TestProbe001" {
			return &probe{name: name}, nil
		}
		return nil, nil
	})

	got, err := m.CreateInterface(context.Background(), "TestProbe001")
	if err != nil {
		t.Fatalf("CreateInterface() error = %v", err)
	}
	if p, ok := got.(*probe); !ok || p.name != "TestProbe001" {
		t.Fatalf("CreateInterface() = %#v", got)
	}

	if _, err := m.CreateInterface(context.Background(), "Unknown001"); !stderrors.Is(err, &errors.Error{Phase: errors.PhaseLookup, Kind: errors.KindNotFound}) {
		t.Fatalf("unknown name error = %v, want lookup/not_found", err)
	}
}

func TestModule_FactoryError(t *testing.T) {
	m := newFactoryModule(func(name string) (any, error) {
		return nil, fmt.Errorf("table not ready")
	})

	_, err := m.CreateInterface(context.Background(), "TestProbe001")
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseLookup, Kind: errors.KindNotFound}) {
		t.Fatalf("error = %v, want lookup/not_found", err)
	}
	if !strings.Contains(err.Error(), "table not ready") {
		t.Fatalf("error %v does not carry the factory cause", err)
	}
}

func TestModule_Close(t *testing.T) {
	m := newFactoryModule(func(name string) (any, error) { return struct{}{}, nil })
	ctx := context.Background()

	if err := m.Close(ctx); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := m.Close(ctx); err != nil {
		t.Fatalf("second Close() error = %v", err)
	}

	if _, err := m.CreateInterface(ctx, "TestProbe001"); !stderrors.Is(err, &errors.Error{Phase: errors.PhaseForward, Kind: errors.KindClosed}) {
		t.Fatalf("CreateInterface() after close = %v, want forward/closed", err)
	}
}
