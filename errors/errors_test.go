package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:     PhaseLookup,
				Kind:      KindTypeMismatch,
				Interface: "VoltPhysics031",
				Module:    "bin/volt_avx2.wasm",
				Detail:    "delegate is int, want physics.Physics",
			},
			contains: []string{"[lookup]", "type_mismatch", "VoltPhysics031", "bin/volt_avx2.wasm", "delegate is int"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseDetect,
				Kind:  KindInvalidInput,
			},
			contains: []string{"[detect]", "invalid_input"},
		},
		{
			name: "forward error with op",
			err: &Error{
				Phase:     PhaseForward,
				Kind:      KindTrap,
				Interface: "VoltCollision007",
				Op:        "TraceBox",
			},
			contains: []string{"[forward]", "trap", "VoltCollision007.TraceBox"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseLoad,
				Kind:   KindLoadFailed,
				Detail: "load module",
				Cause:  errors.New("no such file"),
			},
			contains: []string{"[load]", "load_failed", "load module", "caused by", "no such file"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{
		Phase: PhaseLoad,
		Kind:  KindLoadFailed,
		Cause: cause,
	}

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return cause")
	}

	if !errors.Is(errors.Unwrap(err), cause) {
		t.Error("errors.Unwrap did not return cause")
	}
}

func TestError_Is(t *testing.T) {
	err := &Error{
		Phase:     PhaseForward,
		Kind:      KindClosed,
		Interface: "VoltSurfaceProps001",
	}

	if !err.Is(&Error{Phase: PhaseForward, Kind: KindClosed}) {
		t.Error("Is should match same phase and kind")
	}

	if err.Is(&Error{Phase: PhaseShutdown, Kind: KindClosed}) {
		t.Error("Is should not match different phase")
	}

	if err.Is(&Error{Phase: PhaseForward, Kind: KindTrap}) {
		t.Error("Is should not match different kind")
	}

	target := &Error{Phase: PhaseForward, Kind: KindClosed}
	if !errors.Is(err, target) {
		t.Error("errors.Is should match")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("root")
	err := New(PhaseLookup, KindNotFound).
		Interface("VoltPhysics031").
		Module("bin/volt_sse2.wasm").
		Op("Connect").
		Value(uint32(0)).
		Cause(cause).
		Detail("token %d is not valid", 0).
		Build()

	if err.Phase != PhaseLookup {
		t.Errorf("Phase = %v, want %v", err.Phase, PhaseLookup)
	}
	if err.Kind != KindNotFound {
		t.Errorf("Kind = %v, want %v", err.Kind, KindNotFound)
	}
	if err.Interface != "VoltPhysics031" {
		t.Errorf("Interface = %v, want VoltPhysics031", err.Interface)
	}
	if err.Module != "bin/volt_sse2.wasm" {
		t.Errorf("Module = %v, want bin/volt_sse2.wasm", err.Module)
	}
	if err.Op != "Connect" {
		t.Errorf("Op = %v, want Connect", err.Op)
	}
	if err.Value != uint32(0) {
		t.Errorf("Value = %v, want 0", err.Value)
	}
	if !errors.Is(err.Cause, cause) {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if err.Detail != "token 0 is not valid" {
		t.Errorf("Detail = %v, want 'token 0 is not valid'", err.Detail)
	}
}

func TestConvenienceConstructors(t *testing.T) {
	t.Run("LoadFailed", func(t *testing.T) {
		cause := errors.New("open: no such file")
		err := LoadFailed("VoltPhysics031", "bin/volt_avx2.wasm", cause)
		if err.Phase != PhaseLoad || err.Kind != KindLoadFailed {
			t.Errorf("got %v/%v, want load/load_failed", err.Phase, err.Kind)
		}
		if !errors.Is(err, cause) {
			t.Error("cause not unwrappable")
		}
	})

	t.Run("ExportNotFound", func(t *testing.T) {
		err := ExportNotFound("VoltCollision007", "bin/volt_sse2.wasm")
		if err.Phase != PhaseLookup || err.Kind != KindNotFound {
			t.Errorf("got %v/%v, want lookup/not_found", err.Phase, err.Kind)
		}
		if err.Module != "bin/volt_sse2.wasm" {
			t.Errorf("Module = %v", err.Module)
		}
	})

	t.Run("FactoryFailed", func(t *testing.T) {
		cause := errors.New("boom")
		err := FactoryFailed("VoltPhysics031", "m", cause)
		if err.Kind != KindNotFound {
			t.Errorf("Kind = %v, want %v", err.Kind, KindNotFound)
		}
		if !errors.Is(err, cause) {
			t.Error("cause not unwrappable")
		}
	})

	t.Run("TypeMismatch", func(t *testing.T) {
		err := TypeMismatch("VoltSurfaceProps001", "m", "int", "physics.SurfaceProps")
		if err.Kind != KindTypeMismatch {
			t.Errorf("Kind = %v, want %v", err.Kind, KindTypeMismatch)
		}
		if !strings.Contains(err.Detail, "int") || !strings.Contains(err.Detail, "physics.SurfaceProps") {
			t.Errorf("Detail = %v, should name both types", err.Detail)
		}
	})

	t.Run("NotInitialized", func(t *testing.T) {
		err := NotInitialized("VoltPhysics031")
		if err.Phase != PhaseForward || err.Kind != KindNotInitialized {
			t.Errorf("got %v/%v, want forward/not_initialized", err.Phase, err.Kind)
		}
	})

	t.Run("Closed", func(t *testing.T) {
		err := Closed("VoltCollision007")
		if err.Phase != PhaseForward || err.Kind != KindClosed {
			t.Errorf("got %v/%v, want forward/closed", err.Phase, err.Kind)
		}
		if err.Interface != "VoltCollision007" {
			t.Errorf("Interface = %v", err.Interface)
		}
	})

	t.Run("Trap", func(t *testing.T) {
		cause := errors.New("unreachable")
		err := Trap("VoltCollision007", "TraceBox", cause)
		if err.Kind != KindTrap {
			t.Errorf("Kind = %v, want %v", err.Kind, KindTrap)
		}
		if err.Op != "TraceBox" {
			t.Errorf("Op = %v, want TraceBox", err.Op)
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		err := NotFound(PhaseLookup, "interface", "VoltBogus001")
		if err.Kind != KindNotFound {
			t.Errorf("Kind = %v, want %v", err.Kind, KindNotFound)
		}
		if !strings.Contains(err.Detail, "VoltBogus001") {
			t.Errorf("Detail = %v, should contain name", err.Detail)
		}
	})

	t.Run("Duplicate", func(t *testing.T) {
		err := Duplicate("VoltPhysics031")
		if err.Phase != PhaseRegister || err.Kind != KindDuplicate {
			t.Errorf("got %v/%v, want register/duplicate", err.Phase, err.Kind)
		}
	})

	t.Run("Unsupported", func(t *testing.T) {
		err := Unsupported(PhaseLoad, "plugin loading on this platform")
		if err.Kind != KindUnsupported {
			t.Errorf("Kind = %v, want %v", err.Kind, KindUnsupported)
		}
	})

	t.Run("AllocationFailed", func(t *testing.T) {
		err := AllocationFailed(PhaseForward, 1024, nil)
		if err.Kind != KindAllocation {
			t.Errorf("Kind = %v, want %v", err.Kind, KindAllocation)
		}
		if !strings.Contains(err.Detail, "1024") {
			t.Errorf("Detail = %v, should contain size", err.Detail)
		}
	})

	t.Run("OutOfBounds", func(t *testing.T) {
		err := OutOfBounds(PhaseForward, "trace read", 65536, 80)
		if err.Kind != KindOutOfBounds {
			t.Errorf("Kind = %v, want %v", err.Kind, KindOutOfBounds)
		}
		if !strings.Contains(err.Detail, "65536") {
			t.Errorf("Detail = %v, should contain offset", err.Detail)
		}
	})
}
