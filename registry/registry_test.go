package registry

import (
	stderrors "errors"
	"sync"
	"testing"

	"github.com/voltworks/volt-shim/errors"
)

func TestRegisterAndCreate(t *testing.T) {
	r := New()

	want := &struct{ tag string }{"physics"}
	if err := r.RegisterInstance("VoltPhysics031", want); err != nil {
		t.Fatalf("RegisterInstance: %v", err)
	}

	got, err := r.CreateInterface("VoltPhysics031")
	if err != nil {
		t.Fatalf("CreateInterface: %v", err)
	}
	if got != want {
		t.Errorf("CreateInterface returned %v, want the registered instance", got)
	}
}

func TestCreate_UnknownName(t *testing.T) {
	r := New()

	_, err := r.CreateInterface("VoltBogus001")
	if err == nil {
		t.Fatal("CreateInterface succeeded for unregistered name")
	}
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseLookup, Kind: errors.KindNotFound}) {
		t.Errorf("err = %v, want lookup/not_found", err)
	}
}

func TestRegister_Duplicate(t *testing.T) {
	r := New()

	if err := r.RegisterInstance("VoltCollision007", 1); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	err := r.RegisterInstance("VoltCollision007", 2)
	if err == nil {
		t.Fatal("second Register succeeded")
	}
	if !stderrors.Is(err, &errors.Error{Phase: errors.PhaseRegister, Kind: errors.KindDuplicate}) {
		t.Errorf("err = %v, want register/duplicate", err)
	}

	// The first registration must survive.
	got, err := r.CreateInterface("VoltCollision007")
	if err != nil {
		t.Fatalf("CreateInterface: %v", err)
	}
	if got != 1 {
		t.Errorf("CreateInterface = %v, want first registration", got)
	}
}

func TestRegister_Validation(t *testing.T) {
	r := New()

	if err := r.Register("", func() (any, error) { return nil, nil }); err == nil {
		t.Error("Register accepted empty name")
	}
	if err := r.Register("VoltPhysics031", nil); err == nil {
		t.Error("Register accepted nil factory")
	}
}

func TestFactory_SatisfiesConvention(t *testing.T) {
	r := New()
	if err := r.RegisterInstance("VoltSurfaceProps001", "props"); err != nil {
		t.Fatalf("RegisterInstance: %v", err)
	}

	factory := r.Factory()
	got, err := factory("VoltSurfaceProps001")
	if err != nil {
		t.Fatalf("factory: %v", err)
	}
	if got != "props" {
		t.Errorf("factory = %v, want props", got)
	}
}

func TestFactory_ErrorPropagates(t *testing.T) {
	r := New()
	wantErr := stderrors.New("backend gone")
	if err := r.Register("VoltPhysics031", func() (any, error) { return nil, wantErr }); err != nil {
		t.Fatalf("Register: %v", err)
	}

	_, err := r.CreateInterface("VoltPhysics031")
	if !stderrors.Is(err, wantErr) {
		t.Errorf("err = %v, want %v", err, wantErr)
	}
}

func TestNames_Sorted(t *testing.T) {
	r := New()
	for _, name := range []string{"VoltSurfaceProps001", "VoltCollision007", "VoltPhysics031"} {
		if err := r.RegisterInstance(name, name); err != nil {
			t.Fatalf("Register %s: %v", name, err)
		}
	}

	got := r.Names()
	want := []string{"VoltCollision007", "VoltPhysics031", "VoltSurfaceProps001"}
	if len(got) != len(want) {
		t.Fatalf("Names() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Names()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestConcurrentAccess(t *testing.T) {
	r := New()
	if err := r.RegisterInstance("VoltPhysics031", "p"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			if _, err := r.CreateInterface("VoltPhysics031"); err != nil {
				t.Errorf("CreateInterface: %v", err)
			}
		}()
		go func() {
			defer wg.Done()
			r.Names()
		}()
	}
	wg.Wait()
}
