package cpulevel

import "testing"

func TestLevelFor_Ladder(t *testing.T) {
	tests := []struct {
		name  string
		avx2  bool
		sse42 bool
		want  Level
	}{
		{"no extensions", false, false, SSE2},
		{"sse42 only", false, true, SSE42},
		{"avx2 and sse42", true, true, AVX2},
		// Wide vector support wins even when the mid-tier bit reads
		// false, as on hypervisors that mask CPUID unevenly.
		{"avx2 without sse42", true, false, AVX2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := levelFor(tt.avx2, tt.sse42); got != tt.want {
				t.Errorf("levelFor(%v, %v) = %v, want %v", tt.avx2, tt.sse42, got, tt.want)
			}
		})
	}
}

func TestDetect_Idempotent(t *testing.T) {
	first := Detect()
	for i := 0; i < 8; i++ {
		if got := Detect(); got != first {
			t.Fatalf("Detect() = %v on call %d, was %v first", got, i+2, first)
		}
	}
}

func TestDetect_EnvOverride(t *testing.T) {
	for _, lvl := range Levels() {
		t.Run(lvl.String(), func(t *testing.T) {
			t.Setenv(EnvOverride, lvl.String())
			if got := Detect(); got != lvl {
				t.Errorf("Detect() = %v with override %q", got, lvl)
			}
		})
	}
}

func TestDetect_InvalidOverrideIgnored(t *testing.T) {
	t.Setenv(EnvOverride, "")
	hardware := Detect()

	t.Setenv(EnvOverride, "sse9000")
	if got := Detect(); got != hardware {
		t.Errorf("Detect() = %v with garbage override, want hardware level %v", got, hardware)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"sse2", SSE2, false},
		{"sse42", SSE42, false},
		{"avx2", AVX2, false},
		{"SSE2", SSE2, false},
		{"AVX2", AVX2, false},
		{"", SSE2, true},
		{"avx512", SSE2, true},
	}

	for _, tt := range tests {
		got, err := Parse(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("Parse(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err == nil && got != tt.want {
			t.Errorf("Parse(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestString_RoundTrip(t *testing.T) {
	for _, lvl := range Levels() {
		got, err := Parse(lvl.String())
		if err != nil {
			t.Fatalf("Parse(%q): %v", lvl.String(), err)
		}
		if got != lvl {
			t.Errorf("Parse(%v.String()) = %v", lvl, got)
		}
	}
}

func TestLevels_Ascending(t *testing.T) {
	levels := Levels()
	if len(levels) != 3 {
		t.Fatalf("Levels() returned %d tiers, want 3", len(levels))
	}
	for i := 1; i < len(levels); i++ {
		if levels[i] <= levels[i-1] {
			t.Errorf("Levels()[%d] = %v not above %v", i, levels[i], levels[i-1])
		}
	}
}
