package cpulevel

import "os"

// EnvOverride names the environment variable consulted before hardware
// detection. Valid values are sse2, sse42 and avx2. The override selects a
// build to load, not a hardware claim, so it is accepted as long as it
// parses; anything else is ignored.
const EnvOverride = "VOLT_CPU_LEVEL"

// Detect returns the widest tier the processor supports.
//
// Detection is a read-only hardware query: idempotent, callable from any
// goroutine, and without an error path. Hosts that cannot satisfy the
// mid or wide tiers report SSE2.
func Detect() Level {
	if raw := os.Getenv(EnvOverride); raw != "" {
		if lvl, err := Parse(raw); err == nil {
			return lvl
		}
	}
	return detect()
}

// levelFor applies the fallback ladder to the observed feature bits. A
// wide-vector processor wins regardless of the mid-tier bit.
func levelFor(avx2, sse42 bool) Level {
	switch {
	case avx2:
		return AVX2
	case sse42:
		return SSE42
	default:
		return SSE2
	}
}
