// Package cpulevel selects the instruction-set tier of the running
// processor. The Volt engine ships one build per tier; the level chosen
// here names the build the shim will load.
package cpulevel

import (
	"fmt"

	"github.com/voltworks/volt-shim/errors"
)

// Level is an instruction-set tier of the Volt engine.
type Level int

const (
	// SSE2 is the baseline tier. Every supported processor satisfies it.
	SSE2 Level = iota
	// SSE42 is the mid tier, requiring SSE4.2.
	SSE42
	// AVX2 is the wide-vector tier.
	AVX2
)

// Levels returns all tiers in ascending order.
func Levels() []Level {
	return []Level{SSE2, SSE42, AVX2}
}

func (l Level) String() string {
	switch l {
	case SSE2:
		return "sse2"
	case SSE42:
		return "sse42"
	case AVX2:
		return "avx2"
	default:
		return fmt.Sprintf("Level(%d)", int(l))
	}
}

// Parse maps the textual form of a tier back to its Level.
func Parse(s string) (Level, error) {
	switch s {
	case "sse2", "SSE2":
		return SSE2, nil
	case "sse42", "SSE42":
		return SSE42, nil
	case "avx2", "AVX2":
		return AVX2, nil
	}
	return SSE2, errors.InvalidInput(errors.PhaseDetect, fmt.Sprintf("unknown cpu level %q", s))
}
