//go:build !amd64

package cpulevel

// Non-amd64 hosts have none of the x86 vector extensions, which is
// exactly what the baseline tier means.
func detect() Level {
	return SSE2
}
