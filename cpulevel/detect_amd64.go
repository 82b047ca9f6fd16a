//go:build amd64

package cpulevel

import "golang.org/x/sys/cpu"

func detect() Level {
	return levelFor(cpu.X86.HasAVX2, cpu.X86.HasSSE42)
}
