package resolver

import (
	"path/filepath"

	"github.com/voltworks/volt-shim/cpulevel"
)

// moduleSuffix maps each capability level to the filename suffix of the
// module built for it.
var moduleSuffix = map[cpulevel.Level]string{
	cpulevel.SSE2:  "_sse2",
	cpulevel.SSE42: "_sse42",
	cpulevel.AVX2:  "_avx2",
}

// ModulePath returns the path of the module file that serves level.
// The mapping is total: a level with no suffix of its own falls back to
// the baseline module. There is no fallback at load time; if the file
// is missing, loading fails.
func ModulePath(dir, base string, level cpulevel.Level, ext string) string {
	suffix, ok := moduleSuffix[level]
	if !ok {
		suffix = moduleSuffix[cpulevel.SSE2]
	}
	return filepath.Join(dir, base+suffix+ext)
}
