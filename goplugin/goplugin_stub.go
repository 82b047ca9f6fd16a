//go:build !linux && !darwin

package goplugin

import (
	"context"

	"go.uber.org/zap"

	voltshim "github.com/voltworks/volt-shim"
	"github.com/voltworks/volt-shim/errors"
)

// Loader is a placeholder on platforms without Go plugin support.
type Loader struct{}

func NewLoader() *Loader { return &Loader{} }

func NewLoaderWithLogger(log *zap.Logger) *Loader { return &Loader{} }

// Ext returns the module file extension.
func (l *Loader) Ext() string { return Ext }

// Load always fails; Go plugins are not supported on this platform.
func (l *Loader) Load(ctx context.Context, path string) (voltshim.Module, error) {
	return nil, errors.Unsupported(errors.PhaseLoad, "go plugins on this platform")
}

var _ voltshim.Loader = (*Loader)(nil)
