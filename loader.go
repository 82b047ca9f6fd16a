package voltshim

import "context"

// Module is a loaded engine build.
type Module interface {
	// CreateInterface invokes the module's factory for a versioned
	// interface name and returns the delegate it produces.
	CreateInterface(ctx context.Context, name string) (any, error)

	// Close unloads the module. Delegates obtained from CreateInterface
	// must not be used afterwards.
	Close(ctx context.Context) error
}

// Loader opens engine module files.
type Loader interface {
	// Load opens the module file at path.
	Load(ctx context.Context, path string) (Module, error)

	// Ext returns the filename extension of this loader's module
	// format, including the leading dot.
	Ext() string
}
