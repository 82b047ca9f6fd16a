// Package goplugin loads engine modules built as native Go plugins.
//
// A plugin exports one symbol, CreateInterface, with the signature
// func(string) (any, error). The shim calls it with versioned
// interface names and uses whatever delegates it returns directly; no
// marshalling is involved, so this backend has native call overhead
// but requires modules built with the exact toolchain of the host.
//
// Go plugin support exists on linux and darwin only. On other
// platforms Load fails with an unsupported error.
package goplugin

// Ext is the module file extension this backend loads.
const Ext = ".so"

// FactorySymbol is the symbol looked up in each plugin.
const FactorySymbol = "CreateInterface"
