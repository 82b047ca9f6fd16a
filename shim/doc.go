// Package shim provides the forwarding facades game code calls.
//
// Each facade implements one of the physics interfaces by forwarding
// every call to a delegate resolved out of a capability-matched engine
// module. Facades are constructed cold: nothing loads until the first
// forwarded call, and the three facades resolve independently even
// when they name the same module file. A facade whose resolution
// failed keeps failing with the same error; a closed facade fails
// fast.
//
// Install wires a full facade set into a registry so game systems can
// look the interfaces up by their versioned names.
package shim
