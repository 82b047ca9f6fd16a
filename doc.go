// Package voltshim selects a CPU-tiered build of the Volt physics engine
// and forwards the engine's public interfaces to it.
//
// Volt ships one engine per instruction-set tier (SSE2 baseline, SSE4.2,
// AVX2). Hosts link the shim instead of a concrete build: on first use the
// shim detects the widest tier the processor supports, loads the matching
// module file and hands every call through to the interface it exports.
// Nothing is cached, transformed, or validated on the way through.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	voltshim/            Root package with the Loader and Module contracts
//	├── cpulevel/        Instruction-set detection and tier selection
//	├── physics/         Engine interface declarations and value types
//	├── registry/        Versioned interface registration and lookup
//	├── resolver/        Tier-to-filename mapping and lazy module binding
//	├── shim/            Forwarding facades exported to the host
//	├── wasmmod/         WebAssembly module backend on wazero
//	├── goplugin/        Native module backend on the plugin package
//	├── testmod/         In-memory stub backend for tests
//	├── errors/          Structured error types for debugging
//	└── cmd/voltprobe/   Inspection tool for engine module files
//
// # Quick Start
//
// Construct the facades and register them for the host:
//
//	eng, err := wasmmod.NewEngine(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer eng.Close(ctx)
//
//	reg := registry.New()
//	set, err := shim.Install(reg, shim.Config{
//	    Dir:    "bin",
//	    Loader: eng,
//	    Level:  cpulevel.Detect(),
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer set.Close(ctx)
//
//	phys, err := reg.CreateInterface(physics.PhysicsVersion)
//
// # Module Files
//
// Engine builds are named volt_sse2, volt_sse42 and volt_avx2 plus the
// loader's file extension. Every tier maps to exactly one filename; a
// missing file is a load failure, never a fallback to a lower tier.
//
// # Thread Safety
//
// Facades are safe for concurrent use. Concurrent first calls race to a
// single module load; later calls reuse the bound delegate. Objects
// returned by forwarded calls (environments, query models, parsers) carry
// the thread-safety rules of the engine that produced them.
package voltshim
