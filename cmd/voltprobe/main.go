// Command voltprobe reports which Volt engine build the running host
// would load and whether its interfaces resolve. It is a diagnostic for
// deployments: point it at a module directory and it prints the detected
// CPU level, the module file per tier, and the resolution status of the
// three engine interfaces. With -i it opens an interactive prober.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	voltshim "github.com/voltworks/volt-shim"
	"github.com/voltworks/volt-shim/cpulevel"
	"github.com/voltworks/volt-shim/goplugin"
	"github.com/voltworks/volt-shim/physics"
	"github.com/voltworks/volt-shim/registry"
	"github.com/voltworks/volt-shim/resolver"
	"github.com/voltworks/volt-shim/shim"
	"github.com/voltworks/volt-shim/wasmmod"
)

// envConfig is the environment half of the configuration. Flags default
// to these values, so a flag always wins over the environment.
type envConfig struct {
	ModuleDir string `env:"VOLT_MODULE_DIR" envDefault:"."`
	BaseName  string `env:"VOLT_BASE_NAME" envDefault:"volt"`
	Backend   string `env:"VOLT_BACKEND" envDefault:"wasm"`
	CPULevel  string `env:"VOLT_CPU_LEVEL"`
}

type options struct {
	dir     string
	base    string
	level   string
	backend string
	verbose bool
}

func main() {
	var cfg envConfig
	if err := env.Parse(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var (
		dir         = flag.String("dir", cfg.ModuleDir, "Directory holding the engine module files")
		base        = flag.String("base", cfg.BaseName, "Module file base name")
		level       = flag.String("level", cfg.CPULevel, "CPU level override (sse2, sse42, avx2)")
		backend     = flag.String("backend", cfg.Backend, "Module backend (wasm, plugin)")
		verbose     = flag.Bool("v", false, "Debug logging")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	opts := options{
		dir:     *dir,
		base:    *base,
		level:   *level,
		backend: *backend,
		verbose: *verbose,
	}

	if *interactive {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Fprintln(os.Stderr, "Error: interactive mode needs a terminal")
			os.Exit(1)
		}
		if err := runInteractive(opts); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func (o options) cpuLevel() (cpulevel.Level, error) {
	if o.level == "" {
		return cpulevel.Detect(), nil
	}
	return cpulevel.Parse(o.level)
}

func (o options) logger() *zap.Logger {
	if !o.verbose {
		return zap.NewNop()
	}
	log, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return log
}

// newLoader builds the backend named by opts. The returned closer is nil
// for backends that hold no resources of their own.
func newLoader(ctx context.Context, backend string, log *zap.Logger) (voltshim.Loader, func(context.Context) error, error) {
	switch backend {
	case "wasm":
		eng, err := wasmmod.NewEngineWithConfig(ctx, &wasmmod.Config{Logger: log})
		if err != nil {
			return nil, nil, err
		}
		return eng, eng.Close, nil
	case "plugin":
		return goplugin.NewLoaderWithLogger(log), nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown backend %q (want wasm or plugin)", backend)
	}
}

func run(opts options) error {
	ctx := context.Background()

	level, err := opts.cpuLevel()
	if err != nil {
		return err
	}

	log := opts.logger()

	loader, closeLoader, err := newLoader(ctx, opts.backend, log)
	if err != nil {
		return err
	}
	if closeLoader != nil {
		defer closeLoader(ctx)
	}

	fmt.Printf("CPU level: %s (detected %s)\n", level, cpulevel.Detect())
	fmt.Printf("Backend:   %s\n", opts.backend)

	fmt.Printf("\nModule files:\n")
	for _, l := range cpulevel.Levels() {
		marker := " "
		if l == level {
			marker = "*"
		}
		path := resolver.ModulePath(opts.dir, opts.base, l, loader.Ext())
		if _, statErr := os.Stat(path); statErr != nil {
			fmt.Printf("%s %-6s %s (missing)\n", marker, l, path)
		} else {
			fmt.Printf("%s %-6s %s\n", marker, l, path)
		}
	}

	reg := registry.New()
	set, err := shim.Install(reg, shim.Config{
		Dir:    opts.dir,
		Base:   opts.base,
		Loader: loader,
		Level:  level,
		Logger: log,
	})
	if err != nil {
		return err
	}
	defer set.Close(ctx)

	// Resolve the three interfaces concurrently. Each facade loads its
	// own module instance on first use, so the probes are independent
	// and one failure cannot mask another.
	probes := []struct {
		name    string
		resolve func(context.Context) error
	}{
		{physics.PhysicsVersion, func(ctx context.Context) error {
			_, err := set.Physics.Binding().Delegate(ctx)
			return err
		}},
		{physics.SurfacePropsVersion, func(ctx context.Context) error {
			_, err := set.SurfaceProps.Binding().Delegate(ctx)
			return err
		}},
		{physics.CollisionVersion, func(ctx context.Context) error {
			_, err := set.Collision.Binding().Delegate(ctx)
			return err
		}},
	}

	errs := make([]error, len(probes))
	var g errgroup.Group
	for i, p := range probes {
		i, p := i, p
		g.Go(func() error {
			errs[i] = p.resolve(ctx)
			return errs[i]
		})
	}
	firstErr := g.Wait()

	fmt.Printf("\nInterfaces:\n")
	failed := 0
	for i, p := range probes {
		if errs[i] != nil {
			failed++
			fmt.Printf("  %-22s failed: %v\n", p.name, errs[i])
		} else {
			fmt.Printf("  %-22s active\n", p.name)
		}
	}

	if firstErr != nil {
		return fmt.Errorf("%d of %d interfaces failed to resolve", failed, len(probes))
	}
	return nil
}
