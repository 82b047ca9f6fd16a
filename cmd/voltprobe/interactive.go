package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/voltworks/volt-shim/physics"
	"github.com/voltworks/volt-shim/registry"
	"github.com/voltworks/volt-shim/resolver"
	"github.com/voltworks/volt-shim/shim"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	ifaceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	stateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type probeModel struct {
	err         error
	opts        options
	set         *shim.Set
	closeLoader func(context.Context) error
	modulePath  string
	entries     []ifaceEntry
	input       textinput.Model
	result      string
	selected    int
	probeSel    int
	state       modelState
}

// ifaceEntry is one engine interface with its probe calls. state reads
// the binding live, so the list reflects lazy resolution as it happens.
type ifaceEntry struct {
	name   string
	state  func() resolver.State
	probes []probeInfo
}

// probeInfo is a single forwarded call the prober can fire. A probe with
// an empty prompt takes no argument.
type probeInfo struct {
	name        string
	prompt      string
	placeholder string
	run         func(ctx context.Context, arg string) (string, error)
}

type modelState int

const (
	stateSelectIface modelState = iota
	stateSelectProbe
	stateInputArg
	stateShowResult
)

func newProbeModel(opts options) *probeModel {
	return &probeModel{
		opts:  opts,
		state: stateSelectIface,
	}
}

type loadedMsg struct {
	err         error
	set         *shim.Set
	closeLoader func(context.Context) error
	modulePath  string
	entries     []ifaceEntry
}

type probeResultMsg struct {
	err    error
	result string
}

func (m *probeModel) Init() tea.Cmd {
	return m.loadModules
}

func (m *probeModel) loadModules() tea.Msg {
	ctx := context.Background()

	level, err := m.opts.cpuLevel()
	if err != nil {
		return loadedMsg{err: err}
	}

	// Log output would fight the TUI for the terminal.
	loader, closeLoader, err := newLoader(ctx, m.opts.backend, zap.NewNop())
	if err != nil {
		return loadedMsg{err: err}
	}

	reg := registry.New()
	set, err := shim.Install(reg, shim.Config{
		Dir:    m.opts.dir,
		Base:   m.opts.base,
		Loader: loader,
		Level:  level,
	})
	if err != nil {
		if closeLoader != nil {
			closeLoader(ctx)
		}
		return loadedMsg{err: err}
	}

	entries := []ifaceEntry{
		{
			name:  physics.PhysicsVersion,
			state: func() resolver.State { return set.Physics.Binding().State() },
			probes: []probeInfo{
				{
					name: "active-environment",
					run: func(ctx context.Context, _ string) (string, error) {
						env, err := set.Physics.ActiveEnvironmentByIndex(ctx, 0)
						if err != nil {
							return "", err
						}
						if env == nil {
							return "no active environment at index 0", nil
						}
						return "environment 0 present", nil
					},
				},
				{
					name:        "query-interface",
					prompt:      "name: ",
					placeholder: physics.CollisionVersion,
					run: func(ctx context.Context, arg string) (string, error) {
						v, err := set.Physics.QueryInterface(ctx, arg)
						if err != nil {
							return "", err
						}
						if v == nil {
							return fmt.Sprintf("%s not supported", arg), nil
						}
						return fmt.Sprintf("%s -> %T", arg, v), nil
					},
				},
				{
					name:        "find-collision-set",
					prompt:      "id: ",
					placeholder: "0",
					run: func(ctx context.Context, arg string) (string, error) {
						id, err := strconv.ParseUint(arg, 10, 32)
						if err != nil {
							return "", fmt.Errorf("set id: %w", err)
						}
						cs, err := set.Physics.FindCollisionSet(ctx, uint32(id))
						if err != nil {
							return "", err
						}
						if cs == nil {
							return fmt.Sprintf("no collision set %d", id), nil
						}
						return fmt.Sprintf("collision set %d present", id), nil
					},
				},
			},
		},
		{
			name:  physics.SurfacePropsVersion,
			state: func() resolver.State { return set.SurfaceProps.Binding().State() },
			probes: []probeInfo{
				{
					name: "surface-prop-count",
					run: func(ctx context.Context, _ string) (string, error) {
						n, err := set.SurfaceProps.SurfacePropCount(ctx)
						if err != nil {
							return "", err
						}
						return fmt.Sprintf("%d surface properties", n), nil
					},
				},
				{
					name:        "surface-index",
					prompt:      "material: ",
					placeholder: "default",
					run: func(ctx context.Context, arg string) (string, error) {
						idx, err := set.SurfaceProps.GetSurfaceIndex(ctx, arg)
						if err != nil {
							return "", err
						}
						return fmt.Sprintf("index %d", idx), nil
					},
				},
				{
					name:        "physics-properties",
					prompt:      "index: ",
					placeholder: "0",
					run: func(ctx context.Context, arg string) (string, error) {
						idx, err := strconv.Atoi(arg)
						if err != nil {
							return "", fmt.Errorf("surface index: %w", err)
						}
						density, thickness, friction, elasticity, err := set.SurfaceProps.GetPhysicsProperties(ctx, idx)
						if err != nil {
							return "", err
						}
						return fmt.Sprintf("density=%g thickness=%g friction=%g elasticity=%g",
							density, thickness, friction, elasticity), nil
					},
				},
			},
		},
		{
			name:  physics.CollisionVersion,
			state: func() resolver.State { return set.Collision.Binding().State() },
			probes: []probeInfo{
				{
					name: "bbox-cache-size",
					run: func(ctx context.Context, _ string) (string, error) {
						n, err := set.Collision.GetBBoxCacheSize(ctx)
						if err != nil {
							return "", err
						}
						return fmt.Sprintf("bbox cache size %d", n), nil
					},
				},
				{
					name: "supports-virtual-mesh",
					run: func(ctx context.Context, _ string) (string, error) {
						ok, err := set.Collision.SupportsVirtualMesh(ctx)
						if err != nil {
							return "", err
						}
						return strconv.FormatBool(ok), nil
					},
				},
				{
					name:        "read-stat",
					prompt:      "stat id: ",
					placeholder: "0",
					run: func(ctx context.Context, arg string) (string, error) {
						id, err := strconv.Atoi(arg)
						if err != nil {
							return "", fmt.Errorf("stat id: %w", err)
						}
						v, err := set.Collision.ReadStat(ctx, id)
						if err != nil {
							return "", err
						}
						return fmt.Sprintf("stat %d = %d", id, v), nil
					},
				},
			},
		},
	}

	return loadedMsg{
		set:         set,
		closeLoader: closeLoader,
		modulePath:  resolver.ModulePath(m.opts.dir, m.opts.base, level, loader.Ext()),
		entries:     entries,
	}
}

func (m *probeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, m.quit()

		case "q":
			if m.state != stateInputArg {
				return m, m.quit()
			}

		case "up", "k":
			switch m.state {
			case stateSelectIface:
				if m.selected > 0 {
					m.selected--
				}
			case stateSelectProbe:
				if m.probeSel > 0 {
					m.probeSel--
				}
			}

		case "down", "j":
			switch m.state {
			case stateSelectIface:
				if m.selected < len(m.entries)-1 {
					m.selected++
				}
			case stateSelectProbe:
				if m.probeSel < len(m.entries[m.selected].probes)-1 {
					m.probeSel++
				}
			}

		case "enter":
			switch m.state {
			case stateSelectIface:
				if len(m.entries) > 0 {
					m.probeSel = 0
					m.state = stateSelectProbe
				}

			case stateSelectProbe:
				p := m.entries[m.selected].probes[m.probeSel]
				if p.prompt == "" {
					return m, m.runProbe
				}
				m.prepareInput(p)
				m.state = stateInputArg

			case stateInputArg:
				return m, m.runProbe

			case stateShowResult:
				m.state = stateSelectProbe
				m.result = ""
				m.err = nil
			}

		case "esc":
			switch m.state {
			case stateSelectProbe:
				m.state = stateSelectIface
			case stateInputArg:
				m.state = stateSelectProbe
			case stateShowResult:
				m.state = stateSelectProbe
				m.result = ""
				m.err = nil
			}
		}

	case loadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.set = msg.set
		m.closeLoader = msg.closeLoader
		m.modulePath = msg.modulePath
		m.entries = msg.entries

	case probeResultMsg:
		m.result = msg.result
		m.err = msg.err
		m.state = stateShowResult
	}

	if m.state == stateInputArg {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *probeModel) quit() tea.Cmd {
	ctx := context.Background()
	if m.set != nil {
		m.set.Close(ctx)
	}
	if m.closeLoader != nil {
		m.closeLoader(ctx)
	}
	return tea.Quit
}

func (m *probeModel) prepareInput(p probeInfo) {
	ti := textinput.New()
	ti.Placeholder = p.placeholder
	ti.Prompt = p.prompt
	ti.Width = 40
	ti.Focus()
	m.input = ti
}

func (m *probeModel) runProbe() tea.Msg {
	ctx := context.Background()

	p := m.entries[m.selected].probes[m.probeSel]
	arg := ""
	if p.prompt != "" {
		arg = m.input.Value()
		if arg == "" {
			arg = m.input.Placeholder
		}
	}

	result, err := p.run(ctx, arg)
	if err != nil {
		return probeResultMsg{err: err}
	}
	return probeResultMsg{result: result}
}

func (m *probeModel) View() string {
	if m.err != nil && m.state != stateShowResult {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
	}

	if len(m.entries) == 0 {
		return "Loading engine modules..."
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("Volt Probe"))
	b.WriteString(" ")
	b.WriteString(m.modulePath)
	b.WriteString("\n\n")

	switch m.state {
	case stateSelectIface:
		b.WriteString("Select an interface:\n\n")
		for i, e := range m.entries {
			cursor := "  "
			line := ifaceStyle.Render(e.name)
			if i == m.selected {
				cursor = "> "
				line = selectedStyle.Render(cursor + e.name)
			} else {
				line = cursor + line
			}
			b.WriteString(line)
			b.WriteString("  ")
			b.WriteString(renderState(e.state()))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter probes • q quit"))

	case stateSelectProbe:
		e := m.entries[m.selected]
		b.WriteString(fmt.Sprintf("%s  %s\n\n", ifaceStyle.Render(e.name), renderState(e.state())))
		for i, p := range e.probes {
			cursor := "  "
			if i == m.probeSel {
				cursor = "> "
				b.WriteString(selectedStyle.Render(cursor + p.name))
			} else {
				b.WriteString(cursor + p.name)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter call • esc back • q quit"))

	case stateInputArg:
		p := m.entries[m.selected].probes[m.probeSel]
		b.WriteString(fmt.Sprintf("Calling %s\n\n", ifaceStyle.Render(p.name)))
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter call • esc back"))

	case stateShowResult:
		p := m.entries[m.selected].probes[m.probeSel]
		b.WriteString(fmt.Sprintf("Result of %s:\n\n", ifaceStyle.Render(p.name)))
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		} else {
			b.WriteString(resultStyle.Render(m.result))
		}
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter continue • q quit"))
	}

	return b.String()
}

func renderState(s resolver.State) string {
	switch s {
	case resolver.Active:
		return resultStyle.Render(s.String())
	case resolver.Failed:
		return errorStyle.Render(s.String())
	default:
		return stateStyle.Render(s.String())
	}
}

func runInteractive(opts options) error {
	p := tea.NewProgram(newProbeModel(opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
