// Package tui is the interactive collaborator layer: it owns the charge
// list and probe cursor, and on every keystroke hands the core a fresh
// scene value to recompute. The core never sees ambient state.
package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lmarques/efield/internal/charge"
	"github.com/lmarques/efield/internal/config"
	"github.com/lmarques/efield/internal/field"
	"github.com/lmarques/efield/internal/probe"
	"github.com/lmarques/efield/internal/scene"
	"github.com/lmarques/efield/internal/vec"
	"github.com/lmarques/efield/internal/viz"
)

var (
	red    = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	blue   = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))
	yellow = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	dim    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	white  = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	title  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
)

const (
	sliceRows  = 21
	sliceCols  = 61
	cursorStep = 0.1
)

type model struct {
	cfg     *config.Config
	charges []charge.Charge
	cursor  vec.Vec3
	probeQ  float64

	result scene.Result
	report probe.Report

	width, height int
}

func NewApp(cfg *config.Config) *model {
	m := &model{
		cfg:    cfg,
		probeQ: 1e-6,
		width:  80,
		height: 24,
	}
	m.charges = cfg.Scene().Charges
	m.recompute()
	return m
}

func (m model) Init() tea.Cmd { return nil }

// recompute runs the full pipeline for the current charge set. The TUI
// uses a low-resolution energy grid to stay responsive.
func (m *model) recompute() {
	s := m.cfg.Scene()
	s.Charges = m.charges
	s.Params.EnergyRes = 8
	s.Probe = &probe.Probe{Q: m.probeQ, Pos: m.cursor}

	m.result = scene.Compute(context.Background(), s)
	if m.result.Probe != nil {
		m.report = *m.result.Probe
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	bound := m.cfg.PositionBound
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up":
		m.cursor.Y += cursorStep
	case "down":
		m.cursor.Y -= cursorStep
	case "left":
		m.cursor.X -= cursorStep
	case "right":
		m.cursor.X += cursorStep
	case "a":
		m.charges = append(m.charges, charge.Charge{Pos: m.cursor, Q: 1e-6})
	case "d":
		m.charges = append(m.charges, charge.Charge{Pos: m.cursor, Q: -1e-6})
	case "x":
		m.charges = removeNearest(m.charges, m.cursor)
	case "c":
		m.charges = nil
	case "t":
		m.probeQ = -m.probeQ
	default:
		return m, nil
	}

	m.cursor = m.cursor.Clamp(bound)
	m.recompute()
	return m, nil
}

func removeNearest(charges []charge.Charge, p vec.Vec3) []charge.Charge {
	if len(charges) == 0 {
		return charges
	}
	best, bestD := 0, charges[0].Pos.Sub(p).Norm()
	for i, c := range charges[1:] {
		if d := c.Pos.Sub(p).Norm(); d < bestD {
			best, bestD = i+1, d
		}
	}
	out := make([]charge.Charge, 0, len(charges)-1)
	out = append(out, charges[:best]...)
	return append(out, charges[best+1:]...)
}

func (m model) View() string {
	var b strings.Builder

	b.WriteString(title.Render("efield") + dim.Render("  z=0 slice") + "\n\n")
	b.WriteString(m.renderSlice())
	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	b.WriteString(dim.Render("\narrows move probe · a/d add +/- charge · x delete nearest · c clear · t flip probe · q quit\n"))

	return b.String()
}

func (m model) renderSlice() string {
	reg := charge.NewRegistry(m.charges, m.cfg.PositionBound)
	ev := field.NewEvaluator(reg)
	if m.cfg.GuardRadius > 0 {
		ev.GuardRadius = m.cfg.GuardRadius
	}

	half := m.cfg.GridHalf
	cells := viz.Slice(ev, reg, half, sliceRows, sliceCols)
	if cells == nil {
		return ""
	}

	// Probe cursor cell.
	pr := int((half - m.cursor.Y) / (2 * half) * float64(sliceRows-1))
	pc := int((m.cursor.X + half) / (2 * half) * float64(sliceCols-1))

	var b strings.Builder
	for r, row := range cells {
		for c, cell := range row {
			switch {
			case r == pr && c == pc:
				b.WriteString(yellow.Render("◆"))
			case cell.Charge >= 0 && cell.Positive:
				b.WriteString(red.Render(string(cell.Rune)))
			case cell.Charge >= 0:
				b.WriteString(blue.Render(string(cell.Rune)))
			case cell.Positive:
				b.WriteString(white.Render(string(cell.Rune)))
			default:
				b.WriteString(dim.Render(string(cell.Rune)))
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func (m model) renderStatus() string {
	lines := []string{
		fmt.Sprintf("charges %s   total %s µC   energy %s J   lines %s",
			white.Render(fmt.Sprintf("%d", len(m.charges))),
			white.Render(fmt.Sprintf("%.2f", m.result.TotalCharge*1e6)),
			white.Render(fmt.Sprintf("%.3e", m.result.Energy)),
			white.Render(fmt.Sprintf("%d", len(m.result.Lines)))),
		fmt.Sprintf("probe (%.1f, %.1f, %.1f) %s µC   |E| %s N/C   V %s V   |F| %s N",
			m.cursor.X, m.cursor.Y, m.cursor.Z,
			yellow.Render(fmt.Sprintf("%+.1f", m.probeQ*1e6)),
			white.Render(fmt.Sprintf("%.3e", m.report.FieldMag)),
			white.Render(fmt.Sprintf("%.3e", m.report.Potential)),
			white.Render(fmt.Sprintf("%.3e", m.report.Mag))),
	}
	if m.report.Equilibrium {
		lines = append(lines, yellow.Render("probe at equilibrium"))
	} else {
		lines = append(lines, dim.Render(fmt.Sprintf("force direction θ=%.0f° φ=%.0f°", m.report.Theta, m.report.Phi)))
	}
	return strings.Join(lines, "\n") + "\n"
}

// Run starts the interactive view.
func Run(cfg *config.Config) error {
	p := tea.NewProgram(NewApp(cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
