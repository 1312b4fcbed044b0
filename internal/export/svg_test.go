package export

import (
	"strings"
	"testing"

	"github.com/lmarques/efield/internal/charge"
	"github.com/lmarques/efield/internal/trace"
	"github.com/lmarques/efield/internal/vec"
)

func TestLinesToSVG(t *testing.T) {
	lines := []trace.Line{
		{{X: 0, Y: 0}, {X: 0.5, Y: 0.5}, {X: 1, Y: 1}},
	}
	charges := []charge.Charge{
		{Pos: vec.Vec3{X: -0.5}, Q: 1e-6},
		{Pos: vec.Vec3{X: 0.5}, Q: -1e-6},
	}

	svg := LinesToSVG(lines, charges, 1.5, 400, 400)

	if !strings.HasPrefix(svg, `<?xml`) {
		t.Fatal("missing XML header")
	}
	if !strings.Contains(svg, "<path") {
		t.Error("missing line path")
	}
	if strings.Count(svg, "<circle") != 2 {
		t.Errorf("want 2 charge circles, got %d", strings.Count(svg, "<circle"))
	}
	if !strings.Contains(svg, "#ff4d4d") || !strings.Contains(svg, "#4da6ff") {
		t.Error("charge colors missing")
	}
}

func TestLinesToSVGDegenerate(t *testing.T) {
	if svg := LinesToSVG(nil, nil, 0, 400, 400); svg != "" {
		t.Error("expected empty output for zero extent")
	}
	// Single-vertex lines are skipped, not drawn.
	svg := LinesToSVG([]trace.Line{{{X: 0}}}, nil, 1, 100, 100)
	if strings.Contains(svg, "<path") {
		t.Error("single-vertex line should not produce a path")
	}
}
