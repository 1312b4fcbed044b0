package store

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/lmarques/efield/internal/field"
	"github.com/lmarques/efield/internal/probe"
	"github.com/lmarques/efield/internal/scene"
)

// WriteSamplesCSV writes grid samples row-oriented: point coordinates plus
// field components and magnitude. This is the tabular export contract; no
// cross-version stability is promised.
func WriteSamplesCSV(w io.Writer, samples []field.Sample) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write([]string{"x", "y", "z", "Ex", "Ey", "Ez", "mag"}); err != nil {
		return err
	}

	for _, s := range samples {
		row := []string{
			fmtF(s.Pos.X), fmtF(s.Pos.Y), fmtF(s.Pos.Z),
			fmtF(s.E.X), fmtF(s.E.Y), fmtF(s.E.Z),
			fmtF(s.Mag),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteForcesCSV writes the probe force table: one row per source charge
// plus the resultant, components in nanonewtons as displayed.
func WriteForcesCSV(w io.Writer, rep probe.Report) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write([]string{"source", "Fx_nN", "Fy_nN", "Fz_nN", "mag_nN"}); err != nil {
		return err
	}

	for _, f := range rep.Forces {
		row := []string{
			f.Source,
			fmtF(f.F.X * 1e9), fmtF(f.F.Y * 1e9), fmtF(f.F.Z * 1e9),
			fmtF(f.Mag * 1e9),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	row := []string{
		"resultant",
		fmtF(rep.Resultant.X * 1e9), fmtF(rep.Resultant.Y * 1e9), fmtF(rep.Resultant.Z * 1e9),
		fmtF(rep.Mag * 1e9),
	}
	if err := cw.Write(row); err != nil {
		return err
	}

	cw.Flush()
	return cw.Error()
}

type exportData struct {
	TotalCharge float64        `json:"total_charge_c"`
	Energy      float64        `json:"energy_j"`
	Samples     []sampleRow    `json:"samples"`
	Lines       [][][3]float64 `json:"lines"`
	Probe       *probe.Report  `json:"probe,omitempty"`
}

type sampleRow struct {
	X   float64 `json:"x"`
	Y   float64 `json:"y"`
	Z   float64 `json:"z"`
	Ex  float64 `json:"ex"`
	Ey  float64 `json:"ey"`
	Ez  float64 `json:"ez"`
	Mag float64 `json:"mag"`
}

// WriteResultJSON serializes a full computation result.
func WriteResultJSON(w io.Writer, res scene.Result) error {
	data := exportData{
		TotalCharge: res.TotalCharge,
		Energy:      res.Energy,
		Samples:     make([]sampleRow, len(res.Samples)),
		Lines:       make([][][3]float64, len(res.Lines)),
		Probe:       res.Probe,
	}

	for i, s := range res.Samples {
		data.Samples[i] = sampleRow{
			X: s.Pos.X, Y: s.Pos.Y, Z: s.Pos.Z,
			Ex: s.E.X, Ey: s.E.Y, Ez: s.E.Z,
			Mag: s.Mag,
		}
	}
	for i, line := range res.Lines {
		data.Lines[i] = make([][3]float64, len(line))
		for j, p := range line {
			data.Lines[i][j] = [3]float64{p.X, p.Y, p.Z}
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func fmtF(v float64) string {
	return strconv.FormatFloat(v, 'g', 10, 64)
}
