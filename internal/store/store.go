// Package store persists computed runs for later inspection and export:
// per-run metadata, the grid samples as CSV rows, and the traced lines.
package store

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/lmarques/efield/internal/field"
	"github.com/lmarques/efield/internal/scene"
	"github.com/lmarques/efield/internal/vec"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID          string    `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	Seed        int64     `json:"seed"`
	Charges     int       `json:"charges"`
	TotalCharge float64   `json:"total_charge_c"`
	Energy      float64   `json:"energy_j"`
	Samples     int       `json:"samples"`
	Lines       int       `json:"lines"`
	Skipped     int       `json:"skipped_lines"`
	GuardRadius float64   `json:"guard_radius"`
}

// Save writes one run directory: metadata.json, samples.csv and lines.json.
func (s *Store) Save(seed int64, guard float64, numCharges int, res scene.Result) (string, error) {
	runID := fmt.Sprintf("run_%d", time.Now().UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:          runID,
		Timestamp:   time.Now(),
		Seed:        seed,
		Charges:     numCharges,
		TotalCharge: res.TotalCharge,
		Energy:      res.Energy,
		Samples:     len(res.Samples),
		Lines:       len(res.Lines),
		Skipped:     res.Skipped,
		GuardRadius: guard,
	}

	metaPath := filepath.Join(runDir, "metadata.json")
	metaFile, err := os.Create(metaPath)
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "samples.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	if err := WriteSamplesCSV(csvFile, res.Samples); err != nil {
		return "", err
	}

	linesFile, err := os.Create(filepath.Join(runDir, "lines.json"))
	if err != nil {
		return "", err
	}
	defer linesFile.Close()

	flat := make([][][3]float64, len(res.Lines))
	for i, line := range res.Lines {
		flat[i] = make([][3]float64, len(line))
		for j, p := range line {
			flat[i][j] = [3]float64{p.X, p.Y, p.Z}
		}
	}
	if err := json.NewEncoder(linesFile).Encode(flat); err != nil {
		return "", err
	}

	return runID, nil
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		metaPath := filepath.Join(s.baseDir, entry.Name(), "metadata.json")
		data, err := os.ReadFile(metaPath)
		if err != nil {
			continue
		}

		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}

		runs = append(runs, meta)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	metaPath := filepath.Join(s.baseDir, runID, "metadata.json")
	data, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadSamples reads a run's samples.csv back into field samples.
func (s *Store) LoadSamples(runID string) ([]field.Sample, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "samples.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []field.Sample{}, nil
	}

	samples := make([]field.Sample, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) < 7 {
			continue
		}
		vals := make([]float64, 7)
		ok := true
		for i := 0; i < 7; i++ {
			v, err := strconv.ParseFloat(record[i], 64)
			if err != nil {
				ok = false
				break
			}
			vals[i] = v
		}
		if !ok {
			continue
		}
		samples = append(samples, field.Sample{
			Pos: vec.Vec3{X: vals[0], Y: vals[1], Z: vals[2]},
			E:   vec.Vec3{X: vals[3], Y: vals[4], Z: vals[5]},
			Mag: vals[6],
		})
	}

	return samples, nil
}
