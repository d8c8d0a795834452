package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/bubblechamber/internal/config"
	"github.com/san-kum/bubblechamber/internal/dynamo"
	"github.com/san-kum/bubblechamber/internal/particle"
	"github.com/san-kum/bubblechamber/internal/sim"
)

const (
	metadataFile   = "metadata.json"
	populationFile = "population.csv"
	trailsFile     = "trails.json"
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
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	Timestamp  time.Time          `json:"timestamp"`
	Seed       int64              `json:"seed"`
	Dt         float64            `json:"dt"`
	Duration   float64            `json:"duration"`
	Integrator string             `json:"integrator"`
	Pattern    string             `json:"pattern"`
	Steps      int                `json:"steps"`
	Totals     sim.StepStats      `json:"totals"`
	Metrics    map[string]float64 `json:"metrics"`
	Config     *config.Config     `json:"config,omitempty"`
}

// Trail is the persisted form of one particle and its path, oldest point
// first.
type Trail struct {
	Charge     int          `json:"charge"`
	Mass       int          `json:"mass"`
	Generation int          `json:"generation"`
	Alive      bool         `json:"alive"`
	Points     [][3]float64 `json:"points"`
}

func TrailsOf(ps []particle.Particle) []Trail {
	out := make([]Trail, len(ps))
	for i := range ps {
		p := &ps[i]
		t := Trail{
			Charge:     p.Charge,
			Mass:       p.Mass,
			Generation: p.Generation,
			Alive:      p.Alive,
			Points:     make([][3]float64, 0, p.TrailLen()),
		}
		if p.Path != nil {
			p.Path.Each(func(_ int, v dynamo.Vec3) {
				t.Points = append(t.Points, v.Array())
			})
		}
		out[i] = t
	}
	return out
}

// Save writes metadata.json, population.csv and trails.json into a new run
// directory and returns the run ID.
func (s *Store) Save(name string, cfg *config.Config, seed int64, result *sim.Result) (string, error) {
	now := time.Now()
	runID := fmt.Sprintf("%s_%d", name, now.UnixMilli())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:         runID,
		Name:       name,
		Timestamp:  now,
		Seed:       seed,
		Dt:         cfg.Dt,
		Duration:   cfg.Duration,
		Integrator: cfg.Integrator,
		Pattern:    cfg.Generator.Pattern,
		Steps:      result.StepsTaken,
		Totals:     result.Totals,
		Metrics:    result.Metrics,
		Config:     cfg,
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeSeries(filepath.Join(runDir, populationFile), result.Samples); err != nil {
		return "", err
	}
	if err := writeJSON(filepath.Join(runDir, trailsFile), TrailsOf(result.Final)); err != nil {
		return "", err
	}

	return runID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

var seriesHeader = []string{"time", "population", "alive", "decaying", "energy", "decayed", "split", "spawned", "removed"}

func writeSeries(path string, samples []sim.Sample) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(seriesHeader); err != nil {
		return err
	}

	for _, s := range samples {
		row := []string{
			strconv.FormatFloat(s.Time, 'f', 6, 64),
			strconv.Itoa(s.Population),
			strconv.Itoa(s.Alive),
			strconv.Itoa(s.Decaying),
			strconv.FormatFloat(s.Energy, 'g', 10, 64),
			strconv.Itoa(s.Stats.Decayed),
			strconv.Itoa(s.Stats.Split),
			strconv.Itoa(s.Stats.Spawned),
			strconv.Itoa(s.Stats.Removed),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// List returns every readable run, newest first.
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
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadSeries reads the population time series back. Malformed rows are
// skipped.
func (s *Store) LoadSeries(runID string) ([]sim.Sample, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, populationFile))
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
		return []sim.Sample{}, nil
	}

	samples := make([]sim.Sample, 0, len(records)-1)
	for _, rec := range records[1:] {
		if len(rec) < len(seriesHeader) {
			continue
		}
		var (
			s    sim.Sample
			ints [7]int
			perr error
		)
		if s.Time, perr = strconv.ParseFloat(rec[0], 64); perr != nil {
			continue
		}
		if s.Energy, perr = strconv.ParseFloat(rec[4], 64); perr != nil {
			continue
		}
		for j, col := range []int{1, 2, 3, 5, 6, 7, 8} {
			if ints[j], perr = strconv.Atoi(rec[col]); perr != nil {
				break
			}
		}
		if perr != nil {
			continue
		}
		s.Population, s.Alive, s.Decaying = ints[0], ints[1], ints[2]
		s.Stats = sim.StepStats{Decayed: ints[3], Split: ints[4], Spawned: ints[5], Removed: ints[6]}
		samples = append(samples, s)
	}

	return samples, nil
}

func (s *Store) LoadTrails(runID string) ([]Trail, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, trailsFile))
	if err != nil {
		return nil, err
	}
	var trails []Trail
	if err := json.Unmarshal(data, &trails); err != nil {
		return nil, err
	}
	return trails, nil
}
