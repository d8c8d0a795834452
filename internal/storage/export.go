package storage

import (
	"encoding/json"
	"io"
)

// ExportData is a stored run flattened into one JSON document.
type ExportData struct {
	RunMetadata
	Samples []SampleRecord `json:"samples"`
	Trails  []Trail        `json:"trails"`
}

type SampleRecord struct {
	Time       float64 `json:"t"`
	Population int     `json:"population"`
	Alive      int     `json:"alive"`
	Decaying   int     `json:"decaying"`
	Energy     float64 `json:"energy"`
}

// ExportJSON writes run runID, series and trails included, to w.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	series, err := s.LoadSeries(runID)
	if err != nil {
		return err
	}
	trails, err := s.LoadTrails(runID)
	if err != nil {
		return err
	}

	data := ExportData{
		RunMetadata: *meta,
		Samples:     make([]SampleRecord, len(series)),
		Trails:      trails,
	}
	for i, smp := range series {
		data.Samples[i] = SampleRecord{
			Time:       smp.Time,
			Population: smp.Population,
			Alive:      smp.Alive,
			Decaying:   smp.Decaying,
			Energy:     smp.Energy,
		}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
