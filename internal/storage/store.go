// Package storage archives completed runs under a data directory, one
// subdirectory per run holding metadata JSON and the result CSV.
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

// RunMetadata describes one archived run.
type RunMetadata struct {
	ID              string    `json:"id"`
	FMU             string    `json:"fmu"`
	ModelName       string    `json:"model_name"`
	ModelIdentifier string    `json:"model_identifier"`
	GUID            string    `json:"guid"`
	Timestamp       time.Time `json:"timestamp"`
	StartTime       float64   `json:"start_time"`
	StopTime        float64   `json:"stop_time"`
	StepSize        float64   `json:"step_size"`
	Separator       string    `json:"separator"`
	Steps           int       `json:"steps"`
	TimeEvents      int       `json:"time_events"`
	StateEvents     int       `json:"state_events"`
	StepEvents      int       `json:"step_events"`
	ElapsedSeconds  float64   `json:"elapsed_seconds"`
}

func (s *Store) NewRunID(modelIdentifier string) string {
	return fmt.Sprintf("%s_%d", modelIdentifier, time.Now().Unix())
}

// CreateResult opens the run's result CSV for writing, creating the run
// directory. The caller closes the file.
func (s *Store) CreateResult(runID string) (*os.File, error) {
	runDir := filepath.Join(s.baseDir, runID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return nil, err
	}
	return os.Create(filepath.Join(runDir, "result.csv"))
}

func (s *Store) SaveMetadata(meta RunMetadata) error {
	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return err
	}

	file, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var runs []RunMetadata
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		meta, err := s.Load(e.Name())
		if err != nil {
			continue // skip half-written runs
		}
		runs = append(runs, *meta)
	}
	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

// LoadResult reads a run's result CSV back: header names (without the time
// column), the time column and one series per variable.
func (s *Store) LoadResult(runID string, separator rune) ([]string, []float64, [][]float64, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "result.csv"))
	if err != nil {
		return nil, nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.Comma = separator
	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, nil, err
	}
	if len(records) == 0 || len(records[0]) < 1 {
		return nil, nil, nil, fmt.Errorf("storage: run %s has an empty result", runID)
	}

	names := records[0][1:]
	times := make([]float64, 0, len(records)-1)
	series := make([][]float64, len(names))

	for _, rec := range records[1:] {
		if len(rec) != len(names)+1 {
			return nil, nil, nil, fmt.Errorf("storage: run %s has a ragged result row", runID)
		}
		t, err := strconv.ParseFloat(rec[0], 64)
		if err != nil {
			return nil, nil, nil, err
		}
		times = append(times, t)
		for i, field := range rec[1:] {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, nil, nil, err
			}
			series[i] = append(series[i], v)
		}
	}
	return names, times, series, nil
}
