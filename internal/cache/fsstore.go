package cache

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/mkravets/sdeconv/internal/montecarlo"
)

// FSStore persists entries under a directory: <key>.json holds the
// parameter record, <key>.csv the (dim)×(N) batch, one sample per row.
// Floats are written with exact (shortest round-trip) formatting so a
// reload is bit-identical to the generated batch. Entries live until
// manually removed; there is no eviction.
type FSStore struct {
	baseDir string
}

func NewFSStore(baseDir string) *FSStore {
	return &FSStore{baseDir: baseDir}
}

func (s *FSStore) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *FSStore) metaPath(key string) string { return filepath.Join(s.baseDir, key+".json") }
func (s *FSStore) dataPath(key string) string { return filepath.Join(s.baseDir, key+".csv") }

func (s *FSStore) Load(key string) (*Entry, bool, error) {
	metaRaw, err := os.ReadFile(s.metaPath(key))
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var meta Meta
	if err := json.Unmarshal(metaRaw, &meta); err != nil {
		return nil, false, fmt.Errorf("cache entry %s: %w", key, err)
	}

	f, err := os.Open(s.dataPath(key))
	if err != nil {
		return nil, false, fmt.Errorf("cache entry %s: %w", key, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, false, fmt.Errorf("cache entry %s: %w", key, err)
	}

	cols := make([][]float64, len(records))
	for i, record := range records {
		col := make([]float64, len(record))
		for j, field := range record {
			col[j], err = strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, false, fmt.Errorf("cache entry %s, row %d: %w", key, i, err)
			}
		}
		cols[i] = col
	}

	batch, err := montecarlo.FromColumns(meta.Dim, meta.N, cols)
	if err != nil {
		return nil, false, fmt.Errorf("cache entry %s: %w", key, err)
	}
	return &Entry{Meta: meta, Batch: batch}, true, nil
}

func (s *FSStore) Save(key string, e *Entry) error {
	if err := s.Init(); err != nil {
		return err
	}

	metaRaw, err := json.MarshalIndent(e.Meta, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.metaPath(key), metaRaw, 0644); err != nil {
		return err
	}

	f, err := os.Create(s.dataPath(key))
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	row := make([]string, e.Batch.Dim)
	for j := 0; j < e.Batch.N(); j++ {
		col := e.Batch.Col(j)
		for i, v := range col {
			row[i] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
