package gazetteer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/simpleray/SNSCheckerBack-phone/internal/logger"
	"github.com/simpleray/SNSCheckerBack-phone/internal/model"
)

// Source is one gazetteer file and the category of every row in it
type Source struct {
	Path     string
	Category model.PlaceCategory
}

// DefaultSources returns the four reference tables in load order
func DefaultSources(cfg model.DataConfig) []Source {
	return []Source{
		{Path: cfg.SchoolsCSV, Category: model.PlaceSchool},
		{Path: cfg.StationsCSV, Category: model.PlaceStation},
		{Path: cfg.HospitalsCSV, Category: model.PlaceHospital},
		{Path: cfg.TouristSpotsCSV, Category: model.PlaceTouristSpot},
	}
}

// Gazetteer is an immutable table of known places. It is built once and may
// be shared across goroutines without locking.
type Gazetteer struct {
	records []model.PlaceRecord
	exact   map[string]map[model.PlaceCategory]bool
}

// New builds a gazetteer from records, in order. Blank names are skipped.
func New(records []model.PlaceRecord) *Gazetteer {
	g := &Gazetteer{
		records: make([]model.PlaceRecord, 0, len(records)),
		exact:   make(map[string]map[model.PlaceCategory]bool),
	}
	for _, rec := range records {
		rec.Name = normalizeName(rec.Name)
		if rec.Name == "" {
			continue
		}
		if rec.Scale == "" {
			rec.Scale = model.ScaleFor(rec.Category)
		}
		g.records = append(g.records, rec)

		if g.exact[rec.Name] == nil {
			g.exact[rec.Name] = make(map[model.PlaceCategory]bool)
		}
		g.exact[rec.Name][rec.Category] = true
	}
	return g
}

// Load reads every source into one gazetteer. Missing or unreadable files
// are logged and skipped.
func Load(sources []Source) *Gazetteer {
	var records []model.PlaceRecord
	for _, src := range sources {
		if src.Path == "" {
			continue
		}
		names, err := readNames(src.Path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				logger.Warn("gazetteer file not found, skipping", "path", src.Path, "category", src.Category)
			} else {
				logger.Warn("failed to read gazetteer file, skipping", "path", src.Path, "category", src.Category, "error", err)
			}
			continue
		}
		for _, name := range names {
			records = append(records, model.PlaceRecord{
				Name:     name,
				Category: src.Category,
				Scale:    model.ScaleFor(src.Category),
			})
		}
		logger.Debug("gazetteer file loaded", "path", src.Path, "category", src.Category, "rows", len(names))
	}
	return New(records)
}

func readNames(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var names []string
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		if len(record) == 0 {
			continue
		}
		names = append(names, record[0])
	}
	return names, nil
}

func normalizeName(name string) string {
	name = strings.TrimPrefix(name, "\ufeff")
	return strings.TrimSpace(norm.NFKC.String(name))
}

// Len returns the number of records
func (g *Gazetteer) Len() int {
	return len(g.records)
}

// Records returns a copy of the records in load order
func (g *Gazetteer) Records() []model.PlaceRecord {
	out := make([]model.PlaceRecord, len(g.records))
	copy(out, g.records)
	return out
}

// CountByCategory returns the number of records per category
func (g *Gazetteer) CountByCategory() map[model.PlaceCategory]int {
	counts := make(map[model.PlaceCategory]int)
	for _, rec := range g.records {
		counts[rec.Category]++
	}
	return counts
}

func (g *Gazetteer) hasExact(name string, category model.PlaceCategory) bool {
	return g.exact[name][category]
}
