package datenorm

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/simpleray/SNSCheckerBack-phone/internal/logger"
)

// NoHolidaysSentinel is the only member of the holiday set when no holiday
// file could be read. It never equals a YYYY-MM-DD date.
const NoHolidaysSentinel = "no-holidays-loaded"

// Holidays is an immutable set of YYYY-MM-DD dates
type Holidays struct {
	dates map[string]struct{}
}

// NewHolidays builds a holiday set from YYYY-MM-DD (or YYYY/M/D) strings
func NewHolidays(dates ...string) *Holidays {
	h := &Holidays{dates: make(map[string]struct{}, len(dates))}
	for _, d := range dates {
		if iso, ok := canonicalDate(d); ok {
			h.dates[iso] = struct{}{}
		}
	}
	if len(h.dates) == 0 {
		h.dates[NoHolidaysSentinel] = struct{}{}
	}
	return h
}

// LoadHolidays reads a holiday CSV whose first field is a date. A missing or
// unreadable file is logged and yields the sentinel-only set.
func LoadHolidays(path string) *Holidays {
	dates, err := readHolidayCSV(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logger.Warn("holiday file not found, holiday detection disabled", "path", path)
		} else {
			logger.Warn("failed to read holiday file, holiday detection disabled", "path", path, "error", err)
		}
		return NewHolidays()
	}

	h := NewHolidays(dates...)
	logger.Debug("holidays loaded", "path", path, "count", h.Len())
	return h
}

func readHolidayCSV(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var dates []string
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
		dates = append(dates, record[0])
	}
	return dates, nil
}

// canonicalDate accepts YYYY-MM-DD and the YYYY/M/D form used by the
// government holiday list; header rows and other text are rejected
func canonicalDate(s string) (string, bool) {
	s = strings.TrimSpace(strings.TrimPrefix(s, "\ufeff"))
	for _, layout := range []string{"2006-01-02", "2006/1/2", "2006-1-2"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02"), true
		}
	}
	return "", false
}

// Contains reports whether date (YYYY-MM-DD) is a holiday
func (h *Holidays) Contains(date string) bool {
	if h == nil {
		return false
	}
	_, ok := h.dates[date]
	return ok
}

// Len returns the number of real holiday dates (the sentinel is not counted)
func (h *Holidays) Len() int {
	if h == nil {
		return 0
	}
	if _, ok := h.dates[NoHolidaysSentinel]; ok {
		return 0
	}
	return len(h.dates)
}
