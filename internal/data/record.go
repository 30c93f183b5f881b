package data

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/TomasB/geoloc/internal/apperr"
)

// Record is an inclusive address range and its payload.
type Record struct {
	Start   uint32
	End     uint32
	Payload string
}

// Contains reports whether addr lies within [Start, End].
func (r Record) Contains(addr uint32) bool {
	return addr >= r.Start && addr <= r.End
}

// Table is a sequence of records in source order.
type Table []Record

// Find returns the first record containing addr.
func (t Table) Find(addr uint32) (Record, bool) {
	for _, r := range t {
		if r.Contains(addr) {
			return r, true
		}
	}
	return Record{}, false
}

// errShortRow marks rows lacking the two range fields; callers skip them.
var errShortRow = errors.New("row has fewer than two fields")

// parseRow converts a dataset row into a Record.
func parseRow(fields []string, opts Options) (Record, error) {
	if len(fields) < 2 {
		return Record{}, errShortRow
	}

	start, err := parseBound(fields[0])
	if err != nil {
		return Record{}, err
	}
	end, err := parseBound(fields[1])
	if err != nil {
		return Record{}, err
	}

	country, err := field(fields, opts.CountryColumn)
	if err != nil {
		return Record{}, err
	}
	city, err := field(fields, opts.CityColumn)
	if err != nil {
		return Record{}, err
	}

	return Record{Start: start, End: end, Payload: country + opts.Separator + city}, nil
}

func parseBound(s string) (uint32, error) {
	s = strings.TrimSpace(s)
	if !utf8.ValidString(s) {
		return 0, apperr.Wrap(apperr.KindParse, fmt.Errorf("bound is not valid UTF-8"))
	}
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, apperr.Wrap(apperr.KindParse, err)
	}
	return uint32(v), nil
}

func field(fields []string, i int) (string, error) {
	if i < 0 || i >= len(fields) {
		return "", apperr.Wrap(apperr.KindParse, fmt.Errorf("column %d missing from %d-field row", i, len(fields)))
	}
	v := strings.TrimSpace(fields[i])
	if !utf8.ValidString(v) {
		return "", apperr.Wrap(apperr.KindParse, fmt.Errorf("column %d is not valid UTF-8", i))
	}
	return v, nil
}

func newCSVReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = true
	return cr
}

// readRow reads the next row, classifying CSV syntax errors as parse errors.
func readRow(cr *csv.Reader) ([]string, error) {
	fields, err := cr.Read()
	if err == nil || errors.Is(err, io.EOF) {
		return fields, err
	}
	var perr *csv.ParseError
	if errors.As(err, &perr) {
		return nil, apperr.Wrap(apperr.KindParse, err)
	}
	return nil, apperr.Wrap(apperr.KindBackend, err)
}

// checkPath returns apperr.ErrInvalidDatabasePath unless path names an existing file.
func checkPath(path string) error {
	if path == "" {
		return apperr.Wrap(apperr.KindInvalidDatabasePath, fmt.Errorf("empty path"))
	}
	if _, err := os.Stat(path); err != nil {
		return apperr.Wrap(apperr.KindInvalidDatabasePath, err)
	}
	return nil
}
