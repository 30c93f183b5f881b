package data

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync/atomic"

	"github.com/TomasB/geoloc/internal/apperr"
)

// CachedTable implements Backend by holding the whole dataset in memory.
// Lookups scan linearly in file order; the first containing range wins.
type CachedTable struct {
	path  string
	opts  Options
	table atomic.Pointer[Table]
}

// NewCachedTable returns a CachedTable over the CSV file at path.
func NewCachedTable(path string, opts Options) (*CachedTable, error) {
	if err := checkPath(path); err != nil {
		return nil, err
	}
	return &CachedTable{path: path, opts: opts}, nil
}

// Load reads and parses the whole file. The previous table stays visible
// until the new one is complete.
func (c *CachedTable) Load(_ context.Context) error {
	f, err := os.Open(c.path)
	if err != nil {
		return apperr.Wrap(apperr.KindBackend, err)
	}
	defer f.Close()

	var table Table
	cr := newCSVReader(f)
	for {
		fields, err := readRow(cr)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}

		rec, err := parseRow(fields, c.opts)
		if errors.Is(err, errShortRow) {
			continue
		}
		if err != nil {
			line, _ := cr.FieldPos(0)
			return fmt.Errorf("line %d: %w", line, err)
		}
		table = append(table, rec)
	}

	c.table.Store(&table)
	return nil
}

// Lookup returns the payload of the first record containing addr.
func (c *CachedTable) Lookup(_ context.Context, addr uint32) (string, error) {
	t := c.table.Load()
	if t == nil {
		return "", apperr.ErrLookup
	}
	rec, ok := t.Find(addr)
	if !ok {
		return "", apperr.ErrLookup
	}
	return rec.Payload, nil
}

// Len returns the number of loaded records.
func (c *CachedTable) Len() int {
	if t := c.table.Load(); t != nil {
		return len(*t)
	}
	return 0
}

// Close drops the loaded table.
func (c *CachedTable) Close() error {
	c.table.Store(nil)
	return nil
}
