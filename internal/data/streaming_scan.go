package data

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"os"

	"github.com/TomasB/geoloc/internal/apperr"
)

// Cursor is the streaming scan position: the number of rows consumed since
// the source was last rewound.
type Cursor struct {
	Position uint64
}

// StreamingScan implements Backend by scanning the CSV file on every lookup
// without materializing it. Each lookup resumes where the previous one
// stopped and wraps around at most once, so a call reads at most one full
// pass over the file.
type StreamingScan struct {
	path string
	opts Options

	file      *os.File
	reader    *csv.Reader
	exhausted bool
	cursor    Cursor
}

// NewStreamingScan returns a StreamingScan over the CSV file at path.
func NewStreamingScan(path string, opts Options) (*StreamingScan, error) {
	if err := checkPath(path); err != nil {
		return nil, err
	}
	return &StreamingScan{path: path, opts: opts}, nil
}

// Load opens the file and positions the cursor at its start. Nothing is read ahead.
func (s *StreamingScan) Load(_ context.Context) error {
	f, err := os.Open(s.path)
	if err != nil {
		return apperr.Wrap(apperr.KindBackend, err)
	}
	if s.file != nil {
		s.file.Close()
	}
	s.file = f
	s.reader = newCSVReader(f)
	s.exhausted = false
	s.cursor = Cursor{}
	return nil
}

// Lookup scans forward from the cursor for the first row containing addr.
func (s *StreamingScan) Lookup(_ context.Context, addr uint32) (string, error) {
	start := s.cursor.Position
	wrapped := false

	if s.exhausted {
		if err := s.rewind(); err != nil {
			return "", err
		}
		wrapped = true
	}

	for {
		fields, err := readRow(s.reader)
		if errors.Is(err, io.EOF) {
			s.exhausted = true
			// Starting from the top and reaching the end is already a full pass.
			if wrapped || start == 0 {
				return "", apperr.ErrLookup
			}
			if err := s.rewind(); err != nil {
				return "", err
			}
			wrapped = true
			continue
		}
		if err != nil {
			return "", err
		}
		s.cursor.Position++

		rec, err := parseRow(fields, s.opts)
		switch {
		case errors.Is(err, errShortRow):
		case err != nil:
			return "", err
		case rec.Contains(addr):
			return rec.Payload, nil
		}

		if wrapped && s.cursor.Position == start {
			return "", apperr.ErrLookup
		}
	}
}

// Cursor returns the current scan position.
func (s *StreamingScan) Cursor() Cursor {
	return s.cursor
}

func (s *StreamingScan) rewind() error {
	if _, err := s.file.Seek(0, io.SeekStart); err != nil {
		return apperr.Wrap(apperr.KindBackend, err)
	}
	s.reader = newCSVReader(s.file)
	s.exhausted = false
	s.cursor = Cursor{}
	return nil
}

// Close closes the underlying file.
func (s *StreamingScan) Close() error {
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	s.reader = nil
	return err
}
