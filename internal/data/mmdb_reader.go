package data

import (
	"context"
	"fmt"
	"net"

	"github.com/TomasB/geoloc/internal/apperr"
	"github.com/oschwald/geoip2-golang"
)

// MmdbReader implements RangeStore using a MaxMind City MMDB file.
type MmdbReader struct {
	db *geoip2.Reader
}

// OpenMmdbStore opens the MMDB file at path.
func OpenMmdbStore(_ context.Context, path string) (RangeStore, error) {
	return NewMmdbReader(path)
}

// NewMmdbReader opens the MMDB file at the given path and returns a reader.
func NewMmdbReader(path string) (*MmdbReader, error) {
	db, err := geoip2.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open MMDB file: %w", err)
	}
	return &MmdbReader{db: db}, nil
}

// QueryRange returns the ISO-3166 country code and English city name for addr.
func (r *MmdbReader) QueryRange(_ context.Context, addr uint32) (string, string, error) {
	ip := net.IPv4(byte(addr>>24), byte(addr>>16), byte(addr>>8), byte(addr))
	record, err := r.db.City(ip)
	if err != nil {
		return "", "", fmt.Errorf("city lookup failed: %w", err)
	}
	if record.Country.IsoCode == "" {
		return "", "", apperr.ErrLookup
	}
	return record.Country.IsoCode, record.City.Names["en"], nil
}

// Close releases the MMDB reader resources.
func (r *MmdbReader) Close() error {
	return r.db.Close()
}
