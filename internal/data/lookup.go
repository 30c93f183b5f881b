package data

import (
	"context"
	"fmt"
)

// Backend defines the interface for range-containment lookups.
// Lookup may only be called after a successful Load.
type Backend interface {
	// Load prepares the backend for lookups. A repeated Load replaces the
	// previous state wholesale; on failure the previous state is kept.
	Load(ctx context.Context) error

	// Lookup returns the payload of the first range containing addr, in the
	// backend's enumeration order.
	Lookup(ctx context.Context, addr uint32) (string, error)

	// Close releases any resources held by the backend.
	Close() error
}

// Kind selects a Backend implementation.
type Kind string

const (
	KindCached Kind = "cached"
	KindStream Kind = "stream"
	KindQuery  Kind = "query"
)

// Options configures how rows are turned into payloads.
type Options struct {
	CountryColumn int
	CityColumn    int
	Separator     string
}

// DefaultOptions matches the canonical start,end,country_code,country_name,region,city,lat,lon schema.
func DefaultOptions() Options {
	return Options{CountryColumn: 2, CityColumn: 5, Separator: ","}
}

// New returns the Backend of the given kind over dataset, which is a file
// path for the file-backed kinds and a DSN for KindQuery.
func New(kind Kind, dataset string, opts Options) (Backend, error) {
	switch kind {
	case KindCached:
		return NewCachedTable(dataset, opts)
	case KindStream:
		return NewStreamingScan(dataset, opts)
	case KindQuery:
		return NewDelegatedQuery(dataset, opts)
	default:
		return nil, fmt.Errorf("unknown backend %q", kind)
	}
}
