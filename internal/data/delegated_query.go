package data

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/TomasB/geoloc/internal/apperr"
)

// RangeStore is an external store able to answer a containment query in one round trip.
type RangeStore interface {
	// QueryRange returns the country code and city of the first range
	// containing addr, or apperr.ErrLookup when none does.
	QueryRange(ctx context.Context, addr uint32) (country, city string, err error)

	Close() error
}

// StoreOpener attaches to a store.
type StoreOpener func(ctx context.Context, target string) (RangeStore, error)

// DelegatedQuery implements Backend by pushing the containment test to an
// external store. Which range wins on overlap is up to the store.
type DelegatedQuery struct {
	target    string
	separator string
	open      StoreOpener
	store     RangeStore
}

// NewDelegatedQuery picks a store from the DSN:
//
//	sqlite:<path>  or a path ending in .db/.sqlite/.sqlite3
//	bolt:<path>    or a path ending in .bolt
//	mmdb:<path>    or a path ending in .mmdb
//	redis://...    or rediss://...
func NewDelegatedQuery(dsn string, opts Options) (*DelegatedQuery, error) {
	scheme, target := splitDSN(dsn)

	var open StoreOpener
	switch scheme {
	case "sqlite":
		open = OpenSQLStore
	case "bolt":
		open = OpenBoltStore
	case "mmdb":
		open = OpenMmdbStore
	case "redis":
		return NewDelegatedQueryWith(target, opts, OpenRedisStore), nil
	default:
		return nil, apperr.Wrap(apperr.KindInvalidDatabasePath, fmt.Errorf("unsupported store %q", dsn))
	}

	if err := checkPath(target); err != nil {
		return nil, err
	}
	return NewDelegatedQueryWith(target, opts, open), nil
}

// NewDelegatedQueryWith returns a DelegatedQuery that attaches with open.
func NewDelegatedQueryWith(target string, opts Options, open StoreOpener) *DelegatedQuery {
	return &DelegatedQuery{target: target, separator: opts.Separator, open: open}
}

func splitDSN(dsn string) (scheme, target string) {
	if strings.HasPrefix(dsn, "redis://") || strings.HasPrefix(dsn, "rediss://") {
		return "redis", dsn
	}
	for _, s := range []string{"sqlite", "bolt", "mmdb"} {
		if rest, ok := strings.CutPrefix(dsn, s+":"); ok {
			return s, rest
		}
	}
	switch strings.ToLower(filepath.Ext(dsn)) {
	case ".db", ".sqlite", ".sqlite3":
		return "sqlite", dsn
	case ".bolt":
		return "bolt", dsn
	case ".mmdb":
		return "mmdb", dsn
	}
	return "", dsn
}

// Load attaches to the store. The new handle replaces the previous one only once it is open.
func (d *DelegatedQuery) Load(ctx context.Context) error {
	store, err := d.open(ctx, d.target)
	if err != nil {
		return apperr.Wrap(apperr.KindBackend, err)
	}
	if d.store != nil {
		d.store.Close()
	}
	d.store = store
	return nil
}

// Lookup issues exactly one query. Store failures are returned as backend errors, never retried.
func (d *DelegatedQuery) Lookup(ctx context.Context, addr uint32) (string, error) {
	if d.store == nil {
		return "", apperr.ErrLookup
	}
	country, city, err := d.store.QueryRange(ctx, addr)
	if err != nil {
		var e *apperr.Error
		if errors.As(err, &e) {
			return "", err
		}
		return "", apperr.Wrap(apperr.KindBackend, err)
	}
	return country + d.separator + city, nil
}

// Close detaches from the store.
func (d *DelegatedQuery) Close() error {
	if d.store == nil {
		return nil
	}
	err := d.store.Close()
	d.store = nil
	return err
}
