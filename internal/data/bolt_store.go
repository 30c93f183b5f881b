package data

import (
	"context"
	"encoding/binary"
	"fmt"
	"strings"
	"time"

	"github.com/TomasB/geoloc/internal/apperr"
	"go.etcd.io/bbolt"
)

// RangeBucket holds the numeric ranges: key is start|end as two big-endian
// uint32, value is "country_code,city".
var RangeBucket = []byte("ip_ranges_numeric")

// BoltStore implements RangeStore over a BoltDB file.
type BoltStore struct {
	db *bbolt.DB
}

// OpenBoltStore opens the BoltDB file at path read-only.
func OpenBoltStore(_ context.Context, path string) (RangeStore, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{
		Timeout:  1 * time.Second,
		ReadOnly: true,
	})
	if err != nil {
		return nil, fmt.Errorf("error opening the database: %w", err)
	}

	err = db.View(func(tx *bbolt.Tx) error {
		if tx.Bucket(RangeBucket) == nil {
			return fmt.Errorf("bucket %s not found", RangeBucket)
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &BoltStore{db: db}, nil
}

// RangeKey encodes the bucket key for [start, end].
func RangeKey(start, end uint32) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint32(key[0:4], start)
	binary.BigEndian.PutUint32(key[4:8], end)
	return key
}

// QueryRange finds the range with the greatest start not above addr and
// checks that it reaches addr.
func (s *BoltStore) QueryRange(_ context.Context, addr uint32) (string, string, error) {
	var country, city string
	err := s.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket(RangeBucket).Cursor()

		k, v := c.Seek(RangeKey(addr, ^uint32(0)))
		switch {
		case k == nil:
			k, v = c.Last()
		case binary.BigEndian.Uint32(k[0:4]) > addr:
			k, v = c.Prev()
		}
		if len(k) < 8 {
			return apperr.ErrLookup
		}

		start := binary.BigEndian.Uint32(k[0:4])
		end := binary.BigEndian.Uint32(k[4:8])
		if addr < start || addr > end {
			return apperr.ErrLookup
		}

		var ok bool
		country, city, ok = strings.Cut(string(v), ",")
		if !ok {
			return apperr.Wrap(apperr.KindParse, fmt.Errorf("malformed value for range %d-%d", start, end))
		}
		return nil
	})
	return country, city, err
}

// Close closes the database.
func (s *BoltStore) Close() error {
	return s.db.Close()
}
