// Copyright (c) Roman Atachiants and contributors. All rights reserved.
// Licensed under the MIT license. See LICENSE file in the project root for details.

// Package store persists catalog sources and animation clocks in a single
// bbolt database, so a host application can restore a session where it left.
package store

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/kelindar/tileset"
	bolt "go.etcd.io/bbolt"
)

var (
	bucketClocks   = []byte("clocks")
	bucketCatalogs = []byte("catalogs")
)

// ErrNotFound is returned when no entry is stored under a name
var ErrNotFound = errors.New("store: entry not found")

// Store is a persistent store of catalog sources and clocks.
type Store struct {
	db *bolt.DB
}

// Open opens or creates the store at the given path.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("store: failed to open '%s': %w", path, err)
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{bucketClocks, bucketCatalogs} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: failed to create buckets: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveClock persists the elapsed time of the clock under the given name.
func (s *Store) SaveClock(name string, clock *tileset.Clock) error {
	var value [8]byte
	binary.BigEndian.PutUint64(value[:], uint64(clock.Elapsed()))

	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketClocks).Put([]byte(name), value[:])
	})
}

// RestoreClock sets the clock to the elapsed time stored under the given name.
func (s *Store) RestoreClock(name string, clock *tileset.Clock) error {
	var elapsed time.Duration
	if err := s.db.View(func(tx *bolt.Tx) error {
		value := tx.Bucket(bucketClocks).Get([]byte(name))
		switch {
		case value == nil:
			return fmt.Errorf("%w: clock '%s'", ErrNotFound, name)
		case len(value) != 8:
			return fmt.Errorf("store: invalid clock '%s' of %d bytes", name, len(value))
		}

		elapsed = time.Duration(binary.BigEndian.Uint64(value))
		return nil
	}); err != nil {
		return err
	}

	return clock.Restore(elapsed)
}

// PutSource stores a catalog source under the given name, as a YAML manifest.
func (s *Store) PutSource(name string, src tileset.Source) error {
	var buf bytes.Buffer
	if err := tileset.WriteManifest(&buf, src); err != nil {
		return err
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketCatalogs).Put([]byte(name), buf.Bytes())
	})
}

// Source reads the catalog source stored under the given name.
func (s *Store) Source(name string) (tileset.Source, error) {
	var data []byte
	if err := s.db.View(func(tx *bolt.Tx) error {
		value := tx.Bucket(bucketCatalogs).Get([]byte(name))
		if value == nil {
			return fmt.Errorf("%w: catalog '%s'", ErrNotFound, name)
		}

		// Values are only valid during the transaction
		data = bytes.Clone(value)
		return nil
	}); err != nil {
		return tileset.Source{}, err
	}

	return tileset.ReadManifest(bytes.NewReader(data))
}

// Catalog reads and builds the catalog stored under the given name.
func (s *Store) Catalog(name string, opts ...tileset.Option) (*tileset.Catalog, error) {
	src, err := s.Source(name)
	if err != nil {
		return nil, err
	}

	return tileset.Build(src, opts...)
}

// Names returns the names of all stored catalogs, in key order.
func (s *Store) Names() (names []string, err error) {
	err = s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketCatalogs).ForEach(func(k, _ []byte) error {
			names = append(names, string(k))
			return nil
		})
	})
	return
}
