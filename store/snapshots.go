/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */

// Package store persists tournament snapshots in any httpcache.Cache
// backend: S3, a local diskv directory or memory.
package store

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/gregjones/httpcache"
	"go.uber.org/zap"

	"github.com/mikeb26/ttswiss/internal"
	"github.com/mikeb26/ttswiss/swiss"
)

const (
	keyPrefix = "tournament/"
	latestKey = keyPrefix + "latest"
	indexKey  = keyPrefix + "index"
)

var ErrNotFound = errors.New("snapshot not found")

type Snapshots struct {
	cache  httpcache.Cache
	logger *zap.Logger
}

func NewSnapshots(cache httpcache.Cache, logger *zap.Logger) *Snapshots {
	return &Snapshots{cache: cache, logger: logger}
}

// KeyFor returns the key a record is saved under, one per tournament day.
func KeyFor(rec swiss.Record) string {
	return keyPrefix + internal.DateKey(rec.Settings.Date)
}

// Save writes rec under its day key and makes it the latest snapshot.
func (s *Snapshots) Save(rec swiss.Record) (string, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return "", errors.Wrap(err, "store.Save: encode")
	}

	key := KeyFor(rec)
	s.cache.Set(key, data)
	s.cache.Set(latestKey, []byte(key))

	keys, err := s.List()
	if err != nil {
		return "", err
	}
	idx := sort.SearchStrings(keys, key)
	if idx == len(keys) || keys[idx] != key {
		keys = append(keys, "")
		copy(keys[idx+1:], keys[idx:])
		keys[idx] = key
		if err := s.writeIndex(keys); err != nil {
			return "", err
		}
	}

	s.logger.Debug("store.Save: saved snapshot", zap.String("key", key),
		zap.Int("rounds", len(rec.Rounds)))

	return key, nil
}

// Load reads the snapshot stored under key. A bare date is accepted in
// place of the full key.
func (s *Snapshots) Load(key string) (swiss.Record, error) {
	if !strings.HasPrefix(key, keyPrefix) {
		key = keyPrefix + key
	}

	var rec swiss.Record
	data, ok := s.cache.Get(key)
	if !ok {
		return rec, errors.Wrapf(ErrNotFound, "key %v", key)
	}
	if err := json.Unmarshal(data, &rec); err != nil {
		return rec, errors.Wrapf(err, "store.Load: decode %v", key)
	}

	return rec, nil
}

// Latest loads the most recently saved snapshot.
func (s *Snapshots) Latest() (swiss.Record, error) {
	key, ok := s.cache.Get(latestKey)
	if !ok || len(key) == 0 {
		return swiss.Record{}, errors.Wrap(ErrNotFound, "no latest snapshot")
	}
	return s.Load(string(key))
}

// List returns every saved key in ascending order.
func (s *Snapshots) List() ([]string, error) {
	data, ok := s.cache.Get(indexKey)
	if !ok {
		return nil, nil
	}
	var keys []string
	if err := json.Unmarshal(data, &keys); err != nil {
		return nil, errors.Wrap(err, "store.List: decode index")
	}
	sort.Strings(keys)

	return keys, nil
}

// Delete removes a snapshot. Deleting the latest snapshot clears the latest
// pointer.
func (s *Snapshots) Delete(key string) error {
	if !strings.HasPrefix(key, keyPrefix) {
		key = keyPrefix + key
	}
	keys, err := s.List()
	if err != nil {
		return err
	}
	idx := sort.SearchStrings(keys, key)
	if idx == len(keys) || keys[idx] != key {
		return errors.Wrapf(ErrNotFound, "key %v", key)
	}

	s.cache.Delete(key)
	if latest, ok := s.cache.Get(latestKey); ok && string(latest) == key {
		s.cache.Delete(latestKey)
	}

	return s.writeIndex(append(keys[:idx], keys[idx+1:]...))
}

func (s *Snapshots) writeIndex(keys []string) error {
	data, err := json.Marshal(keys)
	if err != nil {
		return errors.Wrap(err, "store: encode index")
	}
	s.cache.Set(indexKey, data)
	return nil
}
