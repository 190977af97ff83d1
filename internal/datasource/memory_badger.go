// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

//go:build badger

package datasource

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/tomtom215/cartographus/internal/protocol"
)

// tileKeyPrefix namespaces tile keys within a shared Badger instance.
const tileKeyPrefix = "tile:"

func tileKey(datasetID string, coord protocol.TileCoord) []byte {
	return []byte(fmt.Sprintf("%s%s:%d/%d/%d", tileKeyPrefix, datasetID, coord.Z, coord.X, coord.Y))
}

// BadgerMemorySource is a durable variant of MemorySource: tile bytes
// survive process restarts in an embedded Badger key-value store,
// keyed by "tile:<dataset_id>:<z>/<x>/<y>", a prefix namespace the way the
// teacher's BadgerSessionStore namespaces session keys.
type BadgerMemorySource struct {
	db        *badger.DB
	datasetID string
	meta      Metadata
}

// NewBadgerMemorySource builds a BadgerMemorySource over an already-open
// Badger handle, namespaced to datasetID.
func NewBadgerMemorySource(db *badger.DB, datasetID string, meta Metadata) *BadgerMemorySource {
	return &BadgerMemorySource{db: db, datasetID: datasetID, meta: meta}
}

func (s *BadgerMemorySource) Metadata() Metadata { return s.meta }

func (s *BadgerMemorySource) TileFormat() protocol.TileFormat { return DefaultTileFormat(s) }

func (s *BadgerMemorySource) GetTile(ctx context.Context, coord protocol.TileCoord) ([]byte, bool, error) {
	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(tileKey(s.datasetID, coord))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			data = append([]byte(nil), val...)
			return nil
		})
	})
	if err != nil {
		return nil, false, WrapError("badger read failed", err)
	}
	if data == nil {
		return nil, false, nil
	}
	return data, true, nil
}

func (s *BadgerMemorySource) HasTile(ctx context.Context, coord protocol.TileCoord) (bool, error) {
	found := false
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(tileKey(s.datasetID, coord))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return nil
	})
	if err != nil {
		return false, WrapError("badger stat failed", err)
	}
	return found, nil
}

func (s *BadgerMemorySource) GetTiles(ctx context.Context, coords []protocol.TileCoord) (map[protocol.TileCoord][]byte, error) {
	return GetTilesSequential(ctx, s, coords)
}

// SetTile inserts or overwrites a tile's bytes durably.
func (s *BadgerMemorySource) SetTile(coord protocol.TileCoord, data []byte) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(tileKey(s.datasetID, coord), data)
	})
}

// RemoveTile deletes a tile, if present.
func (s *BadgerMemorySource) RemoveTile(coord protocol.TileCoord) error {
	return s.db.Update(func(txn *badger.Txn) error {
		err := txn.Delete(tileKey(s.datasetID, coord))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		return err
	})
}
