// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package datasource

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tomtom215/cartographus/internal/protocol"
)

// FilesystemSource serves tiles laid out on disk as root/{z}/{x}/{y}.ext.
type FilesystemSource struct {
	root string
	ext  string
	meta Metadata
}

// NewFilesystemSource builds a FilesystemSource rooted at root, serving
// files named {z}/{x}/{y}.ext.
func NewFilesystemSource(root, ext string, meta Metadata) *FilesystemSource {
	if meta.Format == "" {
		meta.Format = protocol.FormatFromExtension(ext)
	}
	return &FilesystemSource{root: root, ext: ext, meta: meta}
}

func (s *FilesystemSource) path(coord protocol.TileCoord) string {
	return filepath.Join(s.root, fmt.Sprintf("%d", coord.Z), fmt.Sprintf("%d", coord.X), fmt.Sprintf("%d.%s", coord.Y, s.ext))
}

func (s *FilesystemSource) Metadata() Metadata { return s.meta }

func (s *FilesystemSource) TileFormat() protocol.TileFormat { return DefaultTileFormat(s) }

func (s *FilesystemSource) GetTile(ctx context.Context, coord protocol.TileCoord) ([]byte, bool, error) {
	data, err := os.ReadFile(s.path(coord))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, WrapError("filesystem read failed", err)
	}
	return data, true, nil
}

func (s *FilesystemSource) HasTile(ctx context.Context, coord protocol.TileCoord) (bool, error) {
	_, err := os.Stat(s.path(coord))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, WrapError("filesystem stat failed", err)
	}
	return true, nil
}

func (s *FilesystemSource) GetTiles(ctx context.Context, coords []protocol.TileCoord) (map[protocol.TileCoord][]byte, error) {
	return GetTilesSequential(ctx, s, coords)
}
