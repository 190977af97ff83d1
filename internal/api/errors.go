// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

// Package api provides HTTP handlers for the Cartographus application.
//
// errors.go - Common API error definitions
//
// This file contains sentinel errors for common API error conditions.
package api

import "errors"

// Common API errors
var (
	// ErrSourceNotFound indicates a requested data source is not registered.
	ErrSourceNotFound = errors.New("data source not registered")

	// ErrSourceExists indicates a source registration would collide with
	// an existing source name.
	ErrSourceExists = errors.New("data source already registered")
)
