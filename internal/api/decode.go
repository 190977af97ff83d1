// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package api

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/tomtom215/cartographus/internal/validation"
)

// decodeJSON reads and decodes a JSON request body, rejecting unknown
// fields so typo'd admin API requests fail loudly instead of silently
// being ignored.
func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// validateStruct runs the shared validator/v10 singleton over dst,
// returning nil when dst passes validation.
func validateStruct(dst interface{}) *validation.RequestValidationError {
	return validation.ValidateStruct(dst)
}
