// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package webhook

import (
	"encoding/base64"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// SchemaKind selects how an incoming payload is validated.
type SchemaKind string

const (
	// SchemaGeoJSON requires a top-level "type" of Feature or
	// FeatureCollection.
	SchemaGeoJSON SchemaKind = "geojson"
	// SchemaCustom requires a fixed set of top-level fields.
	SchemaCustom SchemaKind = "custom"
	// SchemaRaw performs no validation; the body is base64-wrapped.
	SchemaRaw SchemaKind = "raw"
)

// Schema describes how a source's payloads are validated.
type Schema struct {
	Kind           SchemaKind `json:"type"`
	RequiredFields []string   `json:"required_fields,omitempty"`
}

// validateAndParse checks body against schema and returns the decoded
// JSON value to broadcast.
func validateAndParse(schema Schema, body []byte) (interface{}, error) {
	switch schema.Kind {
	case SchemaGeoJSON:
		var value map[string]interface{}
		if err := json.Unmarshal(body, &value); err != nil {
			return nil, invalidPayload(err.Error())
		}
		typ, _ := value["type"].(string)
		if typ != "Feature" && typ != "FeatureCollection" {
			return nil, invalidPayload("expected Feature or FeatureCollection, got " + typ)
		}
		return value, nil

	case SchemaCustom:
		var value map[string]interface{}
		if err := json.Unmarshal(body, &value); err != nil {
			return nil, invalidPayload(err.Error())
		}
		for _, field := range schema.RequiredFields {
			if _, ok := value[field]; !ok {
				return nil, invalidPayload("missing required field: " + field)
			}
		}
		return value, nil

	case SchemaRaw:
		return map[string]interface{}{
			"type": "raw",
			"data": base64.StdEncoding.EncodeToString(body),
		}, nil

	default:
		return nil, invalidPayload("unknown schema type: " + string(schema.Kind))
	}
}

// applyTransform extracts a sub-value from data following a dotted,
// optionally array-indexed path like "features[0].properties.name".
func applyTransform(path string, data interface{}) (interface{}, error) {
	value := data
	for _, segment := range strings.Split(path, ".") {
		if segment == "" {
			continue
		}

		field := segment
		var index = -1
		if bracket := strings.IndexByte(segment, '['); bracket >= 0 {
			field = segment[:bracket]
			idxStr := strings.TrimSuffix(segment[bracket+1:], "]")
			n, err := strconv.Atoi(idxStr)
			if err != nil {
				return nil, invalidPayload("invalid array index in transform: " + segment)
			}
			index = n
		}

		if field != "" {
			obj, ok := value.(map[string]interface{})
			if !ok {
				return nil, invalidPayload("field '" + field + "' not found")
			}
			next, ok := obj[field]
			if !ok {
				return nil, invalidPayload("field '" + field + "' not found")
			}
			value = next
		}

		if index >= 0 {
			arr, ok := value.([]interface{})
			if !ok || index >= len(arr) {
				return nil, invalidPayload("index out of bounds in transform: " + segment)
			}
			value = arr[index]
		}
	}
	return value, nil
}
