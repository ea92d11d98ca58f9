// Package schemas holds the JSON Schemas for the digest input manifest and report.
package schemas

import _ "embed"

// Report is the JSON Schema of the digest report.
//
//go:embed report.schema.json
var Report string

// Input is the JSON Schema of the input manifest.
//
//go:embed input.schema.json
var Input string
