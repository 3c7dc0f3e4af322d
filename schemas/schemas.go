// Package schemas holds the JSON Schemas for the artifacts the CLI writes.
package schemas

import _ "embed"

// Analysis is the schema of a single posting analysis artifact.
//
//go:embed analysis.schema.json
var Analysis string

// AnalysisFile is the file name of Analysis within this directory.
const AnalysisFile = "analysis.schema.json"
