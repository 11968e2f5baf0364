// Package mcp provides an MCP (Model Context Protocol) server adapter
// for codesignbot. It lets AI assistants evaluate design points and
// place them on the shared board.
package mcp

import "errors"

// ErrMissingClassifier is returned when the classifier port is not provided.
var ErrMissingClassifier = errors.New("mcp: classifier is required")

// ErrMissingPlacer is returned when the placer port is not provided.
var ErrMissingPlacer = errors.New("mcp: placer is required")

// ErrMissingRegions is returned when the region manager port is not provided.
var ErrMissingRegions = errors.New("mcp: region manager is required")
