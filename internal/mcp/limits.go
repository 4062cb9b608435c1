package mcp

import "github.com/fuabioo/gridq/internal/constants"

const (
	// MaxInlineRows caps rows passed directly in a tool call
	MaxInlineRows = constants.MaxRowCount

	// DatasetCacheSize is how many loaded files the server keeps in memory
	DatasetCacheSize = 16

	// MaxOutputBytes is the maximum size of JSON output (5MB)
	MaxOutputBytes = 5 * 1024 * 1024
)
