// Package mcp provides an MCP (Model Context Protocol) server adapter.
// It lets AI assistants read the user's agenda through the same query
// path as the command line.
package mcp

import "errors"

// ErrMissingAgendaService is returned when the agenda service is not provided.
var ErrMissingAgendaService = errors.New("mcp: agenda service is required")
