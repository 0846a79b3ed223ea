// Package driving defines the interfaces external actors use to call INTO core.
//
// These are the "driving" or "primary" ports in hexagonal architecture.
// The CLI, TUI, MCP server and launcher plugin all depend on these
// interfaces, and core services implement them.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or service package
package driving
