// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - CalendarProvider: Opens connections to a calendar backend
//   - Connection: Range-restricted appointment query, scoped to one call
//   - Appointment: Per-field access to a single record
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
//   - MeetingCache: Stores materialised query results. Without it, every
//     query reaches the provider.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or provider package
package driven
