// Package repositories implements SQLite persistence for users and their sign-in records.
//
// Each repository handles CRUD operations with atomic sequence generation for human-readable ordering.
// All repositories support soft deletes via deleted_at timestamps and exclude deleted records from queries by default.
//
// Key Implementations:
//   - [UserRepository] : mock platform profiles with platform-based lookups
//   - [SessionRepository] : remembered sign-ins; a revoked session is a soft-deleted row
//
// Sequence numbers provide stable, human-readable ordering independent of UUIDs and creation timestamps.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
