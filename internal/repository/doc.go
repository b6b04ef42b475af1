// Package repository defines the data access interfaces for servermap.
//
// Saved views are the only persisted entity: a named navigation state
// (serialized filter list, short hint, period and end time) centered on one
// application. The actual implementation is in the sqlite subpackage.
//
// Lookups of a missing view return an error wrapping domain.ErrViewNotFound.
//
// # Schema Migration
//
// The sqlite repository creates its schema on startup. Tests run against
// in-memory databases.
package repository
