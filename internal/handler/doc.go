// Package handler implements HTTP request handlers for the servermap API.
//
// # Handlers
//
// MapHandler exposes the stateless filtered map operations: composing an
// address from a navigation state and a new filter, decoding an address,
// checking filter records for UNKNOWN targets and locating the bucket of a
// time label.
//
// ViewHandler manages saved views, applying filters to them, and
// import/export of view documents.
//
// Middleware provides panic recovery, CORS and request logging.
//
// # Response Format
//
// Success responses return JSON data with appropriate status codes (200, 201).
// Error responses return JSON with {error, details} structure. Request bodies
// that carry filters are validated against embedded JSON schemas before
// processing.
//
// # Server-Sent Events
//
// The /events endpoint streams view changes so that open explorers can
// follow a shared view.
package handler
