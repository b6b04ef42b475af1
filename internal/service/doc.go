// Package service implements business logic for servermap.
//
// This package coordinates between the HTTP handlers and the repository
// layer: validation, filter merging via filtermap.Merger, and event
// publishing.
//
// # Services
//
// ViewService manages saved views. Applying a filter to a view merges it into
// the view's stored navigation state, persists the new serialized filter list
// and short hint, and returns the filtered map address the client navigates to.
//
// # Event System
//
// Services publish events via EventBus for real-time updates to connected
// clients via Server-Sent Events (SSE).
package service
