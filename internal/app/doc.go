// Package app contains application services that orchestrate use cases.
// This is the application layer in Clean Architecture - it coordinates
// domain logic and infrastructure through ports.
//
// Application Layer Responsibilities:
//   - Orchestrate use cases (browse, search, add, edit, remove quotes; admin login)
//   - Apply input sanitization and limits before anything reaches storage
//   - Handle cross-cutting concerns (logging)
//
// What does NOT belong here:
//   - HTTP specifics such as cookies and status codes (that's adapters)
//   - Database queries (that's the store adapter)
//   - Core domain rules (that's the domain layer)
package app
