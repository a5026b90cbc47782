// Package core provides the business logic for spreadsheet import operations.
//
// This package is the heart of the contact formatter, containing all domain
// logic independent of any UI or transport layer. It can be used by web
// handlers, CLI tools, or tests without modification.
//
// # Architecture
//
// The package is organized around several key concepts:
//
//   - Import jobs: Each upload becomes an asynchronous job with a UUID,
//     phased progress reporting, and cancellation via context.
//   - Service: The main entry point for all operations (import, progress,
//     cancel, current result).
//   - Session state: The most recent completed result is held in memory and
//     replaced wholesale by each successful import. Nothing is persisted.
//
// # Import Pipeline
//
// An import runs through fixed phases, broadcast to subscribers via
// [Service.SubscribeProgress]:
//
//  1. reading   - the file bytes are parsed into headers and rows
//  2. mapping   - each row is mapped onto the contact schema under the
//     selected profile
//  3. enhancing - optional LLM cleanup pass; any failure falls back to
//     the mapped records
//  4. complete  - the result replaces the session state
//
// A file that cannot be read fails the job in the reading phase and leaves
// any prior completed result untouched. Per-field mapping problems degrade
// to raw passthrough and never fail a row.
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages using [MapError].
// Each error category has a unique code for support reference:
//
//   - FILE001-FILE005: File errors (size, encoding, format)
//   - VAL001-VAL002: Validation errors (profile, file type)
//   - IMP001-IMP004: Import errors (cancelled, timeout, not found)
//   - ENH001: Enhancement configuration errors
package core
