// Package model defines the domain types for the Settleline API.
//
// Models are plain structs with JSON tags; validation lives on the request
// types as Validate() methods returning field-level errors, and API error
// payloads are built through the constructors in errors.go so status codes
// and error codes stay consistent across handlers.
//
// Identity: categories and tasks are keyed by database-native record ids.
// Renaming an entity never changes its identity or requires reference
// rewrites.
package model
