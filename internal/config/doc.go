// Package config loads and validates application configuration from
// environment variables.
//
// All settings have development defaults so a fresh checkout boots against a
// local SurrealDB; Validate() tightens the rules in production (notably the
// JWT secret length and placeholder checks).
package config
