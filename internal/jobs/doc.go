// Package jobs contains background jobs that run alongside the HTTP server.
// Each job owns its schedule and exposes a Start/Stop lifecycle driven from
// cmd/server.
package jobs
