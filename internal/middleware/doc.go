// Package middleware provides HTTP middleware for the Settleline API.
//
// The chain assembled in cmd/server covers request IDs, structured request
// logging, panic recovery, CORS, gzip compression, and rate limiting. Auth
// and AdminAuth validate bearer tokens and put the caller's id and role in
// the request context, readable via GetUserID and GetRole.
//
// Rate limiting is backed by a pluggable LimitStore: the in-memory token
// bucket for a single process, or the Redis fixed window when several API
// instances share one limit.
package middleware
