// Package repository implements SurrealDB data access for the Settleline
// API. Repositories take the database.Database interface, build SurrealQL
// with bound variables, and parse the driver's map-shaped results back into
// model types. Lookups return (nil, nil) for missing records; callers decide
// whether absence is an error.
package repository
