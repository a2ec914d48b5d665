// Package handler contains the HTTP layer of the Settleline API.
//
// Handlers decode and validate request bodies, call into the service layer,
// and write the standard response envelope. Service errors are translated to
// API error payloads in one place, MapServiceError, so status codes and error
// codes stay consistent across endpoints.
package handler
