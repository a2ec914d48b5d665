// Package service implements the business logic of the Settleline API:
// category and task curation with ordering and count ceilings, per-user
// progress recomputation, the notification side-channel with its merge
// window, and account management. Services depend on narrow repository
// interfaces and return sentinel errors from errors.go; handlers translate
// those into API error payloads.
package service
