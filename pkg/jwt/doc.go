// Package jwt implements HMAC-signed bearer tokens for the Settleline API.
//
// Tokens carry only the user id and role; the default lifetime is seven
// days. The signing secret comes from configuration and must meet a minimum
// length — NewService refuses weak secrets outright.
package jwt
