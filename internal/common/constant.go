// Package common contains shared constants and sentinel errors used across
// opvault components.
package common

// AuthorizationHeaderName is the HTTP header carrying the bearer access
// token on requests to the vault service.
const AuthorizationHeaderName = "Authorization"
