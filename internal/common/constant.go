// Package common contains constants, sentinel errors and helpers shared by
// the client and the server.
package common

// RequestIDHeader carries the per-request correlation id on HTTP calls.
const RequestIDHeader = "X-Request-ID"
