// Package storage is the client's durable key-value store. Session and theme
// state live under their own keys ("user", "theme"); values are opaque bytes.
//
// Get returns (nil, nil) for a missing key so callers can treat "absent" and
// "empty" the same way.
package storage
