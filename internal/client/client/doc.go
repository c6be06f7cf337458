// Package client contains the client-side building blocks that talk to the
// outside world.
//
// # Overview
//
//  1. The Client interface: the REST contract of the users backend
//     (Login, Register, UpdateUser, ChangePassword, Ping).
//  2. HTTPClient, its net/http implementation. Every response is decoded
//     from the {success, data, message} envelope into a typed value at this
//     boundary, so callers never look at loosely typed fields.
//  3. InitDatabase / RunMigrations, which open the local SQLite database
//     used as durable client storage and apply the embedded goose migrations.
//
// # Error Handling
//
// Transport failures (no response) wrap ErrUnavailable. Responses with
// success=false become *APIError carrying the server's code and message.
// Responses that cannot be decoded wrap ErrBadResponse.
//
// All operations accept a context.Context; HTTPClient is safe for
// concurrent use.
package client
