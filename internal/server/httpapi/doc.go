// Package httpapi is the users server's REST surface: a chi router, the
// {success, data, message, error} envelope, and the request middleware
// (request ids, access logs, panic recovery, login throttling).
package httpapi
