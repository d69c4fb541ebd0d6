// Package middleware holds the gin middleware placed in front of every route:
// CORS, per-IP rate limiting, hardening headers, request IDs, structured
// request logs, panic recovery and cache headers for the client shell.
package middleware
