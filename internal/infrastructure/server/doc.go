// Package server assembles the proxy: it builds the session registry, origin
// client factory, transform pipeline and handlers from configuration, mounts
// them on a gin engine behind the middleware chain, and serves the result
// with gzip compression until its context is cancelled.
package server
