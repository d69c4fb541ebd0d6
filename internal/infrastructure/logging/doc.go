// Package logging provides structured logging using uber/zap.
//
// This package offers production-ready logging with two modes:
//   - Production: JSON output for machine parsing
//   - Development: Colored console output for human readability
//
// Session identifiers double as credentials for the proxied portal account, so
// they are never logged verbatim. Use the Session field helper, which emits a
// short BLAKE2b fingerprint that still lets log lines for one session be
// correlated.
//
// Example Usage:
//
//	logger := logging.NewDefault()
//	logger.Info("Proxy request", zap.String("target", target), logging.Session(id))
//	logger.Error("Origin unreachable", zap.Error(err))
package logging
