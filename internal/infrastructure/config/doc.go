// Package config provides 12-factor configuration management for the proxy.
//
// Configuration is layered: built-in defaults, then an optional YAML file named
// by CONFIG_FILE, then environment variables. CLI flags in cmd/server override
// the result for development flexibility.
//
// Configuration Sections:
//   - Server: HTTP listener settings (port, host, shutdown grace)
//   - Origin: Proxied portal base URL, timeout, redirects, user agent
//   - Session: Session lifetime and sweep cadence
//   - Logging: Log level and output format
//   - RateLimit: Per-IP inbound rate limiting
//   - Static: Client shell directory and cacheable asset globs
//   - Mock: Demonstration origin toggle
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	fmt.Printf("Proxying %s on %s:%s\n", cfg.Origin.BaseURL, cfg.Server.Host, cfg.Server.Port)
//
// Environment Variables:
//   - PORT, HOST, SHUTDOWN_TIMEOUT
//   - ORIGIN_BASE_URL, ORIGIN_TIMEOUT, ORIGIN_MAX_REDIRECTS, ORIGIN_USER_AGENT, ORIGIN_RATE_LIMIT_RPS
//   - SESSION_TTL, SESSION_SWEEP_INTERVAL
//   - LOG_LEVEL, LOG_DEV
//   - RATE_LIMIT_RPS, RATE_LIMIT_BURST, RATE_LIMIT_ENABLED
//   - STATIC_DIR, STATIC_CACHE_GLOBS
//   - MOCK_ORIGIN_ENABLED
package config
