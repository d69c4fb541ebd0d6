// Package main is the entry point for the UniLite proxy server.
//
// UniLite sits between a phone on a slow connection and the university ERP
// portal. Each page is fetched with the user's own origin session, stripped
// down to its content and sent back as a small self-contained document.
//
// Architecture:
//
//	Client shell (public/) → UniLite (/proxy) → ERP portal
//
// The server provides:
//   - Session-bound origin fetching with isolated cookie jars
//   - HTML rewrite pipeline (strip, select content, rewrite links/forms)
//   - Session and demo stats APIs
//   - Optional mock portal for demos (/mock-erp)
//   - Prometheus metrics and health checks
//
// Configuration:
//   - Environment variables (12-factor), optionally a YAML file via CONFIG_FILE
//   - CLI flags (override env vars)
//   - Defaults for development
//
// Usage:
//
//	# Production mode
//	./server -port 3001 -origin https://gietuerp.in
//
//	# Development mode (colored logs, debug level)
//	./server -dev
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown
package main
