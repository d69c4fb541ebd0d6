/*
Package monitoring provides Prometheus metrics for the proxy.

# Overview

Each Metrics value owns a private registry. Nothing is registered on the
global default registry, so tests and multiple servers in one process never
collide.

# Metrics

  - HTTP requests by route template (count, latency, sizes)
  - Origin round trips by outcome, and the breaker state
  - Sessions created, expired, invalidated and currently registered
  - Bytes into and out of the transform pipeline (the bandwidth saved)
  - Suspected login prompts and demo stats cache lookups

# Usage

	metrics := monitoring.NewMetrics()
	router.Use(monitoring.Middleware(metrics))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	timer := monitoring.NewTimer(metrics, http.MethodGet)
	// ... origin request ...
	timer.Stop("ok")
*/
package monitoring
