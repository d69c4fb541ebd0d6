// Package client vends HTTP fetchers bound to a session's cookie jar.
//
// Factory.ClientFor resolves a session ID to one of three states:
//   - active: the session's own jar, shared across its requests
//   - unknown: an ID nobody registered (or one that expired); fresh jar
//   - anonymous: no ID at all; fresh jar
//
// Built on go-resty/resty over the pooled transport of go-retryablehttp:
//   - No retries; a failed origin exchange fails the proxied request
//   - Bounded redirect following
//   - Per-exchange deadline, reported as ErrTimeout
//   - Shared circuit breaker, reported as ErrOriginUnavailable
//   - Optional global rate limit on origin traffic
//
// Responses below 500 are content, whatever their status. A 5xx answer is a
// *StatusError.
//
// Example Usage:
//
//	factory := client.NewFactory(registry, client.Options{MaxRedirects: 10})
//	fetcher, state := factory.ClientFor(sessionID)
//	resp, err := fetcher.Do(ctx, &client.Request{Method: http.MethodGet, URL: target})
package client
