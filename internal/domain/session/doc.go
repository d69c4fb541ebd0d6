// Package session holds the per-client browsing contexts the proxy keeps
// against the origin portal.
//
// Each Session owns an isolated cookie jar with browser-like domain, path and
// expiry handling (public suffix aware). Sessions live only in process memory.
//
// Lifecycle:
//   - Create: random 128-bit ID, empty jar, absolute expiry of CreatedAt + TTL
//   - Get: bumps LastUsed; an expired session is evicted and reported missing
//   - Invalidate: idempotent removal
//   - Run: background sweep of expired sessions
//
// Requests on one session are serialized with Acquire so a jar is never read
// while another request is still applying Set-Cookie headers to it.
//
// Example Usage:
//
//	reg := session.NewRegistry(session.Options{TTL: 24 * time.Hour})
//	go reg.Run(ctx, 10*time.Minute)
//
//	s, err := reg.Create()
//	release, err := s.Acquire(ctx)
//	defer release()
package session
