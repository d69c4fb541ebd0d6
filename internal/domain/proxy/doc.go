// Package proxy carries one client request to the origin and back.
//
// For each hop the Service:
//  1. resolves the target (origin-relative paths are appended to the base origin)
//  2. obtains a fetcher bound to the session's cookie jar
//  3. forwards the request, minus the proxy's own control fields
//  4. passes images through unchanged
//  5. decodes and rewrites everything else through the transform pipeline
//
// The origin status code and the session state travel with the Response, so
// callers can tell "no such session" from "origin rejected the credentials"
// without reading the page.
package proxy
