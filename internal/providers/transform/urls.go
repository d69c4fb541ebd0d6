package transform

import (
	"net/url"
	"strings"
)

// target resolves ref to the absolute origin URL it ultimately names.
// References that already point at the proxy are unwrapped first, so
// rewriting a rewritten page keeps every destination.
func (p *Pipeline) target(ref string, page *url.URL) (string, bool) {
	if embedded, ok := p.unwrap(ref); ok {
		return embedded, true
	}
	return resolve(ref, page)
}

// unwrap extracts the destination from a proxy URL such as
// "/proxy?url=https%3A%2F%2Fexample.edu%2F&sessionId=...".
func (p *Pipeline) unwrap(ref string) (string, bool) {
	u, err := url.Parse(ref)
	if err != nil || u.Scheme != "" || u.Host != "" || u.Path != p.proxyPath {
		return "", false
	}
	embedded := u.Query().Get("url")
	if embedded == "" {
		return "", false
	}
	return resolve(embedded, p.base)
}

func (p *Pipeline) isProxyEndpoint(ref string) bool {
	u, err := url.Parse(ref)
	return err == nil && u.Scheme == "" && u.Host == "" && u.Path == p.proxyPath
}

// proxyURL builds the proxy reference for an absolute target.
func (p *Pipeline) proxyURL(target, sessionID string) string {
	var b strings.Builder
	b.WriteString(p.proxyPath)
	b.WriteString("?url=")
	b.WriteString(url.QueryEscape(target))
	b.WriteString("&sessionId=")
	b.WriteString(url.QueryEscape(sessionID))
	return b.String()
}

func resolve(ref string, page *url.URL) (string, bool) {
	u, err := url.Parse(ref)
	if err != nil {
		return "", false
	}
	abs := page.ResolveReference(u)
	if !abs.IsAbs() {
		return "", false
	}
	return abs.String(), true
}
