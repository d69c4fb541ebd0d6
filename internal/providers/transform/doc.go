// Package transform rewrites origin pages into small proxy-routed documents.
//
// Each step is a pass over the parsed tree:
//  1. strip heavy elements, page chrome and comments
//  2. drop every image except CAPTCHA challenges
//  3. select the content region (main, #main-content, #content, .content,
//     .container, body; first match wins)
//  4. reduce attributes to an allow-list
//  5. route links through /proxy with the session ID
//  6. route retained images the same way
//  7. point forms at /proxy, carrying the real action in hidden fields
//  8. wrap the region in a fixed shell with an inline stylesheet
//
// Running the pipeline over its own output keeps every destination: proxy
// URLs are unwrapped before being rewritten, and forms that already post to
// the proxy keep their embedded action.
//
// Forms reserve the field names url and sessionId for the proxy. An origin
// input with either name is replaced by the control field and its value is
// lost; a logger set with WithLogger reports this at debug level.
//
// The output is optimized for size on slow links. It is not a security
// sanitizer.
//
// Example Usage:
//
//	p, err := transform.New("https://erp.example.edu")
//	out, err := p.Transform(transform.Input{
//		HTML:      transform.Decode(body, resp.Header.Get("Content-Type")),
//		SessionID: sessionID,
//		PageURL:   resp.FinalURL,
//	})
package transform
