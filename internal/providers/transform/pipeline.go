package transform

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/GriffinCanCode/unilite/internal/infrastructure/logging"
)

// DefaultProxyPath is the endpoint every rewritten reference points at.
const DefaultProxyPath = "/proxy"

// controlFields matches the proxy's own form fields. Origin inputs that share
// these names are dropped, since the proxy consumes them before forwarding.
const controlFields = `input[name="url"], input[name="sessionId"]`

var (
	// strippedTags never carry data worth sending over a slow link.
	strippedTags = []string{
		"script", "style", "video", "audio", "iframe", "link",
		"noscript", "svg", "object", "embed", "canvas",
	}

	// chromeTags and chromeNames mark page furniture around the data.
	chromeTags  = []string{"header", "footer", "nav", "aside"}
	chromeNames = []string{"sidebar", "ads", "popup", "modal", "share-buttons", "social"}

	// regionSelectors are tried in order; the first match is the content region.
	regionSelectors = []string{"main", "#main-content", "#content", ".content", ".container", "body"}

	allowedAttrs = map[string]bool{
		"href": true, "src": true, "action": true, "method": true,
		"name": true, "id": true, "value": true, "type": true,
		"alt": true, "style": true, "class": true,
	}
)

const (
	captchaAlt   = "CAPTCHA Image"
	captchaClass = "captcha-img"
	captchaStyle = "min-height: 50px; min-width: 150px; background: #eee;"
)

// Input is one page to rewrite.
type Input struct {
	HTML string
	// SessionID is embedded in every rewritten reference.
	SessionID string
	// PageURL is the absolute address the page was served from. Relative
	// references resolve against it, or against the base origin when empty.
	PageURL string
}

// Pipeline rewrites origin pages into minimal proxy-routed documents.
// It holds no mutable state and is safe for concurrent use.
type Pipeline struct {
	base      *url.URL
	proxyPath string
	selector  string
	logger    *logging.Logger
}

// New creates a pipeline for the given base origin.
func New(baseOrigin string) (*Pipeline, error) {
	base, err := url.Parse(baseOrigin)
	if err != nil {
		return nil, fmt.Errorf("parse base origin: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("base origin %q must be absolute", baseOrigin)
	}
	return &Pipeline{
		base:      base,
		proxyPath: DefaultProxyPath,
		selector:  chromeSelector(),
		logger:    logging.NewNop(),
	}, nil
}

// WithLogger sets the logger used to report dropped origin fields.
func (p *Pipeline) WithLogger(logger *logging.Logger) *Pipeline {
	if logger != nil {
		p.logger = logger.Named("transform")
	}
	return p
}

func chromeSelector() string {
	parts := append([]string{}, chromeTags...)
	for _, name := range chromeNames {
		parts = append(parts, "."+name, "#"+name)
	}
	return strings.Join(parts, ", ")
}

// Transform runs every rewrite step over in and returns the assembled
// document. Missing containers yield an empty region, never an error.
func (p *Pipeline) Transform(in Input) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(in.HTML))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	page := p.pageURL(in.PageURL)
	title := doc.Find("title").First().Text()

	p.strip(doc)
	filterImages(doc)

	region := contentRegion(doc)
	if region == nil {
		return assemble(title, ""), nil
	}

	restrictAttributes(region)
	p.rewriteLinks(region, page, in.SessionID)
	p.rewriteImages(region, page, in.SessionID)
	p.rewriteForms(region, page, in.SessionID)

	body, err := region.Html()
	if err != nil {
		return "", fmt.Errorf("render region: %w", err)
	}
	return assemble(title, body), nil
}

func (p *Pipeline) pageURL(raw string) *url.URL {
	if raw == "" {
		return p.base
	}
	u, err := url.Parse(raw)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return p.base
	}
	return u
}

// strip removes heavy elements, page chrome and comments.
func (p *Pipeline) strip(doc *goquery.Document) {
	doc.Find(strings.Join(strippedTags, ", ")).Remove()
	doc.Find(p.selector).Remove()
	for _, n := range doc.Nodes {
		removeComments(n)
	}
}

func removeComments(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if c.Type == html.CommentNode {
			n.RemoveChild(c)
		} else {
			removeComments(c)
		}
		c = next
	}
}

// filterImages keeps only challenge images needed to log in.
func filterImages(doc *goquery.Document) {
	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		if !isCaptcha(s) {
			s.Remove()
			return
		}
		s.SetAttr("alt", captchaAlt)
	})
}

func isCaptcha(s *goquery.Selection) bool {
	src, _ := s.Attr("src")
	id, _ := s.Attr("id")
	return strings.Contains(strings.ToLower(src), "captcha") ||
		strings.Contains(strings.ToLower(id), "captcha")
}

// contentRegion returns the element whose children form the output, or nil.
func contentRegion(doc *goquery.Document) *goquery.Selection {
	for _, sel := range regionSelectors {
		if found := doc.Find(sel).First(); found.Length() > 0 {
			return found
		}
	}
	return nil
}

func restrictAttributes(region *goquery.Selection) {
	region.Find("*").Each(func(_ int, s *goquery.Selection) {
		for _, n := range s.Nodes {
			kept := n.Attr[:0]
			for _, a := range n.Attr {
				if a.Namespace == "" && allowedAttrs[strings.ToLower(a.Key)] {
					kept = append(kept, a)
				}
			}
			n.Attr = kept
		}
	})
}

func (p *Pipeline) rewriteLinks(region *goquery.Selection, page *url.URL, sessionID string) {
	region.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href := strings.TrimSpace(s.AttrOr("href", ""))
		if href == "" || skipLink(href) {
			return
		}
		target, ok := p.target(href, page)
		if !ok {
			s.RemoveAttr("href")
			return
		}
		s.SetAttr("href", p.proxyURL(target, sessionID))
	})
}

func (p *Pipeline) rewriteImages(region *goquery.Selection, page *url.URL, sessionID string) {
	region.Find("img[src]").Each(func(_ int, s *goquery.Selection) {
		src := strings.TrimSpace(s.AttrOr("src", ""))
		if src == "" {
			return
		}
		target, ok := p.target(src, page)
		if !ok {
			s.RemoveAttr("src")
			return
		}
		s.SetAttr("src", p.proxyURL(target, sessionID))
		s.SetAttr("class", captchaClass)
		s.SetAttr("style", captchaStyle)
	})
}

func (p *Pipeline) rewriteForms(region *goquery.Selection, page *url.URL, sessionID string) {
	region.Find("form").Each(func(_ int, s *goquery.Selection) {
		target := p.formTarget(s, page)

		controls := s.Find(controlFields)
		if controls.Length() > 0 && !p.isProxyEndpoint(strings.TrimSpace(s.AttrOr("action", ""))) {
			p.logger.Debug("Dropping origin form fields that collide with proxy control fields",
				zap.String("form_target", target),
				zap.Int("fields", controls.Length()),
			)
		}
		controls.Remove()
		s.SetAttr("action", p.proxyPath)
		s.SetAttr("method", "POST")

		for _, form := range s.Nodes {
			urlField := hiddenInput("url", target)
			form.InsertBefore(urlField, form.FirstChild)
			form.InsertBefore(hiddenInput("sessionId", sessionID), urlField.NextSibling)
		}
	})
}

// formTarget works out where the form really submits. A form that already
// posts to the proxy carries its destination in its url control field.
func (p *Pipeline) formTarget(form *goquery.Selection, page *url.URL) string {
	action := strings.TrimSpace(form.AttrOr("action", ""))
	if action == "" {
		action = "/"
	}

	if p.isProxyEndpoint(action) {
		if embedded, ok := p.unwrap(action); ok {
			return embedded
		}
		field := strings.TrimSpace(form.Find(`input[name="url"]`).First().AttrOr("value", ""))
		if field == "" {
			field = "/"
		}
		action = field
	}

	if target, ok := p.target(action, page); ok {
		return target
	}
	return p.base.ResolveReference(&url.URL{Path: "/"}).String()
}

// skipLink reports script pseudo-URLs and same-page fragments.
func skipLink(href string) bool {
	lower := strings.ToLower(href)
	return strings.HasPrefix(href, "#") ||
		strings.HasPrefix(lower, "javascript:") ||
		strings.HasPrefix(lower, "vbscript:")
}

func hiddenInput(name, value string) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Input,
		Data:     "input",
		Attr: []html.Attribute{
			{Key: "type", Val: "hidden"},
			{Key: "name", Val: name},
			{Key: "value", Val: value},
		},
	}
}
