package proxy

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/antchfx/htmlquery"
	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/unilite/internal/infrastructure/logging"
	"github.com/GriffinCanCode/unilite/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/unilite/internal/providers/http/client"
	"github.com/GriffinCanCode/unilite/internal/providers/transform"
)

// HTMLContentType is the type of every transformed page.
const HTMLContentType = "text/html; charset=utf-8"

// Control fields consumed by the proxy and never forwarded to the origin.
const (
	FieldURL       = "url"
	FieldSessionID = "sessionId"
)

// loginMarkers finds password inputs and CAPTCHA widgets.
const loginMarkers = `//input[translate(@type,'PASSWORD','password')='password']` +
	` | //img[contains(translate(@src,'CAPTCHA','captcha'),'captcha') or contains(translate(@id,'CAPTCHA','captcha'),'captcha')]` +
	` | //input[contains(translate(@name,'CAPTCHA','captcha'),'captcha')]`

// Clients vends cookie-bound fetchers.
type Clients interface {
	ClientFor(sessionID string) (client.Fetcher, client.State)
}

// Transformer rewrites an HTML page.
type Transformer interface {
	Transform(in transform.Input) (string, error)
}

// Request is one proxied hop.
type Request struct {
	Method    string
	Target    string
	SessionID string
	// Form holds the submitted fields for POST. Control fields are dropped.
	Form url.Values
}

// Response is what goes back to the client.
type Response struct {
	// OriginStatus is the origin's status code, passed through for diagnostics.
	OriginStatus int
	ContentType  string
	Body         []byte
	SessionState client.State
	// LoginPrompt is set when a page outside the login flow asks for
	// credentials, which usually means the origin session was lost.
	LoginPrompt bool
}

// Service resolves, fetches and rewrites proxied requests.
type Service struct {
	clients  Clients
	pipeline Transformer
	base     *url.URL
	metrics  *monitoring.Metrics
	logger   *logging.Logger
}

// Options configures a Service.
type Options struct {
	BaseURL string
	Metrics *monitoring.Metrics
	Logger  *logging.Logger
}

// NewService creates a proxy service.
func NewService(clients Clients, pipeline Transformer, opts Options) (*Service, error) {
	base, err := url.Parse(opts.BaseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid base origin %q", opts.BaseURL)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewNop()
	}
	return &Service{
		clients:  clients,
		pipeline: pipeline,
		base:     base,
		metrics:  opts.Metrics,
		logger:   opts.Logger.Named("proxy"),
	}, nil
}

// Do performs one proxied hop. Origin failures come back as *OriginError;
// nothing is retried.
func (s *Service) Do(ctx context.Context, req Request) (*Response, error) {
	target, err := s.ResolveTarget(req.Target)
	if err != nil {
		return nil, err
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	if method != http.MethodGet && method != http.MethodPost {
		return nil, fmt.Errorf("%w: method %s", ErrInvalidTarget, method)
	}

	fetcher, state := s.clients.ClientFor(req.SessionID)
	log := s.logger.With(zap.String("target", target), logging.Session(req.SessionID), zap.String("session_state", string(state)))
	if state == client.StateUnknown {
		log.Info("Unknown or expired session, fetching without cookies")
	}

	originReq := &client.Request{
		Method: method,
		URL:    target,
		Header: s.headers(target),
	}
	if method == http.MethodPost {
		originReq.Form = forwardedForm(req.Form)
	}

	resp, err := fetcher.Do(ctx, originReq)
	if err != nil {
		return nil, &OriginError{Target: target, Err: err}
	}

	contentType := resp.Header.Get("Content-Type")
	log.Info("Proxy response",
		zap.Int("status", resp.StatusCode),
		zap.String("content_type", contentType),
		zap.Int("bytes", len(resp.Body)),
	)

	if len(resp.Body) == 0 {
		return nil, &OriginError{Target: target, Err: ErrEmptyResponse}
	}

	if imageType, ok := imageContentType(contentType, resp.Body); ok {
		return &Response{
			OriginStatus: resp.StatusCode,
			ContentType:  imageType,
			Body:         resp.Body,
			SessionState: state,
		}, nil
	}

	page := transform.Decode(resp.Body, contentType)

	loginPrompt := looksLikeLogin(page) && !strings.Contains(strings.ToLower(target), "login")
	if loginPrompt {
		log.Warn("Login prompt outside login flow, session may be lost")
		if s.metrics != nil {
			s.metrics.IncLoginPrompts()
		}
	}

	out, err := s.pipeline.Transform(transform.Input{
		HTML:      page,
		SessionID: req.SessionID,
		PageURL:   resp.FinalURL,
	})
	if err != nil {
		return nil, fmt.Errorf("transform page: %w", err)
	}
	if s.metrics != nil {
		s.metrics.RecordTransform(len(resp.Body), len(out))
	}

	return &Response{
		OriginStatus: resp.StatusCode,
		ContentType:  HTMLContentType,
		Body:         []byte(out),
		SessionState: state,
		LoginPrompt:  loginPrompt,
	}, nil
}

// ResolveTarget turns a client-supplied target into an absolute http(s) URL.
// Origin-relative paths are appended to the base origin.
func (s *Service) ResolveTarget(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrMissingTarget
	}

	if strings.HasPrefix(raw, "/") && !strings.HasPrefix(raw, "//") {
		joined := strings.TrimRight(s.base.String(), "/") + raw
		if _, err := url.Parse(joined); err != nil {
			return "", fmt.Errorf("%w: %v", ErrInvalidTarget, err)
		}
		return joined, nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidTarget, err)
	}
	if !u.IsAbs() {
		u = s.base.ResolveReference(u)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("%w: %s", ErrInvalidTarget, raw)
	}
	return u.String(), nil
}

func (s *Service) headers(target string) http.Header {
	h := http.Header{}
	h.Set("Referer", target)
	if u, err := url.Parse(target); err == nil {
		h.Set("Origin", u.Scheme+"://"+u.Host)
	}
	return h
}

// forwardedForm copies the submitted fields minus the proxy control fields.
func forwardedForm(in url.Values) url.Values {
	out := make(url.Values, len(in))
	for key, values := range in {
		if key == FieldURL || key == FieldSessionID {
			continue
		}
		out[key] = append([]string(nil), values...)
	}
	return out
}

// imageContentType reports whether the body should pass through untouched.
// Declared image types win; missing or generic types are sniffed.
func imageContentType(declared string, body []byte) (string, bool) {
	if strings.Contains(strings.ToLower(declared), "image") {
		return declared, true
	}
	base := strings.ToLower(strings.TrimSpace(strings.Split(declared, ";")[0]))
	if base != "" && base != "application/octet-stream" && base != "binary/octet-stream" {
		return "", false
	}
	mt := mimetype.Detect(body)
	if strings.HasPrefix(mt.String(), "image/") {
		return mt.String(), true
	}
	return "", false
}

func looksLikeLogin(page string) bool {
	doc, err := htmlquery.Parse(strings.NewReader(page))
	if err != nil {
		return false
	}
	node, err := htmlquery.Query(doc, loginMarkers)
	return err == nil && node != nil
}
