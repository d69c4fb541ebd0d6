package client

import (
	"net/http"
	"net/http/cookiejar"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/net/publicsuffix"
	"golang.org/x/time/rate"

	"github.com/GriffinCanCode/unilite/internal/domain/session"
	"github.com/GriffinCanCode/unilite/internal/infrastructure/logging"
	"github.com/GriffinCanCode/unilite/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/unilite/internal/infrastructure/resilience"
)

// State describes which cookie context a fetcher is bound to.
type State string

const (
	// StateActive means the fetcher uses a registered session's jar.
	StateActive State = "active"
	// StateUnknown means an ID was supplied but no live session matches it.
	StateUnknown State = "unknown"
	// StateAnonymous means no session ID was supplied.
	StateAnonymous State = "anonymous"
)

const (
	defaultAccept         = "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8"
	defaultAcceptLanguage = "en-US,en;q=0.9"
	defaultTimeout        = 30 * time.Second
	maxBodyBytes          = 16 << 20
)

// Sessions looks up live sessions by ID.
type Sessions interface {
	Get(id string) (*session.Session, bool)
}

// Options configures a Factory.
type Options struct {
	Timeout      time.Duration
	MaxRedirects int
	UserAgent    string
	// RateLimit caps origin requests per second across all sessions. Zero disables it.
	RateLimit float64
	// Breaker overrides the default origin breaker.
	Breaker *resilience.Breaker
	Metrics *monitoring.Metrics
	Logger  *logging.Logger
}

// Factory vends cookie-bound fetchers for the origin.
// All fetchers share one pooled transport, limiter and breaker.
type Factory struct {
	sessions     Sessions
	transport    http.RoundTripper
	limiter      *rate.Limiter
	breaker      *resilience.Breaker
	timeout      time.Duration
	maxRedirects int
	userAgent    string
	metrics      *monitoring.Metrics
	logger       *logging.Logger
}

// NewFactory creates a Factory over the given session store.
func NewFactory(sessions Sessions, opts Options) *Factory {
	if opts.Logger == nil {
		opts.Logger = logging.NewNop()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	logger := opts.Logger.Named("origin")

	// Pooled keep-alive transport. The proxy never retries, so only the
	// transport of the retryable client is used.
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 0
	retryClient.Logger = nil

	limiter := rate.NewLimiter(rate.Inf, 0)
	if opts.RateLimit > 0 {
		burst := int(opts.RateLimit)
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}

	breaker := opts.Breaker
	if breaker == nil {
		breaker = defaultBreaker(logger, opts.Metrics)
	}

	return &Factory{
		sessions:     sessions,
		transport:    retryClient.HTTPClient.Transport,
		limiter:      limiter,
		breaker:      breaker,
		timeout:      opts.Timeout,
		maxRedirects: opts.MaxRedirects,
		userAgent:    opts.UserAgent,
		metrics:      opts.Metrics,
		logger:       logger,
	}
}

// ClientFor returns a fetcher for sessionID. Active sessions get their own
// jar; unknown and anonymous callers get a throwaway jar, so origin cookies
// never leak between them.
func (f *Factory) ClientFor(sessionID string) (Fetcher, State) {
	if sessionID == "" {
		return f.newFetcher(nil, throwawayJar()), StateAnonymous
	}
	s, ok := f.sessions.Get(sessionID)
	if !ok {
		return f.newFetcher(nil, throwawayJar()), StateUnknown
	}
	return f.newFetcher(s, s.Jar), StateActive
}

// BreakerState reports the shared origin breaker state.
func (f *Factory) BreakerState() resilience.State {
	return f.breaker.State()
}

func (f *Factory) newFetcher(s *session.Session, jar http.CookieJar) *fetcher {
	rc := resty.NewWithClient(&http.Client{
		Transport: f.transport,
		Jar:       jar,
	})
	rc.SetLogger(restyLogger{sugar: f.logger.Sugar()}).
		SetHeader("Accept", defaultAccept).
		SetHeader("Accept-Language", defaultAcceptLanguage).
		SetResponseBodyLimit(maxBodyBytes)
	if f.userAgent != "" {
		rc.SetHeader("User-Agent", f.userAgent)
	}

	if f.maxRedirects > 0 {
		rc.SetRedirectPolicy(resty.FlexibleRedirectPolicy(f.maxRedirects))
	} else {
		rc.SetRedirectPolicy(resty.RedirectPolicyFunc(func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}))
	}

	return &fetcher{factory: f, resty: rc, sess: s}
}

func throwawayJar() http.CookieJar {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		// cookiejar.New never fails with these options.
		panic(err)
	}
	return jar
}
