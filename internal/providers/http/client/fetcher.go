package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/unilite/internal/domain/session"
	"github.com/GriffinCanCode/unilite/internal/infrastructure/logging"
	"github.com/GriffinCanCode/unilite/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/unilite/internal/infrastructure/resilience"
)

// Request is one origin exchange.
type Request struct {
	Method string
	URL    string
	Header http.Header
	// Form is sent as an urlencoded body for POST requests.
	Form url.Values
}

// Response is a deliverable origin answer (status below 500).
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	// FinalURL is the address of the last hop after redirects.
	FinalURL string
}

// Fetcher performs HTTP exchanges bound to one cookie context.
type Fetcher interface {
	Do(ctx context.Context, req *Request) (*Response, error)
}

// fetcher is the resty-backed Fetcher handed out by Factory.
type fetcher struct {
	factory *Factory
	resty   *resty.Client
	// sess is nil for anonymous and unknown-session fetchers.
	sess *session.Session
}

func (f *fetcher) Do(ctx context.Context, req *Request) (*Response, error) {
	if f.sess != nil {
		release, err := f.sess.Acquire(ctx)
		if err != nil {
			return nil, err
		}
		defer release()
	}

	if err := f.factory.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("origin rate limit: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, f.factory.timeout)
	defer cancel()

	timer := monitoring.NewTimer(f.factory.metrics, req.Method)

	var out *Response
	err := f.factory.breaker.Execute(func() error {
		resp, err := f.send(ctx, req)
		if err != nil {
			return err
		}
		if resp.StatusCode() >= http.StatusInternalServerError {
			return &StatusError{StatusCode: resp.StatusCode(), Status: resp.Status()}
		}
		out = &Response{
			StatusCode: resp.StatusCode(),
			Header:     resp.Header(),
			Body:       resp.Body(),
			FinalURL:   finalURL(resp, req.URL),
		}
		return nil
	})

	err = classify(ctx, err)
	elapsed := timer.Stop(outcome(err))

	log := f.factory.logger.With(
		zap.String("method", req.Method),
		zap.String("url", req.URL),
		zap.Duration("elapsed", elapsed),
	)
	if f.sess != nil {
		log = log.With(logging.Session(f.sess.ID))
	}
	if err != nil {
		log.Warn("Origin request failed", zap.Error(err))
		return nil, err
	}
	log.Debug("Origin request completed", zap.Int("status", out.StatusCode), zap.Int("bytes", len(out.Body)))
	return out, nil
}

func (f *fetcher) send(ctx context.Context, req *Request) (*resty.Response, error) {
	r := f.resty.R().SetContext(ctx)
	for key, values := range req.Header {
		for _, v := range values {
			r.Header.Add(key, v)
		}
	}
	if req.Method == http.MethodPost {
		form := req.Form
		if form == nil {
			form = url.Values{}
		}
		r.SetFormDataFromValues(form)
	}
	return r.Execute(req.Method, req.URL)
}

// classify maps transport and breaker errors onto the package taxonomy.
func classify(ctx context.Context, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, resilience.ErrCircuitOpen), errors.Is(err, resilience.ErrTooManyRequests):
		return fmt.Errorf("%w: %w", ErrOriginUnavailable, err)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(ctx.Err(), context.DeadlineExceeded):
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	return err
}

func outcome(err error) string {
	var statusErr *StatusError
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrTimeout):
		return "timeout"
	case errors.Is(err, ErrOriginUnavailable):
		return "rejected"
	case errors.As(err, &statusErr):
		return "status_5xx"
	case errors.Is(err, context.Canceled):
		return "canceled"
	default:
		return "error"
	}
}

func finalURL(resp *resty.Response, fallback string) string {
	if resp.RawResponse != nil && resp.RawResponse.Request != nil && resp.RawResponse.Request.URL != nil {
		return resp.RawResponse.Request.URL.String()
	}
	return fallback
}

// isFailure decides which outcomes count against the origin's health.
// Caller cancellations say nothing about the origin.
func isFailure(err error) bool {
	return err != nil && !errors.Is(err, context.Canceled)
}

// restyLogger routes resty's internal warnings into zap.
type restyLogger struct {
	sugar *zap.SugaredLogger
}

func (l restyLogger) Errorf(format string, v ...interface{}) { l.sugar.Errorf(format, v...) }
func (l restyLogger) Warnf(format string, v ...interface{})  { l.sugar.Warnf(format, v...) }
func (l restyLogger) Debugf(format string, v ...interface{}) { l.sugar.Debugf(format, v...) }

var _ resty.Logger = restyLogger{}

func defaultBreaker(logger *logging.Logger, metrics *monitoring.Metrics) *resilience.Breaker {
	return resilience.New("origin", resilience.Settings{
		MaxRequests: 2,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts resilience.Counts) bool {
			return counts.ConsecutiveFailures >= 5 ||
				(counts.Requests >= 20 && float64(counts.TotalFailures)/float64(counts.Requests) > 0.6)
		},
		IsFailure: isFailure,
		OnStateChange: func(name string, from, to resilience.State) {
			logger.Warn("Origin breaker state changed",
				zap.String("breaker", name),
				zap.Stringer("from", from),
				zap.Stringer("to", to),
			)
			if metrics != nil {
				metrics.SetBreakerState(int(to))
			}
		},
	})
}
