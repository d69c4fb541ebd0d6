package http

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/unilite/internal/domain/proxy"
	"github.com/GriffinCanCode/unilite/internal/infrastructure/logging"
)

// Diagnostic headers set on every proxied response.
const (
	HeaderOriginStatus = "X-Origin-Status"
	HeaderSessionState = "X-Session-State"
	HeaderLoginPrompt  = "X-Login-Prompt"
)

// fieldLoginURL is the legacy login endpoint's name for the target.
const fieldLoginURL = "loginUrl"

const maxFormBytes = 8 << 20

// Proxy handles GET and POST /proxy.
func (h *Handlers) Proxy(c *gin.Context) {
	req, ok := h.proxyRequest(c)
	if !ok {
		return
	}
	h.serveProxy(c, req)
}

// Root handles POST /. Forms that carry a target are proxied; anything else
// gets the client shell.
func (h *Handlers) Root(c *gin.Context) {
	form, err := postedForm(c.Request)
	if err != nil || form.Get(proxy.FieldURL) == "" {
		h.serveIndex(c)
		return
	}
	h.serveProxy(c, proxy.Request{
		Method:    http.MethodPost,
		Target:    form.Get(proxy.FieldURL),
		SessionID: form.Get(proxy.FieldSessionID),
		Form:      form,
	})
}

// ProxyLogin handles the legacy POST /proxy-login, which names the target loginUrl.
func (h *Handlers) ProxyLogin(c *gin.Context) {
	form, err := postedForm(c.Request)
	if err != nil {
		c.String(http.StatusBadRequest, "Invalid form: %v", err)
		return
	}
	target := form.Get(fieldLoginURL)
	form.Del(fieldLoginURL)

	h.serveProxy(c, proxy.Request{
		Method:    http.MethodPost,
		Target:    target,
		SessionID: form.Get(proxy.FieldSessionID),
		Form:      form,
	})
}

func (h *Handlers) proxyRequest(c *gin.Context) (proxy.Request, bool) {
	req := proxy.Request{Method: c.Request.Method}

	if c.Request.Method == http.MethodPost {
		form, err := postedForm(c.Request)
		if err != nil {
			c.String(http.StatusBadRequest, "Invalid form: %v", err)
			return req, false
		}
		req.Form = form
		req.Target = form.Get(proxy.FieldURL)
		req.SessionID = form.Get(proxy.FieldSessionID)
	}

	// Query parameters fill in whatever the body left out.
	if req.Target == "" {
		req.Target = c.Query(proxy.FieldURL)
	}
	if req.SessionID == "" {
		req.SessionID = c.Query(proxy.FieldSessionID)
	}
	return req, true
}

func (h *Handlers) serveProxy(c *gin.Context, req proxy.Request) {
	resp, err := h.proxy.Do(c.Request.Context(), req)
	if err != nil {
		h.proxyError(c, req, err)
		return
	}

	c.Header(HeaderOriginStatus, strconv.Itoa(resp.OriginStatus))
	c.Header(HeaderSessionState, string(resp.SessionState))
	if resp.LoginPrompt {
		c.Header(HeaderLoginPrompt, "true")
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, resp.ContentType, resp.Body)
}

func (h *Handlers) proxyError(c *gin.Context, req proxy.Request, err error) {
	_ = c.Error(err)

	switch {
	case errors.Is(err, proxy.ErrMissingTarget):
		c.String(http.StatusBadRequest, proxy.ErrMissingTarget.Error())
	case errors.Is(err, proxy.ErrInvalidTarget):
		c.String(http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("Proxy request failed",
			zap.String("target", req.Target),
			logging.Session(req.SessionID),
			zap.Error(err),
		)
		c.String(http.StatusInternalServerError, "Error connecting to ERP systems: %s", err.Error())
	}
}

// postedForm parses url-encoded and multipart bodies. Uploaded files are
// not forwarded.
func postedForm(r *http.Request) (url.Values, error) {
	err := r.ParseMultipartForm(maxFormBytes)
	if err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return nil, err
	}

	form := url.Values{}
	for k, vs := range r.PostForm {
		form[k] = append(form[k], vs...)
	}
	if r.MultipartForm != nil {
		for k, vs := range r.MultipartForm.Value {
			if _, seen := form[k]; !seen {
				form[k] = append(form[k], vs...)
			}
		}
	}
	return form, nil
}
