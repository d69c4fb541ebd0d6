// Package mockorigin is a tiny stand-in for the university portal, used for
// demos and end-to-end tests of the proxy.
//
// Flow: /mock-erp without a session cookie shows an access-denied page that
// links to the login form; posting the right CAPTCHA sets the cookie and
// redirects to the dashboard.
package mockorigin

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	// CaptchaCode is the only answer the login form accepts.
	CaptchaCode = "9G4X"

	CookieName  = "erp_session"
	CookieValue = "valid_token_123"

	DashboardPath = "/mock-erp"
	LoginPath     = "/mock-login"

	// InvalidCaptchaMessage is returned for a wrong CAPTCHA.
	InvalidCaptchaMessage = "Invalid CAPTCHA! Please try again."
)

// RegisterRoutes mounts the mock portal on r.
func RegisterRoutes(r gin.IRoutes) {
	r.GET(DashboardPath, dashboard)
	r.POST(LoginPath, login)
}

func dashboard(c *gin.Context) {
	_, err := c.Cookie(CookieName)
	hasSession := err == nil
	wantsLogin := c.Query("login_page") != ""

	switch {
	case wantsLogin:
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(loginPage))
	case !hasSession:
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(deniedPage))
	default:
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(dashboardPage))
	}
}

func login(c *gin.Context) {
	if c.PostForm("captcha") != CaptchaCode {
		c.String(http.StatusOK, InvalidCaptchaMessage)
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, CookieValue, 0, "/", "", false, true)
	c.Redirect(http.StatusFound, DashboardPath)
}
