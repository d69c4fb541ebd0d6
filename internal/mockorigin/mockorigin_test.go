package mockorigin

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r)
	return r
}

func postLogin(r *gin.Engine, captcha string) *httptest.ResponseRecorder {
	form := url.Values{"user": {"21cse001"}, "pass": {"secret"}, "captcha": {captcha}}
	req := httptest.NewRequest(http.MethodPost, LoginPath, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestLoginWithCorrectCaptcha(t *testing.T) {
	w := postLogin(setupRouter(), CaptchaCode)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, DashboardPath, w.Header().Get("Location"))

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CookieName, cookies[0].Name)
	assert.Equal(t, CookieValue, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
}

func TestLoginWithWrongCaptcha(t *testing.T) {
	router := setupRouter()

	for _, code := range []string{"", "9g4x", "ABCD", "9G4X "} {
		t.Run("code "+code, func(t *testing.T) {
			w := postLogin(router, code)
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Empty(t, w.Header().Get("Location"))
			assert.Contains(t, w.Body.String(), "Invalid CAPTCHA")
			assert.Empty(t, w.Result().Cookies())
		})
	}
}

func TestDashboardStates(t *testing.T) {
	router := setupRouter()

	tests := []struct {
		name   string
		path   string
		cookie bool
		want   string
	}{
		{"no session", DashboardPath, false, "Access Denied"},
		{"login page", DashboardPath + "?login_page=true", false, "CAPTCHA: 9G4X"},
		{"login page with session", DashboardPath + "?login_page=true", true, "University Login"},
		{"dashboard", DashboardPath, true, "Academic Progress"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.cookie {
				req.AddCookie(&http.Cookie{Name: CookieName, Value: CookieValue})
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Contains(t, w.Body.String(), tt.want)
			assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
		})
	}
}
