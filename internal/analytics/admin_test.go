package analytics

import (
	"context"
	"encoding/json"
	"html/template"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTemplates = `
{{define "admin-login.html"}}login {{.error}}{{end}}
{{define "admin-dashboard.html"}}visitors={{.stats.TotalVisitors}}{{end}}
{{define "error.html"}}error {{.message}}{{end}}
`

func newAdminEngine(t *testing.T) (*gin.Engine, *Admin) {
	t.Helper()
	tr := newTestTracker(t, time.Now())
	admin, err := NewAdmin(tr, "admin", "correct horse", false, nil)
	require.NoError(t, err)

	r := gin.New()
	r.SetHTMLTemplate(template.Must(template.New("admin").Parse(testTemplates)))
	admin.RegisterRoutes(r)
	return r, admin
}

func postLogin(r *gin.Engine, user, pass string) *httptest.ResponseRecorder {
	form := url.Values{"username": {user}, "password": {pass}}
	req := httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestNewAdmin_RequiresPassword(t *testing.T) {
	_, err := NewAdmin(nil, "admin", "", false, nil)
	assert.Error(t, err)
}

func TestAdmin_DashboardRequiresLogin(t *testing.T) {
	r, _ := newAdminEngine(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil))

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/admin/login", rec.Header().Get("Location"))
}

func TestAdmin_RejectsBadCredentials(t *testing.T) {
	r, _ := newAdminEngine(t)

	rec := postLogin(r, "admin", "wrong")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid credentials")
	assert.Empty(t, rec.Result().Cookies())
}

func TestAdmin_LoginThenDashboard(t *testing.T) {
	r, admin := newAdminEngine(t)
	require.NoError(t, admin.tracker.RecordVisit(context.Background(), "10.1.1.1", "ua", "/"))

	rec := postLogin(r, "admin", "correct horse")
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/admin/dashboard", rec.Header().Get("Location"))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, adminCookie, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "visitors=1")

	req = httptest.NewRequest(http.MethodGet, "/admin/api/stats", nil)
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var stats Stats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, int64(1), stats.TotalVisitors)
}

func TestAdmin_ForgedTokenRejected(t *testing.T) {
	r, _ := newAdminEngine(t)

	req := httptest.NewRequest(http.MethodGet, "/admin/api/stats", nil)
	req.AddCookie(&http.Cookie{Name: adminCookie, Value: "guess"})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
}
