package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zachkp/cs-journey/internal/analytics"
	"github.com/Zachkp/cs-journey/internal/portfolio"
	"github.com/Zachkp/cs-journey/internal/session"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// client replays cookies between requests like a browser would.
type client struct {
	t       *testing.T
	handler http.Handler
	cookies map[string]*http.Cookie
}

func newClient(t *testing.T, h http.Handler) *client {
	return &client{t: t, handler: h, cookies: map[string]*http.Cookie{}}
}

func (c *client) do(req *http.Request) *httptest.ResponseRecorder {
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	c.handler.ServeHTTP(rec, req)
	for _, ck := range rec.Result().Cookies() {
		c.cookies[ck.Name] = ck
	}
	return rec
}

func (c *client) get(path string) *httptest.ResponseRecorder {
	return c.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (c *client) post(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req)
}

func newTestServer(t *testing.T, tracker *analytics.Tracker) (*Server, *session.Store) {
	t.Helper()
	content := portfolio.Default()
	store := session.NewStore(content, time.Hour)
	srv, err := New(Options{
		Content:       content,
		Store:         store,
		SessionSecret: "test-secret",
		Tracker:       tracker,
	})
	require.NoError(t, err)
	return srv, store
}

func TestNew_RequiresDependencies(t *testing.T) {
	_, err := New(Options{})
	assert.Error(t, err)

	_, err = New(Options{Content: portfolio.Default(), Store: session.NewStore(portfolio.Default(), 0)})
	assert.Error(t, err)
}

func TestIndex_RendersSectionsInOrder(t *testing.T) {
	srv, store := newTestServer(t, nil)
	c := newClient(t, srv.Handler())

	rec := c.get("/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, c.cookies, cookieName)
	assert.Equal(t, 1, store.Len())

	body := rec.Body.String()
	last := -1
	for _, id := range []string{"bio", "skills", "timeline", "projects", "map", "study-log", "booster", "contact"} {
		idx := strings.Index(body, `id="`+id+`"`)
		require.Greater(t, idx, last, "section %s out of order", id)
		last = idx
	}
	assert.Less(t, strings.Index(body, `class="sidebar"`), strings.Index(body, `id="bio"`))
	assert.Contains(t, body, "Python (90%)")
	assert.Contains(t, body, "Tamagotchi Teaches Programming")
	assert.Contains(t, body, "Mock Progress: 10%")
}

func TestIndex_RerenderIsIdentical(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	c := newClient(t, srv.Handler())

	first := c.get("/").Body.String()
	second := c.get("/").Body.String()
	assert.Equal(t, first, second)
}

func TestIndex_ReusesSession(t *testing.T) {
	srv, store := newTestServer(t, nil)
	c := newClient(t, srv.Handler())

	c.get("/")
	c.get("/")
	c.get("/")
	assert.Equal(t, 1, store.Len())
}

func TestBoost_RedirectsAndFlashesOnce(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	c := newClient(t, srv.Handler())
	c.get("/")

	rec := c.post("/boost", url.Values{"language": {"Python"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/#booster", rec.Header().Get("Location"))

	body := c.get("/").Body.String()
	assert.Contains(t, body, "Python score is now 95%.")
	assert.Contains(t, body, "Python (95%)")

	body = c.get("/").Body.String()
	assert.NotContains(t, body, "Python score is now 95%.")
	assert.Contains(t, body, "Python (95%)")
}

func TestBoost_MasteryNotice(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	c := newClient(t, srv.Handler())

	c.post("/boost", url.Values{"language": {"Python"}})
	c.post("/boost", url.Values{"language": {"Python"}})
	body := c.get("/").Body.String()
	assert.Contains(t, body, "Python score is now 100%.")
	assert.NotContains(t, body, "Mastery reached!")

	c.post("/boost", url.Values{"language": {"Python"}})
	body = c.get("/").Body.String()
	assert.Contains(t, body, "Mastery reached! Python is already at 100%. Great job!")
	assert.Contains(t, body, "toast-mastered")
}

func TestSessions_AreIsolated(t *testing.T) {
	srv, store := newTestServer(t, nil)
	alice := newClient(t, srv.Handler())
	bob := newClient(t, srv.Handler())

	alice.post("/boost", url.Values{"language": {"Kotlin"}})
	alice.post("/study-log", url.Values{"language": {"Java"}, "duration": {"2"}})

	assert.Contains(t, alice.get("/").Body.String(), "Kotlin (45%)")
	bobBody := bob.get("/").Body.String()
	assert.Contains(t, bobBody, "Kotlin (40%)")
	assert.Contains(t, bobBody, "1 sessions logged.")
	assert.Equal(t, 2, store.Len())
}

func TestStudyLog_AppendsEntry(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	c := newClient(t, srv.Handler())

	rec := c.post("/study-log", url.Values{"language": {"Java"}, "duration": {"2.0"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/#study-log", rec.Header().Get("Location"))

	body := c.get("/").Body.String()
	assert.Contains(t, body, "Study session logged!")
	assert.Contains(t, body, "2 sessions logged.")
	seeded := strings.Index(body, "<td>Python</td><td>1.5</td>")
	added := strings.Index(body, "<td>Java</td><td>2</td>")
	require.NotEqual(t, -1, seeded)
	require.NotEqual(t, -1, added)
	assert.Less(t, seeded, added)
}

func TestStudyLog_RejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name string
		form url.Values
		msg  string
	}{
		{name: "not a number", form: url.Values{"language": {"Java"}, "duration": {"abc"}}, msg: "must be a number"},
		{name: "too long", form: url.Values{"language": {"Java"}, "duration": {"10.5"}}, msg: "between 0.1 and 10 hours"},
		{name: "too short", form: url.Values{"language": {"Java"}, "duration": {"0"}}, msg: "between 0.1 and 10 hours"},
		{name: "unknown language", form: url.Values{"language": {"Rust"}, "duration": {"1"}}, msg: "not part of the skill set"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newTestServer(t, nil)
			c := newClient(t, srv.Handler())

			rec := c.post("/study-log", tt.form)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.msg)
			assert.Contains(t, c.get("/").Body.String(), "1 sessions logged.")
		})
	}
}

func TestBoost_UnknownLanguage(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	c := newClient(t, srv.Handler())

	rec := c.post("/boost", url.Values{"language": {"COBOL"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSelectProject(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	c := newClient(t, srv.Handler())

	rec := c.post("/projects/select", url.Values{"project": {"Budgetables"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/#projects", rec.Header().Get("Location"))

	body := c.get("/").Body.String()
	assert.Contains(t, body, "Mock Progress: 5%")
	assert.Contains(t, body, `<option value="Budgetables" selected>`)

	rec = c.post("/projects/select", url.Values{"project": {"Nope"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, c.get("/").Body.String(), "Mock Progress: 5%")
}

func TestResumeDownload(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	c := newClient(t, srv.Handler())

	rec := c.get("/resume.txt")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/plain"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "portfolio_resume.txt")
	assert.Contains(t, rec.Body.String(), "TECHNICAL SKILLS")
}

func TestStudyLogExport(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	c := newClient(t, srv.Handler())
	c.post("/study-log", url.Values{"language": {"SQL"}, "duration": {"3"}})

	rec := c.get("/study-log.txt")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/plain"))
	assert.Contains(t, rec.Body.String(), "SQL")
	assert.Contains(t, rec.Body.String(), "2 sessions, 4.5 hours total")
}

func TestTamperedCookieStartsFreshSession(t *testing.T) {
	srv, store := newTestServer(t, nil)
	c := newClient(t, srv.Handler())
	c.post("/boost", url.Values{"language": {"Python"}})

	c.cookies[cookieName].Value = "garbage"
	body := c.get("/").Body.String()
	assert.Contains(t, body, "Python (90%)")
	assert.Equal(t, 2, store.Len())
}

func TestStudyLogInputAcceptsWholeRange(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	c := newClient(t, srv.Handler())

	body := c.get("/").Body.String()
	assert.Contains(t, body, `name="duration" min="0.1" max="10" step="0.1" value="1"`)

	rec := c.post("/study-log", url.Values{"language": {"Java"}, "duration": {"10"}})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
}

func TestMutationFormsSkipBoostedNavigation(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	c := newClient(t, srv.Handler())

	body := c.get("/").Body.String()
	for _, action := range []string{"/projects/select", "/study-log", "/boost"} {
		assert.Contains(t, body, `<form hx-boost="false" method="post" action="`+action+`"`)
	}

	// a full-page post shows the rejection body
	rec := c.post("/boost", url.Values{"language": {"COBOL"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "not part of the skill set")
}

func TestLoggerPreselectsLastLoggedLanguage(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	c := newClient(t, srv.Handler())

	c.post("/study-log", url.Values{"language": {"SQL"}, "duration": {"2"}})
	body := c.get("/").Body.String()
	start := strings.Index(body, `action="/study-log"`)
	end := strings.Index(body, `action="/boost"`)
	require.True(t, start >= 0 && end > start)
	assert.Contains(t, body[start:end], `<option value="SQL" selected>`)
}

func TestHealthAndStatic(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	c := newClient(t, srv.Handler())

	rec := c.get("/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = c.get("/static/style.css")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "--royal-blue")
}

func TestInteractionsAreTracked(t *testing.T) {
	tracker, err := analytics.Open(context.Background(), ":memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = tracker.Close() })

	srv, _ := newTestServer(t, tracker)
	c := newClient(t, srv.Handler())

	c.get("/")
	c.post("/boost", url.Values{"language": {"Java"}})
	c.post("/boost", url.Values{"language": {"Java"}})
	c.post("/boost", url.Values{"language": {"Nope"}})
	c.get("/")

	stats, err := tracker.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalVisitors)
	assert.Equal(t, []analytics.SubjectCount{{Subject: "Java", Count: 2}}, stats.TopBoosted)
}
