package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dhikaaapr/portfolio/internal/config"
	"github.com/Dhikaaapr/portfolio/internal/contact"
	"github.com/Dhikaaapr/portfolio/internal/content"
	"github.com/Dhikaaapr/portfolio/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testApp struct {
	*app
	t      *testing.T
	router *gin.Engine
	cookie *http.Cookie
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	db, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cfg := config.Config{
		Debug:         true,
		TemplatesDir:  "templates",
		Track:         "audio/missing.mp3",
		SessionTTL:    time.Hour,
		Contact:       contact.Config{DemoDelay: time.Millisecond},
		AdminUsername: "admin",
		AdminPassword: "s3cret",
	}
	a := newApp(cfg, zerolog.Nop(), content.NewStaticStore(content.Default()), db)
	a.admin.track = a.admin.recordVisit
	t.Cleanup(a.sessions.closeAll)
	return &testApp{app: a, t: t, router: a.router()}
}

// do sends a request as the same visitor each time, carrying the session
// cookie handed out by the first response.
func (ta *testApp) do(method, target string, form url.Values) *httptest.ResponseRecorder {
	ta.t.Helper()
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	req.Header.Set("HX-Request", "true")
	if ta.cookie != nil {
		req.AddCookie(ta.cookie)
	}
	w := httptest.NewRecorder()
	ta.router.ServeHTTP(w, req)
	for _, c := range w.Result().Cookies() {
		if c.Name == sessionCookie {
			ta.cookie = c
		}
	}
	return w
}

// events decodes the HX-Trigger header into event names in order.
func events(t *testing.T, w *httptest.ResponseRecorder) []string {
	t.Helper()
	h := w.Header().Get("HX-Trigger")
	if h == "" {
		return nil
	}
	dec := json.NewDecoder(strings.NewReader(h))
	tok, err := dec.Token()
	require.NoError(t, err)
	require.Equal(t, json.Delim('{'), tok)
	var names []string
	for dec.More() {
		key, err := dec.Token()
		require.NoError(t, err)
		names = append(names, key.(string))
		var skip json.RawMessage
		require.NoError(t, dec.Decode(&skip))
	}
	return names
}

func TestHealthz(t *testing.T) {
	ta := newTestApp(t)
	w := ta.do(http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestHomeRendersPage(t *testing.T) {
	ta := newTestApp(t)
	w := ta.do(http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `id="music-player"`)
	assert.Contains(t, body, `id="bg-music"`)
	assert.Contains(t, body, "@keyframes level")
	assert.Contains(t, body, `class="level-bar" style="height: 3px"`)
	assert.Contains(t, body, content.Default().Projects[0].Name)
	assert.NotNil(t, ta.cookie)
	assert.Equal(t, 1, ta.sessions.len())
}

func videoProject(t *testing.T) content.Project {
	t.Helper()
	for _, p := range content.Default().Projects {
		if p.HasVideo() {
			return p
		}
	}
	t.Fatal("no project with a video")
	return content.Project{}
}

func TestPlayOpenCloseScenario(t *testing.T) {
	ta := newTestApp(t)
	ta.do(http.MethodGet, "/", nil)
	slug := videoProject(t).Slug

	w := ta.do(http.MethodPost, "/player/toggle", url.Values{})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"bg-music-play"}, events(t, w))
	assert.Contains(t, w.Body.String(), "music-player playing")

	w = ta.do(http.MethodGet, "/projects/"+slug, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"scroll-lock", "bg-music-pause"}, events(t, w))
	assert.Contains(t, w.Body.String(), "autoplay loop muted playsinline")

	w = ta.do(http.MethodPost, "/projects/close", url.Values{"reason": {"backdrop"}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"scroll-unlock", "bg-music-play"}, events(t, w))
	assert.Empty(t, strings.TrimSpace(w.Body.String()))

	s, ok := ta.sessions.get(ta.cookie.Value)
	require.True(t, ok)
	st := s.player.State()
	assert.True(t, st.Playing)
	assert.True(t, st.Audible)
	assert.False(t, s.scrollLocked)
}

func TestReplaceProjectKeepsSinglePausePair(t *testing.T) {
	ta := newTestApp(t)
	ta.do(http.MethodGet, "/", nil)
	projects := content.Default().Projects
	require.GreaterOrEqual(t, len(projects), 2)

	ta.do(http.MethodPost, "/player/toggle", url.Values{})
	w := ta.do(http.MethodGet, "/projects/"+projects[0].Slug, nil)
	assert.Equal(t, []string{"scroll-lock", "bg-music-pause"}, events(t, w))

	w = ta.do(http.MethodGet, "/projects/"+projects[1].Slug, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, events(t, w))
	assert.Contains(t, w.Body.String(), projects[1].Name)

	w = ta.do(http.MethodPost, "/projects/close", url.Values{"reason": {"button"}})
	assert.Equal(t, []string{"scroll-unlock", "bg-music-play"}, events(t, w))

	w = ta.do(http.MethodPost, "/projects/close", url.Values{"reason": {"button"}})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, events(t, w))
}

func TestOpenWhileStoppedStaysSilent(t *testing.T) {
	ta := newTestApp(t)
	ta.do(http.MethodGet, "/", nil)
	slug := content.Default().Projects[0].Slug

	w := ta.do(http.MethodGet, "/projects/"+slug, nil)
	assert.Equal(t, []string{"scroll-lock"}, events(t, w))
	w = ta.do(http.MethodPost, "/projects/close", url.Values{})
	assert.Equal(t, []string{"scroll-unlock"}, events(t, w))
}

func TestProjectErrors(t *testing.T) {
	ta := newTestApp(t)
	w := ta.do(http.MethodGet, "/projects/does-not-exist", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = ta.do(http.MethodPost, "/projects/close", url.Values{"reason": {"swipe"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPlayerControls(t *testing.T) {
	ta := newTestApp(t)
	ta.do(http.MethodGet, "/", nil)

	w := ta.do(http.MethodPost, "/player/mute", url.Values{})
	assert.Equal(t, []string{"bg-music-mute"}, events(t, w))
	assert.Contains(t, w.Header().Get("HX-Trigger"), `"muted":true`)

	w = ta.do(http.MethodPost, "/player/volume", url.Values{"v": {"1.7"}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("HX-Trigger"), `"volume":1`)

	w = ta.do(http.MethodPost, "/player/volume", url.Values{"v": {"loud"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPlaybackFailureReport(t *testing.T) {
	ta := newTestApp(t)
	ta.do(http.MethodGet, "/", nil)
	ta.do(http.MethodPost, "/player/toggle", url.Values{})

	w := ta.do(http.MethodPost, "/player/report", url.Values{"event": {"play-failed"}, "reason": {"NotAllowedError"}, "seq": {"1"}})
	assert.Equal(t, http.StatusNoContent, w.Code)

	s, _ := ta.sessions.get(ta.cookie.Value)
	st := s.player.State()
	assert.True(t, st.Playing)
	assert.False(t, st.Audible)

	// Nothing is audible, so opening a project has nothing to pause.
	w = ta.do(http.MethodGet, "/projects/"+content.Default().Projects[0].Slug, nil)
	assert.Equal(t, []string{"scroll-lock"}, events(t, w))

	w = ta.do(http.MethodPost, "/player/report", url.Values{"event": {"exploded"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStaleFailureReportIgnored(t *testing.T) {
	ta := newTestApp(t)
	ta.do(http.MethodGet, "/", nil)
	slug := content.Default().Projects[0].Slug

	w := ta.do(http.MethodPost, "/player/toggle", url.Values{})
	assert.Contains(t, w.Header().Get("HX-Trigger"), `"bg-music-play":{"seq":1}`)
	ta.do(http.MethodGet, "/projects/"+slug, nil)
	w = ta.do(http.MethodPost, "/projects/close", url.Values{})
	assert.Contains(t, w.Header().Get("HX-Trigger"), `"bg-music-play":{"seq":2}`)

	// The first start was cut short by the modal's pause and its rejection
	// arrives after the second start already succeeded.
	w = ta.do(http.MethodPost, "/player/report", url.Values{"event": {"play-failed"}, "reason": {"AbortError"}, "seq": {"1"}})
	assert.Equal(t, http.StatusNoContent, w.Code)

	s, _ := ta.sessions.get(ta.cookie.Value)
	assert.True(t, s.player.State().Audible)

	w = ta.do(http.MethodGet, "/projects/"+slug, nil)
	assert.Equal(t, []string{"scroll-lock", "bg-music-pause"}, events(t, w))
}

func TestFailureReportNeedsSeq(t *testing.T) {
	ta := newTestApp(t)
	ta.do(http.MethodGet, "/", nil)
	ta.do(http.MethodPost, "/player/toggle", url.Values{})

	w := ta.do(http.MethodPost, "/player/report", url.Values{"event": {"play-failed"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	s, _ := ta.sessions.get(ta.cookie.Value)
	assert.True(t, s.player.State().Audible)
}

func TestReloadReleasesModal(t *testing.T) {
	ta := newTestApp(t)
	ta.do(http.MethodGet, "/", nil)
	ta.do(http.MethodPost, "/player/toggle", url.Values{})
	ta.do(http.MethodGet, "/projects/"+content.Default().Projects[0].Slug, nil)

	w := ta.do(http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, w.Code)

	s, _ := ta.sessions.get(ta.cookie.Value)
	assert.Nil(t, s.modal.Active())
	assert.False(t, s.scrollLocked)
	assert.False(t, s.player.State().Playing)
}

func TestExpiredSessionRefreshesPage(t *testing.T) {
	ta := newTestApp(t)
	ta.do(http.MethodGet, "/", nil)
	s, _ := ta.sessions.get(ta.cookie.Value)

	// The sweeper removes the session while the visitor still holds it.
	s.close()
	w := ta.do(http.MethodPost, "/player/toggle", url.Values{})
	assert.Equal(t, http.StatusGone, w.Code)
	assert.Equal(t, "true", w.Header().Get("HX-Refresh"))
}

func TestContactDemoScenario(t *testing.T) {
	ta := newTestApp(t)
	form := url.Values{
		"name":    {"Ada"},
		"email":   {"ada@example.com"},
		"subject": {"Hello"},
		"message": {"Nice portfolio"},
	}
	w := ta.do(http.MethodPost, "/contact", form)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Demo Success!")
	assert.NotContains(t, body, "ada@example.com")

	msgs, err := ta.db.Messages(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "demo", msgs[0].Relay)
	assert.True(t, msgs[0].Delivered)
}

func TestContactInvalidKeepsFields(t *testing.T) {
	ta := newTestApp(t)
	w := ta.do(http.MethodPost, "/contact", url.Values{
		"name":  {"Ada"},
		"email": {"not-an-email"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "valid email address")
	assert.Contains(t, w.Body.String(), `value="not-an-email"`)
}

func TestContactBlankFieldsRejected(t *testing.T) {
	ta := newTestApp(t)
	w := ta.do(http.MethodPost, "/contact", url.Values{
		"name":    {"   "},
		"email":   {"ada@example.com"},
		"subject": {"  "},
		"message": {"\t\n"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "valid email address")
	assert.NotContains(t, w.Body.String(), "Demo Success!")

	msgs, err := ta.db.Messages(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestFragments(t *testing.T) {
	ta := newTestApp(t)
	doc := content.Default()

	w := ta.do(http.MethodGet, "/work-content", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), doc.Experiences[0].Company)

	w = ta.do(http.MethodGet, "/education-content", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), doc.Education.Degree.University)

	w = ta.do(http.MethodGet, "/contact-form", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `id="contact-form"`)
	assert.Contains(t, w.Body.String(), "Demo mode")
}
