package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Dhikaaapr/portfolio/internal/media"
)

const sessionCookie = "portfolio_session"

var errSessionClosed = errors.New("session closed")

// clientEvent is an instruction for the page script, delivered through the
// HX-Trigger response header.
type clientEvent struct {
	Name   string
	Detail any
}

// session is one visitor's page. Its mutex stands in for the browser's
// event loop: handlers run one at a time, and bus signals are delivered
// inside the handler that emitted them.
type session struct {
	mu       sync.Mutex
	id       string
	log      zerolog.Logger
	lastSeen time.Time
	closed   bool

	bus    *media.Bus
	player *media.Player
	modal  *media.Modal
	detach func()

	pending      []clientEvent
	scrollLocked bool
	audible      bool
	// playSeq numbers every start sent to the page. Reports about an
	// earlier start are stale: that play() was superseded.
	playSeq uint64
}

func newSession(id string, log zerolog.Logger, now time.Time) *session {
	short := id
	if len(short) > 8 {
		short = short[:8]
	}
	s := &session{id: id, log: log.With().Str("session", short).Logger(), lastSeen: now}
	s.mount()
	return s
}

// mount builds a fresh player, modal and bus, as a page load does.
func (s *session) mount() {
	s.bus = media.NewBus()
	s.player = media.NewPlayer(browserAudio{s}, s.log)
	s.modal = media.NewModal(s.bus, browserScroll{s})
	s.detach = s.player.Attach(s.bus)
}

// unmount tears the page down. The modal releases its scroll lock and
// signals before the bus goes away.
func (s *session) unmount() {
	if s.modal.Teardown() {
		s.log.Debug().Str("reason", string(s.modal.LastClose())).Msg("modal closed")
	}
	s.detach()
	s.bus.Close()
}

// do runs fn with the session held and returns the client events it queued.
func (s *session) do(now time.Time, fn func()) ([]clientEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, errSessionClosed
	}
	s.lastSeen = now
	fn()
	events := s.pending
	s.pending = nil
	return events, nil
}

// reload remounts the page. Anything the old page held is released first.
func (s *session) reload(now time.Time) error {
	_, err := s.do(now, func() {
		s.unmount()
		s.mount()
		s.pending = nil
	})
	return err
}

func (s *session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.unmount()
	s.closed = true
}

func (s *session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen)
}

func (s *session) emit(name string, detail any) {
	s.pending = append(s.pending, clientEvent{Name: name, Detail: detail})
}

// browserAudio drives the page's <audio> element. Starting always
// "succeeds" here; a rejected play() is reported back by the page.
type browserAudio struct{ s *session }

func (a browserAudio) Play() error {
	a.s.playSeq++
	a.s.audible = true
	a.s.emit("bg-music-play", gin.H{"seq": a.s.playSeq})
	return nil
}

func (a browserAudio) Pause() {
	a.s.audible = false
	a.s.emit("bg-music-pause", struct{}{})
}

func (a browserAudio) SetMuted(muted bool) {
	a.s.emit("bg-music-mute", gin.H{"muted": muted})
}

func (a browserAudio) SetVolume(level float64) {
	a.s.emit("bg-music-volume", gin.H{"volume": level})
}

type browserScroll struct{ s *session }

func (b browserScroll) Lock() {
	b.s.scrollLocked = true
	b.s.emit("scroll-lock", struct{}{})
}

func (b browserScroll) Unlock() {
	b.s.scrollLocked = false
	b.s.emit("scroll-unlock", struct{}{})
}

// encodeTrigger renders events as an HX-Trigger JSON object, keeping queue
// order. A repeated event keeps its first position and its last detail.
func encodeTrigger(events []clientEvent) (string, error) {
	var order []string
	latest := make(map[string]any, len(events))
	for _, ev := range events {
		if _, ok := latest[ev.Name]; !ok {
			order = append(order, ev.Name)
		}
		latest[ev.Name] = ev.Detail
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range order {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(name)
		if err != nil {
			return "", err
		}
		v, err := json.Marshal(latest[name])
		if err != nil {
			return "", err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.String(), nil
}

// sessions tracks live visitor sessions and expires idle ones.
type sessions struct {
	mu   sync.Mutex
	byID map[string]*session
	ttl  time.Duration
	log  zerolog.Logger
	now  func() time.Time
}

func newSessions(ttl time.Duration, log zerolog.Logger) *sessions {
	return &sessions{
		byID: make(map[string]*session),
		ttl:  ttl,
		log:  log,
		now:  time.Now,
	}
}

func (r *sessions) get(id string) (*session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.byID[id]
	return s, ok
}

func (r *sessions) create() *session {
	s := newSession(uuid.NewString(), r.log, r.now())
	r.mu.Lock()
	r.byID[s.id] = s
	r.mu.Unlock()
	return s
}

func (r *sessions) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID)
}

// sweep tears down sessions idle longer than the TTL.
func (r *sessions) sweep() int {
	now := r.now()
	var expired []*session

	r.mu.Lock()
	for id, s := range r.byID {
		if s.idleSince(now) > r.ttl {
			expired = append(expired, s)
			delete(r.byID, id)
		}
	}
	r.mu.Unlock()

	for _, s := range expired {
		s.close()
	}
	if len(expired) > 0 {
		r.log.Debug().Int("expired", len(expired)).Msg("sessions swept")
	}
	return len(expired)
}

func (r *sessions) closeAll() {
	r.mu.Lock()
	all := r.byID
	r.byID = make(map[string]*session)
	r.mu.Unlock()

	for _, s := range all {
		s.close()
	}
}

// run sweeps periodically until stop is closed.
func (r *sessions) run(stop <-chan struct{}) {
	interval := r.ttl / 4
	if interval < time.Second {
		interval = time.Second
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			r.sweep()
		case <-stop:
			return
		}
	}
}

// sessionMiddleware attaches the visitor's session, creating one (and its
// cookie) when missing or expired.
func sessionMiddleware(r *sessions, secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var s *session
		if id, err := c.Cookie(sessionCookie); err == nil {
			s, _ = r.get(id)
		}
		if s == nil {
			s = r.create()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(sessionCookie, s.id, 0, "/", "", secure, true)
		}
		c.Set(sessionCookie, s)
		c.Next()
	}
}

func sessionFrom(c *gin.Context) *session {
	return c.MustGet(sessionCookie).(*session)
}

// runSession applies fn to the visitor's session and forwards queued client
// events. It reports false after answering the request itself.
func (a *app) runSession(c *gin.Context, fn func(s *session)) bool {
	s := sessionFrom(c)
	events, err := s.do(a.sessions.now(), func() { fn(s) })
	if err != nil {
		// The session expired mid-request; have the page start over.
		c.Header("HX-Refresh", "true")
		c.Status(http.StatusGone)
		return false
	}
	if len(events) == 0 {
		return true
	}
	trigger, err := encodeTrigger(events)
	if err != nil {
		a.log.Error().Err(err).Msg("encoding client events")
		return true
	}
	c.Header("HX-Trigger", trigger)
	return true
}
