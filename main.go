package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/Dhikaaapr/portfolio/internal/config"
	"github.com/Dhikaaapr/portfolio/internal/contact"
	"github.com/Dhikaaapr/portfolio/internal/content"
	"github.com/Dhikaaapr/portfolio/internal/media"
	"github.com/Dhikaaapr/portfolio/internal/store"
)

type app struct {
	cfg      config.Config
	log      zerolog.Logger
	content  *content.Store
	db       *store.DB
	contact  *contact.Service
	sessions *sessions
	admin    *admin
	track    *media.TrackInfo
}

func main() {
	cfg, err := config.Load()
	log := newLogger(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(cfg config.Config, log zerolog.Logger) error {
	docs, err := content.NewStore(cfg.ContentPath)
	if err != nil {
		return err
	}
	if cfg.WatchContent {
		w, err := content.Watch(docs, log)
		if err != nil {
			log.Warn().Err(err).Msg("content hot reload disabled")
		} else {
			defer w.Close()
		}
	}

	db, err := store.Open(cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer db.Close()

	a := newApp(cfg, log, docs, db)
	if a.contact.Demo() {
		log.Warn().Msg("EmailJS not configured, contact form runs in demo mode")
	} else {
		log.Info().Str("relay", a.contact.Relay().Name()).Msg("contact relay ready")
	}
	if a.admin.usingDefaults {
		log.Warn().Msg("using default admin credentials; set ADMIN_USERNAME and ADMIN_PASSWORD")
	}

	stop := make(chan struct{})
	go a.sessions.run(stop)
	go a.cleanupVisitors()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           a.router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("portfolio listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		close(stop)
		a.sessions.closeAll()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, done := context.WithTimeout(context.Background(), 10*time.Second)
	defer done()
	err = srv.Shutdown(shutdownCtx)
	close(stop)
	a.sessions.closeAll()
	return err
}

func newApp(cfg config.Config, log zerolog.Logger, docs *content.Store, db *store.DB) *app {
	a := &app{
		cfg:      cfg,
		log:      log,
		content:  docs,
		db:       db,
		contact:  contact.NewService(contact.NewRelay(cfg.Contact), db, log.With().Str("component", "contact").Logger()),
		sessions: newSessions(cfg.SessionTTL, log.With().Str("component", "player").Logger()),
		admin:    newAdmin(cfg, db, log.With().Str("component", "admin").Logger()),
	}

	if info, err := media.ProbeTrack(cfg.Track); err != nil {
		log.Warn().Err(err).Str("track", cfg.Track).Msg("background track unavailable")
	} else {
		a.track = &info
		log.Info().Str("track", info.Path).Dur("duration", info.Duration).Msg("background track loaded")
	}
	return a
}

func (a *app) router() *gin.Engine {
	if !a.cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := contact.RegisterValidators(v); err != nil {
			a.log.Error().Err(err).Msg("registering form validators")
		}
	}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(a.log))
	r.SetFuncMap(templateFuncs())
	r.LoadHTMLGlob(a.cfg.TemplatesDir + "/*")

	r.Static("/images", "./images")
	r.Static("/static", "./static")
	r.Static("/audio", "./audio")

	r.GET("/healthz", func(c *gin.Context) {
		if err := a.db.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "sessions": a.sessions.len()})
	})

	site := r.Group("/")
	site.Use(a.admin.visitorTracking(), sessionMiddleware(a.sessions, a.cfg.SecureCookie))

	site.GET("/", a.handleHome)
	site.GET("/contact-form", a.handleContactForm)
	site.POST("/contact", a.handleContact)
	site.GET("/work-content", a.handleWork)
	site.GET("/education-content", a.handleEducation)

	site.POST("/player/toggle", a.handlePlayerToggle)
	site.POST("/player/mute", a.handlePlayerMute)
	site.POST("/player/volume", a.handlePlayerVolume)
	site.POST("/player/report", a.handlePlayerReport)

	site.GET("/projects/:slug", a.handleProjectOpen)
	site.POST("/projects/close", a.handleProjectClose)

	a.admin.routes(r)
	return r
}

// pageData is everything the single page template renders from.
func (a *app) pageData(s *session) gin.H {
	doc := a.content.Document()
	return gin.H{
		"doc":       doc,
		"player":    a.playerData(s),
		"modal":     modalData(s.modal.Active()),
		"form":      contact.Form{},
		"demo":      a.contact.Demo(),
		"indicator": media.DefaultIndicator,
		"year":      time.Now().Year(),
	}
}

func (a *app) handleHome(c *gin.Context) {
	s := sessionFrom(c)
	// A page load is a fresh mount: whatever the previous page held (an
	// open modal, a playing track) is released.
	if err := s.reload(a.sessions.now()); err != nil {
		c.Header("HX-Refresh", "true")
		c.Status(http.StatusGone)
		return
	}
	var data gin.H
	if !a.runSession(c, func(s *session) { data = a.pageData(s) }) {
		return
	}
	c.HTML(http.StatusOK, "index.html", data)
}

func (a *app) handleWork(c *gin.Context) {
	c.HTML(http.StatusOK, "work-content.html", gin.H{
		"experiences": a.content.Document().Experiences,
	})
}

func (a *app) handleEducation(c *gin.Context) {
	c.HTML(http.StatusOK, "education-content.html", gin.H{
		"education": a.content.Document().Education,
	})
}

func (a *app) cleanupVisitors() {
	n, err := a.db.CleanupVisitors(context.Background())
	if err != nil {
		a.log.Error().Err(err).Msg("visitor cleanup")
		return
	}
	if n > 0 {
		a.log.Info().Int64("removed", n).Msg("privacy cleanup removed old visitor records")
	}
}
