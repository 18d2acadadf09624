// admin.go - privacy-conscious visitor tracking and the admin area
package main

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/Dhikaaapr/portfolio/internal/config"
	"github.com/Dhikaaapr/portfolio/internal/store"
)

const adminCookie = "admin_token"

type admin struct {
	db            *store.DB
	log           zerolog.Logger
	username      string
	password      string
	passwordHash  []byte
	usingDefaults bool
	secure        bool
	token         string
	salt          string
	track         func(hashedIP, userAgent, path string)
}

func newAdmin(cfg config.Config, db *store.DB, log zerolog.Logger) *admin {
	a := &admin{
		db:            db,
		log:           log,
		username:      cfg.AdminUsername,
		password:      cfg.AdminPassword,
		usingDefaults: cfg.UsingDefaultAdmin(),
		secure:        cfg.SecureCookie,
		token:         generateToken(),
		salt:          generateToken(),
	}
	if cfg.AdminPasswordHash != "" {
		a.passwordHash = []byte(cfg.AdminPasswordHash)
	}
	a.track = func(hashedIP, userAgent, path string) {
		go a.recordVisit(hashedIP, userAgent, path)
	}
	if cfg.Debug {
		log.Debug().Str("token", a.token).Msg("admin token (dev only)")
	}
	return a
}

func generateToken() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic("admin: reading random bytes: " + err.Error())
	}
	return hex.EncodeToString(b)
}

// hashIP hashes an address with the process salt. The same address maps to
// the same value until restart.
func (a *admin) hashIP(ip string) string {
	h := sha256.New()
	h.Write([]byte(ip + a.salt))
	return hex.EncodeToString(h.Sum(nil))[:16]
}

func (a *admin) checkCredentials(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.username)) == 1
	var passOK bool
	if a.passwordHash != nil {
		passOK = bcrypt.CompareHashAndPassword(a.passwordHash, []byte(password)) == nil
	} else {
		passOK = subtle.ConstantTimeCompare([]byte(password), []byte(a.password)) == 1
	}
	return userOK && passOK
}

func (a *admin) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(adminCookie)
		if err != nil || subtle.ConstantTimeCompare([]byte(token), []byte(a.token)) != 1 {
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// visitorTracking records page views with hashed IPs. Static files, admin
// pages, htmx fragment requests and DNT visitors are skipped.
func (a *admin) visitorTracking() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if c.Request.Method != http.MethodGet ||
			c.GetHeader("HX-Request") == "true" ||
			c.GetHeader("DNT") == "1" ||
			strings.HasPrefix(path, "/admin/") ||
			strings.HasPrefix(path, "/favicon") ||
			strings.HasPrefix(path, "/privacy") {
			c.Next()
			return
		}
		a.track(a.hashIP(c.ClientIP()), c.GetHeader("User-Agent"), path)
		c.Next()
	}
}

func (a *admin) recordVisit(hashedIP, userAgent, path string) {
	if err := a.db.RecordVisit(context.Background(), hashedIP, userAgent, path); err != nil {
		a.log.Error().Err(err).Msg("recording visitor")
	}
}

func (a *admin) routes(r *gin.Engine) {
	r.GET("/privacy", func(c *gin.Context) {
		c.HTML(http.StatusOK, "privacy.html", gin.H{
			"title":   "Privacy Policy",
			"summary": privacySummary,
		})
	})

	r.GET("/admin/login", func(c *gin.Context) {
		c.HTML(http.StatusOK, "admin-login.html", gin.H{
			"title": "Admin Login",
		})
	})

	r.POST("/admin/login", func(c *gin.Context) {
		if a.checkCredentials(c.PostForm("username"), c.PostForm("password")) {
			c.SetSameSite(http.SameSiteStrictMode)
			c.SetCookie(adminCookie, a.token, 3600*24, "/admin", "", a.secure, true)
			a.log.Info().Str("client", a.hashIP(c.ClientIP())).Msg("admin login")
			c.Redirect(http.StatusFound, "/admin/dashboard")
			return
		}
		a.log.Warn().Str("client", a.hashIP(c.ClientIP())).Msg("failed admin login")
		c.HTML(http.StatusUnauthorized, "admin-login.html", gin.H{
			"title": "Admin Login",
			"error": "Invalid credentials",
		})
	})

	r.GET("/admin/logout", func(c *gin.Context) {
		c.SetCookie(adminCookie, "", -1, "/admin", "", a.secure, true)
		c.Redirect(http.StatusFound, "/admin/login")
	})

	g := r.Group("/admin")
	g.Use(a.authMiddleware())

	g.GET("/dashboard", func(c *gin.Context) {
		stats, err := a.db.Stats(c.Request.Context())
		if err != nil {
			a.log.Error().Err(err).Msg("loading admin stats")
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{
				"error": "Failed to load statistics",
			})
			return
		}
		c.HTML(http.StatusOK, "admin-dashboard.html", gin.H{"stats": stats})
	})

	g.GET("/api/stats", func(c *gin.Context) {
		stats, err := a.db.Stats(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, stats)
	})

	g.GET("/messages", func(c *gin.Context) {
		msgs, err := a.db.Messages(c.Request.Context(), 200)
		if err != nil {
			a.log.Error().Err(err).Msg("loading messages")
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{
				"error": "Failed to load messages",
			})
			return
		}
		c.HTML(http.StatusOK, "admin-messages.html", gin.H{"messages": msgs})
	})

	g.DELETE("/messages/:id", func(c *gin.Context) {
		id := c.Param("id")
		err := a.db.DeleteMessage(c.Request.Context(), id)
		switch {
		case errors.Is(err, store.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Message not found"})
			return
		case err != nil:
			a.log.Error().Err(err).Str("message_id", id).Msg("deleting message")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete message"})
			return
		}
		a.log.Info().Str("message_id", id).Msg("message deleted")
		c.JSON(http.StatusOK, gin.H{"message": "Message deleted successfully"})
	})

	g.GET("/visitors", func(c *gin.Context) {
		visitors, err := a.db.RecentVisitors(c.Request.Context(), 200)
		if err != nil {
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{
				"error": "Failed to load visitors",
			})
			return
		}
		c.HTML(http.StatusOK, "admin-visitors.html", gin.H{"visitors": visitors})
	})

	g.POST("/privacy/cleanup", func(c *gin.Context) {
		n, err := a.db.CleanupVisitors(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Privacy cleanup complete", "removed": n})
	})

	g.GET("/export/stats", func(c *gin.Context) {
		stats, err := a.db.Stats(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Header("Content-Disposition", "attachment; filename=admin-stats.json")
		c.JSON(http.StatusOK, stats)
	})
}
