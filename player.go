package main

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Dhikaaapr/portfolio/internal/media"
)

// playerView is the template data of the floating music control.
type playerView struct {
	media.PlaybackState
	Src   string
	Clock string
	Bars  []media.Bar
}

func (a *app) playerData(s *session) playerView {
	v := playerView{
		PlaybackState: s.player.State(),
		Src:           "/" + a.cfg.Track,
		Bars:          media.DefaultIndicator.Bars(),
	}
	if a.track != nil {
		v.Clock = a.track.Clock()
	}
	return v
}

func (a *app) renderPlayer(c *gin.Context, fn func(s *session)) {
	var view playerView
	ok := a.runSession(c, func(s *session) {
		fn(s)
		view = a.playerData(s)
	})
	if ok {
		c.HTML(http.StatusOK, "player.html", view)
	}
}

func (a *app) handlePlayerToggle(c *gin.Context) {
	a.renderPlayer(c, func(s *session) { s.player.TogglePlay() })
}

func (a *app) handlePlayerMute(c *gin.Context) {
	a.renderPlayer(c, func(s *session) { s.player.ToggleMute() })
}

func (a *app) handlePlayerVolume(c *gin.Context) {
	v, err := strconv.ParseFloat(c.PostForm("v"), 64)
	if err != nil {
		c.String(http.StatusBadRequest, "volume must be a number between 0 and 1")
		return
	}
	a.renderPlayer(c, func(s *session) { s.player.SetVolume(v) })
}

// handlePlayerReport receives what the page's <audio> element actually did.
// seq names the start being reported; only the latest start counts.
func (a *app) handlePlayerReport(c *gin.Context) {
	switch event := c.PostForm("event"); event {
	case "play-failed":
		seq, err := strconv.ParseUint(c.PostForm("seq"), 10, 64)
		if err != nil {
			c.String(http.StatusBadRequest, "seq must identify the failed start")
			return
		}
		reason := c.PostForm("reason")
		if a.runSession(c, func(s *session) {
			if seq != s.playSeq {
				s.log.Debug().Uint64("seq", seq).Uint64("latest", s.playSeq).Msg("stale playback report")
				return
			}
			s.audible = false
			s.player.PlaybackFailed(reason)
		}) {
			c.Status(http.StatusNoContent)
		}
	default:
		c.String(http.StatusBadRequest, "unknown player event %q", event)
	}
}
