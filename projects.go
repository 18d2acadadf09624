package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Dhikaaapr/portfolio/internal/content"
	"github.com/Dhikaaapr/portfolio/internal/media"
)

type modalView struct {
	Project content.Project
	Open    bool
}

func modalData(p *content.Project) modalView {
	if p == nil {
		return modalView{}
	}
	return modalView{Project: *p, Open: true}
}

// handleProjectOpen shows a project in the media modal. Selecting another
// project while one is open swaps the content in place.
func (a *app) handleProjectOpen(c *gin.Context) {
	p, err := a.content.Document().Project(c.Param("slug"))
	if err != nil {
		c.HTML(http.StatusNotFound, "not-found.html", gin.H{"what": "project"})
		return
	}

	var (
		view    modalView
		openErr error
	)
	ok := a.runSession(c, func(s *session) {
		var opened bool
		opened, openErr = s.modal.Open(p)
		if openErr == nil {
			s.log.Debug().Str("project", p.Slug).Bool("replaced", !opened).Msg("modal open")
		}
		view = modalData(s.modal.Active())
	})
	if !ok {
		return
	}
	if errors.Is(openErr, content.ErrNoMedia) {
		c.HTML(http.StatusUnprocessableEntity, "not-found.html", gin.H{"what": "project media"})
		return
	}
	c.HTML(http.StatusOK, "modal.html", view)
}

// handleProjectClose closes the modal from the close button or a backdrop
// click. The response empties the modal slot.
func (a *app) handleProjectClose(c *gin.Context) {
	reason, err := media.ParseCloseReason(c.PostForm("reason"))
	if err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}
	if a.runSession(c, func(s *session) {
		if s.modal.Close(reason) {
			s.log.Debug().Str("reason", string(s.modal.LastClose())).Msg("modal closed")
		}
	}) {
		c.String(http.StatusOK, "")
	}
}
