package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Dhikaaapr/portfolio/internal/contact"
)

func (a *app) handleContactForm(c *gin.Context) {
	c.HTML(http.StatusOK, "contact.html", gin.H{
		"title":   a.content.Document().Contact.Title,
		"contact": a.content.Document().Contact,
		"form":    contact.Form{},
		"demo":    a.contact.Demo(),
	})
}

// handleContact delivers the form. Both outcomes answer 200 with a fragment
// so htmx swaps them into the contact section.
func (a *app) handleContact(c *gin.Context) {
	var form contact.Form
	if err := c.ShouldBind(&form); err != nil {
		c.HTML(http.StatusOK, "contact-error.html", gin.H{
			"error": contactInvalid,
			"form":  form,
		})
		return
	}

	res := a.contact.Submit(c.Request.Context(), form)
	if !res.OK() {
		c.HTML(http.StatusOK, "contact-error.html", gin.H{
			"error": res.Message,
			"form":  form,
		})
		return
	}
	c.HTML(http.StatusOK, "contact-success.html", gin.H{
		"success": res.Message,
		"form":    contact.Form{},
	})
}
