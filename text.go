package main

import (
	"html/template"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/Dhikaaapr/portfolio/internal/media"
)

var (
	privacySummary = `This site records anonymous page views to understand which sections
	are useful. IP addresses are hashed with a per-process salt before storage and never
	kept in raw form, Do Not Track is respected, and records older than twelve months
	are deleted automatically. Messages sent through the contact form are stored so
	they can be answered.`

	contactInvalid = "Please fill in every field with a valid email address."
)

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"join": strings.Join,
		"percent": func(v float64) int {
			return int(v*100 + 0.5)
		},
		"indicatorCSS": func(ind media.Indicator) template.CSS {
			return template.CSS(ind.CSS("level"))
		},
		"initials": initials,
		// css marks content-owned style values (gradients) as safe.
		"css": func(s string) template.CSS { return template.CSS(s) },
		"date": func(t time.Time) string {
			return t.Format("02 Jan 2006 15:04")
		},
	}
}

// initials returns the upper-cased first letter of each word in name.
func initials(name string) string {
	var b strings.Builder
	for _, f := range strings.Fields(name) {
		r, _ := utf8.DecodeRuneInString(f)
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}
