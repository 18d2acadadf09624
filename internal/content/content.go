// Package content holds the static data the portfolio page is rendered from.
package content

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	ErrNoMedia        = errors.New("content: project has no media reference")
	ErrDuplicateSlug  = errors.New("content: duplicate project slug")
	ErrUnknownProject = errors.New("content: unknown project")
)

type Document struct {
	Metadata    Metadata        `yaml:"metadata"`
	Hero        Hero            `yaml:"hero"`
	NavLinks    []NavLink       `yaml:"nav_links"`
	SocialLinks []SocialLink    `yaml:"social_links"`
	About       About           `yaml:"about"`
	Skills      []SkillCategory `yaml:"skills"`
	Projects    []Project       `yaml:"projects"`
	Experiences []Experience    `yaml:"experiences"`
	Education   Education       `yaml:"education"`
	Contact     Contact         `yaml:"contact"`
}

type Metadata struct {
	Author      string   `yaml:"author"`
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	SiteURL     string   `yaml:"site_url"`
	Keywords    []string `yaml:"keywords"`
	Image       string   `yaml:"image"`
}

type Hero struct {
	Name         string   `yaml:"name"`
	FirstName    string   `yaml:"first_name"`
	LastName     string   `yaml:"last_name"`
	Greeting     string   `yaml:"greeting"`
	TypedStrings []string `yaml:"typed_strings"`
	Description  string   `yaml:"description"`
	ProfileImage string   `yaml:"profile_image"`
	CVURL        string   `yaml:"cv_url"`
}

type NavLink struct {
	Name string `yaml:"name"`
	Href string `yaml:"href"`
}

type SocialLink struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
	Icon string `yaml:"icon"`
}

type About struct {
	Title       string   `yaml:"title"`
	Description []string `yaml:"description"`
	Stats       []Stat   `yaml:"stats"`
}

type Stat struct {
	Label string `yaml:"label"`
	Value string `yaml:"value"`
}

type SkillCategory struct {
	Category string  `yaml:"category"`
	Items    []Skill `yaml:"items"`
}

type Skill struct {
	Name  string `yaml:"name"`
	Icon  string `yaml:"icon"`
	Color string `yaml:"color"`
}

// Project is one card in the projects carousel. Mobile selects the
// phone-frame layout when the project is opened in the media modal.
type Project struct {
	Name        string   `yaml:"name"`
	Slug        string   `yaml:"slug"`
	Image       string   `yaml:"image"`
	Video       string   `yaml:"video"`
	Description string   `yaml:"description"`
	Gradient    []string `yaml:"gradient"`
	URL         string   `yaml:"url"`
	Tech        []string `yaml:"tech"`
	Mobile      bool     `yaml:"mobile"`
}

func (p Project) HasVideo() bool { return p.Video != "" }

func (p Project) HasMedia() bool { return p.Video != "" || p.Image != "" }

// Background returns a CSS gradient built from the project's gradient stops.
func (p Project) Background() string {
	switch len(p.Gradient) {
	case 0:
		return "#111827"
	case 1:
		return p.Gradient[0]
	}
	return fmt.Sprintf("linear-gradient(135deg, %s)", strings.Join(p.Gradient, ", "))
}

type Experience struct {
	Company     string   `yaml:"company"`
	Role        string   `yaml:"role"`
	Period      string   `yaml:"period"`
	Logo        string   `yaml:"logo"`
	Description []string `yaml:"description"`
	Tech        []string `yaml:"tech"`
}

type Education struct {
	Degree       Degree        `yaml:"degree"`
	Overview     string        `yaml:"overview"`
	Achievements []Achievement `yaml:"achievements"`
}

type Degree struct {
	Title      string `yaml:"title"`
	University string `yaml:"university"`
	Period     string `yaml:"period"`
	Location   string `yaml:"location"`
	Status     string `yaml:"status"`
	GPA        string `yaml:"gpa"`
	Logo       string `yaml:"logo"`
}

type Achievement struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

type Contact struct {
	Title    string `yaml:"title"`
	Subtitle string `yaml:"subtitle"`
	Email    string `yaml:"email"`
}

// Project looks a project up by slug.
func (d *Document) Project(slug string) (Project, error) {
	for _, p := range d.Projects {
		if p.Slug == slug {
			return p, nil
		}
	}
	return Project{}, fmt.Errorf("%w: %q", ErrUnknownProject, slug)
}

var slugUnsafe = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify turns a project name into a URL path segment.
func Slugify(name string) string {
	s := slugUnsafe.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(s, "-")
}

// normalize fills derived fields and checks the document is renderable.
func (d *Document) normalize() error {
	seen := make(map[string]bool, len(d.Projects))
	for i := range d.Projects {
		p := &d.Projects[i]
		if p.Slug == "" {
			p.Slug = Slugify(p.Name)
		}
		if !p.HasMedia() {
			return fmt.Errorf("%w: %q", ErrNoMedia, p.Name)
		}
		if seen[p.Slug] {
			return fmt.Errorf("%w: %q", ErrDuplicateSlug, p.Slug)
		}
		seen[p.Slug] = true
	}
	return nil
}
