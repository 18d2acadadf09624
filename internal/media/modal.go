package media

import (
	"fmt"

	"github.com/Dhikaaapr/portfolio/internal/content"
)

// ScrollLock suppresses page scrolling while held.
type ScrollLock interface {
	Lock()
	Unlock()
}

// CloseReason names the exit path that closed a modal.
type CloseReason string

const (
	CloseButton CloseReason = "button"
	Backdrop    CloseReason = "backdrop"
	Teardown    CloseReason = "teardown"
)

func ParseCloseReason(s string) (CloseReason, error) {
	switch r := CloseReason(s); r {
	case CloseButton, Backdrop, Teardown:
		return r, nil
	case "":
		return CloseButton, nil
	}
	return "", fmt.Errorf("media: unknown close reason %q", s)
}

// Modal is the single project media overlay of a page. It is either closed
// or open on exactly one project.
//
// Entering the open state takes the scroll lock and asks for silence;
// leaving it releases the lock and asks for the music back. Switching from
// one project to another while open does neither.
type Modal struct {
	bus       *Bus
	scroll    ScrollLock
	active    *content.Project
	lastClose CloseReason
}

func NewModal(bus *Bus, scroll ScrollLock) *Modal {
	return &Modal{bus: bus, scroll: scroll}
}

// Active returns the open project, or nil when closed.
func (m *Modal) Active() *content.Project { return m.active }

func (m *Modal) IsOpen() bool { return m.active != nil }

// Open shows p. It reports whether the modal was closed before the call.
func (m *Modal) Open(p content.Project) (opened bool, err error) {
	if !p.HasMedia() {
		return false, fmt.Errorf("%w: %q", content.ErrNoMedia, p.Name)
	}
	if m.active != nil {
		m.active = &p
		return false, nil
	}
	m.active = &p
	m.scroll.Lock()
	m.bus.Emit(PauseRequested)
	return true, nil
}

// Close hides the modal. Closing an already closed modal is a no-op and
// reports false, so every exit path releases the lock exactly once.
func (m *Modal) Close(reason CloseReason) bool {
	if m.active == nil {
		return false
	}
	m.active = nil
	m.lastClose = reason
	m.scroll.Unlock()
	m.bus.Emit(ResumeRequested)
	return true
}

// LastClose reports the exit path of the most recent close, or "" if the
// modal has never been closed. No-op closes do not change it.
func (m *Modal) LastClose() CloseReason { return m.lastClose }

// Teardown closes the modal when its owner goes away.
func (m *Modal) Teardown() bool { return m.Close(Teardown) }
