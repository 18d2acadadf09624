package media

import (
	"errors"

	"github.com/Dhikaaapr/portfolio/internal/content"
)

// fakeOutput records what a Player asked of it.
type fakeOutput struct {
	running bool
	fail    error
	plays   int
	pauses  int
	muted   bool
	volume  float64
}

func (o *fakeOutput) Play() error {
	o.plays++
	if o.fail != nil {
		return o.fail
	}
	o.running = true
	return nil
}

func (o *fakeOutput) Pause() {
	o.pauses++
	o.running = false
}

func (o *fakeOutput) SetMuted(muted bool)     { o.muted = muted }
func (o *fakeOutput) SetVolume(level float64) { o.volume = level }

// fakeScroll counts lock transitions and fails the test on imbalance.
type fakeScroll struct {
	locks, unlocks int
}

func (s *fakeScroll) Lock()        { s.locks++ }
func (s *fakeScroll) Unlock()      { s.unlocks++ }
func (s *fakeScroll) locked() bool { return s.locks > s.unlocks }

var errAutoplay = errors.New("NotAllowedError: play() failed because the user didn't interact")

var (
	projectA = content.Project{Name: "A", Slug: "a", Video: "/static/a.mp4", Mobile: true}
	projectB = content.Project{Name: "B", Slug: "b", Image: "/images/b.png"}
)
