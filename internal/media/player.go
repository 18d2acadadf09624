package media

import (
	"math"

	"github.com/rs/zerolog"
)

const DefaultVolume = 0.5

// Output is the audio sink a Player drives. Play may fail (autoplay policy,
// decode error); the Player treats that as silence, never as an error.
type Output interface {
	Play() error
	Pause()
	SetMuted(muted bool)
	SetVolume(level float64)
}

// PlaybackState is a snapshot of a Player.
//
// Playing is what the user last asked for. Audible is whether the output is
// actually running. A pause forced by the modal only clears Audible, which is
// how a later resume knows whether to restart.
type PlaybackState struct {
	Playing bool    `json:"playing"`
	Audible bool    `json:"audible"`
	Muted   bool    `json:"muted"`
	Volume  float64 `json:"volume"`
}

// Player owns one looping background track and its transport controls.
// It is not safe for concurrent use; callers serialize access the same way
// a UI event loop would.
type Player struct {
	out   Output
	log   zerolog.Logger
	state PlaybackState
}

func NewPlayer(out Output, log zerolog.Logger) *Player {
	p := &Player{
		out:   out,
		log:   log,
		state: PlaybackState{Volume: DefaultVolume},
	}
	out.SetVolume(DefaultVolume)
	return p
}

func (p *Player) State() PlaybackState { return p.state }

// TogglePlay flips the user's intent. Starting may fail; the intent still
// flips and the output simply stays silent.
func (p *Player) TogglePlay() {
	if p.state.Playing {
		p.out.Pause()
		p.state.Playing = false
		p.state.Audible = false
		return
	}
	p.state.Playing = true
	p.start()
}

func (p *Player) ToggleMute() {
	p.state.Muted = !p.state.Muted
	p.out.SetMuted(p.state.Muted)
}

// SetVolume clamps v to [0,1] and applies it whether or not the track is
// playing or muted.
func (p *Player) SetVolume(v float64) {
	switch {
	case v < 0 || math.IsNaN(v):
		v = 0
	case v > 1:
		v = 1
	}
	p.state.Volume = v
	p.out.SetVolume(v)
}

// OnExternalPause silences the output without touching Playing.
func (p *Player) OnExternalPause() {
	if !p.state.Audible {
		return
	}
	p.out.Pause()
	p.state.Audible = false
}

// OnExternalResume restarts the output if the user still wants it playing.
func (p *Player) OnExternalResume() {
	if !p.state.Playing || p.state.Audible {
		return
	}
	p.start()
}

// PlaybackFailed records that an output reported a failed start after the
// fact, as a browser does when play() is rejected asynchronously.
func (p *Player) PlaybackFailed(reason string) {
	p.log.Warn().Str("reason", reason).Msg("background audio failed to start")
	p.state.Audible = false
}

// Attach subscribes the player to pause and resume requests on bus.
func (p *Player) Attach(bus *Bus) (detach func()) {
	offPause := bus.Subscribe(PauseRequested, p.OnExternalPause)
	offResume := bus.Subscribe(ResumeRequested, p.OnExternalResume)
	return func() {
		offPause()
		offResume()
	}
}

func (p *Player) start() {
	if err := p.out.Play(); err != nil {
		p.log.Warn().Err(err).Msg("background audio failed to start")
		p.state.Audible = false
		return
	}
	p.state.Audible = true
}
