package media

import (
	"fmt"
	"math"
	"sync"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
)

// Sink receives the output chain the first time playback starts. Lock and
// Unlock guard edits to the chain while the sink is pulling samples from it.
type Sink interface {
	sync.Locker
	Start(s beep.Streamer) error
}

// PullSink is a Sink for callers that pull samples themselves.
type PullSink struct {
	sync.Mutex
	Streamer beep.Streamer
}

func (s *PullSink) Start(st beep.Streamer) error {
	s.Streamer = st
	return nil
}

// BeepOutput is an Output backed by a beep pipeline:
// source -> Ctrl (pause) -> Volume (level, mute) -> sink.
type BeepOutput struct {
	sink    Sink
	source  beep.Streamer
	ctrl    *beep.Ctrl
	volume  *effects.Volume
	level   float64
	muted   bool
	started bool
}

func NewBeepOutput(source beep.Streamer, sink Sink) *BeepOutput {
	ctrl := &beep.Ctrl{Streamer: source, Paused: true}
	return &BeepOutput{
		sink:   sink,
		source: source,
		ctrl:   ctrl,
		volume: &effects.Volume{Streamer: ctrl, Base: 2},
		level:  1,
	}
}

func (o *BeepOutput) Play() error {
	if err := o.source.Err(); err != nil {
		return fmt.Errorf("media: audio source: %w", err)
	}
	if !o.started {
		if err := o.sink.Start(o.volume); err != nil {
			return fmt.Errorf("media: start sink: %w", err)
		}
		o.started = true
	}
	o.sink.Lock()
	o.ctrl.Paused = false
	o.sink.Unlock()
	return nil
}

func (o *BeepOutput) Pause() {
	o.sink.Lock()
	o.ctrl.Paused = true
	o.sink.Unlock()
}

func (o *BeepOutput) SetMuted(muted bool) {
	o.sink.Lock()
	o.muted = muted
	o.volume.Silent = o.muted || o.level <= 0
	o.sink.Unlock()
}

func (o *BeepOutput) SetVolume(level float64) {
	o.sink.Lock()
	o.level = level
	o.volume.Volume = levelToVolume(level)
	o.volume.Silent = o.muted || level <= 0
	o.sink.Unlock()
}

// Paused reports whether the pipeline is currently holding playback.
func (o *BeepOutput) Paused() bool {
	o.sink.Lock()
	defer o.sink.Unlock()
	return o.ctrl.Paused
}

// levelToVolume maps a linear 0..1 level onto beep's base-2 scale:
// 1 -> 0, 0.5 -> -1, 0.25 -> -2, 0 -> -10.
func levelToVolume(level float64) float64 {
	if level <= 0 {
		return -10
	}
	if level >= 1 {
		return 0
	}
	return math.Log2(level)
}
