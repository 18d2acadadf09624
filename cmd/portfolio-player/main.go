// Command portfolio-player plays the site's background track on the local
// speaker and drives it with the same player, modal and signal bus the web
// page uses. It is a tool for checking the track and the pause/resume
// behavior without a browser.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/chzyer/readline"
	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
	"github.com/rs/zerolog"

	"github.com/Dhikaaapr/portfolio/internal/config"
	"github.com/Dhikaaapr/portfolio/internal/content"
	"github.com/Dhikaaapr/portfolio/internal/media"
)

// speakerSink starts the beep speaker on first playback.
type speakerSink struct {
	rate beep.SampleRate
}

func (speakerSink) Lock()   { speaker.Lock() }
func (speakerSink) Unlock() { speaker.Unlock() }

func (s speakerSink) Start(st beep.Streamer) error {
	if err := speaker.Init(s.rate, s.rate.N(100*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(st)
	return nil
}

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		With().Timestamp().Logger()

	cfg, err := config.Read()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	doc, err := content.Load(cfg.ContentPath)
	if err != nil {
		log.Fatal().Err(err).Msg("loading content")
	}

	source, rate := openSource(cfg.Track, log)
	out := media.NewBeepOutput(source, speakerSink{rate: rate})

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "player> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("terminal")
	}
	defer rl.Close()

	c := newConsole(rl.Stdout(), doc, out, log)
	defer c.close()

	fmt.Fprintf(rl.Stdout(), "background track %s\n", cfg.Track)
	fmt.Fprintln(rl.Stdout(), "commands: play, mute, vol <0..1>, open <slug>, close, state, projects, quit")
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if len(line) == 0 {
				return
			}
			continue
		}
		if errors.Is(err, io.EOF) {
			return
		}
		if c.exec(line) {
			return
		}
	}
}

// openSource opens the track for endless looping. A missing track falls
// back to silence so the controls can still be exercised.
func openSource(path string, log zerolog.Logger) (beep.Streamer, beep.SampleRate) {
	track, format, err := media.OpenTrack(path)
	if err != nil {
		log.Warn().Err(err).Str("track", path).Msg("playing silence instead")
		return beep.Silence(-1), beep.SampleRate(44100)
	}
	return beep.Loop(-1, track), format.SampleRate
}
