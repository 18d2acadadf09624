package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Dhikaaapr/portfolio/internal/content"
	"github.com/Dhikaaapr/portfolio/internal/media"
)

// console maps typed commands onto the player and the modal. The modal is
// backed by a terminal "page" that only reports its scroll lock.
type console struct {
	out    io.Writer
	doc    *content.Document
	bus    *media.Bus
	player *media.Player
	modal  *media.Modal
	detach func()

	now func() time.Time
	// audibleSince is when the output last became audible; zero while silent.
	audibleSince time.Time
}

type terminalScroll struct{ out io.Writer }

func (t terminalScroll) Lock()   { fmt.Fprintln(t.out, "(page scroll locked)") }
func (t terminalScroll) Unlock() { fmt.Fprintln(t.out, "(page scroll released)") }

func newConsole(out io.Writer, doc *content.Document, o media.Output, log zerolog.Logger) *console {
	c := &console{
		out:    out,
		doc:    doc,
		bus:    media.NewBus(),
		player: media.NewPlayer(o, log),
		now:    time.Now,
	}
	c.modal = media.NewModal(c.bus, terminalScroll{out})
	c.detach = c.player.Attach(c.bus)
	return c
}

func (c *console) close() {
	c.modal.Teardown()
	c.detach()
	c.bus.Close()
}

// exec runs one command line and reports whether the console should exit.
func (c *console) exec(line string) (quit bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	switch cmd, args := fields[0], fields[1:]; cmd {
	case "play", "p":
		c.player.TogglePlay()
		c.printState()
	case "mute", "m":
		c.player.ToggleMute()
		c.printState()
	case "vol", "v":
		if len(args) != 1 {
			fmt.Fprintln(c.out, "usage: vol <0..1>")
			return false
		}
		v, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			fmt.Fprintf(c.out, "bad volume %q\n", args[0])
			return false
		}
		c.player.SetVolume(v)
		c.printState()
	case "open", "o":
		if len(args) != 1 {
			fmt.Fprintln(c.out, "usage: open <slug>")
			return false
		}
		p, err := c.doc.Project(args[0])
		if err != nil {
			fmt.Fprintf(c.out, "no project %q\n", args[0])
			return false
		}
		if _, err := c.modal.Open(p); err != nil {
			fmt.Fprintf(c.out, "cannot open %s: %v\n", p.Name, err)
			return false
		}
		fmt.Fprintf(c.out, "showing %s\n", p.Name)
		c.printState()
	case "close", "c":
		if !c.modal.Close(media.CloseButton) {
			fmt.Fprintln(c.out, "nothing open")
			return false
		}
		c.printState()
	case "state", "s":
		c.printState()
	case "projects", "ls":
		for _, p := range c.doc.Projects {
			fmt.Fprintf(c.out, "  %-24s %s\n", p.Slug, p.Name)
		}
	case "quit", "q", "exit":
		return true
	default:
		fmt.Fprintf(c.out, "unknown command %q\n", cmd)
	}
	return false
}

func (c *console) printState() {
	st := c.player.State()
	modal := "closed"
	if p := c.modal.Active(); p != nil {
		modal = p.Slug
	}
	fmt.Fprintf(c.out, "playing=%t audible=%t muted=%t volume=%d%% modal=%s level=%s\n",
		st.Playing, st.Audible, st.Muted, int(st.Volume*100+0.5), modal, c.level(st.Audible))
}

// level renders the meter as it looks now, one height per bar.
func (c *console) level(audible bool) string {
	now := c.now()
	switch {
	case !audible:
		c.audibleSince = time.Time{}
	case c.audibleSince.IsZero():
		c.audibleSince = now
	}
	ind := media.DefaultIndicator
	heights := make([]string, ind.Count)
	for i := range heights {
		h := ind.HeightAt(i+1, now.Sub(c.audibleSince), audible)
		heights[i] = strconv.FormatFloat(h, 'f', 0, 64)
	}
	return strings.Join(heights, ",")
}
