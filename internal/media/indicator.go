package media

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Indicator describes the four-bar level meter next to the play button.
// While playing, each bar runs through Keyframes forward then backward,
// forever, starting Stagger later than the bar before it. While stopped,
// every bar rests at the first keyframe.
type Indicator struct {
	Keyframes []float64
	Pass      time.Duration
	Stagger   time.Duration
	Count     int
}

var DefaultIndicator = Indicator{
	Keyframes: []float64{3, 12, 6, 10, 3},
	Pass:      500 * time.Millisecond,
	Stagger:   100 * time.Millisecond,
	Count:     4,
}

// Bar is the render description of one meter bar.
type Bar struct {
	Index  int
	Delay  time.Duration
	Height float64
}

func (ind Indicator) rest() float64 {
	if len(ind.Keyframes) == 0 {
		return 0
	}
	return ind.Keyframes[0]
}

// Delay is the start offset of bar i (1-based).
func (ind Indicator) Delay(i int) time.Duration {
	return time.Duration(i) * ind.Stagger
}

// Bars lists the bars with their start offsets and resting height.
func (ind Indicator) Bars() []Bar {
	bars := make([]Bar, ind.Count)
	for i := range bars {
		bars[i] = Bar{Index: i + 1, Delay: ind.Delay(i + 1), Height: ind.rest()}
	}
	return bars
}

// HeightAt returns the height of bar i (1-based) after elapsed time of
// playback.
func (ind Indicator) HeightAt(i int, elapsed time.Duration, playing bool) float64 {
	n := len(ind.Keyframes)
	if !playing || n < 2 || ind.Pass <= 0 {
		return ind.rest()
	}
	t := elapsed - ind.Delay(i)
	if t <= 0 {
		return ind.rest()
	}

	pass := int64(t / ind.Pass)
	frac := float64(t%ind.Pass) / float64(ind.Pass)
	if pass%2 == 1 {
		frac = 1 - frac
	}

	pos := frac * float64(n-1)
	seg := int(pos)
	if seg >= n-1 {
		return ind.Keyframes[n-1]
	}
	local := easeInOut(pos - float64(seg))
	from, to := ind.Keyframes[seg], ind.Keyframes[seg+1]
	return from + (to-from)*local
}

// CSS renders an @keyframes rule plus one delay rule per bar, for use inside
// a <style> element. Bars animate only under a .playing ancestor.
func (ind Indicator) CSS(name string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "@keyframes %s {", name)
	n := len(ind.Keyframes)
	for i, h := range ind.Keyframes {
		pct := 0.0
		if n > 1 {
			pct = float64(i) / float64(n-1) * 100
		}
		fmt.Fprintf(&b, " %g%% { height: %gpx; }", math.Round(pct*100)/100, h)
	}
	b.WriteString(" }\n")
	fmt.Fprintf(&b, ".%s-bar { height: %gpx; }\n", name, ind.rest())
	fmt.Fprintf(&b, ".playing .%s-bar { animation: %s %gs ease-in-out infinite alternate; }\n",
		name, name, ind.Pass.Seconds())
	for _, bar := range ind.Bars() {
		fmt.Fprintf(&b, ".playing .%s-bar:nth-child(%d) { animation-delay: %gs; }\n",
			name, bar.Index, bar.Delay.Seconds())
	}
	return b.String()
}

func easeInOut(x float64) float64 {
	return 0.5 - 0.5*math.Cos(math.Pi*x)
}
