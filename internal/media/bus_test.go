package media

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBusDropsSignalWithoutListeners(t *testing.T) {
	bus := NewBus()
	assert.Equal(t, 0, bus.Emit(PauseRequested))
}

func TestBusDeliversSynchronouslyInOrder(t *testing.T) {
	bus := NewBus()
	var got []string
	bus.Subscribe(PauseRequested, func() { got = append(got, "first") })
	bus.Subscribe(PauseRequested, func() { got = append(got, "second") })
	bus.Subscribe(ResumeRequested, func() { got = append(got, "resume") })

	n := bus.Emit(PauseRequested)

	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"first", "second"}, got)
}

func TestBusUnsubscribe(t *testing.T) {
	bus := NewBus()
	calls := 0
	off := bus.Subscribe(ResumeRequested, func() { calls++ })

	bus.Emit(ResumeRequested)
	off()
	off()
	bus.Emit(ResumeRequested)

	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, bus.Listeners(ResumeRequested))
}

func TestBusHandlerMayEmit(t *testing.T) {
	bus := NewBus()
	resumed := false
	bus.Subscribe(ResumeRequested, func() { resumed = true })
	bus.Subscribe(PauseRequested, func() { bus.Emit(ResumeRequested) })

	bus.Emit(PauseRequested)

	assert.True(t, resumed)
}

func TestBusClose(t *testing.T) {
	bus := NewBus()
	calls := 0
	bus.Subscribe(PauseRequested, func() { calls++ })

	bus.Close()
	bus.Subscribe(PauseRequested, func() { calls++ })()

	assert.Equal(t, 0, bus.Emit(PauseRequested))
	assert.Equal(t, 0, calls)
}

func TestSignalString(t *testing.T) {
	assert.Equal(t, "pause_requested", PauseRequested.String())
	assert.Equal(t, "resume_requested", ResumeRequested.String())
	assert.Equal(t, "unknown", Signal(42).String())
}
