package engine

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pomodial/internal/core/model"
)

// stubClock hands out tickers that never fire, so tests drive the countdown
// by calling Tick directly.
type stubClock struct{}

func (stubClock) NewTicker(time.Duration) Ticker { return stubTicker{} }

type stubTicker struct{}

func (stubTicker) C() <-chan time.Time { return nil }
func (stubTicker) Stop()               {}

type stubStore struct {
	presets  map[model.Mode]int
	sets     int
	lastMode model.Mode
	writes   []model.Mode
}

func newStubStore() *stubStore {
	return &stubStore{
		presets: map[model.Mode]int{
			model.ModeFocus:      25,
			model.ModeShortBreak: 5,
			model.ModeLongBreak:  15,
		},
		sets:     4,
		lastMode: model.ModeFocus,
	}
}

func (s *stubStore) PresetMinutes(mode model.Mode) int { return s.presets[mode] }
func (s *stubStore) SetsBeforeLong() int               { return s.sets }
func (s *stubStore) LastMode() model.Mode              { return s.lastMode }
func (s *stubStore) SetLastMode(mode model.Mode) {
	s.lastMode = mode
	s.writes = append(s.writes, mode)
}

func newTestEngine(store ConfigStore) *Engine {
	return New(store, Config{TickInterval: time.Second, Clock: stubClock{}})
}

// eventLog records every emission in delivery order.
func recordEvents(eng *Engine) *[]string {
	var events []string
	eng.OnTick(func(remaining int) {
		events = append(events, fmt.Sprintf("tick:%d", remaining))
	})
	eng.OnStateChange(func(state model.RunState) {
		events = append(events, "state:"+string(state))
	})
	eng.OnFinished(func(mode model.Mode) {
		events = append(events, "finished:"+string(mode))
	})
	eng.OnModeChange(func(mode model.Mode) {
		events = append(events, "mode:"+string(mode))
	})
	return &events
}

func tickN(eng *Engine, n int) {
	for i := 0; i < n; i++ {
		eng.Tick()
	}
}

func TestNewLoadsLastModePreset(t *testing.T) {
	store := newStubStore()
	store.lastMode = model.ModeShortBreak

	eng := newTestEngine(store)

	snapshot := eng.Snapshot()
	assert.Equal(t, model.ModeShortBreak, snapshot.Mode)
	assert.Equal(t, model.StateIdle, snapshot.State)
	assert.Equal(t, 300, snapshot.TotalSeconds)
	assert.Equal(t, 300, snapshot.RemainingSeconds)
}

func TestNewFallsBackToFocusForUnknownMode(t *testing.T) {
	store := newStubStore()
	store.lastMode = model.Mode("bogus")

	eng := newTestEngine(store)

	assert.Equal(t, model.ModeFocus, eng.Snapshot().Mode)
}

func TestStartOrPauseToggles(t *testing.T) {
	eng := newTestEngine(newStubStore())

	eng.StartOrPause()
	assert.Equal(t, model.StateRunning, eng.Snapshot().State)

	eng.StartOrPause()
	assert.Equal(t, model.StatePaused, eng.Snapshot().State)

	eng.StartOrPause()
	assert.Equal(t, model.StateRunning, eng.Snapshot().State)
}

func TestStartWithZeroRemainingIsNoOp(t *testing.T) {
	eng := newTestEngine(newStubStore())
	eng.Reset()
	events := recordEvents(eng)

	eng.StartOrPause()

	assert.Equal(t, model.StateIdle, eng.Snapshot().State)
	assert.Empty(t, *events)
}

func TestSetDurationClampsAcrossRange(t *testing.T) {
	maxSeconds := model.MaxDialMinutes * 60
	cases := []struct {
		input int
		want  int
	}{
		{-100, 0},
		{-1, 0},
		{0, 0},
		{1, 1},
		{2220, 2220},
		{maxSeconds, maxSeconds},
		{maxSeconds + 1, maxSeconds},
		{maxSeconds + 100, maxSeconds},
	}

	for _, tc := range cases {
		eng := newTestEngine(newStubStore())
		eng.SetDuration(tc.input)

		snapshot := eng.Snapshot()
		assert.Equal(t, tc.want, snapshot.RemainingSeconds, "input %d", tc.input)
		assert.Equal(t, tc.want, snapshot.TotalSeconds, "input %d", tc.input)
	}
}

func TestSetDurationIgnoredWhileRunning(t *testing.T) {
	eng := newTestEngine(newStubStore())
	eng.StartOrPause()
	before := eng.Snapshot().RemainingSeconds

	eng.SetDuration(10)

	assert.Equal(t, before, eng.Snapshot().RemainingSeconds)
}

func TestSetDurationEmitsTickAndState(t *testing.T) {
	eng := newTestEngine(newStubStore())
	events := recordEvents(eng)

	eng.SetDuration(90)

	assert.Equal(t, []string{"tick:90", "state:idle"}, *events)
}

func TestSetDurationAllowedWhilePaused(t *testing.T) {
	eng := newTestEngine(newStubStore())
	eng.StartOrPause()
	eng.StartOrPause()
	require.Equal(t, model.StatePaused, eng.Snapshot().State)

	eng.SetDuration(120)

	snapshot := eng.Snapshot()
	assert.Equal(t, model.StatePaused, snapshot.State)
	assert.Equal(t, 120, snapshot.RemainingSeconds)
}

func TestResetZeroesClock(t *testing.T) {
	eng := newTestEngine(newStubStore())
	eng.StartOrPause()
	events := recordEvents(eng)

	eng.Reset()

	snapshot := eng.Snapshot()
	assert.Equal(t, model.StateIdle, snapshot.State)
	assert.Zero(t, snapshot.RemainingSeconds)
	assert.Zero(t, snapshot.TotalSeconds)
	assert.Equal(t, []string{"tick:0", "state:idle"}, *events)
}

func TestCountdownFinishesAfterExactTicks(t *testing.T) {
	eng := newTestEngine(newStubStore())
	eng.SetDuration(3)

	var finished int
	eng.OnFinished(func(model.Mode) { finished++ })

	eng.StartOrPause()
	tickN(eng, 2)
	assert.Equal(t, 1, eng.Snapshot().RemainingSeconds)
	assert.Zero(t, finished)

	eng.Tick()
	snapshot := eng.Snapshot()
	assert.Equal(t, model.StateIdle, snapshot.State)
	assert.Zero(t, snapshot.RemainingSeconds)
	assert.Equal(t, 1, finished)

	// Countdown never goes below zero and finished never fires twice.
	eng.Tick()
	assert.Zero(t, eng.Snapshot().RemainingSeconds)
	assert.Equal(t, 1, finished)
}

func TestTickIgnoredUnlessRunning(t *testing.T) {
	eng := newTestEngine(newStubStore())
	before := eng.Snapshot().RemainingSeconds

	eng.Tick()
	assert.Equal(t, before, eng.Snapshot().RemainingSeconds)

	eng.StartOrPause()
	eng.StartOrPause()
	eng.Tick()
	assert.Equal(t, before, eng.Snapshot().RemainingSeconds)
}

func TestManualDurationDoesNotAutoAdvance(t *testing.T) {
	store := newStubStore()
	eng := newTestEngine(store)
	eng.SetDuration(2)

	eng.StartOrPause()
	tickN(eng, 2)

	snapshot := eng.Snapshot()
	assert.Equal(t, model.ModeFocus, snapshot.Mode)
	assert.Zero(t, snapshot.CompletedFocusCount)
	assert.Empty(t, store.writes)
}

func TestPresetExpiryAdvancesToShortBreak(t *testing.T) {
	store := newStubStore()
	store.presets[model.ModeFocus] = 25
	eng := newTestEngine(store)

	var finishedModes []model.Mode
	eng.OnFinished(func(mode model.Mode) { finishedModes = append(finishedModes, mode) })

	eng.StartOrPause()
	tickN(eng, 1500)

	snapshot := eng.Snapshot()
	assert.Equal(t, model.StateIdle, snapshot.State)
	assert.Equal(t, []model.Mode{model.ModeFocus}, finishedModes)
	assert.Equal(t, model.ModeShortBreak, snapshot.Mode)
	assert.Equal(t, 300, snapshot.RemainingSeconds)
	assert.Equal(t, []model.Mode{model.ModeShortBreak}, store.writes)
}

func TestAutoAdvanceFullCycle(t *testing.T) {
	store := newStubStore()
	store.presets = map[model.Mode]int{
		model.ModeFocus:      1,
		model.ModeShortBreak: 1,
		model.ModeLongBreak:  1,
	}
	eng := newTestEngine(store)

	var modes []model.Mode
	eng.OnModeChange(func(mode model.Mode) { modes = append(modes, mode) })

	// Run seven consecutive preset expiries: 4 focus sessions interleaved
	// with 3 short breaks, the last focus rolling into the long break.
	for i := 0; i < 7; i++ {
		eng.StartOrPause()
		tickN(eng, 60)
	}

	want := []model.Mode{
		model.ModeShortBreak,
		model.ModeFocus,
		model.ModeShortBreak,
		model.ModeFocus,
		model.ModeShortBreak,
		model.ModeFocus,
		model.ModeLongBreak,
	}
	assert.Equal(t, want, modes)
	assert.Zero(t, eng.Snapshot().CompletedFocusCount)

	// The long break expiry returns to focus.
	eng.StartOrPause()
	tickN(eng, 60)
	assert.Equal(t, model.ModeFocus, eng.Snapshot().Mode)
}

func TestSetModeWhileRunningStopsCountdown(t *testing.T) {
	store := newStubStore()
	eng := newTestEngine(store)
	eng.StartOrPause()
	tickN(eng, 10)

	eng.SetMode(model.ModeLongBreak)

	snapshot := eng.Snapshot()
	assert.Equal(t, model.StateIdle, snapshot.State)
	assert.Equal(t, model.ModeLongBreak, snapshot.Mode)
	assert.Equal(t, 900, snapshot.TotalSeconds)
	assert.Equal(t, 900, snapshot.RemainingSeconds)
	assert.Equal(t, []model.Mode{model.ModeLongBreak}, store.writes)
}

func TestSetModeIgnoresUnknownMode(t *testing.T) {
	eng := newTestEngine(newStubStore())
	before := eng.Snapshot()

	eng.SetMode(model.Mode("coffee"))

	assert.Equal(t, before, eng.Snapshot())
}

func TestSetModeEventOrder(t *testing.T) {
	eng := newTestEngine(newStubStore())
	events := recordEvents(eng)

	eng.SetMode(model.ModeShortBreak)

	assert.Equal(t, []string{"mode:short", "tick:300", "state:idle"}, *events)
}

func TestExpiryEventOrder(t *testing.T) {
	store := newStubStore()
	store.presets[model.ModeFocus] = 1
	eng := newTestEngine(store)
	eng.StartOrPause()
	tickN(eng, 59)

	events := recordEvents(eng)
	eng.Tick()

	want := []string{
		"tick:0",
		"state:idle",
		"finished:work",
		"mode:short",
		"tick:300",
	}
	assert.Equal(t, want, *events)
}

func TestListenerMayReenterEngine(t *testing.T) {
	store := newStubStore()
	store.presets[model.ModeFocus] = 1
	eng := newTestEngine(store)

	// Restarts the countdown from a finished listener without deadlocking.
	eng.OnFinished(func(model.Mode) {
		eng.StartOrPause()
	})

	eng.StartOrPause()
	tickN(eng, 60)

	assert.Equal(t, model.StateRunning, eng.Snapshot().State)
}

func TestSetsBeforeLongFallsBackToDefault(t *testing.T) {
	store := newStubStore()
	store.sets = 0
	store.presets[model.ModeFocus] = 1
	store.presets[model.ModeShortBreak] = 1
	eng := newTestEngine(store)

	var modes []model.Mode
	eng.OnModeChange(func(mode model.Mode) { modes = append(modes, mode) })

	for i := 0; i < 7; i++ {
		eng.StartOrPause()
		tickN(eng, 60)
	}

	// The fourth focus expiry still reaches the long break.
	assert.Equal(t, model.ModeLongBreak, modes[len(modes)-1])
}
