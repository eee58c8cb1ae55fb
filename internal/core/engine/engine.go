package engine

import (
	"sync"
	"time"

	"pomodial/internal/core/model"
)

// ConfigStore supplies mode presets and remembers the last selected mode.
type ConfigStore interface {
	PresetMinutes(mode model.Mode) int
	SetsBeforeLong() int
	LastMode() model.Mode
	SetLastMode(mode model.Mode)
}

// Config contains runtime options for the engine.
type Config struct {
	TickInterval time.Duration
	Clock        Clock
}

// Engine is the pomodoro countdown state machine. All state is guarded by a
// single mutex; public operations are safe to call from any goroutine.
type Engine struct {
	mu      sync.Mutex
	store   ConfigStore
	options Config

	mode           model.Mode
	state          model.RunState
	totalSeconds   int
	remaining      int
	focusCount     int
	manualDuration bool

	ticker   Ticker
	tickStop chan struct{}

	tickListeners   []func(int)
	stateListeners  []func(model.RunState)
	finishListeners []func(model.Mode)
	modeListeners   []func(model.Mode)
}

// New creates an engine in Idle state. The initial mode is the store's last
// mode and its preset duration is loaded, so a finished first run cycles
// forward like any preset-driven session.
func New(store ConfigStore, options Config) *Engine {
	if options.TickInterval <= 0 {
		options.TickInterval = time.Second
	}
	if options.Clock == nil {
		options.Clock = NewRealClock()
	}

	mode := store.LastMode()
	if !mode.Valid() {
		mode = model.ModeFocus
	}

	eng := &Engine{
		store:   store,
		options: options,
		mode:    mode,
		state:   model.StateIdle,
	}
	eng.loadModeDurationLocked()
	return eng
}

// Snapshot returns a copy of the observable engine state.
func (e *Engine) Snapshot() model.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return model.Snapshot{
		Mode:                e.mode,
		State:               e.state,
		TotalSeconds:        e.totalSeconds,
		RemainingSeconds:    e.remaining,
		CompletedFocusCount: e.focusCount,
	}
}

// StartOrPause toggles Running and Paused. Starting with nothing left on the
// clock is a no-op.
func (e *Engine) StartOrPause() {
	e.mu.Lock()
	var events []event
	switch {
	case e.state == model.StateRunning:
		e.stopTickerLocked()
		e.state = model.StatePaused
		events = append(events, event{kind: eventState, state: e.state})
	case e.remaining > 0:
		e.state = model.StateRunning
		e.startTickerLocked()
		events = append(events, event{kind: eventState, state: e.state})
	}
	e.mu.Unlock()

	e.dispatch(events)
}

// SetDuration sets total and remaining time from the dial, clamped to the
// dial ceiling. Ignored while Running. The duration is marked manual, which
// disables auto-advance when it expires.
func (e *Engine) SetDuration(seconds int) {
	e.mu.Lock()
	if e.state == model.StateRunning {
		e.mu.Unlock()
		return
	}

	maxSeconds := model.MaxDialMinutes * 60
	if seconds < 0 {
		seconds = 0
	}
	if seconds > maxSeconds {
		seconds = maxSeconds
	}

	e.manualDuration = true
	e.totalSeconds = seconds
	e.remaining = seconds
	events := []event{
		{kind: eventTick, remaining: e.remaining},
		{kind: eventState, state: e.state},
	}
	e.mu.Unlock()

	e.dispatch(events)
}

// Reset stops the countdown and zeroes the clock.
func (e *Engine) Reset() {
	e.mu.Lock()
	e.stopTickerLocked()
	e.state = model.StateIdle
	e.manualDuration = true
	e.totalSeconds = 0
	e.remaining = 0
	events := []event{
		{kind: eventTick, remaining: 0},
		{kind: eventState, state: e.state},
	}
	e.mu.Unlock()

	e.dispatch(events)
}

// SetMode switches to the given mode, stops any countdown, and loads the
// mode's preset duration. The new mode is persisted as the last mode.
func (e *Engine) SetMode(mode model.Mode) {
	if !mode.Valid() {
		return
	}

	e.mu.Lock()
	e.stopTickerLocked()
	e.state = model.StateIdle
	e.mode = mode
	e.store.SetLastMode(mode)
	e.manualDuration = false
	e.loadModeDurationLocked()
	events := []event{
		{kind: eventMode, mode: e.mode},
		{kind: eventTick, remaining: e.remaining},
		{kind: eventState, state: e.state},
	}
	e.mu.Unlock()

	e.dispatch(events)
}

// Tick advances the countdown by one second. It is invoked by the engine's
// own ticker while Running and ignored in any other state.
func (e *Engine) Tick() {
	e.mu.Lock()
	if e.state != model.StateRunning {
		e.mu.Unlock()
		return
	}

	e.remaining--
	if e.remaining < 0 {
		e.remaining = 0
	}
	events := []event{{kind: eventTick, remaining: e.remaining}}

	if e.remaining == 0 {
		e.stopTickerLocked()
		e.state = model.StateIdle
		events = append(events,
			event{kind: eventState, state: e.state},
			event{kind: eventFinished, mode: e.mode},
		)
		if !e.manualDuration {
			e.advanceModeLocked()
			events = append(events,
				event{kind: eventMode, mode: e.mode},
				event{kind: eventTick, remaining: e.remaining},
			)
		}
	}
	e.mu.Unlock()

	e.dispatch(events)
}

// Stop releases the periodic ticker. Call on shutdown.
func (e *Engine) Stop() {
	e.mu.Lock()
	e.stopTickerLocked()
	e.mu.Unlock()
}

// advanceModeLocked implements the cycle Focus -> Short/Long -> Focus.
// The long break fires after SetsBeforeLong completed focus sessions.
func (e *Engine) advanceModeLocked() {
	if e.mode == model.ModeFocus {
		e.focusCount++
		sets := e.store.SetsBeforeLong()
		if sets <= 0 {
			sets = model.DefaultSetsBeforeLong
		}
		if e.focusCount >= sets {
			e.mode = model.ModeLongBreak
			e.focusCount = 0
		} else {
			e.mode = model.ModeShortBreak
		}
	} else {
		e.mode = model.ModeFocus
	}

	e.store.SetLastMode(e.mode)
	e.loadModeDurationLocked()
}

func (e *Engine) loadModeDurationLocked() {
	minutes := e.store.PresetMinutes(e.mode)
	if minutes < 0 {
		minutes = 0
	}
	e.totalSeconds = minutes * 60
	e.remaining = e.totalSeconds
}

func (e *Engine) startTickerLocked() {
	if e.ticker != nil {
		return
	}
	ticker := e.options.Clock.NewTicker(e.options.TickInterval)
	stop := make(chan struct{})
	e.ticker = ticker
	e.tickStop = stop

	go func() {
		for {
			select {
			case <-stop:
				return
			case <-ticker.C():
				e.Tick()
			}
		}
	}()
}

func (e *Engine) stopTickerLocked() {
	if e.ticker == nil {
		return
	}
	e.ticker.Stop()
	close(e.tickStop)
	e.ticker = nil
	e.tickStop = nil
}
