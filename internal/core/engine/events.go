package engine

import "pomodial/internal/core/model"

type eventKind int

const (
	eventTick eventKind = iota
	eventState
	eventFinished
	eventMode
)

// event is a queued notification, built while the engine mutex is held and
// delivered after it is released.
type event struct {
	kind      eventKind
	remaining int
	state     model.RunState
	mode      model.Mode
}

// OnTick registers a listener for remaining-seconds changes.
func (e *Engine) OnTick(listener func(remaining int)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tickListeners = append(e.tickListeners, listener)
}

// OnStateChange registers a listener for run-state changes.
func (e *Engine) OnStateChange(listener func(state model.RunState)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stateListeners = append(e.stateListeners, listener)
}

// OnFinished registers a listener invoked when a countdown reaches zero.
// The argument is the mode that just completed.
func (e *Engine) OnFinished(listener func(mode model.Mode)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.finishListeners = append(e.finishListeners, listener)
}

// OnModeChange registers a listener for mode changes, manual or automatic.
func (e *Engine) OnModeChange(listener func(mode model.Mode)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.modeListeners = append(e.modeListeners, listener)
}

// dispatch delivers queued events synchronously, in emission order.
// The mutex must not be held: listeners are allowed to call back into the
// engine.
func (e *Engine) dispatch(events []event) {
	for _, ev := range events {
		switch ev.kind {
		case eventTick:
			e.mu.Lock()
			listeners := append(([]func(int))(nil), e.tickListeners...)
			e.mu.Unlock()
			for _, listener := range listeners {
				listener(ev.remaining)
			}
		case eventState:
			e.mu.Lock()
			listeners := append(([]func(model.RunState))(nil), e.stateListeners...)
			e.mu.Unlock()
			for _, listener := range listeners {
				listener(ev.state)
			}
		case eventFinished:
			e.mu.Lock()
			listeners := append(([]func(model.Mode))(nil), e.finishListeners...)
			e.mu.Unlock()
			for _, listener := range listeners {
				listener(ev.mode)
			}
		case eventMode:
			e.mu.Lock()
			listeners := append(([]func(model.Mode))(nil), e.modeListeners...)
			e.mu.Unlock()
			for _, listener := range listeners {
				listener(ev.mode)
			}
		}
	}
}
