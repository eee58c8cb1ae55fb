// Package notify delivers completion notifications and finish sounds.
// Delivery is best-effort: every failure is logged and swallowed, nothing
// propagates back to the engine.
package notify

import (
	"bytes"
	"io"
	"log"
	"math"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"

	"pomodial/internal/config"
	"pomodial/internal/core/model"
	"pomodial/resources"
)

// Dispatcher reacts to finished(mode) events.
type Dispatcher struct {
	app   fyne.App
	store *config.Store

	mu        sync.Mutex
	buffers   map[string]*beep.Buffer
	format    beep.Format
	speakerOK bool
}

// New creates a dispatcher. The speaker is initialized lazily on the first
// sound played.
func New(app fyne.App, store *config.Store) *Dispatcher {
	return &Dispatcher{
		app:     app,
		store:   store,
		buffers: make(map[string]*beep.Buffer),
	}
}

// Finished shows an OS notification for the completed mode and plays the
// configured finish sound.
func (d *Dispatcher) Finished(mode model.Mode) {
	title, message := finishText(mode)
	if d.app != nil {
		d.app.SendNotification(fyne.NewNotification(title, message))
	}

	settings := d.store.Settings()
	if !settings.SoundOn {
		return
	}

	key := d.store.BreakFinishSound()
	if mode == model.ModeFocus {
		key = d.store.FocusFinishSound()
	}
	d.play(key, settings.SoundVolume)
}

// Preview plays a sound key at the current volume, for menu selection.
func (d *Dispatcher) Preview(key string) {
	d.play(key, d.store.Settings().SoundVolume)
}

func (d *Dispatcher) play(key string, volume float64) {
	d.mu.Lock()
	buffer, err := d.bufferLocked(key)
	ok := d.speakerOK
	d.mu.Unlock()
	if err != nil {
		log.Printf("finish sound %s: %v", key, err)
		return
	}
	if !ok {
		return
	}

	streamer := buffer.Streamer(0, buffer.Len())
	speaker.Play(&effects.Volume{
		Streamer: streamer,
		Base:     2,
		Volume:   volumeGain(volume),
		Silent:   volume <= 0,
	})
}

func (d *Dispatcher) bufferLocked(key string) (*beep.Buffer, error) {
	if buffer, ok := d.buffers[key]; ok {
		return buffer, nil
	}

	data, err := resources.Sound(key)
	if err != nil {
		return nil, err
	}
	streamer, format, err := wav.Decode(readCloser(data))
	if err != nil {
		return nil, err
	}
	defer streamer.Close()

	if d.format.SampleRate == 0 {
		if err := speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/10)); err != nil {
			return nil, err
		}
		d.format = format
		d.speakerOK = true
	}

	buffer := beep.NewBuffer(format)
	buffer.Append(streamer)
	d.buffers[key] = buffer
	return buffer, nil
}

// volumeGain maps a linear volume in (0, 1] to a base-2 gain exponent where
// 1.0 plays at unity.
func volumeGain(volume float64) float64 {
	if volume <= 0 {
		return 0
	}
	if volume > 1 {
		volume = 1
	}
	return math.Log2(volume)
}

func finishText(mode model.Mode) (title, message string) {
	label := mode.Label()
	if mode == model.ModeFocus {
		return "Focus complete", label + " finished. Time for a break."
	}
	return "Break complete", label + " finished. Time to focus."
}

func readCloser(data []byte) io.ReadCloser {
	return io.NopCloser(bytes.NewReader(data))
}
