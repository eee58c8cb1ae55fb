// Package dialface renders the frameless circular timer dial and routes
// pointer input into the engine. Redraws happen only in response to engine
// events.
package dialface

import (
	"fmt"
	"image"
	"math"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"

	"pomodial/internal/config"
	"pomodial/internal/core/dial"
	"pomodial/internal/core/engine"
	"pomodial/internal/core/model"
	"pomodial/internal/notify"
	"pomodial/internal/ui/theme"
)

const (
	// WindowSize is the fixed edge length of the dial window.
	WindowSize = 260

	windowRadius    = 24
	discMargin      = 18
	tickLengthMajor = 8
	tickLengthMinor = 4
	tickWidthMajor  = 2
	tickWidthMinor  = 1
	innerRatio      = 0.52

	fontSizeTime = 30
	fontSizeMode = 11
	fontSizeSet  = 9
)

// Dial is the main timer widget.
type Dial struct {
	widget.BaseWidget

	engine *engine.Engine
	store  *config.Store
	sounds *notify.Dispatcher
	window fyne.Window

	onQuit        func()
	onPreferences func()

	mu       sync.Mutex
	themes   map[string]theme.Theme
	snapshot model.Snapshot
	dragging bool
}

// New creates the dial widget bound to the engine and settings store.
func New(eng *engine.Engine, store *config.Store, sounds *notify.Dispatcher, themes map[string]theme.Theme) *Dial {
	d := &Dial{
		engine: eng,
		store:  store,
		sounds: sounds,
		themes: themes,
	}
	d.snapshot = eng.Snapshot()
	d.ExtendBaseWidget(d)
	return d
}

// SetWindow attaches the hosting window, used for dialogs and quitting.
func (d *Dial) SetWindow(window fyne.Window) {
	d.window = window
}

// SetOnQuit sets the quit handler for the context menu.
func (d *Dial) SetOnQuit(handler func()) {
	d.onQuit = handler
}

// Sync pulls a fresh engine snapshot and repaints. Call from engine event
// listeners, wrapped in fyne.Do.
func (d *Dial) Sync() {
	d.mu.Lock()
	d.snapshot = d.engine.Snapshot()
	d.mu.Unlock()
	d.Refresh()
}

// Tapped starts or pauses the countdown when the inner circle is clicked.
func (d *Dial) Tapped(event *fyne.PointEvent) {
	size := d.Size()
	cx := float64(size.Width) / 2
	cy := float64(size.Height) / 2
	if dial.WithinRadius(float64(event.Position.X), float64(event.Position.Y), cx, cy, d.innerRadius()) {
		d.engine.StartOrPause()
	}
}

// TappedSecondary opens the context menu.
func (d *Dial) TappedSecondary(event *fyne.PointEvent) {
	menu := d.buildMenu()
	driverCanvas := fyne.CurrentApp().Driver().CanvasForObject(d)
	if driverCanvas == nil {
		return
	}
	widget.ShowPopUpMenuAtPosition(menu, driverCanvas, event.AbsolutePosition)
}

// Dragged maps a drag on the dial ring to a duration.
func (d *Dial) Dragged(event *fyne.DragEvent) {
	size := d.Size()
	cx := float64(size.Width) / 2
	cy := float64(size.Height) / 2
	x := float64(event.Position.X)
	y := float64(event.Position.Y)

	if !d.dragging && !dial.WithinRadius(x, y, cx, cy, d.dialRadius()) {
		return
	}
	d.dragging = true

	minutes := dial.PositionToMinutes(x, y, cx, cy)
	d.engine.SetDuration(minutes * 60)
}

// DragEnd finishes a dial drag.
func (d *Dial) DragEnd() {
	d.dragging = false
}

// CreateRenderer builds the dial renderer.
func (d *Dial) CreateRenderer() fyne.WidgetRenderer {
	r := &dialRenderer{dial: d}
	r.build()
	return r
}

// MinSize fixes the widget to the window size.
func (d *Dial) MinSize() fyne.Size {
	return fyne.NewSize(WindowSize, WindowSize)
}

func (d *Dial) currentTheme() theme.Theme {
	d.mu.Lock()
	defer d.mu.Unlock()
	return theme.Lookup(d.themes, d.store.Settings().ThemeName)
}

func (d *Dial) currentSnapshot() model.Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.snapshot
}

// dialRadius is the outer edge of the draggable disc area.
func (d *Dial) dialRadius() float64 {
	return float64(WindowSize)/2 - discMargin - tickLengthMajor - 2
}

// innerRadius bounds the click-to-toggle button area.
func (d *Dial) innerRadius() float64 {
	return d.dialRadius() * innerRatio
}

type dialRenderer struct {
	dial *Dial

	background *canvas.Rectangle
	ticks      []*canvas.Line
	disc       *canvas.Circle
	arc        *canvas.Raster
	inner      *canvas.Circle
	hand       *canvas.Line
	timeText   *canvas.Text
	modeText   *canvas.Text
	setText    *canvas.Text

	objects []fyne.CanvasObject
}

func (r *dialRenderer) build() {
	palette := r.dial.currentTheme()

	r.background = canvas.NewRectangle(palette.BgOuter)
	r.background.CornerRadius = windowRadius

	r.ticks = make([]*canvas.Line, model.MaxDialMinutes)
	for i := range r.ticks {
		line := canvas.NewLine(palette.TickMinor)
		r.ticks[i] = line
	}

	r.disc = canvas.NewCircle(palette.BgDisc)
	r.arc = canvas.NewRaster(r.drawArc)
	r.inner = canvas.NewCircle(palette.BgInner)
	r.hand = canvas.NewLine(palette.Hand)
	r.hand.StrokeWidth = 2

	r.modeText = canvas.NewText("", palette.TextMode)
	r.modeText.TextSize = fontSizeMode
	r.modeText.TextStyle = fyne.TextStyle{Bold: true}
	r.modeText.Alignment = fyne.TextAlignCenter

	r.timeText = canvas.NewText("00:00", palette.TextTime)
	r.timeText.TextSize = fontSizeTime
	r.timeText.Alignment = fyne.TextAlignCenter

	r.setText = canvas.NewText("", palette.TextSet)
	r.setText.TextSize = fontSizeSet
	r.setText.Alignment = fyne.TextAlignCenter

	r.objects = []fyne.CanvasObject{r.background}
	for _, line := range r.ticks {
		r.objects = append(r.objects, line)
	}
	r.objects = append(r.objects, r.disc, r.arc, r.inner, r.hand, r.modeText, r.timeText, r.setText)

	r.applyState()
}

func (r *dialRenderer) Layout(size fyne.Size) {
	r.background.Resize(size)
	r.background.Move(fyne.NewPos(0, 0))

	cx := float64(size.Width) / 2
	cy := float64(size.Height) / 2
	outer := math.Min(float64(size.Width), float64(size.Height))/2 - discMargin

	for i, line := range r.ticks {
		angle := dial.MinutesToAngle(float64(i))
		length := float64(tickLengthMinor)
		if i%5 == 0 {
			length = tickLengthMajor
		}
		line.Position1 = fyne.NewPos(
			float32(cx+outer*math.Cos(angle)),
			float32(cy+outer*math.Sin(angle)),
		)
		line.Position2 = fyne.NewPos(
			float32(cx+(outer-length)*math.Cos(angle)),
			float32(cy+(outer-length)*math.Sin(angle)),
		)
	}

	discRadius := r.dial.dialRadius()
	r.disc.Move(fyne.NewPos(float32(cx-discRadius), float32(cy-discRadius)))
	r.disc.Resize(fyne.NewSize(float32(discRadius*2), float32(discRadius*2)))
	r.arc.Move(fyne.NewPos(float32(cx-discRadius), float32(cy-discRadius)))
	r.arc.Resize(fyne.NewSize(float32(discRadius*2), float32(discRadius*2)))

	innerRadius := r.dial.innerRadius()
	r.inner.Move(fyne.NewPos(float32(cx-innerRadius), float32(cy-innerRadius)))
	r.inner.Resize(fyne.NewSize(float32(innerRadius*2), float32(innerRadius*2)))

	r.layoutHand(cx, cy)
	r.layoutText(size)
}

func (r *dialRenderer) layoutHand(cx, cy float64) {
	snapshot := r.dial.currentSnapshot()
	minutes := float64(snapshot.RemainingSeconds) / 60
	angle := dial.MinutesToAngle(minutes)
	length := r.dial.dialRadius() - 8

	r.hand.Position1 = fyne.NewPos(float32(cx), float32(cy))
	r.hand.Position2 = fyne.NewPos(
		float32(cx+length*math.Cos(angle)),
		float32(cy+length*math.Sin(angle)),
	)
}

func (r *dialRenderer) layoutText(size fyne.Size) {
	cx := size.Width / 2
	cy := size.Height / 2

	modeSize := r.modeText.MinSize()
	r.modeText.Resize(modeSize)
	r.modeText.Move(fyne.NewPos(cx-modeSize.Width/2, cy-18-modeSize.Height))

	timeSize := r.timeText.MinSize()
	r.timeText.Resize(timeSize)
	r.timeText.Move(fyne.NewPos(cx-timeSize.Width/2, cy-timeSize.Height/2))

	setSize := r.setText.MinSize()
	r.setText.Resize(setSize)
	r.setText.Move(fyne.NewPos(cx-setSize.Width/2, cy+26))
}

func (r *dialRenderer) MinSize() fyne.Size {
	return fyne.NewSize(WindowSize, WindowSize)
}

func (r *dialRenderer) Refresh() {
	r.applyState()
	r.Layout(r.dial.Size())

	canvas.Refresh(r.background)
	for _, line := range r.ticks {
		canvas.Refresh(line)
	}
	canvas.Refresh(r.disc)
	canvas.Refresh(r.arc)
	canvas.Refresh(r.inner)
	canvas.Refresh(r.hand)
	canvas.Refresh(r.modeText)
	canvas.Refresh(r.timeText)
	canvas.Refresh(r.setText)
}

func (r *dialRenderer) Objects() []fyne.CanvasObject {
	return r.objects
}

func (r *dialRenderer) Destroy() {}

// applyState copies engine state and palette into the canvas objects.
func (r *dialRenderer) applyState() {
	palette := r.dial.currentTheme()
	settings := r.dial.store.Settings()
	alpha := uint8(settings.BgOpacity)
	snapshot := r.dial.currentSnapshot()

	r.background.FillColor = theme.WithAlpha(palette.BgOuter, alpha)
	r.disc.FillColor = theme.WithAlpha(palette.BgDisc, alpha)
	r.inner.FillColor = theme.WithAlpha(palette.BgInner, alpha)
	r.hand.StrokeColor = palette.Hand

	for i, line := range r.ticks {
		if i%5 == 0 {
			line.StrokeColor = palette.TickMajor
			line.StrokeWidth = tickWidthMajor
		} else {
			line.StrokeColor = palette.TickMinor
			line.StrokeWidth = tickWidthMinor
		}
	}

	r.timeText.Text = formatClock(snapshot.RemainingSeconds)
	r.timeText.Color = palette.TextTime
	r.modeText.Text = snapshot.Mode.Label()
	r.modeText.Color = palette.TextMode
	r.setText.Text = fmt.Sprintf("Set %d", snapshot.CompletedFocusCount)
	r.setText.Color = palette.TextSet
}

// drawArc renders the remaining-time pie, from 12 o'clock clockwise.
func (r *dialRenderer) drawArc(w, h int) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	if w == 0 || h == 0 {
		return img
	}

	snapshot := r.dial.currentSnapshot()
	maxSeconds := model.MaxDialMinutes * 60
	ratio := float64(snapshot.RemainingSeconds) / float64(maxSeconds)
	if ratio <= 0 {
		return img
	}
	if ratio > 1 {
		ratio = 1
	}

	arcColor := r.dial.currentTheme().Arc
	span := ratio * 2 * math.Pi
	cx := float64(w) / 2
	cy := float64(h) / 2
	radius := math.Min(cx, cy)

	for py := 0; py < h; py++ {
		for px := 0; px < w; px++ {
			dx := float64(px) + 0.5 - cx
			dy := float64(py) + 0.5 - cy
			if math.Hypot(dx, dy) > radius {
				continue
			}
			angle := math.Atan2(dy, dx) + math.Pi/2
			if angle < 0 {
				angle += 2 * math.Pi
			}
			if angle <= span {
				img.SetNRGBA(px, py, arcColor)
			}
		}
	}
	return img
}

func formatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
