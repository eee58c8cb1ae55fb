// Package dial maps pointer positions to durations and durations to drawing
// angles. All functions are pure and safe for concurrent use.
package dial

import (
	"math"

	"pomodial/internal/core/model"
)

// PositionToMinutes converts a point relative to the dial center into whole
// minutes on the dial. Angle zero is the 12-o'clock position and minutes grow
// clockwise; the result is rounded to the nearest minute and clamped to
// [0, MaxDialMinutes]. A full turn wraps back to 0.
func PositionToMinutes(x, y, centerX, centerY float64) int {
	angle := math.Atan2(y-centerY, x-centerX)
	angle += math.Pi / 2
	if angle < 0 {
		angle += 2 * math.Pi
	}

	ratio := angle / (2 * math.Pi)
	minutes := int(math.Round(ratio * model.MaxDialMinutes))
	if minutes < 0 {
		return 0
	}
	if minutes > model.MaxDialMinutes {
		return model.MaxDialMinutes
	}
	return minutes
}

// MinutesToAngle converts minutes into the drawing angle in radians, where 0
// minutes points at 12 o'clock (-π/2) and the angle increases clockwise.
func MinutesToAngle(minutes float64) float64 {
	if minutes < 0 {
		minutes = 0
	}
	if minutes > model.MaxDialMinutes {
		minutes = model.MaxDialMinutes
	}
	ratio := minutes / model.MaxDialMinutes
	return ratio*2*math.Pi - math.Pi/2
}

// WithinRadius reports whether the point lies inside the circle of the given
// radius around the center.
func WithinRadius(x, y, centerX, centerY, radius float64) bool {
	return math.Hypot(x-centerX, y-centerY) <= radius
}
