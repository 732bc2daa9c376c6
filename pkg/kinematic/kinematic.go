package kinematic

// This package includes the planar geometry the bot needs for aiming.

import (
	"encoding/json"
	"fmt"
	"math"
)

// Vector is a 2D coordinate. On the wire it is the array [x, y].
type Vector struct {
	X float64
	Y float64
}

func (v Vector) Sub(o Vector) Vector {
	return Vector{X: v.X - o.X, Y: v.Y - o.Y}
}

func (v Vector) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

func (v Vector) String() string {
	return fmt.Sprintf("(%g, %g)", v.X, v.Y)
}

func (v Vector) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{v.X, v.Y})
}

func (v *Vector) UnmarshalJSON(b []byte) error {
	var pair []float64
	if err := json.Unmarshal(b, &pair); err != nil {
		return fmt.Errorf("failed to decode coordinate: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("coordinate must have 2 components, got %d", len(pair))
	}
	v.X, v.Y = pair[0], pair[1]
	return nil
}

// Distance returns the Euclidean distance between two points.
func Distance(from, to Vector) float64 {
	return to.Sub(from).Length()
}

// BearingDegrees returns the angle from one point to another in degrees,
// measured counter-clockwise from the positive x axis, in [0, 360).
func BearingDegrees(from, to Vector) float64 {
	d := to.Sub(from)
	degrees := math.Atan2(d.Y, d.X) * (180 / math.Pi)
	switch {
	case degrees < 0:
		degrees += 360
		// a tiny negative angle can round up to exactly 360
		if degrees >= 360 {
			degrees = 0
		}
	case degrees == 0:
		// drop the sign of -0
		degrees = 0
	}
	return degrees
}
