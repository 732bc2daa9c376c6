package game

import (
	"errors"
	"fmt"
	"math"

	"github.com/cbodonnell/tankbot/pkg/game/types"
	"github.com/cbodonnell/tankbot/pkg/messages"
)

// ErrNoBoundaries is returned when the init phase delivered no boundary
// vertices, leaving the map size undefined.
var ErrNoBoundaries = errors.New("no boundary objects to derive map dimensions from")

// ComputeMapDimensions derives the map size from the boundary polygons: the
// largest x of any vertex is the width and the largest y is the height.
func ComputeMapDimensions(boundaries map[types.ObjectID]types.GameObject) (types.MapDimensions, error) {
	width, height := math.Inf(-1), math.Inf(-1)
	vertices := 0
	for id, boundary := range boundaries {
		polygon, err := boundary.Polygon()
		if err != nil {
			return types.MapDimensions{}, fmt.Errorf("%w: boundary %s: %v", messages.ErrProtocol, id, err)
		}
		for _, v := range polygon {
			width = math.Max(width, v.X)
			height = math.Max(height, v.Y)
			vertices++
		}
	}
	if vertices == 0 {
		return types.MapDimensions{}, ErrNoBoundaries
	}
	return types.MapDimensions{
		Width:  width,
		Height: height,
	}, nil
}
