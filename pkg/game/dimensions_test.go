package game

import (
	"encoding/json"
	"testing"

	"github.com/cbodonnell/tankbot/pkg/game/types"
	"github.com/cbodonnell/tankbot/pkg/messages"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boundary(position string) types.GameObject {
	return types.GameObject{
		"type":     json.RawMessage(`5`),
		"position": json.RawMessage(position),
	}
}

func TestComputeMapDimensions(t *testing.T) {
	tests := []struct {
		name       string
		boundaries map[types.ObjectID]types.GameObject
		want       types.MapDimensions
		wantErr    error
	}{
		{
			name: "two rectangles",
			boundaries: map[types.ObjectID]types.GameObject{
				"b1": boundary(`[[0, 0], [10, 0], [10, 5], [0, 5]]`),
				"b2": boundary(`[[0, 0], [10, 0], [10, 8], [0, 8]]`),
			},
			want: types.MapDimensions{Width: 10, Height: 8},
		},
		{
			name: "width and height from different boundaries",
			boundaries: map[types.ObjectID]types.GameObject{
				"b1": boundary(`[[0, 0], [30, 0], [30, 2], [0, 2]]`),
				"b2": boundary(`[[0, 0], [2, 0], [2, 40], [0, 40]]`),
			},
			want: types.MapDimensions{Width: 30, Height: 40},
		},
		{
			name: "fractional coordinates",
			boundaries: map[types.ObjectID]types.GameObject{
				"b1": boundary(`[[0.5, 0.5], [1000.25, 0.5], [1000.25, 700.75]]`),
			},
			want: types.MapDimensions{Width: 1000.25, Height: 700.75},
		},
		{
			name:       "no boundaries",
			boundaries: map[types.ObjectID]types.GameObject{},
			wantErr:    ErrNoBoundaries,
		},
		{
			name: "boundary with no vertices",
			boundaries: map[types.ObjectID]types.GameObject{
				"b1": boundary(`[]`),
			},
			wantErr: ErrNoBoundaries,
		},
		{
			name: "boundary with a point position",
			boundaries: map[types.ObjectID]types.GameObject{
				"b1": boundary(`[1, 2]`),
			},
			wantErr: messages.ErrProtocol,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeMapDimensions(tt.boundaries)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
