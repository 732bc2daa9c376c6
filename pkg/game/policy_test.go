package game

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/cbodonnell/tankbot/pkg/game/types"
	"github.com/cbodonnell/tankbot/pkg/kinematic"
	"github.com/cbodonnell/tankbot/pkg/messages"
	"github.com/cbodonnell/tankbot/pkg/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tankAt(x, y float64) types.GameObject {
	return types.GameObject{
		"type":     json.RawMessage(`1`),
		"position": json.RawMessage(fmt.Sprintf(`[%g, %g]`, x, y)),
	}
}

func viewWith(own, enemy types.GameObject) View {
	objects := state.NewObjectTable()
	upserts := map[types.ObjectID]types.GameObject{}
	if own != nil {
		upserts["own"] = own
	}
	if enemy != nil {
		upserts["enemy"] = enemy
	}
	objects.Upsert(upserts)
	return View{
		Objects:  objects,
		Identity: types.BotIdentity{TankID: "own", EnemyTankID: "enemy"},
	}
}

func TestShootAtEnemyPolicy_Angle(t *testing.T) {
	tests := []struct {
		name  string
		enemy types.GameObject
		want  float64
	}{
		{name: "north east", enemy: tankAt(1, 1), want: 45},
		{name: "south west", enemy: tankAt(-1, -1), want: 225},
		{name: "south", enemy: tankAt(0, -1), want: 270},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			action, err := ShootAtEnemyPolicy{}.Decide(viewWith(tankAt(0, 0), tt.enemy), &PendingAim{})
			require.NoError(t, err)
			require.NotNil(t, action.Shoot)
			assert.InDelta(t, tt.want, *action.Shoot, 1e-9)
		})
	}
}

func TestShootAtEnemyPolicy_PathThrottling(t *testing.T) {
	pending := &PendingAim{}
	policy := ShootAtEnemyPolicy{}

	first, err := policy.Decide(viewWith(tankAt(0, 0), tankAt(4, 2)), pending)
	require.NoError(t, err)
	require.NotNil(t, first.Path)
	assert.Equal(t, kinematic.Vector{X: 4, Y: 2}, *first.Path)
	require.NotNil(t, pending.LastPathRequest)
	assert.Equal(t, kinematic.Vector{X: 4, Y: 2}, *pending.LastPathRequest)

	second, err := policy.Decide(viewWith(tankAt(1, 1), tankAt(4, 2)), pending)
	require.NoError(t, err)
	assert.NotNil(t, second.Shoot)
	assert.Nil(t, second.Path)

	third, err := policy.Decide(viewWith(tankAt(1, 1), tankAt(4, 3)), pending)
	require.NoError(t, err)
	require.NotNil(t, third.Path)
	assert.Equal(t, kinematic.Vector{X: 4, Y: 3}, *third.Path)
}

func TestShootAtEnemyPolicy_Errors(t *testing.T) {
	tests := []struct {
		name    string
		own     types.GameObject
		enemy   types.GameObject
		wantErr error
	}{
		{name: "enemy destroyed", own: tankAt(0, 0), enemy: nil, wantErr: ErrTankNotFound},
		{name: "own tank destroyed", own: nil, enemy: tankAt(0, 0), wantErr: ErrTankNotFound},
		{name: "enemy without position", own: tankAt(0, 0), enemy: types.GameObject{"type": json.RawMessage(`1`)}, wantErr: messages.ErrProtocol},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pending := &PendingAim{}
			action, err := ShootAtEnemyPolicy{}.Decide(viewWith(tt.own, tt.enemy), pending)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, action)
			assert.Nil(t, pending.LastPathRequest)
		})
	}
}
