package game

import (
	"errors"
	"fmt"

	"github.com/cbodonnell/tankbot/pkg/game/types"
	"github.com/cbodonnell/tankbot/pkg/kinematic"
	"github.com/cbodonnell/tankbot/pkg/log"
	"github.com/cbodonnell/tankbot/pkg/messages"
	"github.com/cbodonnell/tankbot/pkg/state"
)

// ErrTankNotFound is returned when a tank the policy needs is not live, for
// example after the enemy has been destroyed. The turn can be skipped.
var ErrTankNotFound = errors.New("tank not found")

// View is the merged turn state handed to a policy.
type View struct {
	Objects    state.ObjectReader
	Identity   types.BotIdentity
	Dimensions types.MapDimensions
}

// PendingAim remembers the last path target sent so an unchanged target is not
// requested again every turn.
type PendingAim struct {
	LastPathRequest *kinematic.Vector
}

// Policy decides the action for one turn. It may update pending.
type Policy interface {
	Decide(view View, pending *PendingAim) (*messages.Action, error)
}

// ShootAtEnemyPolicy always shoots at the enemy tank and paths towards it
// whenever it has moved.
type ShootAtEnemyPolicy struct{}

func (ShootAtEnemyPolicy) Decide(view View, pending *PendingAim) (*messages.Action, error) {
	ownPosition, err := tankPosition(view.Objects, view.Identity.TankID)
	if err != nil {
		return nil, fmt.Errorf("own tank: %w", err)
	}
	enemyPosition, err := tankPosition(view.Objects, view.Identity.EnemyTankID)
	if err != nil {
		return nil, fmt.Errorf("enemy tank: %w", err)
	}

	angle := kinematic.BearingDegrees(ownPosition, enemyPosition)
	log.Trace("Enemy at %s is %.2f away on bearing %.2f", enemyPosition, kinematic.Distance(ownPosition, enemyPosition), angle)

	action := &messages.Action{
		Shoot: &angle,
	}
	if pending.LastPathRequest == nil || *pending.LastPathRequest != enemyPosition {
		target := enemyPosition
		action.Path = &target
		pending.LastPathRequest = &target
	}
	return action, nil
}

func tankPosition(objects state.ObjectReader, id types.ObjectID) (kinematic.Vector, error) {
	tank, ok := objects.Get(id)
	if !ok {
		return kinematic.Vector{}, fmt.Errorf("%w: %s", ErrTankNotFound, id)
	}
	position, err := tank.Point()
	if err != nil {
		return kinematic.Vector{}, fmt.Errorf("%w: tank %s: %v", messages.ErrProtocol, id, err)
	}
	return position, nil
}
