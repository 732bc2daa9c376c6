package game

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cbodonnell/tankbot/pkg/game/types"
	"github.com/cbodonnell/tankbot/pkg/log"
	"github.com/cbodonnell/tankbot/pkg/messages"
	"github.com/cbodonnell/tankbot/pkg/state"
	"github.com/cbodonnell/tankbot/pkg/transport"
)

var (
	// ErrMissingTankID is returned when the handshake does not name both tanks.
	ErrMissingTankID = errors.New("handshake is missing a tank id")
	// ErrAlreadyInitialized is returned by a second call to Init.
	ErrAlreadyInitialized = errors.New("game already initialized")
	// ErrNotRunning is returned when a turn is requested outside the running phase.
	ErrNotRunning = errors.New("game is not running")
)

// Phase is the protocol phase of a game.
type Phase int

const (
	PhaseInit Phase = iota
	PhaseRunning
	PhaseOver
)

func (p Phase) String() string {
	switch p {
	case PhaseInit:
		return "init"
	case PhaseRunning:
		return "running"
	case PhaseOver:
		return "over"
	default:
		return "unknown"
	}
}

// MatchRecorder persists the summary of a finished match.
type MatchRecorder interface {
	SaveMatch(ctx context.Context, summary *types.MatchSummary) error
}

// Status is a point-in-time view of the game for observers.
type Status struct {
	MatchID    string              `json:"matchID"`
	Phase      string              `json:"phase"`
	Turn       int                 `json:"turn"`
	Identity   types.BotIdentity   `json:"identity"`
	Dimensions types.MapDimensions `json:"dimensions"`
	Objects    int                 `json:"objects"`
}

// Game owns the turn state of one match: the object table, the bot identity,
// the map dimensions and the pending aim. Its methods must be called from a
// single goroutine; Status and Objects may be read concurrently.
type Game struct {
	transport     transport.Transport
	policy        Policy
	matchRecorder MatchRecorder
	objects       *state.ObjectTable
	pending       PendingAim
	summary       *types.MatchSummary

	lock        sync.RWMutex
	phase       Phase
	turn        int
	identity    types.BotIdentity
	dimensions  types.MapDimensions
	currentTurn *messages.TurnMessage
}

// NewGameOptions contains options for creating a new Game.
type NewGameOptions struct {
	Transport transport.Transport
	// Policy defaults to ShootAtEnemyPolicy.
	Policy Policy
	// MatchRecorder is optional.
	MatchRecorder MatchRecorder
}

func NewGame(opts NewGameOptions) *Game {
	policy := opts.Policy
	if policy == nil {
		policy = ShootAtEnemyPolicy{}
	}
	return &Game{
		transport:     opts.Transport,
		policy:        policy,
		matchRecorder: opts.MatchRecorder,
		objects:       state.NewObjectTable(),
		summary:       types.NewMatchSummary(),
		phase:         PhaseInit,
	}
}

// Init performs the handshake and the init phase, then derives the map
// dimensions. The game is running when Init returns nil.
func (g *Game) Init(ctx context.Context) error {
	if g.Phase() != PhaseInit {
		return ErrAlreadyInitialized
	}

	identity, err := g.readHandshake(ctx)
	if err != nil {
		return fmt.Errorf("failed to read handshake: %w", err)
	}
	log.Info("Playing as tank %s against tank %s", identity.TankID, identity.EnemyTankID)

	batches := 0
	for {
		frame, err := g.transport.ReadFrame(ctx)
		if err != nil {
			return fmt.Errorf("failed to read init message: %w", err)
		}
		if frame.Kind == messages.FrameKindEndInit {
			break
		}
		if frame.Kind == messages.FrameKindEnd {
			return fmt.Errorf("%w: game ended during init", messages.ErrProtocol)
		}

		batch := &messages.TurnMessage{}
		if err := frame.Decode(batch); err != nil {
			return fmt.Errorf("failed to decode init message: %w", err)
		}
		if batch.UpdatedObjects == nil {
			return fmt.Errorf("%w: init message has no updated_objects", messages.ErrProtocol)
		}
		if len(batch.DeletedObjects) > 0 {
			log.Warn("Ignoring %d deleted objects in init message", len(batch.DeletedObjects))
		}
		g.objects.Upsert(batch.UpdatedObjects)
		batches++
	}
	log.Debug("Received %d init messages with %d objects", batches, g.objects.Len())

	dimensions, err := ComputeMapDimensions(g.objects.ByType(types.ObjectTypeBoundary))
	if err != nil {
		return fmt.Errorf("failed to compute map dimensions: %w", err)
	}
	log.Info("Map is %gx%g", dimensions.Width, dimensions.Height)

	g.lock.Lock()
	g.identity = *identity
	g.dimensions = dimensions
	g.phase = PhaseRunning
	g.lock.Unlock()

	g.summary.TankID = identity.TankID
	g.summary.EnemyTankID = identity.EnemyTankID
	g.summary.Map = dimensions
	return nil
}

func (g *Game) readHandshake(ctx context.Context) (*types.BotIdentity, error) {
	frame, err := g.transport.ReadFrame(ctx)
	if err != nil {
		return nil, err
	}
	handshake := &messages.Handshake{}
	if err := frame.Decode(handshake); err != nil {
		return nil, err
	}
	if handshake.YourTankID == nil || *handshake.YourTankID == "" {
		return nil, fmt.Errorf("%w: your-tank-id", ErrMissingTankID)
	}
	if handshake.EnemyTankID == nil || *handshake.EnemyTankID == "" {
		return nil, fmt.Errorf("%w: enemy-tank-id", ErrMissingTankID)
	}
	return &types.BotIdentity{
		TankID:      *handshake.YourTankID,
		EnemyTankID: *handshake.EnemyTankID,
	}, nil
}

// ReadNextTurn reads the next turn and merges it into the object table. It
// returns false once the server signals the end of the game.
func (g *Game) ReadNextTurn(ctx context.Context) (bool, error) {
	if g.Phase() != PhaseRunning {
		return false, ErrNotRunning
	}

	frame, err := g.transport.ReadFrame(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to read turn message: %w", err)
	}
	switch frame.Kind {
	case messages.FrameKindEnd:
		g.lock.Lock()
		g.phase = PhaseOver
		g.lock.Unlock()
		log.Info("Game over after %d turns", g.Turn())
		return false, nil
	case messages.FrameKindEndInit:
		return false, fmt.Errorf("%w: unexpected end of init while running", messages.ErrProtocol)
	}

	turn := &messages.TurnMessage{}
	if err := frame.Decode(turn); err != nil {
		return false, fmt.Errorf("failed to decode turn message: %w", err)
	}
	if turn.UpdatedObjects == nil || turn.DeletedObjects == nil {
		return false, fmt.Errorf("%w: turn message must have updated_objects and deleted_objects", messages.ErrProtocol)
	}
	g.objects.Apply(turn)

	g.lock.Lock()
	g.turn++
	g.currentTurn = turn
	g.lock.Unlock()
	g.summary.Turns++
	log.Trace("Turn %d: %d updated, %d deleted, %d live", g.Turn(), len(turn.UpdatedObjects), len(turn.DeletedObjects), g.objects.Len())
	return true, nil
}

// RespondToTurn runs the policy against the merged state and posts its
// action. If a tank is missing the turn is answered with an empty action.
func (g *Game) RespondToTurn(ctx context.Context) error {
	if g.Phase() != PhaseRunning {
		return ErrNotRunning
	}

	action, err := g.policy.Decide(g.view(), &g.pending)
	if err != nil {
		if !errors.Is(err, ErrTankNotFound) {
			return fmt.Errorf("failed to decide action: %w", err)
		}
		log.Warn("Skipping turn %d: %v", g.Turn(), err)
		g.summary.SkippedTurns++
		action = &messages.Action{}
	}

	if err := g.transport.PostMessage(ctx, action); err != nil {
		return fmt.Errorf("failed to post action: %w", err)
	}
	if action.Shoot != nil {
		g.summary.ShotsFired++
	}
	if action.Path != nil {
		g.summary.PathRequests++
		log.Debug("Requested path to %s", *action.Path)
	}
	return nil
}

// Run plays turns until the game ends. Init must have succeeded. The match
// summary is saved whatever the outcome.
func (g *Game) Run(ctx context.Context) (err error) {
	if g.Phase() != PhaseRunning {
		return ErrNotRunning
	}
	defer func() {
		g.finish(ctx, err)
	}()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		more, err := g.ReadNextTurn(ctx)
		if err != nil {
			return err
		}
		if !more {
			return nil
		}
		if err := g.RespondToTurn(ctx); err != nil {
			return err
		}
	}
}

func (g *Game) finish(ctx context.Context, err error) {
	g.summary.EndedAt = time.Now().UTC()
	switch {
	case err == nil:
		g.summary.Outcome = types.MatchOutcomeCompleted
	case errors.Is(err, transport.ErrClosed):
		g.summary.Outcome = types.MatchOutcomeDisconnected
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		g.summary.Outcome = types.MatchOutcomeCanceled
	default:
		g.summary.Outcome = types.MatchOutcomeFailed
	}

	if g.matchRecorder == nil {
		return
	}
	// the game context may already be canceled; the summary is still worth keeping
	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := g.matchRecorder.SaveMatch(saveCtx, g.Summary()); err != nil {
		log.Error("Failed to save match %s: %v", g.summary.ID, err)
		return
	}
	log.Debug("Saved match %s", g.summary.ID)
}

func (g *Game) view() View {
	g.lock.RLock()
	defer g.lock.RUnlock()
	return View{
		Objects:    g.objects,
		Identity:   g.identity,
		Dimensions: g.dimensions,
	}
}

func (g *Game) Phase() Phase {
	g.lock.RLock()
	defer g.lock.RUnlock()
	return g.phase
}

func (g *Game) Turn() int {
	g.lock.RLock()
	defer g.lock.RUnlock()
	return g.turn
}

func (g *Game) Identity() types.BotIdentity {
	g.lock.RLock()
	defer g.lock.RUnlock()
	return g.identity
}

func (g *Game) Dimensions() types.MapDimensions {
	g.lock.RLock()
	defer g.lock.RUnlock()
	return g.dimensions
}

// CurrentTurn returns the last turn message merged, or nil before the first turn.
func (g *Game) CurrentTurn() *messages.TurnMessage {
	g.lock.RLock()
	defer g.lock.RUnlock()
	return g.currentTurn
}

// Objects exposes the live object table for reading.
func (g *Game) Objects() state.ObjectReader {
	return g.objects
}

// Summary returns a copy of the match summary so far.
func (g *Game) Summary() *types.MatchSummary {
	summary := *g.summary
	return &summary
}

func (g *Game) Status() Status {
	g.lock.RLock()
	defer g.lock.RUnlock()
	return Status{
		MatchID:    g.summary.ID.String(),
		Phase:      g.phase.String(),
		Turn:       g.turn,
		Identity:   g.identity,
		Dimensions: g.dimensions,
		Objects:    g.objects.Len(),
	}
}
