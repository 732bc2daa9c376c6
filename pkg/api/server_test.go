package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cbodonnell/tankbot/pkg/game"
	"github.com/cbodonnell/tankbot/pkg/game/types"
	"github.com/cbodonnell/tankbot/pkg/messages"
	"github.com/cbodonnell/tankbot/pkg/repositories"
	"github.com/cbodonnell/tankbot/pkg/state"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeObserver struct {
	objects *state.ObjectTable
	turn    *messages.TurnMessage
}

func (o *fakeObserver) Status() game.Status {
	return game.Status{
		MatchID:    "match-1",
		Phase:      game.PhaseRunning.String(),
		Turn:       3,
		Identity:   types.BotIdentity{TankID: "a", EnemyTankID: "b"},
		Dimensions: types.MapDimensions{Width: 10, Height: 8},
		Objects:    o.objects.Len(),
	}
}

func (o *fakeObserver) Objects() state.ObjectReader {
	return o.objects
}

func (o *fakeObserver) CurrentTurn() *messages.TurnMessage {
	return o.turn
}

type fakeHistory struct {
	matches []*types.MatchSummary
	err     error
}

func (h *fakeHistory) LoadMatch(ctx context.Context, id uuid.UUID) (*types.MatchSummary, error) {
	if h.err != nil {
		return nil, h.err
	}
	for _, m := range h.matches {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, &repositories.ErrNotFound{}
}

func (h *fakeHistory) ListMatches(ctx context.Context, limit int) ([]*types.MatchSummary, error) {
	if h.err != nil {
		return nil, h.err
	}
	if limit < len(h.matches) {
		return h.matches[:limit], nil
	}
	return h.matches, nil
}

func newTestObserver() *fakeObserver {
	objects := state.NewObjectTable()
	objects.Upsert(map[types.ObjectID]types.GameObject{
		"a":  {"type": json.RawMessage(`1`), "position": json.RawMessage(`[0, 0]`)},
		"b":  {"type": json.RawMessage(`1`), "position": json.RawMessage(`[1, 1]`)},
		"w1": {"type": json.RawMessage(`3`), "position": json.RawMessage(`[5, 5]`)},
	})
	return &fakeObserver{objects: objects}
}

func get(t *testing.T, server *httptest.Server, path string) (int, string) {
	t.Helper()
	resp, err := http.Get(server.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestAPIServer_Game(t *testing.T) {
	observer := newTestObserver()
	s := NewAPIServer(NewAPIServerOptions{Game: observer})
	server := httptest.NewServer(s.Handler())
	defer server.Close()

	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantBody   string
	}{
		{name: "health", path: "/healthz", wantStatus: http.StatusOK},
		{
			name:       "status",
			path:       "/status",
			wantStatus: http.StatusOK,
			wantBody: `{"matchID": "match-1", "phase": "running", "turn": 3,
				"identity": {"your-tank-id": "a", "enemy-tank-id": "b"},
				"dimensions": {"width": 10, "height": 8}, "objects": 3}`,
		},
		{
			name:       "object",
			path:       "/objects/w1",
			wantStatus: http.StatusOK,
			wantBody:   `{"type": 3, "position": [5, 5]}`,
		},
		{name: "missing object", path: "/objects/w2", wantStatus: http.StatusNotFound},
		{
			name:       "objects by type",
			path:       "/objects?type=3",
			wantStatus: http.StatusOK,
			wantBody:   `{"w1": {"type": 3, "position": [5, 5]}}`,
		},
		{name: "invalid type", path: "/objects?type=tank", wantStatus: http.StatusBadRequest},
		{name: "no turn yet", path: "/turn", wantStatus: http.StatusNoContent},
		{name: "matches without repository", path: "/matches", wantStatus: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := get(t, server, tt.path)
			assert.Equal(t, tt.wantStatus, status)
			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, body)
			}
		})
	}
}

func TestAPIServer_ListObjects(t *testing.T) {
	observer := newTestObserver()
	server := httptest.NewServer(NewAPIServer(NewAPIServerOptions{Game: observer}).Handler())
	defer server.Close()

	status, body := get(t, server, "/objects")
	require.Equal(t, http.StatusOK, status)

	objects := map[string]json.RawMessage{}
	require.NoError(t, json.Unmarshal([]byte(body), &objects))
	assert.Len(t, objects, 3)
	assert.Contains(t, objects, "a")
	assert.Contains(t, objects, "b")
	assert.Contains(t, objects, "w1")
}

func TestAPIServer_Matches(t *testing.T) {
	first := &types.MatchSummary{ID: uuid.New(), TankID: "a", Outcome: types.MatchOutcomeCompleted, StartedAt: time.UnixMilli(2000).UTC()}
	second := &types.MatchSummary{ID: uuid.New(), TankID: "a", Outcome: types.MatchOutcomeFailed, StartedAt: time.UnixMilli(1000).UTC()}
	history := &fakeHistory{matches: []*types.MatchSummary{first, second}}

	server := httptest.NewServer(NewAPIServer(NewAPIServerOptions{
		Game:       newTestObserver(),
		Repository: history,
	}).Handler())
	defer server.Close()

	status, body := get(t, server, "/matches?limit=1")
	require.Equal(t, http.StatusOK, status)
	var listed []*types.MatchSummary
	require.NoError(t, json.Unmarshal([]byte(body), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, first.ID, listed[0].ID)

	status, body = get(t, server, "/matches/"+second.ID.String())
	require.Equal(t, http.StatusOK, status)
	loaded := &types.MatchSummary{}
	require.NoError(t, json.Unmarshal([]byte(body), loaded))
	assert.Equal(t, types.MatchOutcomeFailed, loaded.Outcome)

	status, _ = get(t, server, "/matches/"+uuid.NewString())
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = get(t, server, "/matches/not-a-uuid")
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = get(t, server, "/matches?limit=-1")
	assert.Equal(t, http.StatusBadRequest, status)

	history.err = errors.New("database is gone")
	status, _ = get(t, server, "/matches")
	assert.Equal(t, http.StatusInternalServerError, status)
}

func TestAPIServer_CurrentTurn(t *testing.T) {
	observer := newTestObserver()
	observer.turn = &messages.TurnMessage{
		UpdatedObjects: map[types.ObjectID]types.GameObject{},
		DeletedObjects: []types.ObjectID{"w9"},
	}
	server := httptest.NewServer(NewAPIServer(NewAPIServerOptions{Game: observer}).Handler())
	defer server.Close()

	status, body := get(t, server, "/turn")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"updated_objects": {}, "deleted_objects": ["w9"]}`, body)
}

func TestAPIServer_CORS(t *testing.T) {
	server := httptest.NewServer(NewAPIServer(NewAPIServerOptions{Game: newTestObserver()}).Handler())
	defer server.Close()

	resp, err := http.Get(server.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}
