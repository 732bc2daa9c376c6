package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/cbodonnell/tankbot/pkg/game"
	"github.com/cbodonnell/tankbot/pkg/game/types"
	"github.com/cbodonnell/tankbot/pkg/log"
	"github.com/cbodonnell/tankbot/pkg/messages"
	"github.com/cbodonnell/tankbot/pkg/repositories"
	"github.com/cbodonnell/tankbot/pkg/state"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

const defaultMatchLimit = 20

// GameObserver is the read side of a running game.
type GameObserver interface {
	Status() game.Status
	Objects() state.ObjectReader
	CurrentTurn() *messages.TurnMessage
}

// MatchHistory is the read side of the match repository.
type MatchHistory interface {
	LoadMatch(ctx context.Context, id uuid.UUID) (*types.MatchSummary, error)
	ListMatches(ctx context.Context, limit int) ([]*types.MatchSummary, error)
}

func HandleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	}
}

func HandleStatus(observer GameObserver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, observer.Status())
	}
}

// HandleListObjects returns every live object keyed by id. The optional type
// query parameter filters by object type.
func HandleListObjects(observer GameObserver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		objects := observer.Objects().Snapshot()

		if kind := r.URL.Query().Get("type"); kind != "" {
			n, err := strconv.Atoi(kind)
			if err != nil {
				http.Error(w, "Invalid object type", http.StatusBadRequest)
				return
			}
			for id, object := range objects {
				if t, err := object.Type(); err != nil || t != types.ObjectType(n) {
					delete(objects, id)
				}
			}
		}

		writeJSON(w, objects)
	}
}

func HandleGetObject(observer GameObserver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := types.ObjectID(mux.Vars(r)["objectID"])
		object, ok := observer.Objects().Get(id)
		if !ok {
			http.Error(w, "Object not found", http.StatusNotFound)
			return
		}
		writeJSON(w, object)
	}
}

// HandleCurrentTurn returns the last turn message merged into the table.
func HandleCurrentTurn(observer GameObserver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		turn := observer.CurrentTurn()
		if turn == nil {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		writeJSON(w, turn)
	}
}

func HandleListMatches(history MatchHistory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := defaultMatchLimit
		if v := r.URL.Query().Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				http.Error(w, "Invalid limit", http.StatusBadRequest)
				return
			}
			limit = n
		}

		matches, err := history.ListMatches(r.Context(), limit)
		if err != nil {
			log.Error("failed to list matches: %v", err)
			http.Error(w, "Failed to list matches", http.StatusInternalServerError)
			return
		}
		writeJSON(w, matches)
	}
}

func HandleGetMatch(history MatchHistory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(mux.Vars(r)["matchID"])
		if err != nil {
			http.Error(w, "Invalid match id", http.StatusBadRequest)
			return
		}

		match, err := history.LoadMatch(r.Context(), id)
		if err != nil {
			if repositories.IsNotFound(err) {
				http.Error(w, "Match not found", http.StatusNotFound)
				return
			}
			log.Error("failed to load match %s: %v", id, err)
			http.Error(w, "Failed to load match", http.StatusInternalServerError)
			return
		}
		writeJSON(w, match)
	}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("failed to encode response: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}
