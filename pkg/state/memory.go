package state

import (
	"sort"
	"sync"

	"github.com/cbodonnell/tankbot/pkg/game/types"
	"github.com/cbodonnell/tankbot/pkg/log"
	"github.com/cbodonnell/tankbot/pkg/messages"
)

var _ ObjectStore = (*ObjectTable)(nil)

// ObjectTable is the authoritative set of objects the server has declared live.
type ObjectTable struct {
	lock    sync.RWMutex
	objects map[types.ObjectID]types.GameObject
}

func NewObjectTable() *ObjectTable {
	return &ObjectTable{
		objects: make(map[types.ObjectID]types.GameObject),
	}
}

func (t *ObjectTable) Upsert(objects map[types.ObjectID]types.GameObject) {
	t.lock.Lock()
	defer t.lock.Unlock()
	t.upsert(objects)
}

func (t *ObjectTable) Delete(ids []types.ObjectID) {
	t.lock.Lock()
	defer t.lock.Unlock()
	t.delete(ids)
}

func (t *ObjectTable) Apply(delta *messages.TurnMessage) {
	if delta == nil {
		return
	}
	t.lock.Lock()
	defer t.lock.Unlock()
	// an id both deleted and updated in one turn ends up present
	t.delete(delta.DeletedObjects)
	t.upsert(delta.UpdatedObjects)
}

func (t *ObjectTable) upsert(objects map[types.ObjectID]types.GameObject) {
	for id, obj := range objects {
		t.objects[id] = obj
	}
}

func (t *ObjectTable) delete(ids []types.ObjectID) {
	for _, id := range ids {
		if _, ok := t.objects[id]; !ok {
			log.Trace("Deleted object %s was not in the table", id)
			continue
		}
		delete(t.objects, id)
	}
}

func (t *ObjectTable) Get(id types.ObjectID) (types.GameObject, bool) {
	t.lock.RLock()
	defer t.lock.RUnlock()
	obj, ok := t.objects[id]
	return obj, ok
}

func (t *ObjectTable) Len() int {
	t.lock.RLock()
	defer t.lock.RUnlock()
	return len(t.objects)
}

// IDs returns the live ids in sorted order.
func (t *ObjectTable) IDs() []types.ObjectID {
	t.lock.RLock()
	defer t.lock.RUnlock()
	ids := make([]types.ObjectID, 0, len(t.objects))
	for id := range t.objects {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (t *ObjectTable) Snapshot() map[types.ObjectID]types.GameObject {
	t.lock.RLock()
	defer t.lock.RUnlock()
	snapshot := make(map[types.ObjectID]types.GameObject, len(t.objects))
	for id, obj := range t.objects {
		snapshot[id] = obj.Clone()
	}
	return snapshot
}

// ByType returns the objects of the given kind. Objects whose type cannot be
// decoded are skipped.
func (t *ObjectTable) ByType(kind types.ObjectType) map[types.ObjectID]types.GameObject {
	t.lock.RLock()
	defer t.lock.RUnlock()
	matches := make(map[types.ObjectID]types.GameObject)
	for id, obj := range t.objects {
		objType, err := obj.Type()
		if err != nil {
			log.Debug("Skipping object %s with undecodable type: %v", id, err)
			continue
		}
		if objType == kind {
			matches[id] = obj
		}
	}
	return matches
}
