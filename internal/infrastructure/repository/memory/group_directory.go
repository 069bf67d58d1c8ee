package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/brunocesarr/brazuerao-betting/internal/domain/group"
)

// GroupDirectory is an in-memory group.Directory.
type GroupDirectory struct {
	mu      sync.RWMutex
	byID    map[string]group.Group
	members map[string][]string // groupID -> userIDs
}

func NewGroupDirectory() *GroupDirectory {
	return &GroupDirectory{
		byID:    make(map[string]group.Group),
		members: make(map[string][]string),
	}
}

// Put stores or replaces a group definition.
func (d *GroupDirectory) Put(item group.Group) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.byID[item.ID] = item
}

// AddMember records a user's membership in a group. Adding twice is a
// no-op.
func (d *GroupDirectory) AddMember(groupID, userID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, current := range d.members[groupID] {
		if current == userID {
			return
		}
	}
	d.members[groupID] = append(d.members[groupID], userID)
}

func (d *GroupDirectory) GetByID(ctx context.Context, groupID string) (group.Group, bool, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	item, exists := d.byID[groupID]
	return item, exists, nil
}

func (d *GroupDirectory) ListByUser(ctx context.Context, userID string) ([]group.Group, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	items := make([]group.Group, 0, 2)
	for groupID, userIDs := range d.members {
		for _, current := range userIDs {
			if current == userID {
				if item, exists := d.byID[groupID]; exists {
					items = append(items, item)
				}
				break
			}
		}
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (d *GroupDirectory) ListMemberIDs(ctx context.Context, groupID string) ([]string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := append([]string(nil), d.members[groupID]...)
	sort.Strings(out)
	return out, nil
}
