package board

import "sort"

// State is one immutable snapshot of the board: items grouped by client.
//
// A State is never mutated in place. Every update (a fresh fetch or an
// optimistic patch) produces a new State value, so callers can detect
// change by comparing references and can keep reading an old snapshot
// while a new one is being installed.
type State map[string][]Item

// Group builds a State from a flat item list.
//
// Items with an empty ClientID are discarded: they cannot be displayed on
// a client-scoped board. Within a partition, items keep their input order;
// a duplicate ID within a partition keeps the first occurrence.
func Group(items []Item) State {
	state := make(State)
	seen := make(map[string]map[string]bool)

	for _, item := range items {
		if item.ClientID == "" {
			continue
		}
		if seen[item.ClientID] == nil {
			seen[item.ClientID] = make(map[string]bool)
		}
		if seen[item.ClientID][item.ID] {
			continue
		}
		seen[item.ClientID][item.ID] = true
		state[item.ClientID] = append(state[item.ClientID], item)
	}

	return state
}

// Clone returns a deep-enough copy of the state: new map, new slices.
// Item values are copied by value; their slice fields are shared, which
// is safe because items are treated as read-only once snapshotted.
func (s State) Clone() State {
	out := make(State, len(s))
	for client, items := range s {
		cp := make([]Item, len(items))
		copy(cp, items)
		out[client] = cp
	}
	return out
}

// Find locates an item by ID across all partitions.
// It returns the item, its partition key, and whether it was found.
func (s State) Find(itemID string) (Item, string, bool) {
	for client, items := range s {
		for _, item := range items {
			if item.ID == itemID {
				return item, client, true
			}
		}
	}
	return Item{}, "", false
}

// WithStage returns a new snapshot in which the item with the given ID is
// reassigned to the given stage. All other items are untouched. If the item
// does not exist the returned snapshot is an unchanged copy.
func (s State) WithStage(itemID string, stage Stage) State {
	out := s.Clone()
	for client, items := range out {
		for i := range items {
			if items[i].ID == itemID {
				items[i].Stage = stage
				out[client] = items
				return out
			}
		}
	}
	return out
}

// Items returns the items for one partition. The returned slice is the
// snapshot's own; callers must not modify it.
func (s State) Items(clientID string) []Item {
	return s[clientID]
}

// ItemsInStage returns the partition's items occupying the given stage,
// preserving snapshot order.
func (s State) ItemsInStage(clientID string, stage Stage) []Item {
	var out []Item
	for _, item := range s[clientID] {
		if item.Stage == stage {
			out = append(out, item)
		}
	}
	return out
}

// Partitions returns the partition keys in sorted order.
func (s State) Partitions() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the total number of items across all partitions.
func (s State) Len() int {
	n := 0
	for _, items := range s {
		n += len(items)
	}
	return n
}
