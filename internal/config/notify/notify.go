// Package notify reports configuration changes to observers.
//
// Changes are computed by comparing two snapshots of a configuration, for
// example before and after a reload, and delivered synchronously to the
// observers subscribed to the affected section.
package notify

import (
	"sort"
	"sync"

	"github.com/dshills/rtdcconfig/internal/config/value"
)

// ChangeType represents the type of configuration change.
type ChangeType int

const (
	// ChangeSet indicates a value was added or modified.
	ChangeSet ChangeType = iota

	// ChangeDelete indicates a value was removed.
	ChangeDelete
)

// String returns the change type name.
func (c ChangeType) String() string {
	switch c {
	case ChangeSet:
		return "set"
	case ChangeDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// Change represents a configuration change event.
type Change struct {
	Section string
	Key     string
	Type    ChangeType

	// Old is None for added keys, New is None for deletes.
	Old value.Value
	New value.Value

	// Source identifies where the change came from, such as a file path.
	Source string
}

// Observer is called when configuration changes occur.
type Observer func(change Change)

// Subscription represents an active observer subscription.
type Subscription struct {
	id       uint64
	notifier *Notifier
}

// Unsubscribe removes this subscription.
func (s *Subscription) Unsubscribe() {
	if s.notifier != nil {
		s.notifier.unsubscribe(s.id)
	}
}

// Notifier manages change subscriptions.
type Notifier struct {
	mu sync.RWMutex

	// observers of all sections
	global map[uint64]Observer

	// observers of a single section
	sections map[string]map[uint64]Observer

	nextID uint64
	closed bool
}

// New creates a Notifier.
func New() *Notifier {
	return &Notifier{
		global:   make(map[uint64]Observer),
		sections: make(map[string]map[uint64]Observer),
	}
}

// Subscribe registers an observer for all changes.
func (n *Notifier) Subscribe(observer Observer) *Subscription {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.nextID
	n.nextID++
	n.global[id] = observer
	return &Subscription{id: id, notifier: n}
}

// SubscribeSection registers an observer for changes of one section.
func (n *Notifier) SubscribeSection(section string, observer Observer) *Subscription {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.nextID
	n.nextID++
	if n.sections[section] == nil {
		n.sections[section] = make(map[uint64]Observer)
	}
	n.sections[section][id] = observer
	return &Subscription{id: id, notifier: n}
}

// Notify delivers change to the matching observers.
func (n *Notifier) Notify(change Change) {
	n.mu.RLock()
	if n.closed {
		n.mu.RUnlock()
		return
	}
	ids := make([]uint64, 0, len(n.global)+len(n.sections[change.Section]))
	observers := make(map[uint64]Observer, cap(ids))
	for id, obs := range n.global {
		ids = append(ids, id)
		observers[id] = obs
	}
	for id, obs := range n.sections[change.Section] {
		ids = append(ids, id)
		observers[id] = obs
	}
	n.mu.RUnlock()

	// in subscription order, outside the lock
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		observers[id](change)
	}
}

// Publish delivers changes in order and returns their number.
func (n *Notifier) Publish(changes []Change) int {
	for _, c := range changes {
		n.Notify(c)
	}
	return len(changes)
}

// Close drops all subscriptions. Later notifications are ignored. It is
// safe to call Close multiple times.
func (n *Notifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.closed = true
	n.global = make(map[uint64]Observer)
	n.sections = make(map[string]map[uint64]Observer)
}

func (n *Notifier) unsubscribe(id uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()

	delete(n.global, id)
	for section, observers := range n.sections {
		delete(observers, id)
		if len(observers) == 0 {
			delete(n.sections, section)
		}
	}
}

// Diff lists the changes turning before into after, sorted by section
// and key.
func Diff(before, after value.Table, source string) []Change {
	var changes []Change

	sections := make(map[string]bool)
	for name := range before {
		sections[name] = true
	}
	for name := range after {
		sections[name] = true
	}
	names := make([]string, 0, len(sections))
	for name := range sections {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		old, cur := before[name], after[name]
		keys := make(map[string]bool, len(old)+len(cur))
		for k := range old {
			keys[k] = true
		}
		for k := range cur {
			keys[k] = true
		}
		sorted := make([]string, 0, len(keys))
		for k := range keys {
			sorted = append(sorted, k)
		}
		sort.Strings(sorted)

		for _, key := range sorted {
			ov, hadOld := old[key]
			nv, hasNew := cur[key]
			switch {
			case hadOld && !hasNew:
				changes = append(changes, Change{Section: name, Key: key, Type: ChangeDelete, Old: ov, Source: source})
			case !hadOld && hasNew, !ov.Equal(nv):
				changes = append(changes, Change{Section: name, Key: key, Type: ChangeSet, Old: ov, New: nv, Source: source})
			}
		}
	}
	return changes
}
