package rules

import "sync"

// Watcher accumulates match statistics from published events.
type Watcher interface {
	Name() string
	Watch(event Event)
}

// BaseWatcher carries a watcher's name. Embed it and implement Watch.
type BaseWatcher struct {
	name string
}

// NewBaseWatcher creates a base watcher called name.
func NewBaseWatcher(name string) *BaseWatcher {
	return &BaseWatcher{name: name}
}

// Name returns the watcher's registry key.
func (bw *BaseWatcher) Name() string {
	return bw.name
}

// WatcherRegistry holds the watchers of a match and notifies them in
// registration order.
type WatcherRegistry struct {
	mu       sync.RWMutex
	watchers []Watcher
}

// NewWatcherRegistry creates an empty registry.
func NewWatcherRegistry() *WatcherRegistry {
	return &WatcherRegistry{}
}

// Add registers w. A watcher with the same name is replaced in place.
func (wr *WatcherRegistry) Add(w Watcher) {
	if w == nil {
		return
	}
	wr.mu.Lock()
	defer wr.mu.Unlock()
	for i, existing := range wr.watchers {
		if existing.Name() == w.Name() {
			wr.watchers[i] = w
			return
		}
	}
	wr.watchers = append(wr.watchers, w)
}

// All returns the registered watchers in registration order.
func (wr *WatcherRegistry) All() []Watcher {
	wr.mu.RLock()
	defer wr.mu.RUnlock()
	return append([]Watcher(nil), wr.watchers...)
}

// Notify hands event to every watcher.
func (wr *WatcherRegistry) Notify(event Event) {
	for _, w := range wr.All() {
		w.Watch(event)
	}
}

// Attach subscribes the registry to bus and returns the subscription handle.
func (wr *WatcherRegistry) Attach(bus *EventBus) int {
	return bus.Subscribe(wr.Notify)
}
