package watchers

import (
	"github.com/thraizz/monster-duel/internal/game/rules"
)

// DamageTakenWatcher tracks life lost per player over a match.
type DamageTakenWatcher struct {
	*rules.BaseWatcher
	damage map[string]int // playerID -> life lost
}

// NewDamageTakenWatcher creates a new damage taken watcher.
func NewDamageTakenWatcher() *DamageTakenWatcher {
	return &DamageTakenWatcher{
		BaseWatcher: rules.NewBaseWatcher("damage_taken"),
		damage:      make(map[string]int),
	}
}

// Watch counts LOST_LIFE events, which carry the player losing life as
// TargetID.
func (w *DamageTakenWatcher) Watch(event rules.Event) {
	if event.Type != rules.EventLostLife || event.TargetID == "" || event.Amount <= 0 {
		return
	}
	w.damage[event.TargetID] += event.Amount
}

// GetDamage returns the life lost by a player.
func (w *DamageTakenWatcher) GetDamage(playerID string) int {
	return w.damage[playerID]
}

// CountersPlayedWatcher tracks counter spells played out of turn.
type CountersPlayedWatcher struct {
	*rules.BaseWatcher
	counters map[string][]string // playerID -> spell names
}

// NewCountersPlayedWatcher creates a new counters played watcher.
func NewCountersPlayedWatcher() *CountersPlayedWatcher {
	return &CountersPlayedWatcher{
		BaseWatcher: rules.NewBaseWatcher("counters_played"),
		counters:    make(map[string][]string),
	}
}

// Watch implements the Watcher interface.
func (w *CountersPlayedWatcher) Watch(event rules.Event) {
	if event.Type != rules.EventCounterPlayed || event.PlayerID == "" {
		return
	}
	w.counters[event.PlayerID] = append(w.counters[event.PlayerID], event.Data)
}

// GetCounters returns the names of the counters a player played.
func (w *CountersPlayedWatcher) GetCounters(playerID string) []string {
	return w.counters[playerID]
}

// GetCount returns the number of counters a player played.
func (w *CountersPlayedWatcher) GetCount(playerID string) int {
	return len(w.counters[playerID])
}

// AttacksWatcher tracks declared attacks and how many were blocked.
type AttacksWatcher struct {
	*rules.BaseWatcher
	attacks map[string]int
	blocked map[string]int
}

// NewAttacksWatcher creates a new attacks watcher.
func NewAttacksWatcher() *AttacksWatcher {
	return &AttacksWatcher{
		BaseWatcher: rules.NewBaseWatcher("attacks"),
		attacks:     make(map[string]int),
		blocked:     make(map[string]int),
	}
}

// Watch implements the Watcher interface.
func (w *AttacksWatcher) Watch(event rules.Event) {
	switch event.Type {
	case rules.EventAttackDeclared:
		w.attacks[event.PlayerID]++
	case rules.EventBattleResolved:
		w.blocked[event.PlayerID]++
	}
}

// GetAttacks returns the number of attacks a player declared.
func (w *AttacksWatcher) GetAttacks(playerID string) int {
	return w.attacks[playerID]
}

// GetBlocked returns how many of a player's attacks were defended.
func (w *AttacksWatcher) GetBlocked(playerID string) int {
	return w.blocked[playerID]
}

// PlayerStats summarises one player's match.
type PlayerStats struct {
	DamageTaken    int      `json:"damage_taken"`
	Attacks        int      `json:"attacks"`
	AttacksBlocked int      `json:"attacks_blocked"`
	CountersPlayed []string `json:"counters_played,omitempty"`
}

// Set is the group of watchers a match registers.
type Set struct {
	Damage   *DamageTakenWatcher
	Counters *CountersPlayedWatcher
	Attacks  *AttacksWatcher
}

// NewSet creates the match watchers and adds them to registry.
func NewSet(registry *rules.WatcherRegistry) *Set {
	s := &Set{
		Damage:   NewDamageTakenWatcher(),
		Counters: NewCountersPlayedWatcher(),
		Attacks:  NewAttacksWatcher(),
	}
	registry.Add(s.Damage)
	registry.Add(s.Counters)
	registry.Add(s.Attacks)
	return s
}

// Stats returns the summary for playerID.
func (s *Set) Stats(playerID string) PlayerStats {
	return PlayerStats{
		DamageTaken:    s.Damage.GetDamage(playerID),
		Attacks:        s.Attacks.GetAttacks(playerID),
		AttacksBlocked: s.Attacks.GetBlocked(playerID),
		CountersPlayed: append([]string(nil), s.Counters.GetCounters(playerID)...),
	}
}
