// Package game runs a duel between two players: the turn loop, the phases of
// each turn and the counter windows between them.
package game

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/thraizz/monster-duel/internal/deck"
	"github.com/thraizz/monster-duel/internal/game/board"
	"github.com/thraizz/monster-duel/internal/game/decision"
	"github.com/thraizz/monster-duel/internal/game/effects"
	"github.com/thraizz/monster-duel/internal/game/rules"
	"github.com/thraizz/monster-duel/internal/game/watchers"
)

var (
	// ErrNoProvider is returned when a match is created without a decision provider.
	ErrNoProvider = errors.New("match needs a decision provider")
	// ErrBoardCount is returned when a match is not given exactly one board per player.
	ErrBoardCount = errors.New("match needs one board per player")
)

// Result is the outcome of a finished match.
type Result struct {
	MatchID    string                          `json:"match_id"`
	Winner     string                          `json:"winner,omitempty"`
	Draw       bool                            `json:"draw"`
	Turns      int                             `json:"turns"`
	LifePoints map[string]int                  `json:"life_points"`
	Stats      map[string]watchers.PlayerStats `json:"stats"`
	Replay     *Replay                         `json:"-"`
}

// Option configures a Match.
type Option func(*Match)

// WithLogger sets the match logger.
func WithLogger(logger *zap.Logger) Option {
	return func(m *Match) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithObserver sets the telemetry sink.
func WithObserver(o Observer) Option {
	return func(m *Match) {
		if o != nil {
			m.observer = o
		}
	}
}

// WithMaxTurns ends the match as a draw once the global turn counter reaches
// n. Zero means no cap.
func WithMaxTurns(n int) Option {
	return func(m *Match) { m.maxTurns = n }
}

// WithMatchID overrides the generated match id.
func WithMatchID(id string) Option {
	return func(m *Match) {
		if id != "" {
			m.id = id
		}
	}
}

// Match holds the two boards of a duel and runs it to completion. A match is
// driven by a single goroutine; every suspension happens inside the decision
// provider.
type Match struct {
	id        string
	players   []string
	boards    map[string]*board.Board
	provider  decision.Provider
	activator *effects.Activator
	turns     *rules.TurnManager
	bus       *rules.EventBus
	registry  *rules.WatcherRegistry
	stats     *watchers.Set
	statsSub  int
	replay    *Replay
	observer  Observer
	maxTurns  int
	logger    *zap.Logger
}

// NewMatch creates a match between players, in turn order, playing on boards.
func NewMatch(players []string, boards []*board.Board, provider decision.Provider, opts ...Option) (*Match, error) {
	if provider == nil {
		return nil, ErrNoProvider
	}
	if len(boards) != len(players) {
		return nil, fmt.Errorf("%w: %d players, %d boards", ErrBoardCount, len(players), len(boards))
	}

	m := &Match{
		id:       uuid.NewString(),
		boards:   make(map[string]*board.Board, len(players)),
		bus:      rules.NewEventBus(),
		registry: rules.NewWatcherRegistry(),
		observer: NopObserver{},
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}

	turns, err := rules.NewTurnManager(players, m.bus)
	if err != nil {
		return nil, err
	}
	m.turns = turns
	m.players = turns.Players()
	for i, b := range boards {
		if b == nil {
			return nil, fmt.Errorf("%w: board %d is nil", ErrBoardCount, i)
		}
		m.boards[m.players[i]] = b
	}

	m.logger = m.logger.With(zap.String("match_id", m.id))
	m.provider = &echoProvider{next: provider, observer: m.observer}
	m.activator = effects.NewActivator(m.provider, m.logger)
	m.replay = NewReplay(m.id)
	m.stats = watchers.NewSet(m.registry)
	m.statsSub = m.registry.Attach(m.bus)
	m.bus.Subscribe(m.observer.Event)
	return m, nil
}

// NewBoards deals one board per player from factory: a fresh shuffled deck
// and a starting hand holding at least one monster.
func NewBoards(factory *deck.Factory, players []string, lifePoints int, logger *zap.Logger) []*board.Board {
	if logger == nil {
		logger = zap.NewNop()
	}
	boards := make([]*board.Board, 0, len(players))
	for _, p := range players {
		d := factory.NewDeck()
		hand := d.StartingHand(deck.StartingHandSize)
		boards = append(boards, board.New(d, hand,
			board.WithLifePoints(lifePoints),
			board.WithLogger(logger.With(zap.String("player", p)))))
	}
	return boards
}

// ID returns the match id.
func (m *Match) ID() string { return m.id }

// Players returns the players in turn order.
func (m *Match) Players() []string { return append([]string{}, m.players...) }

// Board returns player's board, or nil for an unknown player.
func (m *Match) Board(player string) *board.Board { return m.boards[player] }

// Bus returns the match event bus.
func (m *Match) Bus() *rules.EventBus { return m.bus }

// Replay returns the recorded board history.
func (m *Match) Replay() *Replay { return m.replay }

// Turn returns the global turn counter.
func (m *Match) Turn() int { return m.turns.TurnNumber() }

// Run plays turns in fixed player order until one side is out of life points
// or the turn cap is reached. The winner is checked after every player's
// turn. Only provider failures and context cancellation are returned as
// errors; rejected moves are reported as events and play continues.
func (m *Match) Run(ctx context.Context) (*Result, error) {
	m.logger.Info("match started", zap.Strings("players", m.players))
	m.record()

	for {
		for _, player := range m.players {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if err := m.playTurn(ctx, player); err != nil {
				return nil, fmt.Errorf("turn %d of %s: %w", m.turns.TurnNumber(), player, err)
			}
			if res, over := m.outcome(); over {
				return m.finish(res), nil
			}
			if m.maxTurns > 0 && m.turns.TurnNumber() >= m.maxTurns {
				m.logger.Info("turn cap reached", zap.Int("max_turns", m.maxTurns))
				return m.finish(&Result{Draw: true}), nil
			}
		}
	}
}

func (m *Match) playTurn(ctx context.Context, player string) error {
	opponent, err := m.turns.Opponent(player)
	if err != nil {
		return err
	}
	if err := m.turns.BeginTurn(ctx, player); err != nil {
		return err
	}
	m.logger.Info("turn started",
		zap.String("player", player),
		zap.Int("turn", m.turns.TurnNumber()))

	t := &turn{
		Match: m,
		self:  effects.Side{Player: player, Board: m.boards[player]},
		other: effects.Side{Player: opponent, Board: m.boards[opponent]},
	}

	if err := t.setup(ctx); err != nil {
		return err
	}
	m.record()

	if m.turns.FirstTurn() {
		m.logger.Info("action phase skipped on the first turn", zap.String("player", player))
	} else {
		if err := m.turns.BeginAction(ctx); err != nil {
			return err
		}
		if err := t.action(ctx); err != nil {
			return err
		}
		m.record()
	}

	if err := m.turns.EndTurn(ctx); err != nil {
		return err
	}
	m.emit(rules.NewEvent(rules.EventTurnEnded, "", "", player))
	m.logger.Info("turn ended",
		zap.String("player", player),
		zap.Int("life_points", t.self.Board.LifePoints()),
		zap.Int("opponent_life_points", t.other.Board.LifePoints()))
	return nil
}

// outcome reports whether a side is out of life points.
func (m *Match) outcome() (*Result, bool) {
	var alive []string
	for _, p := range m.players {
		if m.boards[p].Alive() {
			alive = append(alive, p)
		}
	}
	switch len(alive) {
	case len(m.players):
		return nil, false
	case 1:
		return &Result{Winner: alive[0]}, true
	default:
		return &Result{Draw: true}, true
	}
}

func (m *Match) finish(res *Result) *Result {
	res.MatchID = m.id
	res.Turns = m.turns.TurnNumber()
	res.Replay = m.replay
	res.LifePoints = make(map[string]int, len(m.players))
	res.Stats = make(map[string]watchers.PlayerStats, len(m.players))
	for _, p := range m.players {
		res.LifePoints[p] = m.boards[p].LifePoints()
		res.Stats[p] = m.stats.Stats(p)
	}

	evt := rules.NewEvent(rules.EventMatchEnded, res.Winner, "", res.Winner)
	evt.Flag = res.Draw
	m.emit(evt)
	m.record()
	// Stats are final once the result is out.
	m.bus.Unsubscribe(m.statsSub)

	m.logger.Info("match ended",
		zap.String("winner", res.Winner),
		zap.Bool("draw", res.Draw),
		zap.Int("turns", res.Turns))
	return res
}

func (m *Match) snapshot() MatchSnapshot {
	s := MatchSnapshot{
		Turn:         m.turns.TurnNumber(),
		ActivePlayer: m.turns.ActivePlayer(),
		Phase:        m.turns.CurrentPhase().String(),
		Step:         m.turns.CurrentStep().String(),
		Boards:       make([]BoardSnapshot, 0, len(m.players)),
	}
	for _, p := range m.players {
		s.Boards = append(s.Boards, snapshotBoard(p, m.boards[p]))
	}
	return s
}

// record appends the current boards to the replay and publishes them.
func (m *Match) record() {
	s := m.snapshot()
	m.replay.RecordState(s)
	m.observer.Board(s)
}

func (m *Match) showHand(player string) {
	m.observer.Hand(snapshotHand(player, m.boards[player]))
}

func (m *Match) emit(evt rules.Event) {
	evt.Turn = m.turns.TurnNumber()
	m.bus.Publish(evt)
}
