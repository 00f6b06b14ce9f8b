package game

import (
	"context"

	"go.uber.org/zap"

	"github.com/thraizz/monster-duel/internal/game/decision"
	"github.com/thraizz/monster-duel/internal/game/rules"
)

// Observer receives the telemetry of a match: board tables, private hands,
// prompts and events. Observer calls must not block the engine.
type Observer interface {
	Board(MatchSnapshot)
	Hand(HandSnapshot)
	Prompt(PromptEcho)
	Event(rules.Event)
}

// NopObserver discards everything.
type NopObserver struct{}

func (NopObserver) Board(MatchSnapshot) {}
func (NopObserver) Hand(HandSnapshot)   {}
func (NopObserver) Prompt(PromptEcho)   {}
func (NopObserver) Event(rules.Event)   {}

// LogObserver mirrors match telemetry to a zap logger.
type LogObserver struct {
	logger *zap.Logger
}

// NewLogObserver creates a log observer.
func NewLogObserver(logger *zap.Logger) *LogObserver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogObserver{logger: logger.Named("observer")}
}

func (o *LogObserver) Board(s MatchSnapshot) {
	fields := []zap.Field{
		zap.Int("turn", s.Turn),
		zap.String("active_player", s.ActivePlayer),
		zap.String("phase", s.Phase),
	}
	for _, b := range s.Boards {
		fields = append(fields, zap.Int(b.Player+"_life_points", b.LifePoints))
	}
	o.logger.Debug("board", fields...)
}

func (o *LogObserver) Hand(h HandSnapshot) {
	o.logger.Debug("hand",
		zap.String("player", h.Player),
		zap.Strings("cards", h.Cards))
}

func (o *LogObserver) Prompt(p PromptEcho) {
	o.logger.Debug("prompt",
		zap.String("player", p.Player),
		zap.String("kind", p.Kind),
		zap.String("prompt", p.Prompt))
}

func (o *LogObserver) Event(e rules.Event) {
	o.logger.Info("event",
		zap.String("type", string(e.Type)),
		zap.String("player", e.PlayerID),
		zap.String("target", e.TargetID),
		zap.Int("amount", e.Amount),
		zap.Int("turn", e.Turn),
		zap.String("description", e.Description))
}

// MultiObserver fans telemetry out to several observers. A panicking
// observer is logged and skipped.
type MultiObserver struct {
	observers []Observer
	logger    *zap.Logger
}

// NewMultiObserver creates a fan-out observer. Nil observers are dropped.
func NewMultiObserver(logger *zap.Logger, observers ...Observer) *MultiObserver {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &MultiObserver{logger: logger}
	for _, o := range observers {
		if o != nil {
			m.observers = append(m.observers, o)
		}
	}
	return m
}

// Add registers another observer.
func (m *MultiObserver) Add(o Observer) {
	if o != nil {
		m.observers = append(m.observers, o)
	}
}

func (m *MultiObserver) Board(s MatchSnapshot) {
	m.each("board", func(o Observer) { o.Board(s) })
}

func (m *MultiObserver) Hand(h HandSnapshot) {
	m.each("hand", func(o Observer) { o.Hand(h) })
}

func (m *MultiObserver) Prompt(p PromptEcho) {
	m.each("prompt", func(o Observer) { o.Prompt(p) })
}

func (m *MultiObserver) Event(e rules.Event) {
	m.each("event", func(o Observer) { o.Event(e) })
}

func (m *MultiObserver) each(kind string, call func(Observer)) {
	for _, o := range m.observers {
		m.safeCall(kind, o, call)
	}
}

func (m *MultiObserver) safeCall(kind string, o Observer, call func(Observer)) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("observer panicked",
				zap.String("kind", kind),
				zap.Any("panic", r))
		}
	}()
	call(o)
}

// echoProvider forwards every request to an observer before asking the
// wrapped provider.
type echoProvider struct {
	next     decision.Provider
	observer Observer
}

func (p *echoProvider) Decide(ctx context.Context, player string, req decision.Request) (string, error) {
	p.observer.Prompt(PromptEcho{
		Player:  player,
		Kind:    req.Kind.String(),
		Prompt:  req.Prompt,
		Options: append([]string(nil), req.Options...),
	})
	return p.next.Decide(ctx, player, req)
}
