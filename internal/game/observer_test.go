package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/thraizz/monster-duel/internal/game/cards"
	"github.com/thraizz/monster-duel/internal/game/rules"
)

type recordingObserver struct {
	boards  []MatchSnapshot
	hands   []HandSnapshot
	prompts []PromptEcho
	events  []rules.Event
}

func (o *recordingObserver) Board(s MatchSnapshot) { o.boards = append(o.boards, s) }
func (o *recordingObserver) Hand(h HandSnapshot)   { o.hands = append(o.hands, h) }
func (o *recordingObserver) Prompt(p PromptEcho)   { o.prompts = append(o.prompts, p) }
func (o *recordingObserver) Event(e rules.Event)   { o.events = append(o.events, e) }

type panickingObserver struct{}

func (panickingObserver) Board(MatchSnapshot) { panic("board") }
func (panickingObserver) Hand(HandSnapshot)   { panic("hand") }
func (panickingObserver) Prompt(PromptEcho)   { panic("prompt") }
func (panickingObserver) Event(rules.Event)   { panic("event") }

func TestObserverSeesMatch(t *testing.T) {
	h := newMatchHarness(t)
	h.fieldMonster("p1", cards.NewMonster("Mon 1", cards.TypeFire, cards.GradeC),
		cards.NewAttackCard("attack", "", 5, 0))
	h.answer("p1", "y", "y", "0", "0")

	rec := &recordingObserver{}
	res := h.run(4, WithObserver(rec))

	assert.Len(t, rec.prompts, len(h.script.Asked()), "every prompt is echoed")
	assert.Equal(t, "YES_NO", rec.prompts[0].Kind)
	assert.Equal(t, []string{"y", "n"}, rec.prompts[0].Options)

	assert.GreaterOrEqual(t, len(rec.boards), res.Replay.Size())
	assert.NotEmpty(t, rec.hands)
	assert.Equal(t, len(h.events), len(rec.events))

	last := rec.boards[len(rec.boards)-1]
	p2, ok := last.Board("p2")
	require.True(t, ok)
	assert.Equal(t, 3, p2.LifePoints)
	p1, _ := last.Board("p1")
	assert.Contains(t, p1.Monsters[0], "Mon 1")
	assert.Empty(t, p1.Monsters[1])
}

func TestEmptyChoiceIsEchoed(t *testing.T) {
	h := newMatchHarness(t)
	attack := cards.NewAttackCard("attack", "", 3, 1)
	b := h.withBoard("p1", nil, []cards.Card{attack})
	// Equips with no monster on the field.
	h.answer("p1", "n", "n", "n", "y", "0", "0")

	rec := &recordingObserver{}
	h.run(1, WithObserver(rec))

	var echoed *PromptEcho
	for i := range rec.prompts {
		if rec.prompts[i].Prompt == "Choose the index of the monster card on the field to equip" {
			echoed = &rec.prompts[i]
		}
	}
	require.NotNil(t, echoed, "the question is shown with nothing to pick")
	assert.Equal(t, "p1", echoed.Player)
	assert.Empty(t, echoed.Options)

	assert.Equal(t, []cards.Card{attack}, b.Hand())
	assert.Len(t, h.eventsOf(rules.EventInvalidSelection), 1)
	assert.Empty(t, h.eventsOf(rules.EventAttackEquipped))
}

func TestMultiObserverRecoversPanics(t *testing.T) {
	rec := &recordingObserver{}
	multi := NewMultiObserver(zaptest.NewLogger(t), panickingObserver{}, nil, rec)

	assert.NotPanics(t, func() {
		multi.Board(MatchSnapshot{Turn: 1})
		multi.Hand(HandSnapshot{Player: "p1"})
		multi.Prompt(PromptEcho{Player: "p1"})
		multi.Event(rules.NewEvent(rules.EventTurnBegan, "", "", "p1"))
	})

	assert.Len(t, rec.boards, 1)
	assert.Len(t, rec.hands, 1)
	assert.Len(t, rec.prompts, 1)
	assert.Len(t, rec.events, 1)
}

func TestMultiObserverAdd(t *testing.T) {
	multi := NewMultiObserver(nil)
	rec := &recordingObserver{}
	multi.Add(rec)
	multi.Add(nil)

	multi.Event(rules.NewEvent(rules.EventTurnEnded, "", "", "p1"))
	assert.Len(t, rec.events, 1)
}

func TestLogObserverDoesNotPanic(t *testing.T) {
	o := NewLogObserver(zaptest.NewLogger(t))
	assert.NotPanics(t, func() {
		o.Board(MatchSnapshot{Boards: []BoardSnapshot{{Player: "p1", LifePoints: 10}}})
		o.Hand(HandSnapshot{Player: "p1", Cards: []string{"Energy 1 untapped"}})
		o.Prompt(PromptEcho{Player: "p1", Kind: "YES_NO", Prompt: "?"})
		o.Event(rules.NewEventWithAmount(rules.EventLostLife, "p1", "", "p2", 3))
	})
}
