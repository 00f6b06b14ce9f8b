package console

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/thraizz/monster-duel/internal/game"
	"github.com/thraizz/monster-duel/internal/game/decision"
	"github.com/thraizz/monster-duel/internal/game/rules"
)

func TestDecideReadsOneLinePerPrompt(t *testing.T) {
	var out bytes.Buffer
	c := New(strings.NewReader("y\n  2 \n"), &out, zaptest.NewLogger(t))
	ctx := context.Background()

	ok, err := decision.Confirm(ctx, c, "p1", "Do you want to take an action?: (y/n)")
	require.NoError(t, err)
	assert.True(t, ok)

	pos, err := decision.ChoosePosition(ctx, c, "p1", "Choose a monster", []int{0, 2})
	require.NoError(t, err)
	assert.Equal(t, 2, pos)

	printed := out.String()
	assert.Contains(t, printed, "[p1] Do you want to take an action?: (y/n)")
	assert.Contains(t, printed, "options: 0 2")
}

func TestDecideAfterInputEnds(t *testing.T) {
	c := New(strings.NewReader("n\n"), io.Discard, zaptest.NewLogger(t))
	ctx := context.Background()

	_, err := c.Decide(ctx, "p2", decision.Request{Kind: decision.YesNo, Prompt: "defend?"})
	require.NoError(t, err)

	_, err = c.Decide(ctx, "p2", decision.Request{Kind: decision.YesNo, Prompt: "defend?"})
	assert.ErrorIs(t, err, ErrInputClosed)
}

func TestDecideHonoursContext(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()
	c := New(r, io.Discard, zaptest.NewLogger(t))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.Decide(ctx, "p1", decision.Request{Kind: decision.YesNo, Prompt: "wait"})
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	cancelled, stop := context.WithCancel(context.Background())
	stop()
	_, err = c.Decide(cancelled, "p1", decision.Request{Kind: decision.YesNo, Prompt: "wait"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReaderFinishesAfterAbandonedPrompt(t *testing.T) {
	r, w := io.Pipe()
	c := New(r, io.Discard, zaptest.NewLogger(t))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := c.Decide(ctx, "p1", decision.Request{Kind: decision.YesNo, Prompt: "wait"})
	require.ErrorIs(t, err, context.DeadlineExceeded)

	_, err = io.WriteString(w, "y\n")
	require.NoError(t, err)
	require.NoError(t, w.Close())

	assert.Eventually(t, func() bool {
		select {
		case <-c.done:
			return true
		default:
			return false
		}
	}, time.Second, 10*time.Millisecond, "reader exits with nobody waiting")

	answer, err := c.Decide(context.Background(), "p1", decision.Request{Kind: decision.YesNo, Prompt: "again"})
	require.NoError(t, err)
	assert.Equal(t, "y", answer, "the typed line is kept for the next prompt")
}

func TestObserverOutput(t *testing.T) {
	var out bytes.Buffer
	c := New(strings.NewReader(""), &out, zaptest.NewLogger(t))

	c.Board(game.MatchSnapshot{
		Turn:         1,
		ActivePlayer: "p1",
		Phase:        "setup",
		Boards: []game.BoardSnapshot{
			{Player: "p1", LifePoints: 10},
			{Player: "p2", LifePoints: 3},
		},
	})
	c.Hand(game.HandSnapshot{Player: "p1", Cards: []string{"Energy 1 untapped"}})

	lost := rules.NewEventWithAmount(rules.EventLostLife, "p2", "", "p1", 7)
	c.Event(lost)
	c.Event(rules.NewEvent(rules.EventDrewCard, "p1", "", "p1"))
	c.Prompt(game.PromptEcho{Player: "p1", Prompt: "not printed"})

	printed := out.String()
	assert.Contains(t, printed, "LP:3")
	assert.Contains(t, printed, "p1's hand")
	assert.Contains(t, printed, "0__Energy 1 untapped")
	assert.Contains(t, printed, "p2 lost 7 life points")
	assert.NotContains(t, printed, "not printed")
}

func TestDescribe(t *testing.T) {
	tie := rules.NewEvent(rules.EventBattleResolved, "", "", "p1")
	tie.Description = "attack 5 against defense 5"
	tie.Data = "none"
	assert.Equal(t, "battle: attack 5 against defense 5, no damage", describe(tie))

	won := rules.NewEvent(rules.EventMatchEnded, "p2", "", "p2")
	assert.Equal(t, "p2 won the match", describe(won))

	draw := rules.NewEvent(rules.EventMatchEnded, "", "", "")
	draw.Flag = true
	assert.Equal(t, "The match is a draw", describe(draw))

	assert.Empty(t, describe(rules.NewEvent(rules.EventSpellSet, "p1", "", "p1")))
}
