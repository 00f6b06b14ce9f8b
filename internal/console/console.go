// Package console plays a duel hot-seat on a terminal: both players answer
// prompts on the same input and see the boards on the same output.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/thraizz/monster-duel/internal/game"
	"github.com/thraizz/monster-duel/internal/game/decision"
	"github.com/thraizz/monster-duel/internal/game/rules"
)

// ErrInputClosed is returned by Decide once the input has no more lines.
var ErrInputClosed = errors.New("console input closed")

type line struct {
	text string
	err  error
}

// Console is a decision.Provider and game.Observer over a line-oriented
// reader and a writer.
type Console struct {
	out    io.Writer
	outMu  sync.Mutex
	// lines holds one answer, so the reader can finish after a prompt is
	// abandoned.
	lines  chan line
	done   chan struct{}
	start  sync.Once
	in     *bufio.Scanner
	logger *zap.Logger
}

var (
	_ decision.Provider = (*Console)(nil)
	_ game.Observer     = (*Console)(nil)
)

// New creates a console reading answers from in and writing to out.
func New(in io.Reader, out io.Writer, logger *zap.Logger) *Console {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Console{
		out:    out,
		lines:  make(chan line, 1),
		done:   make(chan struct{}),
		in:     bufio.NewScanner(in),
		logger: logger.Named("console"),
	}
}

// Decide prints the prompt and waits for one line of input. The read happens
// on a background goroutine so a cancelled ctx returns immediately.
func (c *Console) Decide(ctx context.Context, player string, req decision.Request) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	c.start.Do(func() { go c.readLines() })

	c.printf("[%s] %s\n", player, req.Prompt)
	if req.Kind == decision.IndexSelect {
		c.printf("  options: %s\n", strings.Join(req.Options, " "))
	}
	c.printf("> ")

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case l, ok := <-c.lines:
		if !ok {
			return "", ErrInputClosed
		}
		if l.err != nil {
			return "", fmt.Errorf("read answer: %w", l.err)
		}
		answer := strings.TrimSpace(l.text)
		c.logger.Debug("answer read",
			zap.String("player", player),
			zap.String("answer", answer))
		return answer, nil
	}
}

func (c *Console) readLines() {
	defer close(c.done)
	defer close(c.lines)
	for c.in.Scan() {
		c.lines <- line{text: c.in.Text()}
	}
	if err := c.in.Err(); err != nil {
		select {
		case c.lines <- line{err: err}:
		default:
			c.logger.Warn("input read failed with an answer pending", zap.Error(err))
		}
	}
}

func (c *Console) Board(s game.MatchSnapshot) {
	c.printf("\n%s\n", game.RenderBoards(s, s.ActivePlayer))
}

func (c *Console) Hand(h game.HandSnapshot) {
	c.printf("%s's hand\n%s", h.Player, game.RenderHand(h))
}

// Prompt is a no-op; Decide already prints every prompt.
func (c *Console) Prompt(game.PromptEcho) {}

func (c *Console) Event(e rules.Event) {
	if msg := describe(e); msg != "" {
		c.printf("%s\n", msg)
	}
}

func (c *Console) printf(format string, args ...any) {
	c.outMu.Lock()
	defer c.outMu.Unlock()
	if _, err := fmt.Fprintf(c.out, format, args...); err != nil {
		c.logger.Warn("console write failed", zap.Error(err))
	}
}

// describe turns the events a player needs to notice into a line of text.
// Events already visible on the board print nothing.
func describe(e rules.Event) string {
	switch e.Type {
	case rules.EventTurnBegan:
		return fmt.Sprintf("--- turn %d: %s ---", e.Turn, e.PlayerID)
	case rules.EventDeckExhausted:
		return fmt.Sprintf("%s has no cards left to draw", e.PlayerID)
	case rules.EventBattleResolved:
		if e.Amount == 0 {
			return fmt.Sprintf("battle: %s, no damage", e.Description)
		}
		return fmt.Sprintf("battle: %s, %s loses %d", e.Description, e.Data, e.Amount)
	case rules.EventDirectHit:
		return fmt.Sprintf("direct hit on %s for %d", e.TargetID, e.Amount)
	case rules.EventLostLife:
		return fmt.Sprintf("%s lost %d life points", e.TargetID, e.Amount)
	case rules.EventSpellActivated, rules.EventCounterPlayed:
		return fmt.Sprintf("%s played %s: %s", e.PlayerID, e.Data, e.Description)
	case rules.EventInsufficientEnergy:
		return fmt.Sprintf("%s does not have enough energy", e.PlayerID)
	case rules.EventInvalidSelection:
		return "Invalid selection"
	case rules.EventZoneFull:
		return "That zone is full"
	case rules.EventMatchEnded:
		if e.Flag {
			return "The match is a draw"
		}
		return fmt.Sprintf("%s won the match", e.PlayerID)
	}
	return ""
}
