package rules

import (
	"context"
	"errors"
	"testing"
)

func TestTurnManagerSequence(t *testing.T) {
	ctx := context.Background()
	tm, err := NewTurnManager([]string{"Alice", "Bob"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if tm.CurrentPhase() != PhaseIdle {
		t.Fatalf("expected phase idle, got %s", tm.CurrentPhase())
	}
	if !tm.FirstTurn() {
		t.Fatal("expected first turn before any turn ended")
	}

	if err := tm.BeginTurn(ctx, "Alice"); err != nil {
		t.Fatalf("begin turn: %v", err)
	}
	if tm.CurrentPhase() != PhaseSetup {
		t.Fatalf("expected phase setup, got %s", tm.CurrentPhase())
	}
	if err := tm.BeginAction(ctx); err != nil {
		t.Fatalf("begin action: %v", err)
	}
	if tm.CurrentPhase() != PhaseAction {
		t.Fatalf("expected phase action, got %s", tm.CurrentPhase())
	}
	if err := tm.EndTurn(ctx); err != nil {
		t.Fatalf("end turn: %v", err)
	}
	if tm.CurrentPhase() != PhaseEnd {
		t.Fatalf("expected phase end, got %s", tm.CurrentPhase())
	}
	if tm.TurnNumber() != 1 {
		t.Fatalf("expected turn number 1, got %d", tm.TurnNumber())
	}
	if tm.FirstTurn() {
		t.Fatal("expected first turn to be over")
	}
}

func TestTurnManagerSkipsActionPhase(t *testing.T) {
	ctx := context.Background()
	tm, _ := NewTurnManager([]string{"Alice", "Bob"}, nil)

	if err := tm.BeginTurn(ctx, "Alice"); err != nil {
		t.Fatalf("begin turn: %v", err)
	}
	if err := tm.EndTurn(ctx); err != nil {
		t.Fatalf("setup should be able to end the turn directly: %v", err)
	}

	if err := tm.BeginTurn(ctx, "Bob"); err != nil {
		t.Fatalf("begin turn: %v", err)
	}
	if tm.ActivePlayer() != "Bob" {
		t.Fatalf("expected active player Bob, got %s", tm.ActivePlayer())
	}
}

func TestTurnManagerRejectsOutOfOrderPhases(t *testing.T) {
	ctx := context.Background()
	tm, _ := NewTurnManager([]string{"Alice", "Bob"}, nil)

	if err := tm.BeginAction(ctx); err == nil {
		t.Fatal("expected action before setup to fail")
	}
	if err := tm.EndTurn(ctx); err == nil {
		t.Fatal("expected ending a turn that never began to fail")
	}
	if tm.TurnNumber() != 0 {
		t.Fatalf("expected turn counter untouched, got %d", tm.TurnNumber())
	}

	_ = tm.BeginTurn(ctx, "Alice")
	if err := tm.BeginTurn(ctx, "Bob"); err == nil {
		t.Fatal("expected a new turn during setup to fail")
	}
}

func TestTurnManagerUnknownPlayer(t *testing.T) {
	tm, _ := NewTurnManager([]string{"Alice", "Bob"}, nil)
	err := tm.BeginTurn(context.Background(), "Carol")
	if !errors.Is(err, ErrUnknownPlayer) {
		t.Fatalf("expected ErrUnknownPlayer, got %v", err)
	}

	opponent, err := tm.Opponent("Bob")
	if err != nil || opponent != "Alice" {
		t.Fatalf("expected Alice as Bob's opponent, got %q (%v)", opponent, err)
	}
}

func TestNewTurnManagerValidatesPlayers(t *testing.T) {
	cases := [][]string{
		{"Alice"},
		{"Alice", "Alice"},
		{"Alice", " "},
		{"Alice", "Bob", "Carol"},
	}
	for _, players := range cases {
		if _, err := NewTurnManager(players, nil); err == nil {
			t.Fatalf("expected error for players %v", players)
		}
	}
}

func TestTurnManagerPublishesPhaseChanges(t *testing.T) {
	ctx := context.Background()
	bus := NewEventBus()
	var phases []string
	bus.SubscribeTyped(EventPhaseChanged, func(e Event) {
		phases = append(phases, e.Data)
	})
	began := 0
	bus.SubscribeTyped(EventTurnBegan, func(e Event) {
		began++
		if e.PlayerID != "Alice" {
			t.Fatalf("expected turn for Alice, got %s", e.PlayerID)
		}
	})

	tm, _ := NewTurnManager([]string{"Alice", "Bob"}, bus)
	_ = tm.BeginTurn(ctx, "Alice")
	_ = tm.BeginAction(ctx)
	_ = tm.EndTurn(ctx)

	expected := []string{"setup", "action", "end"}
	if len(phases) != len(expected) {
		t.Fatalf("expected phases %v, got %v", expected, phases)
	}
	for i := range expected {
		if phases[i] != expected[i] {
			t.Fatalf("expected phases %v, got %v", expected, phases)
		}
	}
	if began != 1 {
		t.Fatalf("expected one TURN_BEGAN event, got %d", began)
	}
}

func TestPhaseAndStepNames(t *testing.T) {
	if PhaseAction.String() != "action" {
		t.Fatalf("unexpected phase name %s", PhaseAction)
	}
	if StepActivateSpells.String() != "ACTIVATE_SPELLS" {
		t.Fatalf("unexpected step name %s", StepActivateSpells)
	}
	if Step(99).String() != "STEP_99" {
		t.Fatalf("unexpected unknown step name %s", Step(99))
	}
}
