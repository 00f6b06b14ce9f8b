package rules

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/looplab/fsm"
)

// ErrUnknownPlayer is returned when a turn is started for a player outside the match.
var ErrUnknownPlayer = errors.New("unknown player")

// Phase represents the broad phases of a player's turn.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseSetup
	PhaseAction
	PhaseEnd
)

var phaseNames = map[Phase]string{
	PhaseIdle:   "idle",
	PhaseSetup:  "setup",
	PhaseAction: "action",
	PhaseEnd:    "end",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return fmt.Sprintf("PHASE_%d", int(p))
}

func parsePhase(s string) Phase {
	for p, name := range phaseNames {
		if name == s {
			return p
		}
	}
	return PhaseIdle
}

// Step represents the sub-phases a turn moves through.
type Step int

const (
	StepRefresh Step = iota
	StepDraw
	StepCounter
	StepSetEnergy
	StepSetMonsters
	StepSetSpells
	StepEquip
	StepAttack
	StepActivateSpells
	StepEndTurn
)

var stepNames = map[Step]string{
	StepRefresh:        "REFRESH",
	StepDraw:           "DRAW",
	StepCounter:        "COUNTER",
	StepSetEnergy:      "SET_ENERGY",
	StepSetMonsters:    "SET_MONSTERS",
	StepSetSpells:      "SET_SPELLS",
	StepEquip:          "EQUIP",
	StepAttack:         "ATTACK",
	StepActivateSpells: "ACTIVATE_SPELLS",
	StepEndTurn:        "END_TURN",
}

func (s Step) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	return fmt.Sprintf("STEP_%d", int(s))
}

// Turn machine transitions.
const (
	transitionSetup  = "begin_setup"
	transitionAction = "begin_action"
	transitionEnd    = "finish"
)

// TurnManager tracks the active player, the global turn counter and the
// phase of the current turn. Phase changes go through a finite state
// machine, so an engine cannot run the action phase before setup or end a
// turn twice.
type TurnManager struct {
	machine      *fsm.FSM
	players      []string
	activePlayer string
	turnNumber   int
	step         Step
	bus          *EventBus
}

// NewTurnManager creates a turn manager for two players. Phase changes are
// published on bus when it is not nil.
func NewTurnManager(players []string, bus *EventBus) (*TurnManager, error) {
	if len(players) != 2 {
		return nil, fmt.Errorf("a match needs exactly two players, got %d", len(players))
	}
	trimmed := make([]string, len(players))
	for i, p := range players {
		trimmed[i] = strings.TrimSpace(p)
		if trimmed[i] == "" {
			return nil, fmt.Errorf("player %d has an empty id", i)
		}
	}
	if trimmed[0] == trimmed[1] {
		return nil, fmt.Errorf("player ids must differ, both are %q", trimmed[0])
	}

	tm := &TurnManager{
		players: trimmed,
		bus:     bus,
	}
	tm.machine = fsm.NewFSM(
		PhaseIdle.String(),
		fsm.Events{
			{Name: transitionSetup, Src: []string{PhaseIdle.String(), PhaseEnd.String()}, Dst: PhaseSetup.String()},
			{Name: transitionAction, Src: []string{PhaseSetup.String()}, Dst: PhaseAction.String()},
			{Name: transitionEnd, Src: []string{PhaseSetup.String(), PhaseAction.String()}, Dst: PhaseEnd.String()},
		},
		fsm.Callbacks{
			"enter_state": func(_ context.Context, e *fsm.Event) {
				tm.publishPhase(e.Src, e.Dst)
			},
		},
	)
	return tm, nil
}

func (tm *TurnManager) publishPhase(from, to string) {
	if tm.bus == nil {
		return
	}
	evt := NewEvent(EventPhaseChanged, "", "", tm.activePlayer)
	evt.Data = to
	evt.Turn = tm.turnNumber
	evt.Description = fmt.Sprintf("%s -> %s", from, to)
	tm.bus.Publish(evt)
}

// BeginTurn makes player active and enters the setup phase.
func (tm *TurnManager) BeginTurn(ctx context.Context, player string) error {
	if _, err := tm.Opponent(player); err != nil {
		return err
	}
	if !tm.machine.Can(transitionSetup) {
		return fmt.Errorf("begin turn for %q during %s phase", player, tm.CurrentPhase())
	}
	tm.activePlayer = player
	tm.step = StepRefresh
	if tm.bus != nil {
		evt := NewEvent(EventTurnBegan, "", "", player)
		evt.Turn = tm.turnNumber
		tm.bus.Publish(evt)
	}
	return tm.machine.Event(ctx, transitionSetup)
}

// BeginAction moves from setup to the action phase.
func (tm *TurnManager) BeginAction(ctx context.Context) error {
	return tm.machine.Event(ctx, transitionAction)
}

// EndTurn enters the end phase and increments the global turn counter.
func (tm *TurnManager) EndTurn(ctx context.Context) error {
	tm.step = StepEndTurn
	if err := tm.machine.Event(ctx, transitionEnd); err != nil {
		return err
	}
	tm.turnNumber++
	return nil
}

// CurrentPhase returns the phase currently in progress.
func (tm *TurnManager) CurrentPhase() Phase {
	return parsePhase(tm.machine.Current())
}

// CurrentStep returns the step currently in progress.
func (tm *TurnManager) CurrentStep() Step {
	return tm.step
}

// SetStep records the step the engine is running.
func (tm *TurnManager) SetStep(s Step) {
	tm.step = s
}

// TurnNumber returns the global turn counter. It starts at 0 and is shared by
// both players.
func (tm *TurnManager) TurnNumber() int {
	return tm.turnNumber
}

// FirstTurn reports whether no turn has ended yet in the match.
func (tm *TurnManager) FirstTurn() bool {
	return tm.turnNumber == 0
}

// ActivePlayer returns the player who currently has the turn.
func (tm *TurnManager) ActivePlayer() string {
	return tm.activePlayer
}

// Players returns the players in turn order.
func (tm *TurnManager) Players() []string {
	return append([]string{}, tm.players...)
}

// Opponent returns the other player of the match.
func (tm *TurnManager) Opponent(player string) (string, error) {
	switch player {
	case tm.players[0]:
		return tm.players[1], nil
	case tm.players[1]:
		return tm.players[0], nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownPlayer, player)
	}
}
