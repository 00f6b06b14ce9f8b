package game

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/thraizz/monster-duel/internal/deck"
	"github.com/thraizz/monster-duel/internal/game/board"
	"github.com/thraizz/monster-duel/internal/game/cards"
	"github.com/thraizz/monster-duel/internal/game/combat"
	"github.com/thraizz/monster-duel/internal/game/decision"
	"github.com/thraizz/monster-duel/internal/game/effects"
	"github.com/thraizz/monster-duel/internal/game/rules"
)

// turn runs the phases of one player's turn. self is the active player.
type turn struct {
	*Match
	self  effects.Side
	other effects.Side
}

// setup refreshes the board, draws, opens a counter window and lets the
// player place cards: one energy, monsters, spells, then attack equips.
func (t *turn) setup(ctx context.Context) error {
	b := t.self.Board

	t.turns.SetStep(rules.StepRefresh)
	b.ResetEnergies()
	b.ResetMonstersToIdle()

	t.turns.SetStep(rules.StepDraw)
	if err := t.draw(ctx); err != nil {
		return err
	}
	b.UntapMonsters()
	t.showHand(t.self.Player)

	if err := t.counterWindow(ctx); err != nil {
		return err
	}

	placements := []struct {
		step rules.Step
		run  func(context.Context) error
	}{
		{rules.StepSetEnergy, t.setEnergy},
		{rules.StepSetMonsters, t.setMonsters},
		{rules.StepSetSpells, t.setSpells},
		{rules.StepEquip, t.equipAttacks},
	}
	for _, p := range placements {
		t.turns.SetStep(p.step)
		if err := p.run(ctx); err != nil {
			return err
		}
		t.showHand(t.self.Player)
	}
	return nil
}

// draw takes the top card of the deck. A hand over board.MaxHand is cut back
// by discarding the chosen card, or the drawn card when the choice is invalid.
func (t *turn) draw(ctx context.Context) error {
	player, b := t.self.Player, t.self.Board

	c, err := b.Draw()
	if errors.Is(err, deck.ErrDeckExhausted) {
		evt := rules.NewEvent(rules.EventDeckExhausted, player, "", player)
		evt.Description = "no more cards to draw"
		t.emit(evt)
		return nil
	}
	if err != nil {
		return err
	}
	drew := rules.NewEvent(rules.EventDrewCard, player, c.ID(), player)
	drew.Data = c.Name()
	t.emit(drew)

	for b.HandSize() > board.MaxHand {
		t.showHand(player)
		pos, ok, err := t.choosePosition(ctx, player,
			"You have too many cards, choose the idx of a card to discard", decision.Positions(b.HandSize()))
		if err != nil {
			return err
		}
		if !ok {
			pos = b.HandSize() - 1
		}
		discarded, err := b.TakeFromHand(pos)
		if err != nil {
			return err
		}
		evt := rules.NewEvent(rules.EventDiscardedCard, player, discarded.ID(), player)
		evt.Data = discarded.Name()
		t.emit(evt)
	}
	return nil
}

func (t *turn) setEnergy(ctx context.Context) error {
	player, b := t.self.Player, t.self.Board
	if b.HandSize() == 0 {
		return nil
	}

	ok, err := t.confirm(ctx, player, "Do you want to set an energy card?: (y/n)")
	if err != nil || !ok {
		return err
	}
	c, ok, err := t.chooseHandCard(ctx, player, "Choose the index of the card in your hand to set")
	if err != nil || !ok {
		return err
	}
	if err := b.SetEnergy(c); err != nil {
		t.reject(player, fmt.Errorf("set %s as energy: %w", c.Name(), err))
		return nil
	}
	b.RemoveFromHand(c)

	evt := rules.NewEventWithAmount(rules.EventEnergySet, player, c.ID(), player, b.TotalEnergy())
	t.emit(evt)
	return nil
}

func (t *turn) setMonsters(ctx context.Context) error {
	player, b := t.self.Player, t.self.Board

	for len(b.Monsters()) < board.MaxMonsters && b.HandSize() > 0 {
		ok, err := t.confirm(ctx, player, "Do you want to set a monster card?: (y/n)")
		if err != nil || !ok {
			return err
		}
		c, ok, err := t.chooseHandCard(ctx, player, "Choose the index of the card in your hand to set")
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		m, isMonster := c.(*cards.Monster)
		if !isMonster {
			t.reject(player, fmt.Errorf("set %s as monster: %w", c.Name(), board.ErrWrongCardType))
			continue
		}
		if err := b.AddMonster(m); err != nil {
			t.zoneFull(player, err)
			return nil
		}
		b.RemoveFromHand(m)

		evt := rules.NewEvent(rules.EventMonsterSet, player, m.ID(), player)
		evt.Data = m.Name()
		t.emit(evt)
	}
	return nil
}

// setSpells places spells face down; they are tapped until activated.
func (t *turn) setSpells(ctx context.Context) error {
	player, b := t.self.Player, t.self.Board

	for len(b.Spells()) < board.MaxSpells && b.HandSize() > 0 {
		ok, err := t.confirm(ctx, player, "Do you want to set any spell card?: (y/n)")
		if err != nil || !ok {
			return err
		}
		c, ok, err := t.chooseHandCard(ctx, player, "Choose the index of the card in your hand to set")
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		s, isSpell := c.(*cards.Spell)
		if !isSpell {
			t.reject(player, fmt.Errorf("set %s as spell: %w", c.Name(), board.ErrWrongCardType))
			continue
		}
		if err := b.AddSpell(s); err != nil {
			t.zoneFull(player, err)
			return nil
		}
		b.RemoveFromHand(s)

		evt := rules.NewEvent(rules.EventSpellSet, player, s.ID(), player)
		evt.Data = s.Name()
		t.emit(evt)
	}
	return nil
}

// equipAttacks moves attack cards from the hand onto monsters. A failed
// equip puts the card back at the end of the hand.
func (t *turn) equipAttacks(ctx context.Context) error {
	player, b := t.self.Player, t.self.Board

	for b.HandSize() > 0 {
		ok, err := t.confirm(ctx, player, "Do you want to play any attack cards?: (y/n)")
		if err != nil || !ok {
			return err
		}
		c, ok, err := t.chooseHandCard(ctx, player, "Choose the index of the card in your hand to play")
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		attack, isAttack := c.(*cards.AttackCard)
		if !isAttack {
			t.reject(player, fmt.Errorf("equip %s: %w", c.Name(), board.ErrWrongCardType))
			continue
		}
		b.RemoveFromHand(attack)

		pos, ok, err := t.choosePosition(ctx, player,
			"Choose the index of the monster card on the field to equip", decision.Positions(len(b.Monsters())))
		if err != nil {
			b.ReturnToHand(attack)
			return err
		}
		if !ok {
			b.ReturnToHand(attack)
			continue
		}
		m, _ := b.Monster(pos)
		if err := m.Equip(attack); err != nil {
			b.ReturnToHand(attack)
			t.zoneFull(player, fmt.Errorf("equip %s to %s: %w", attack.Name(), m.Name(), err))
			continue
		}

		evt := rules.NewEvent(rules.EventAttackEquipped, m.ID(), attack.ID(), player)
		evt.Data = attack.Name()
		t.emit(evt)
	}
	return nil
}

// action repeats attack, counter window, spell activation and counter
// window while the player wants to act, then opens a last counter window.
func (t *turn) action(ctx context.Context) error {
	for {
		t.showHand(t.self.Player)
		ok, err := t.confirm(ctx, t.self.Player, "Do you want to take an action?: (y/n)")
		if err != nil {
			return err
		}
		if !ok {
			return t.counterWindow(ctx)
		}

		t.turns.SetStep(rules.StepAttack)
		if err := t.attack(ctx); err != nil {
			return err
		}
		if err := t.counterWindow(ctx); err != nil {
			return err
		}
		t.turns.SetStep(rules.StepActivateSpells)
		if err := t.activateSpells(ctx); err != nil {
			return err
		}
		if err := t.counterWindow(ctx); err != nil {
			return err
		}
		t.observer.Board(t.snapshot())
	}
}

func (t *turn) attack(ctx context.Context) error {
	player, b := t.self.Player, t.self.Board

	for b.AttackReady() > 0 {
		ok, err := t.confirm(ctx, player, fmt.Sprintf(
			"You have %d attacks available. Do you want to attack with any monsters?: (y/n)", b.AttackReady()))
		if err != nil || !ok {
			return err
		}

		pos, ok, err := t.choosePosition(ctx, player,
			"Choose the index of monster card on the field to attack with", readyPositions(b))
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		m, _ := b.Monster(pos)
		apos, ok, err := t.choosePosition(ctx, player,
			"Choose the index for the attack you want to use", decision.Positions(len(m.Equipped)))
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		attack := m.Equipped[apos]
		if !b.PayEnergy(attack.Cost) {
			t.insufficientEnergy(player, attack.ID(), attack.Cost)
			continue
		}

		m.ToAttackState()
		declared := rules.NewEvent(rules.EventAttackDeclared, t.other.Player, m.ID(), player)
		declared.Data = attack.Name()
		t.emit(declared)

		attacker := combat.New(m, attack, b)
		defender, err := t.defend(ctx)
		if err != nil {
			return err
		}
		if defender != nil {
			t.battle(attacker, defender)
		} else {
			t.directHit(attacker)
		}
		t.observer.Board(t.snapshot())
	}
	return nil
}

// defend offers the opponent a block. It returns nil when the attack goes
// through unblocked. An unaffordable defending attack is dropped and the
// monster defends bare-handed.
func (t *turn) defend(ctx context.Context) (*combat.Combatant, error) {
	player, b := t.other.Player, t.other.Board
	if !b.CanDefend() {
		return nil, nil
	}

	ok, err := t.confirm(ctx, player, "Do you want to defend with any monsters?: (y/n)")
	if err != nil || !ok {
		return nil, err
	}
	pos, ok, err := t.choosePosition(ctx, player,
		"Choose the index of the monster to defend with", decision.Positions(len(b.Monsters())))
	if err != nil || !ok {
		return nil, err
	}
	m, _ := b.Monster(pos)

	var attack *cards.AttackCard
	if len(m.Equipped) > 0 {
		use, err := t.confirm(ctx, player, "Do you want to defend with an attack card? (y/n)")
		if err != nil {
			return nil, err
		}
		if use {
			apos, ok, err := t.choosePosition(ctx, player,
				"Choose the index for the attack you want to use to defend", decision.Positions(len(m.Equipped)))
			if err != nil {
				return nil, err
			}
			if ok {
				if candidate := m.Equipped[apos]; b.PayEnergy(candidate.Cost) {
					attack = candidate
				} else {
					t.logger.Debug("defending without attack card",
						zap.String("player", player),
						zap.String("attack", candidate.Name()),
						zap.Int("cost", candidate.Cost))
				}
			}
		}
	}

	m.ToDefenseState()
	return combat.New(m, attack, b), nil
}

func (t *turn) battle(attacker, defender *combat.Combatant) {
	res := combat.Resolve(attacker, defender)

	evt := rules.NewEventWithAmount(rules.EventBattleResolved,
		defender.Monster.ID(), attacker.Monster.ID(), t.self.Player, res.Damage)
	evt.Data = res.Loser.String()
	evt.Description = fmt.Sprintf("attack %d against defense %d", res.Attack.Total, res.Defense.Total)
	t.emit(evt)

	t.logger.Info("battle resolved",
		zap.String("attacker", attacker.Monster.Name()),
		zap.String("defender", defender.Monster.Name()),
		zap.Int("attack_power", res.Attack.Total),
		zap.Int("defense_power", res.Defense.Total),
		zap.Int("damage", res.Damage))

	switch res.Loser {
	case combat.SideAttacker:
		t.lostLife(t.self.Player, attacker.Monster.ID(), res.Damage)
	case combat.SideDefender:
		t.lostLife(t.other.Player, attacker.Monster.ID(), res.Damage)
	}
}

func (t *turn) directHit(attacker *combat.Combatant) {
	res := combat.DirectHit(attacker, t.other.Board)

	evt := rules.NewEventWithAmount(rules.EventDirectHit,
		t.other.Player, attacker.Monster.ID(), t.self.Player, res.Damage)
	evt.Description = "Direct attack"
	t.emit(evt)

	t.logger.Info("direct attack",
		zap.String("attacker", attacker.Monster.Name()),
		zap.Int("damage", res.Damage))
	t.lostLife(t.other.Player, attacker.Monster.ID(), res.Damage)
}

func (t *turn) lostLife(player, source string, amount int) {
	if amount <= 0 {
		return
	}
	t.emit(rules.NewEventWithAmount(rules.EventLostLife, player, source, t.self.Player, amount))
}

// activateSpells plays spells from the active player's field. A spell leaves
// the field after the attempt whatever its outcome.
func (t *turn) activateSpells(ctx context.Context) error {
	player, b := t.self.Player, t.self.Board

	for len(b.Spells()) > 0 {
		ok, err := t.confirm(ctx, player, "Do you want to activate any spell cards?: (y/n)")
		if err != nil || !ok {
			return err
		}
		pos, ok, err := t.choosePosition(ctx, player,
			"Choose the corresponding index for the spell you want to use?", decision.Positions(len(b.Spells())))
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		spell, _ := b.Spell(pos)

		res, err := t.activator.Activate(ctx, spell, t.self, t.other)
		if err != nil {
			return err
		}
		if !b.RemoveSpell(spell) {
			t.logger.Debug("spell already left the field", zap.String("spell", spell.Name()))
		}
		if res.Outcome == effects.OutcomeInsufficientEnergy {
			t.insufficientEnergy(player, spell.ID(), spell.Cost)
		}
		t.emit(spellEvent(rules.EventSpellActivated, spell, res.Outcome, player, t.other.Player))
		t.lostLife(res.Target, spell.ID(), res.LifeLost)
	}
	return nil
}

// counterWindow gives the opponent, then the active player, the chance to
// play counter spells.
func (t *turn) counterWindow(ctx context.Context) error {
	step := t.turns.CurrentStep()
	t.turns.SetStep(rules.StepCounter)
	defer t.turns.SetStep(step)

	if err := t.counters(ctx, t.other, t.self); err != nil {
		return err
	}
	return t.counters(ctx, t.self, t.other)
}

// counters lets counterer play counter spells against target until they
// decline or run out.
func (t *turn) counters(ctx context.Context, counterer, target effects.Side) error {
	player, b := counterer.Player, counterer.Board

	for {
		zones := b.CanCounterFrom()
		if len(zones) == 0 {
			return nil
		}
		t.showHand(player)

		names := make([]string, len(zones))
		for i, z := range zones {
			names[i] = string(z)
		}
		ok, err := t.confirm(ctx, player, fmt.Sprintf(
			"You can counter from %s. Do you want to play a counter? (y/n)", strings.Join(names, ", ")))
		if err != nil || !ok {
			return err
		}

		i, err := decision.ChooseOption(ctx, t.provider, player, "Where do you want to play a counter from?", names)
		if err != nil {
			if errors.Is(err, decision.ErrInvalidSelection) {
				t.reject(player, err)
				continue
			}
			return err
		}
		zone := zones[i]
		pos, ok, err := t.choosePosition(ctx, player,
			"Choose the corresponding index for the spell you want to use?", b.CounterPositions(zone))
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		spell := counterAt(b, zone, pos)
		if spell == nil {
			continue
		}

		res, err := t.activator.Activate(ctx, spell, counterer, target)
		if err != nil {
			return err
		}
		if zone == board.ZoneHand {
			b.RemoveFromHand(spell)
		} else {
			b.RemoveSpell(spell)
		}
		if res.Outcome == effects.OutcomeInsufficientEnergy {
			t.insufficientEnergy(player, spell.ID(), spell.Cost)
		}
		t.emit(spellEvent(rules.EventCounterPlayed, spell, res.Outcome, player, target.Player))
		t.lostLife(res.Target, spell.ID(), res.LifeLost)
		t.observer.Board(t.snapshot())
	}
}

func counterAt(b *board.Board, zone board.Zone, pos int) *cards.Spell {
	if zone == board.ZoneField {
		s, err := b.Spell(pos)
		if err != nil {
			return nil
		}
		return s
	}
	c, err := b.HandCard(pos)
	if err != nil {
		return nil
	}
	s, _ := c.(*cards.Spell)
	return s
}

func readyPositions(b *board.Board) []int {
	var positions []int
	for i, m := range b.Monsters() {
		if m.AttackReady() {
			positions = append(positions, i)
		}
	}
	return positions
}

func spellEvent(typ rules.EventType, spell *cards.Spell, outcome effects.Outcome, player, target string) rules.Event {
	evt := rules.NewEventWithAmount(typ, target, spell.ID(), player, spell.Cost)
	evt.Data = spell.Name()
	evt.Flag = outcome == effects.OutcomeResolved
	evt.Description = outcome.String()
	return evt
}

// confirm asks a yes/no question. An invalid answer is reported and counts
// as no.
func (t *turn) confirm(ctx context.Context, player, prompt string) (bool, error) {
	ok, err := decision.Confirm(ctx, t.provider, player, prompt)
	if errors.Is(err, decision.ErrInvalidSelection) {
		t.reject(player, err)
		return false, nil
	}
	return ok, err
}

// choosePosition asks for one of positions. ok is false when the answer was
// invalid, which is reported.
func (t *turn) choosePosition(ctx context.Context, player, prompt string, positions []int) (int, bool, error) {
	pos, err := decision.ChoosePosition(ctx, t.provider, player, prompt, positions)
	if err != nil {
		if errors.Is(err, decision.ErrInvalidSelection) {
			t.reject(player, err)
			return -1, false, nil
		}
		return -1, false, err
	}
	return pos, true, nil
}

func (t *turn) chooseHandCard(ctx context.Context, player, prompt string) (cards.Card, bool, error) {
	b := t.boards[player]
	pos, ok, err := t.choosePosition(ctx, player, prompt, decision.Positions(b.HandSize()))
	if err != nil || !ok {
		return nil, false, err
	}
	c, err := b.HandCard(pos)
	if err != nil {
		t.reject(player, err)
		return nil, false, nil
	}
	return c, true, nil
}

func (t *turn) reject(player string, err error) {
	t.logger.Warn("invalid selection", zap.String("player", player), zap.Error(err))
	evt := rules.NewEvent(rules.EventInvalidSelection, player, "", player)
	evt.Description = err.Error()
	t.emit(evt)
}

func (t *turn) zoneFull(player string, err error) {
	t.logger.Warn("zone full", zap.String("player", player), zap.Error(err))
	evt := rules.NewEvent(rules.EventZoneFull, player, "", player)
	evt.Description = err.Error()
	t.emit(evt)
}

func (t *turn) insufficientEnergy(player, source string, cost int) {
	b := t.boards[player]
	t.logger.Warn("not enough energy",
		zap.String("player", player),
		zap.Int("cost", cost),
		zap.Int("untapped_energy", b.NumEnergyUntapped()))
	evt := rules.NewEventWithAmount(rules.EventInsufficientEnergy, player, source, player, cost)
	evt.Description = "you do not have enough energy for that"
	t.emit(evt)
}
