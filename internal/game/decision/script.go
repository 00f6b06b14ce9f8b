package decision

import (
	"context"
)

// Asked is a request recorded by Script.
type Asked struct {
	Player  string
	Request Request
}

// Script is a Provider that replays predefined answers per player. Once a
// player's answers run out it answers No to yes/no questions and an empty
// token to everything else. Used to drive matches deterministically.
type Script struct {
	answers map[string][]string
	asked   []Asked
}

// NewScript creates an empty script.
func NewScript() *Script {
	return &Script{answers: make(map[string][]string)}
}

// Add queues answers for player.
func (s *Script) Add(player string, answers ...string) *Script {
	s.answers[player] = append(s.answers[player], answers...)
	return s
}

// Decide pops the next answer for player.
func (s *Script) Decide(ctx context.Context, player string, req Request) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.asked = append(s.asked, Asked{Player: player, Request: req})

	queue := s.answers[player]
	if len(queue) == 0 {
		if req.Kind == YesNo {
			return No, nil
		}
		return "", nil
	}
	s.answers[player] = queue[1:]
	return queue[0], nil
}

// Remaining returns how many answers are still queued for player.
func (s *Script) Remaining(player string) int {
	return len(s.answers[player])
}

// Asked returns every request seen so far, in order.
func (s *Script) Asked() []Asked {
	return append([]Asked{}, s.asked...)
}
