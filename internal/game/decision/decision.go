// Package decision defines how the engine asks players to choose.
//
// Every choice is a Request answered synchronously by a Provider with a
// single token. Answers outside the request's options are reported as
// ErrInvalidSelection and handled by the caller as a declined or failed
// attempt.
package decision

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidSelection is returned when an answer is not one of the offered options.
var ErrInvalidSelection = errors.New("invalid selection")

// Kind is the shape of a request.
type Kind int

const (
	YesNo Kind = iota
	IndexSelect
)

var kindNames = map[Kind]string{
	YesNo:       "YES_NO",
	IndexSelect: "INDEX_SELECT",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("KIND_%d", int(k))
}

// Yes/no answer tokens.
const (
	Yes = "y"
	No  = "n"
)

// Request is one question put to a player.
type Request struct {
	Kind    Kind
	Prompt  string
	Options []string
}

// Provider answers requests for a player. Decide blocks until an answer is
// available or ctx is done.
type Provider interface {
	Decide(ctx context.Context, player string, req Request) (string, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context, player string, req Request) (string, error)

func (f ProviderFunc) Decide(ctx context.Context, player string, req Request) (string, error) {
	return f(ctx, player, req)
}

// Confirm asks a yes/no question. An answer other than yes or no returns
// false with ErrInvalidSelection.
func Confirm(ctx context.Context, p Provider, player, prompt string) (bool, error) {
	answer, err := p.Decide(ctx, player, Request{Kind: YesNo, Prompt: prompt, Options: []string{Yes, No}})
	if err != nil {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case Yes, "yes":
		return true, nil
	case No, "no":
		return false, nil
	default:
		return false, fmt.Errorf("answer %q to %q: %w", answer, prompt, ErrInvalidSelection)
	}
}

// ChooseOption asks for one of options and returns its index. The question
// is put even when options is empty; any answer to it is then invalid.
func ChooseOption(ctx context.Context, p Provider, player, prompt string, options []string) (int, error) {
	answer, err := p.Decide(ctx, player, Request{Kind: IndexSelect, Prompt: prompt, Options: options})
	if err != nil {
		return -1, err
	}
	if len(options) == 0 {
		return -1, fmt.Errorf("answer %q to %q, nothing to choose: %w", answer, prompt, ErrInvalidSelection)
	}
	answer = strings.TrimSpace(answer)
	for i, option := range options {
		if option == answer {
			return i, nil
		}
	}
	return -1, fmt.Errorf("answer %q to %q: %w", answer, prompt, ErrInvalidSelection)
}

// ChoosePosition asks for one of the given zone positions and returns it.
func ChoosePosition(ctx context.Context, p Provider, player, prompt string, positions []int) (int, error) {
	options := make([]string, len(positions))
	for i, pos := range positions {
		options[i] = strconv.Itoa(pos)
	}
	i, err := ChooseOption(ctx, p, player, prompt, options)
	if err != nil {
		return -1, err
	}
	return positions[i], nil
}

// Positions returns 0..n-1.
func Positions(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}
