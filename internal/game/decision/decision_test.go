package decision

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfirm(t *testing.T) {
	ctx := context.Background()
	s := NewScript().Add("p1", "y", "NO", "maybe")

	ok, err := Confirm(ctx, s, "p1", "attack?")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Confirm(ctx, s, "p1", "attack?")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = Confirm(ctx, s, "p1", "attack?")
	assert.ErrorIs(t, err, ErrInvalidSelection)
	assert.False(t, ok)
}

func TestChoosePosition(t *testing.T) {
	ctx := context.Background()
	s := NewScript().Add("p1", "2", "1", "x")

	pos, err := ChoosePosition(ctx, s, "p1", "pick", []int{0, 2})
	require.NoError(t, err)
	assert.Equal(t, 2, pos)

	_, err = ChoosePosition(ctx, s, "p1", "pick", []int{0, 2})
	assert.ErrorIs(t, err, ErrInvalidSelection)

	_, err = ChoosePosition(ctx, s, "p1", "pick", Positions(3))
	assert.ErrorIs(t, err, ErrInvalidSelection)
}

func TestChooseOptionWithoutOptions(t *testing.T) {
	s := NewScript().Add("p1", "0")
	_, err := ChooseOption(context.Background(), s, "p1", "pick", nil)
	assert.ErrorIs(t, err, ErrInvalidSelection)

	asked := s.Asked()
	require.Len(t, asked, 1, "the question is still put")
	assert.Equal(t, "pick", asked[0].Request.Prompt)
	assert.Empty(t, asked[0].Request.Options)
}

func TestScriptExhausted(t *testing.T) {
	ctx := context.Background()
	s := NewScript()

	ok, err := Confirm(ctx, s, "p2", "defend?")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = ChoosePosition(ctx, s, "p2", "pick", []int{0})
	assert.ErrorIs(t, err, ErrInvalidSelection)
}

func TestScriptRecordsRequests(t *testing.T) {
	s := NewScript().Add("p1", "y")
	_, err := Confirm(context.Background(), s, "p1", "draw?")
	require.NoError(t, err)

	asked := s.Asked()
	require.Len(t, asked, 1)
	assert.Equal(t, "p1", asked[0].Player)
	assert.Equal(t, YesNo, asked[0].Request.Kind)
	assert.Equal(t, []string{Yes, No}, asked[0].Request.Options)
	assert.Zero(t, s.Remaining("p1"))
}

func TestScriptHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Confirm(ctx, NewScript().Add("p1", "y"), "p1", "draw?")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "YES_NO", YesNo.String())
	assert.Equal(t, "INDEX_SELECT", IndexSelect.String())
}
