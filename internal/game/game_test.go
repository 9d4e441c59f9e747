package game

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"casino-bot/internal/game/rng"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		in     string
		mode   Mode
		isMode bool
	}{
		{"hard", ModeHard, true},
		{" HARD ", ModeHard, true},
		{"easy", ModeNormal, true},
		{"normal", ModeNormal, true},
		{"h", ModeNormal, false},
		{"e", ModeNormal, false},
		{"100", ModeNormal, false},
		{"", ModeNormal, false},
	}
	for _, tt := range tests {
		mode, ok := ParseMode(tt.in)
		assert.Equal(t, tt.isMode, ok, "ParseMode(%q)", tt.in)
		assert.Equal(t, tt.mode, mode, "ParseMode(%q)", tt.in)
	}
}

func TestNewSettlement_OutcomeFollowsSign(t *testing.T) {
	req := Request{PlayerID: 1, Wager: 50}

	assert.Equal(t, OutcomeWin, NewSettlement(req, KindCoinflip, 50, "").Outcome)
	assert.Equal(t, OutcomeLoss, NewSettlement(req, KindCoinflip, -50, "").Outcome)
	assert.Equal(t, OutcomePush, NewSettlement(req, KindCoinflip, 0, "").Outcome)
}

func TestFaultSettlement_ForfeitsWager(t *testing.T) {
	st := FaultSettlement(Request{PlayerID: 3, Wager: 75}, KindCrash, errors.New("nil pointer"))
	assert.Equal(t, int64(-75), st.Payout)
	assert.Equal(t, OutcomeFault, st.Outcome)
	assert.Contains(t, st.Description, "nil pointer")
}

func TestScoreOutcome(t *testing.T) {
	assert.Equal(t, Outcome("score_7"), ScoreOutcome(7))
}

func TestRequestArg(t *testing.T) {
	req := Request{Args: []string{" Heads ", "D6"}}
	assert.Equal(t, "heads", req.Arg(0))
	assert.Equal(t, "d6", req.Arg(1))
	assert.Equal(t, "", req.Arg(2))
	assert.Equal(t, "", req.Arg(-1))
}

func TestViewText(t *testing.T) {
	assert.Equal(t, "Title\na\nb", View{Title: "Title", Lines: []string{"a", "b"}}.Text())
	assert.Equal(t, "a", View{Lines: []string{"a"}}.Text())
	assert.Equal(t, "", View{}.Text())
}

func TestResolved(t *testing.T) {
	st := Settlement{PlayerID: 1, Payout: 10}
	inst := Resolved(st, View{Title: "done"})

	assert.True(t, inst.Terminal())
	assert.Equal(t, st, inst.Settlement())
	assert.ErrorIs(t, inst.Apply(Decision{Action: ActionHit}), ErrGameOver)
	wait, _ := inst.Wait()
	assert.Zero(t, wait)
}

type stubGame struct{ kind Kind }

func (g stubGame) Kind() Kind { return g.kind }
func (g stubGame) Name() string { return string(g.kind) }
func (g stubGame) Description() string { return "" }
func (g stubGame) Wagered() bool { return true }
func (g stubGame) Validate(Request) error { return nil }
func (g stubGame) New(req Request, _ rng.Source) (Instance, error) {
	return Resolved(NewSettlement(req, g.kind, 0, ""), View{}), nil
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	require.Error(t, r.Register(nil))
	require.Error(t, r.Register(stubGame{}))

	require.NoError(t, r.Register(stubGame{kind: KindSlots}))
	require.NoError(t, r.Register(stubGame{kind: KindDice}))
	require.NoError(t, r.Register(stubGame{kind: KindDice}))

	assert.Equal(t, 2, r.Count())
	assert.Equal(t, []string{"dice", "slots"}, r.Kinds())

	g, ok := r.Get(KindSlots)
	require.True(t, ok)
	assert.Equal(t, KindSlots, g.Kind())

	_, ok = r.Get(KindRace)
	assert.False(t, ok)

	list := r.List()
	require.Len(t, list, 2)
	assert.Equal(t, KindDice, list[0].Kind())
}
