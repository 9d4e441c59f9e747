// Package payout holds the odds arithmetic shared by every game.
// All payouts are net amounts: -wager for a loss, 0 for a push and the
// profit for a win. Fractional results round down.
package payout

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Odds is a Num:Den profit ratio, e.g. 35:1 or 3:2.
type Odds struct {
	Num int64
	Den int64
}

// To builds odds from a ratio.
func To(num, den int64) Odds {
	return Odds{Num: num, Den: den}
}

// Even is 1:1.
var Even = To(1, 1)

// Win returns the profit on a winning wager, rounded down.
func (o Odds) Win(wager int64) int64 {
	if o.Den <= 0 {
		return 0
	}
	return decimal.NewFromInt(wager).
		Mul(decimal.NewFromInt(o.Num)).
		Div(decimal.NewFromInt(o.Den)).
		Floor().
		IntPart()
}

// Settle returns Win(wager) when won and Loss(wager) otherwise.
func (o Odds) Settle(wager int64, won bool) int64 {
	if won {
		return o.Win(wager)
	}
	return Loss(wager)
}

func (o Odds) String() string {
	return fmt.Sprintf("%d:%d", o.Num, o.Den)
}

// Loss is the net payout of a lost wager.
func Loss(wager int64) int64 {
	return -wager
}

// Push is the net payout of a refunded wager.
const Push int64 = 0

// Scale returns floor(wager × m).
func Scale(wager int64, m decimal.Decimal) int64 {
	return decimal.NewFromInt(wager).Mul(m).Floor().IntPart()
}

// CashOut returns floor(wager × m) − wager.
func CashOut(wager int64, m decimal.Decimal) int64 {
	return Scale(wager, m) - wager
}

// Table maps outcome categories to odds. Tables are static and never
// mutated after package initialisation.
type Table[K comparable] map[K]Odds

// Lookup returns the odds for key.
func (t Table[K]) Lookup(key K) (Odds, bool) {
	o, ok := t[key]
	return o, ok
}

// Settle pays key's odds when won. Unknown keys settle as a loss.
func (t Table[K]) Settle(key K, wager int64, won bool) int64 {
	o, ok := t[key]
	if !ok {
		return Loss(wager)
	}
	return o.Settle(wager, won)
}
