// Package wager resolves wager expressions such as "500", "1,000", "all",
// "max", "half", "25%" or "10k" against a player's balance.
package wager

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultMaxBetFraction caps a non all-in wager at half the balance.
const DefaultMaxBetFraction = 0.5

// Rejection reasons.
var (
	ErrNotNumeric            = errors.New("wager is not a number")
	ErrNonPositive           = errors.New("wager must be positive")
	ErrExceedsBalance        = errors.New("wager exceeds balance")
	ErrExceedsMaxBetFraction = errors.New("wager exceeds the maximum bet")
)

// ValidationError is returned for every rejected wager.
type ValidationError struct {
	Expr    string
	Amount  int64
	Balance int64
	Limit   int64
	Reason  error
}

func (e *ValidationError) Error() string {
	switch {
	case errors.Is(e.Reason, ErrExceedsMaxBetFraction):
		return fmt.Sprintf("%v: %d > %d", e.Reason, e.Amount, e.Limit)
	case errors.Is(e.Reason, ErrExceedsBalance):
		return fmt.Sprintf("%v: %d > %d", e.Reason, e.Amount, e.Balance)
	}
	return fmt.Sprintf("%v: %q", e.Reason, e.Expr)
}

func (e *ValidationError) Unwrap() error {
	return e.Reason
}

// Wager is a resolved, validated stake.
type Wager struct {
	PlayerID int64
	Amount   int64
	AllIn    bool
}

var (
	suffixes = map[byte]decimal.Decimal{
		'k': decimal.NewFromInt(1_000),
		'm': decimal.NewFromInt(1_000_000),
	}
)

// Resolve parses expr against balance and enforces the wager invariants:
// 0 < amount ≤ balance and, unless the expression is an explicit all-in
// keyword, amount ≤ floor(maxFraction × balance).
func Resolve(playerID int64, expr string, balance int64, maxFraction float64) (Wager, error) {
	if maxFraction <= 0 || maxFraction > 1 {
		maxFraction = DefaultMaxBetFraction
	}
	limit := MaxBet(balance, maxFraction)

	amount, allIn, err := parse(expr, balance, limit)
	if err != nil {
		return Wager{}, &ValidationError{Expr: expr, Balance: balance, Limit: limit, Reason: err}
	}

	fail := func(reason error) (Wager, error) {
		return Wager{}, &ValidationError{Expr: expr, Amount: amount, Balance: balance, Limit: limit, Reason: reason}
	}
	if amount <= 0 {
		return fail(ErrNonPositive)
	}
	if amount > balance {
		return fail(ErrExceedsBalance)
	}
	if !allIn && amount > limit {
		return fail(ErrExceedsMaxBetFraction)
	}

	return Wager{PlayerID: playerID, Amount: amount, AllIn: allIn}, nil
}

// MaxBet returns floor(maxFraction × balance).
func MaxBet(balance int64, maxFraction float64) int64 {
	if balance <= 0 {
		return 0
	}
	return decimal.NewFromInt(balance).Mul(decimal.NewFromFloat(maxFraction)).Floor().IntPart()
}

func parse(expr string, balance, limit int64) (int64, bool, error) {
	s := strings.ToLower(strings.TrimSpace(expr))
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, "_", "")
	if s == "" {
		return 0, false, ErrNotNumeric
	}

	switch s {
	case "a", "all", "allin", "all-in":
		return balance, true, nil
	case "max":
		return limit, false, nil
	case "half":
		return balance / 2, false, nil
	case "quarter":
		return balance / 4, false, nil
	}

	if strings.HasSuffix(s, "%") {
		pct, err := decimal.NewFromString(strings.TrimSuffix(s, "%"))
		if err != nil {
			return 0, false, ErrNotNumeric
		}
		return toAmount(decimal.NewFromInt(balance).Mul(pct).Shift(-2)), false, nil
	}

	if mult, ok := suffixes[s[len(s)-1]]; ok {
		n, err := decimal.NewFromString(s[:len(s)-1])
		if err != nil {
			return 0, false, ErrNotNumeric
		}
		return toAmount(n.Mul(mult)), false, nil
	}

	n, err := strconv.ParseInt(s, 10, 64)
	if errors.Is(err, strconv.ErrRange) {
		return n, false, nil
	}
	if err != nil {
		return 0, false, ErrNotNumeric
	}
	return n, false, nil
}

var (
	maxAmount = decimal.NewFromInt(math.MaxInt64)
	minAmount = decimal.NewFromInt(math.MinInt64)
)

// toAmount truncates d toward zero, saturating at the int64 range so an
// oversized expression still fails the balance check instead of wrapping.
func toAmount(d decimal.Decimal) int64 {
	// Magnitude in decimal digits, checked before any rescale so huge
	// exponents never materialize.
	mag := int64(d.NumDigits()) + int64(d.Exponent())
	switch {
	case d.Sign() == 0 || mag <= 0:
		return 0
	case mag > 20 && d.Sign() > 0:
		return math.MaxInt64
	case mag > 20:
		return math.MinInt64
	}

	d = d.Truncate(0)
	switch {
	case d.GreaterThan(maxAmount):
		return math.MaxInt64
	case d.LessThan(minAmount):
		return math.MinInt64
	}
	return d.IntPart()
}
