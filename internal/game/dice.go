package game

import (
	"errors"
	"fmt"
	"math/rand"
)

// ErrInvalidDie is returned when a die has fewer than two sides.
var ErrInvalidDie = errors.New("invalid die")

// StandardDice are the dice offered by the roller.
var StandardDice = []int{4, 6, 8, 10, 12, 20, 100}

// CoinSides is how a coin flip is recorded; heads is the high face.
const CoinSides = 2

// DiceRoller rolls dice and records each result in the engine's action log.
type DiceRoller struct {
	engine *Engine
	intN   func(n int) int
}

// NewDiceRoller returns a roller that logs to engine. A nil intN uses
// math/rand; intN(n) must return a value in [0, n).
func NewDiceRoller(engine *Engine, intN func(n int) int) *DiceRoller {
	if intN == nil {
		intN = rand.Intn
	}
	return &DiceRoller{engine: engine, intN: intN}
}

// Roll rolls a die with the given number of sides and logs the result.
func (r *DiceRoller) Roll(sides int) (int, error) {
	if sides < 2 {
		return 0, fmt.Errorf("failed to roll d%d: %w", sides, ErrInvalidDie)
	}
	result := r.intN(sides) + 1
	r.engine.AddDiceRollLog(sides, result)
	return result, nil
}

// FlipCoin flips a coin and logs it as a d2. It reports true for heads.
func (r *DiceRoller) FlipCoin() bool {
	result := r.intN(CoinSides) + 1
	r.engine.AddDiceRollLog(CoinSides, result)
	return result == CoinSides
}
