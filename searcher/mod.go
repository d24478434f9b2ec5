package searcher

import (
	"errors"
	"math"
)

// Score bounds wider than any evaluation, used as the initial alpha-beta window.
const (
	Infinity    = math.MaxInt
	NegInfinity = -math.MaxInt
)

// checkInterval is the number of visited nodes between cancellation checks.
const checkInterval = 1024

var ErrNoMoves = errors.New("no empty cells to play")
