package engine

import (
	"errors"

	"tictactoe3d/game"
)

// maxRejections bounds consecutive invalid moves from a human agent before Run gives up.
const maxRejections = 10

var (
	ErrTooManyRejections = errors.New("too many rejected moves")
	ErrNotHumanTurn      = errors.New("waiting for the automated move")
)

// Move is one entry of a game's history.
type Move struct {
	Mark game.Mark `json:"mark"`
	Cell game.Cell `json:"cell"`
}
