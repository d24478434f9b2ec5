package game

import "strings"

// Difficulty is the search depth, in plies, the automated player looks ahead.
type Difficulty int

const (
	Easy   Difficulty = 2
	Medium Difficulty = 4
	Hard   Difficulty = 6
)

var difficultyNames = map[string]Difficulty{
	"easy":   Easy,
	"medium": Medium,
	"hard":   Hard,
}

// Difficulties lists the supported levels from shallowest to deepest.
func Difficulties() []Difficulty {
	return []Difficulty{Easy, Medium, Hard}
}

// ParseDifficulty maps a level name to its depth. Unknown names fall back to Easy.
func ParseDifficulty(name string) Difficulty {
	if d, ok := difficultyNames[strings.ToLower(strings.TrimSpace(name))]; ok {
		return d
	}
	return Easy
}

// DifficultyFromDepth accepts a raw depth and falls back to Easy unless it is one of
// the supported levels.
func DifficultyFromDepth(depth int) Difficulty {
	for _, d := range Difficulties() {
		if int(d) == depth {
			return d
		}
	}
	return Easy
}

// Depth is the search depth limit for this level.
func (d Difficulty) Depth() int {
	return int(d)
}

func (d Difficulty) String() string {
	for name, level := range difficultyNames {
		if level == d {
			return name
		}
	}
	return "custom"
}
