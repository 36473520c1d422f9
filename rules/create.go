package rules

import (
	"fmt"
	"math/rand"

	uuid "github.com/satori/go.uuid"

	"github.com/snakearena/arena/board"
)

const (
	// DefaultHealthCap is the health a snake starts with and resets to on eating.
	DefaultHealthCap = int32(100)
	// DefaultStartLength is the number of stacked segments a snake starts with.
	DefaultStartLength = int32(3)
	// DefaultSnakeTimeoutMS is the per-turn move budget given to a provider.
	DefaultSnakeTimeoutMS = int32(1000)
)

// ApplyDefaults fills the zero-value fields of a match configuration.
func ApplyDefaults(game *board.Game) {
	if game.ID == "" {
		game.ID = uuid.NewV4().String()
	}
	if game.StartLength == 0 {
		game.StartLength = DefaultStartLength
	}
	if game.HealthCap == 0 {
		game.HealthCap = DefaultHealthCap
	}
	if game.SnakeTimeoutMS == 0 {
		game.SnakeTimeoutMS = DefaultSnakeTimeoutMS
	}
	if game.OnMissingMove == "" {
		game.OnMissingMove = board.PolicyContinueStraight
	}
	if game.OnIllegalMove == "" {
		game.OnIllegalMove = board.PolicyContinueStraight
	}
	if game.Mode == "" {
		game.Mode = board.GameModeMultiPlayer
		if len(game.Snakes) == 1 {
			game.Mode = board.GameModeSinglePlayer
		}
	}
	if game.Status == "" {
		game.Status = board.GameStatusCreated
	}
}

// ValidateGame checks a match configuration before any turn runs. All
// failures are ConfigurationError.
func ValidateGame(game *board.Game) error {
	if game.Grid.Width <= 0 || game.Grid.Height <= 0 {
		return ConfigurationError{Reason: fmt.Sprintf("grid dimensions %dx%d must be positive", game.Grid.Width, game.Grid.Height)}
	}
	if len(game.Snakes) == 0 {
		return ConfigurationError{Reason: "at least one snake is required"}
	}
	if game.StartLength < 1 {
		return ConfigurationError{Reason: "start length must be at least 1"}
	}
	if game.FoodSpawnChance < 0 || game.FoodSpawnChance > 100 {
		return ConfigurationError{Reason: "food spawn chance must be between 0 and 100"}
	}
	seen := map[string]bool{}
	starts := []*board.Point{}
	for _, spec := range game.Snakes {
		if spec.ID != "" {
			if seen[spec.ID] {
				return ConfigurationError{Reason: fmt.Sprintf("duplicate snake id %q", spec.ID)}
			}
			seen[spec.ID] = true
		}
		if spec.Start == nil {
			continue
		}
		if !game.Grid.InBounds(spec.Start) {
			return ConfigurationError{Reason: fmt.Sprintf("snake %q starts out of bounds at (%d,%d)", spec.Name, spec.Start.X, spec.Start.Y)}
		}
		for _, other := range starts {
			if other.Equal(spec.Start) {
				return ConfigurationError{Reason: fmt.Sprintf("snake %q starts on an occupied cell (%d,%d)", spec.Name, spec.Start.X, spec.Start.Y)}
			}
		}
		starts = append(starts, spec.Start)
	}
	return nil
}

// CreateInitialFrame validates the configuration, fills defaults, and
// builds the turn 0 frame: snakes stacked on their start points and the
// initial food placed from the seeded random stream.
func CreateInitialFrame(game *board.Game, rng *rand.Rand) (*board.Frame, error) {
	ApplyDefaults(game)
	if err := ValidateGame(game); err != nil {
		return nil, err
	}

	snakes := []*board.Snake{}
	for i := range game.Snakes {
		spec := &game.Snakes[i]
		if spec.ID == "" {
			spec.ID = uuid.NewV4().String()
		}
		start := spec.Start
		if start == nil {
			start = pickUnoccupiedPoint(game.Grid, nil, snakes, rng)
			if start == nil {
				return nil, ConfigurationError{Reason: "no unoccupied cells left for new snake"}
			}
		}
		body := make([]*board.Point, game.StartLength)
		for j := range body {
			body[j] = start.Clone()
		}
		snakes = append(snakes, &board.Snake{
			ID:     spec.ID,
			Name:   spec.Name,
			URL:    spec.URL,
			Health: game.HealthCap,
			Body:   body,
		})
	}

	food := []*board.Point{}
	for i := int32(0); i < game.Food; i++ {
		p := pickUnoccupiedPoint(game.Grid, food, snakes, rng)
		if p == nil {
			break
		}
		food = append(food, p)
	}

	return &board.Frame{Turn: 0, Snakes: snakes, Food: food}, nil
}
