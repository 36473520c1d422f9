package board

// MovePolicy selects how a missing or illegal move is resolved.
type MovePolicy string

const (
	// PolicyContinueStraight substitutes the snake's current heading.
	PolicyContinueStraight MovePolicy = "continue-straight"
	// PolicyEliminate marks the snake for elimination instead of moving it.
	PolicyEliminate MovePolicy = "eliminate"
)

// GameMode selects the end condition for a match.
type GameMode string

const (
	// GameModeSinglePlayer runs until the only snake dies.
	GameModeSinglePlayer GameMode = "single-player"
	// GameModeMultiPlayer runs until zero or one snakes remain alive.
	GameModeMultiPlayer GameMode = "multi-player"
)

// GameStatus is the lifecycle state of a match.
type GameStatus string

const (
	// GameStatusCreated is a match that has not started its first turn.
	GameStatusCreated GameStatus = "created"
	// GameStatusRunning is a match in progress.
	GameStatusRunning GameStatus = "running"
	// GameStatusComplete is a match that reached a terminal condition.
	GameStatusComplete GameStatus = "complete"
	// GameStatusAborted is a match stopped between turns by the caller.
	GameStatusAborted GameStatus = "aborted"
	// GameStatusError is a match stopped by an engine error.
	GameStatusError GameStatus = "error"
)

// SnakeSpec describes one snake in a match configuration. Start is
// optional; when nil the engine picks an unoccupied cell from the seeded
// random stream.
type SnakeSpec struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name"`
	URL   string `json:"url,omitempty"`
	Start *Point `json:"start,omitempty"`
}

// Game is the full configuration of a match plus its lifecycle status.
// It is fixed at create time; only Status changes afterwards.
type Game struct {
	ID     string     `json:"id"`
	Grid   Grid       `json:"grid"`
	Mode   GameMode   `json:"mode"`
	Status GameStatus `json:"status"`

	Snakes      []SnakeSpec `json:"snakes"`
	StartLength int32       `json:"startLength"`

	Food            int32 `json:"food"`
	FoodSpawnChance int32 `json:"foodSpawnChance"`
	MinFood         int32 `json:"minFood"`

	HealthCap int32 `json:"healthCap"`
	MaxTurns  int32 `json:"maxTurns"`

	SnakeTimeoutMS int32 `json:"snakeTimeoutMs"`

	OnMissingMove MovePolicy `json:"onMissingMove"`
	OnIllegalMove MovePolicy `json:"onIllegalMove"`

	Seed int64 `json:"seed"`
}

// Outcome classifies how a match ended.
type Outcome string

const (
	// OutcomeWinner is a match with exactly one snake left alive.
	OutcomeWinner Outcome = "winner"
	// OutcomeDraw is a match that hit the turn limit with several snakes alive.
	OutcomeDraw Outcome = "draw"
	// OutcomeAllEliminated is a match where no snakes survived.
	OutcomeAllEliminated Outcome = "all-eliminated"
	// OutcomeAborted is a match stopped by the caller before a terminal turn.
	OutcomeAborted Outcome = "aborted"
)

// Result is the terminal classification of a match.
type Result struct {
	Outcome  Outcome `json:"outcome"`
	WinnerID string  `json:"winnerId,omitempty"`
	Turns    int32   `json:"turns"`
}
