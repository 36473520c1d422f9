package rules

const (
	// DeathCauseStarvation is the death reason when a snakes health reaches zero
	DeathCauseStarvation = "starvation"
	// DeathCauseWallCollision is when a snake runs off the board
	DeathCauseWallCollision = "wall-collision"
	// DeathCauseSnakeCollision is the death reason when 2 snakes collide with each other
	DeathCauseSnakeCollision = "snake-collision"
	// DeathCauseSelfCollision is when a snake runs into its own body
	DeathCauseSelfCollision = "self-collision"
	// DeathCauseHeadToHeadCollision is when a snake dies from a head on head collision
	DeathCauseHeadToHeadCollision = "head-collision"
	// DeathCauseMissingMove is when no move arrived and the missing-move policy eliminates
	DeathCauseMissingMove = "missing-move"
	// DeathCauseIllegalMove is when an illegal move arrived and the illegal-move policy eliminates
	DeathCauseIllegalMove = "illegal-move"
)
