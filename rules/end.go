package rules

import "github.com/snakearena/arena/board"

// CheckForGameOver checks if the match has reached a terminal condition.
// The end condition depends on game mode: single player runs until the
// only snake dies, multi player until zero or one snakes remain. A
// configured turn limit ends either mode.
func CheckForGameOver(game *board.Game, frame *board.Frame) bool {
	alive := frame.AliveSnakes()
	if game.Mode == board.GameModeSinglePlayer {
		if len(alive) == 0 {
			return true
		}
	} else if len(alive) <= 1 {
		return true
	}
	return game.MaxTurns > 0 && frame.Turn >= game.MaxTurns
}

// ResultOf classifies a terminal frame. Exactly one survivor is a winner
// even when the turn limit ended the match; several survivors at the turn
// limit is a draw; none is all-eliminated.
func ResultOf(frame *board.Frame) board.Result {
	alive := frame.AliveSnakes()
	switch {
	case len(alive) == 1:
		return board.Result{Outcome: board.OutcomeWinner, WinnerID: alive[0].ID, Turns: frame.Turn}
	case len(alive) == 0:
		return board.Result{Outcome: board.OutcomeAllEliminated, Turns: frame.Turn}
	default:
		return board.Result{Outcome: board.OutcomeDraw, Turns: frame.Turn}
	}
}
