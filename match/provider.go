// Package match drives a game from creation to its terminal state: it
// collects one move per living snake each turn, hands the complete set to
// the rules engine in a single synchronous step, and appends every frame
// to the replay store.
package match

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/snakearena/arena/board"
)

// MoveProvider supplies one move per turn for one snake. Implementations
// may be network clients, in-process agents or fixed-script test doubles;
// the controller never depends on a concrete transport. ProvideMove
// receives a read-only frame snapshot and must respect ctx cancellation.
type MoveProvider interface {
	ProvideMove(ctx context.Context, game *board.Game, frame *board.Frame, snakeID string) (board.Direction, error)
}

// Notifier is optionally implemented by providers that want match start
// and end callbacks, like snake servers with /start and /end endpoints.
type Notifier interface {
	NotifyStart(ctx context.Context, game *board.Game, frame *board.Frame)
	NotifyEnd(ctx context.Context, game *board.Game, frame *board.Frame)
}

type moveUpdate struct {
	SnakeID string
	Move    board.Direction
	Err     error
}

// gatherMoves queries the provider for every living snake in parallel,
// each under its own timeout. A provider that errors or times out simply
// contributes no entry; the rules engine resolves the gap by policy. The
// returned map is complete before any rule evaluation starts.
func gatherMoves(ctx context.Context, provider MoveProvider, game *board.Game, frame *board.Frame, timeout time.Duration) map[string]board.Direction {
	alive := frame.AliveSnakes()
	respChan := make(chan moveUpdate, len(alive))

	wg := sync.WaitGroup{}
	for _, s := range alive {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			moveCtx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()
			move, err := provider.ProvideMove(moveCtx, game, frame, id)
			respChan <- moveUpdate{SnakeID: id, Move: move, Err: err}
		}(s.ID)
	}
	wg.Wait()
	close(respChan)

	moves := map[string]board.Direction{}
	for update := range respChan {
		if update.Err != nil {
			log.WithError(update.Err).WithFields(log.Fields{
				"GameID":  game.ID,
				"SnakeID": update.SnakeID,
				"Turn":    frame.Turn,
			}).Warn("no move from provider")
			continue
		}
		moves[update.SnakeID] = update.Move
	}
	return moves
}

// ScriptProvider plays a fixed list of moves per snake, repeating the
// last one when the script runs out. Useful for tests and offline
// simulations.
type ScriptProvider struct {
	Moves map[string][]board.Direction

	mu   sync.Mutex
	step map[string]int
}

// NewScriptProvider returns a provider that replays the given scripts.
func NewScriptProvider(moves map[string][]board.Direction) *ScriptProvider {
	return &ScriptProvider{Moves: moves, step: map[string]int{}}
}

// ProvideMove returns the next scripted move for the snake.
func (p *ScriptProvider) ProvideMove(ctx context.Context, game *board.Game, frame *board.Frame, snakeID string) (board.Direction, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	script, ok := p.Moves[snakeID]
	if !ok || len(script) == 0 {
		return "", ErrNoMove
	}
	i := p.step[snakeID]
	if i >= len(script) {
		i = len(script) - 1
	}
	p.step[snakeID]++
	return script[i], nil
}
