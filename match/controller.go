package match

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/snakearena/arena/board"
	"github.com/snakearena/arena/replay"
	"github.com/snakearena/arena/rules"
)

// ErrNoMove is returned by providers that have no move for a snake.
var ErrNoMove = errors.New("match: no move available")

// State is the lifecycle of a controller. The progression is one-way:
// NotStarted -> InProgress -> Finished.
type State string

const (
	// StateNotStarted is a controller that has not run its first turn.
	StateNotStarted State = "not-started"
	// StateInProgress is a controller inside its turn loop.
	StateInProgress State = "in-progress"
	// StateFinished is a controller whose match has ended; no further
	// moves are accepted.
	StateFinished State = "finished"
)

// Controller owns one match: the configuration, the current frame slot
// and the seeded random stream. It is the single writer of match state;
// the current frame is replaced once per turn and individual frames are
// never mutated after publication.
type Controller struct {
	game     *board.Game
	provider MoveProvider
	store    replay.Store
	limiter  *rate.Limiter

	rng *rand.Rand

	mu      sync.Mutex
	state   State
	current *board.Frame
	result  *board.Result
	aborted bool
}

// NewController validates the configuration, builds the initial frame and
// records it in the replay store. Configuration problems surface here,
// before the match can start.
func NewController(game *board.Game, provider MoveProvider, store replay.Store) (*Controller, error) {
	rng := rand.New(rand.NewSource(game.Seed))
	frame, err := rules.CreateInitialFrame(game, rng)
	if err != nil {
		return nil, err
	}
	if err := store.CreateMatch(context.Background(), game, []*board.Frame{frame}); err != nil {
		return nil, errors.Wrap(err, "unable to record initial frame")
	}
	return &Controller{
		game:     game,
		provider: provider,
		store:    store,
		rng:      rng,
		state:    StateNotStarted,
		current:  frame,
	}, nil
}

// SetTurnLimiter sets an optional pacing limiter applied between turns,
// so spectators can follow along. Must be called before Run.
func (c *Controller) SetTurnLimiter(l *rate.Limiter) { c.limiter = l }

// Game returns the match configuration.
func (c *Controller) Game() *board.Game { return c.game }

// State returns the controller lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// CurrentFrame returns the latest completed frame.
func (c *Controller) CurrentFrame() *board.Frame {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Result returns the terminal result, or nil while the match runs.
func (c *Controller) Result() *board.Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.result == nil {
		return nil
	}
	r := *c.result
	return &r
}

// Abort stops the match between turns. The turn in flight completes; the
// match finishes with an aborted result and the replay log is preserved
// up to the last completed turn.
func (c *Controller) Abort() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateFinished {
		c.aborted = true
	}
}

// Run drives the match to its terminal state and returns its result.
// Provider failures are recovered by policy and never abort the match;
// only configuration and engine invariant errors propagate. Run returns
// the aborted result when Abort is called or ctx is cancelled.
func (c *Controller) Run(ctx context.Context) (*board.Result, error) {
	if c.State() != StateNotStarted {
		return nil, errors.New("match: controller already started")
	}
	c.setState(StateInProgress)
	if err := c.store.SetMatchStatus(ctx, c.game.ID, board.GameStatusRunning); err != nil {
		log.WithError(err).WithField("GameID", c.game.ID).Error("unable to mark match running")
	}
	c.game.Status = board.GameStatusRunning

	if n, ok := c.provider.(Notifier); ok {
		n.NotifyStart(ctx, c.game, c.CurrentFrame())
	}

	timeout := time.Duration(c.game.SnakeTimeoutMS) * time.Millisecond
	for {
		if c.shouldAbort(ctx) {
			return c.finish(board.GameStatusAborted, &board.Result{
				Outcome: board.OutcomeAborted,
				Turns:   c.CurrentFrame().Turn,
			}), nil
		}
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				continue
			}
		}

		frame := c.CurrentFrame()
		log.WithFields(log.Fields{
			"GameID":  c.game.ID,
			"Turn":    frame.Turn + 1,
			"Timeout": timeout,
		}).Info("gather moves")
		moves := gatherMoves(ctx, c.provider, c.game, frame, timeout)

		next, err := rules.Next(c.game, frame, moves, c.rng)
		if err != nil {
			// An engine error is fatal; no further processing can take
			// place for this match.
			log.WithError(err).WithField("GameID", c.game.ID).Error("ending match due to fatal error")
			c.finish(board.GameStatusError, nil)
			return nil, err
		}

		if err := c.store.PushFrame(ctx, c.game.ID, next); err != nil {
			c.finish(board.GameStatusError, nil)
			return nil, errors.Wrap(err, "unable to append frame")
		}
		c.setCurrent(next)

		if rules.CheckForGameOver(c.game, next) {
			result := rules.ResultOf(next)
			log.WithFields(log.Fields{
				"GameID":  c.game.ID,
				"Turn":    next.Turn,
				"Outcome": result.Outcome,
			}).Info("match over")
			if n, ok := c.provider.(Notifier); ok {
				n.NotifyEnd(ctx, c.game, next)
			}
			return c.finish(board.GameStatusComplete, &result), nil
		}
	}
}

func (c *Controller) shouldAbort(ctx context.Context) bool {
	if ctx.Err() != nil {
		return true
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aborted
}

func (c *Controller) setState(s State) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = s
}

func (c *Controller) setCurrent(f *board.Frame) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = f
}

// finish transitions to Finished exactly once, recording the terminal
// status in the store. Uses a fresh context so an aborted run can still
// persist its status.
func (c *Controller) finish(status board.GameStatus, result *board.Result) *board.Result {
	c.mu.Lock()
	c.state = StateFinished
	c.result = result
	c.mu.Unlock()
	c.game.Status = status

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.store.SetMatchStatus(ctx, c.game.ID, status); err != nil {
		log.WithError(err).WithFields(log.Fields{
			"GameID": c.game.ID,
			"Status": status,
		}).Error("unable to record terminal status")
	}
	return result
}
