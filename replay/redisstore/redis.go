// Package redisstore keeps match archives in redis: the match
// configuration lives at a plain key as JSON and frames are appended to
// a redis list, so multiple engine processes can share one archive.
package redisstore

import (
	"context"
	"encoding/json"

	"github.com/go-redis/redis"
	"github.com/pkg/errors"

	"github.com/snakearena/arena/board"
	"github.com/snakearena/arena/replay"
)

const (
	matchKeyPrefix  = "arena:match:"
	framesKeySuffix = ":frames"
)

// Store is a replay.Store backed by a redis server.
type Store struct {
	client *redis.Client
}

// NewStore creates a redis backed store from a connect URL, for URL
// specifics see github.com/go-redis/redis/options.go. The connection is
// tested immediately, so don't call this until redis is reachable.
func NewStore(connectURL string) (*Store, error) {
	o, err := redis.ParseURL(connectURL)
	if err != nil {
		return nil, errors.Wrap(err, "unable to parse redis URL")
	}

	client := redis.NewClient(o)
	if err := client.Ping().Err(); err != nil {
		return nil, errors.Wrap(err, "unable to connect to redis")
	}
	return &Store{client: client}, nil
}

// Close releases the underlying redis connection.
func (rs *Store) Close() error { return rs.client.Close() }

func matchKey(id string) string  { return matchKeyPrefix + id }
func framesKey(id string) string { return matchKey(id) + framesKeySuffix }

func (rs *Store) CreateMatch(ctx context.Context, g *board.Game, frames []*board.Frame) error {
	if err := rs.putGame(g); err != nil {
		return err
	}
	for _, f := range frames {
		if err := rs.PushFrame(ctx, g.ID, f); err != nil {
			return err
		}
	}
	return nil
}

func (rs *Store) SetMatchStatus(ctx context.Context, id string, status board.GameStatus) error {
	game, err := rs.GetMatch(ctx, id)
	if err != nil {
		return err
	}
	game.Status = status
	return rs.putGame(game)
}

// PushFrame appends a frame to the match's frame list. The frame turn
// must equal the current list length to keep the archive gapless.
func (rs *Store) PushFrame(ctx context.Context, id string, f *board.Frame) error {
	if _, err := rs.GetMatch(ctx, id); err != nil {
		return err
	}
	count, err := rs.client.LLen(framesKey(id)).Result()
	if err != nil {
		return errors.Wrap(err, "unable to count frames")
	}
	if int64(f.Turn) != count {
		return replay.ErrInvalidSequence
	}

	j, err := json.Marshal(f)
	if err != nil {
		return errors.Wrap(err, "unable to marshal frame")
	}
	return errors.Wrap(rs.client.RPush(framesKey(id), j).Err(), "unable to push frame")
}

func (rs *Store) ListFrames(ctx context.Context, id string, limit, offset int) ([]*board.Frame, error) {
	if _, err := rs.GetMatch(ctx, id); err != nil {
		return nil, err
	}
	count, err := rs.client.LLen(framesKey(id)).Result()
	if err != nil {
		return nil, errors.Wrap(err, "unable to count frames")
	}
	if offset < 0 {
		offset = int(count) + offset
		if offset < 0 {
			offset = 0
		}
	}
	if int64(offset) >= count || limit <= 0 {
		return nil, nil
	}

	raw, err := rs.client.LRange(framesKey(id), int64(offset), int64(offset+limit-1)).Result()
	if err != nil {
		return nil, errors.Wrap(err, "unable to list frames")
	}
	frames := make([]*board.Frame, 0, len(raw))
	for _, j := range raw {
		f := &board.Frame{}
		if err := json.Unmarshal([]byte(j), f); err != nil {
			return nil, errors.Wrap(err, "unable to unmarshal frame")
		}
		frames = append(frames, f)
	}
	return frames, nil
}

func (rs *Store) GetMatch(ctx context.Context, id string) (*board.Game, error) {
	j, err := rs.client.Get(matchKey(id)).Result()
	if err == redis.Nil {
		return nil, replay.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "unable to fetch match")
	}
	g := &board.Game{}
	if err := json.Unmarshal([]byte(j), g); err != nil {
		return nil, errors.Wrap(err, "unable to unmarshal match")
	}
	return g, nil
}

func (rs *Store) putGame(g *board.Game) error {
	j, err := json.Marshal(g)
	if err != nil {
		return errors.Wrap(err, "unable to marshal match")
	}
	return errors.Wrap(rs.client.Set(matchKey(g.ID), j, 0).Err(), "unable to store match")
}
