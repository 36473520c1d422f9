// Package sqlstore keeps match archives in postgres, one jsonb row per
// match plus one jsonb row per frame keyed by (match, turn).
package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/lib/pq" // Import pq driver.
	log "github.com/sirupsen/logrus"

	"github.com/snakearena/arena/board"
	"github.com/snakearena/arena/config"
	"github.com/snakearena/arena/replay"
)

const migrations = `
CREATE TABLE IF NOT EXISTS matches (
	id VARCHAR(255) PRIMARY KEY,
	value jsonb,
	created timestamp default now()
);
CREATE TABLE IF NOT EXISTS match_frames (
	id VARCHAR(255),
	turn INTEGER,
	value jsonb,
	PRIMARY KEY (id, turn)
);
`

// NewSQLStore returns a new store using a postgres database.
func NewSQLStore(url string) (*Store, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)

	if err = db.PingContext(ctx); err != nil {
		return nil, err
	}

	if _, err = db.ExecContext(ctx, migrations); err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// Store represents an SQL store.
type Store struct {
	db *sql.DB
}

// Close releases the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

// transact is a transaction wrapper, helps avoid failed to close connections.
func (s *Store) transact(
	ctx context.Context, txFunc func(*sql.Tx) error) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return
	}
	defer func() {
		if p := recover(); p != nil {
			if rErr := tx.Rollback(); rErr != nil {
				log.WithError(rErr).Error("rollback failed")
			}
			panic(p) // re-throw panic after Rollback
		} else if err != nil {
			// err is non-nil; don't change it
			if rErr := tx.Rollback(); rErr != nil {
				log.WithError(rErr).Error("rollback failed")
			}
		} else {
			err = tx.Commit() // err is nil; if Commit returns error update err
		}
	}()
	err = txFunc(tx)
	return err
}

// SetMatchStatus updates the status field inside the stored match
// document. This operation is atomic.
func (s *Store) SetMatchStatus(
	ctx context.Context, id string, status board.GameStatus) error {
	return s.transact(ctx, func(tx *sql.Tx) error {
		query := fmt.Sprintf(`update matches set value = jsonb_set(value, '{"status"}', '"%s"') where id = $1;`, string(status))
		r, err := tx.ExecContext(ctx, query, id)
		if err != nil {
			return err
		}
		n, err := r.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return replay.ErrNotFound
		}
		return nil
	})
}

// CreateMatch will insert a match with its initial frames.
func (s *Store) CreateMatch(
	ctx context.Context, g *board.Game, frames []*board.Frame) error {
	return s.transact(ctx, func(tx *sql.Tx) error {
		data, err := json.Marshal(g)
		if err != nil {
			return err
		}
		// Upsert matches.
		if _, err := tx.ExecContext(ctx, `
		INSERT INTO matches (id, value) VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET value=$2`,
			g.ID, data,
		); err != nil {
			return err
		}
		return s.pushFrames(ctx, tx, g.ID, frames...)
	})
}

func (s *Store) pushFrames(
	ctx context.Context, tx *sql.Tx, id string, frames ...*board.Frame) error {
	r := tx.QueryRowContext(
		ctx, "SELECT MAX(turn) FROM match_frames where id=$1", id)

	var last *int
	var i int
	if err := r.Scan(&last); err != nil {
		if err != sql.ErrNoRows {
			return err
		}
	}
	if last == nil {
		i = -1 // Nothing exists.
	} else {
		i = *last
	}
	for _, f := range frames {
		i++
		if i != int(f.Turn) {
			return replay.ErrInvalidSequence
		}
	}

	for _, frame := range frames {
		frameData, err := json.Marshal(frame)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(
			ctx, `INSERT INTO match_frames (id, turn, value) VALUES ($1, $2, $3)`,
			id, frame.Turn, frameData,
		); err != nil {
			return err
		}
	}
	return nil
}

// PushFrame will push a frame onto the match's frame list.
func (s *Store) PushFrame(
	ctx context.Context, id string, f *board.Frame) error {
	if _, err := s.GetMatch(ctx, id); err != nil {
		return err
	}
	return s.transact(ctx, func(tx *sql.Tx) error {
		return s.pushFrames(ctx, tx, id, f)
	})
}

// ListFrames will list frames by an offset and limit, it supports
// negative offset. Frames always come back in ascending turn order.
func (s *Store) ListFrames(ctx context.Context, id string, limit, offset int) ([]*board.Frame, error) {
	if _, err := s.GetMatch(ctx, id); err != nil {
		return nil, err
	}

	if offset < 0 {
		r := s.db.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM match_frames WHERE id=$1", id)
		var count int
		if err := r.Scan(&count); err != nil {
			return nil, err
		}
		offset = count + offset
		if offset < 0 {
			offset = 0
		}
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT value FROM match_frames WHERE id=$1 ORDER BY turn ASC
		LIMIT $2 OFFSET $3`,
		id, limit, offset,
	)
	if err != nil {
		return nil, err
	}

	var frames []*board.Frame
	defer rows.Close()
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}

		frame := &board.Frame{}
		if err := json.Unmarshal(data, frame); err != nil {
			return nil, err
		}

		frames = append(frames, frame)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return frames, nil
}

// GetMatch will fetch the match.
func (s *Store) GetMatch(c context.Context, id string) (*board.Game, error) {
	r := s.db.QueryRowContext(c, "SELECT value FROM matches WHERE id=$1", id)

	var data []byte
	if err := r.Scan(&data); err != nil {
		if err == sql.ErrNoRows {
			return nil, replay.ErrNotFound
		}
		return nil, err
	}

	g := &board.Game{}
	if err := json.Unmarshal(data, g); err != nil {
		return nil, err
	}
	return g, nil
}
