// Package filestore archives matches as one append-only JSON-lines file
// per match: a header line with the match configuration, one line per
// frame, and a status line whenever the match changes state. Running
// matches stay cached in memory; finished ones are reloaded from disk
// on demand.
package filestore

import (
	"context"
	"os"
	"os/user"
	"path"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/snakearena/arena/board"
	"github.com/snakearena/arena/replay"
)

func defaultDir() string {
	return path.Join(homeDir(), ".snakearena/matches")
}

func homeDir() string {
	usr, err := user.Current()
	if err != nil {
		return "."
	}
	return usr.HomeDir
}

// NewFileStore returns a file based store implementation (1 file per match).
func NewFileStore(directory string) replay.Store {
	if directory == "" {
		directory = defaultDir()
	}
	return &fileStore{
		games:     map[string]*board.Game{},
		frames:    map[string][]*board.Frame{},
		writers:   map[string]writer{},
		directory: directory,
	}
}

type fileStore struct {
	games     map[string]*board.Game
	frames    map[string][]*board.Frame
	writers   map[string]writer
	lock      sync.Mutex
	directory string
}

// closeMatch removes the match from the in-memory cache and closes the
// handle to its file. Called when a match leaves the running state.
func (fs *fileStore) closeMatch(id string) {
	if w, ok := fs.writers[id]; ok {
		if err := w.Close(); err != nil {
			log.WithError(err).Error("error while closing file writer")
		}
	}
	delete(fs.games, id)
	delete(fs.frames, id)
	delete(fs.writers, id)
}

func (fs *fileStore) CreateMatch(ctx context.Context, g *board.Game, frames []*board.Frame) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	fs.games[g.ID] = g
	fs.frames[g.ID] = []*board.Frame{}
	for _, f := range frames {
		if err := fs.appendFrame(g.ID, f); err != nil {
			return err
		}
	}
	return nil
}

func (fs *fileStore) SetMatchStatus(ctx context.Context, id string, status board.GameStatus) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	game, err := fs.requireGame(id)
	if err != nil {
		return err
	}
	game.Status = status
	handle, err := fs.requireHandle(id)
	if err != nil {
		return err
	}
	if err := writeStatus(handle, status); err != nil {
		return err
	}
	if status != board.GameStatusRunning && status != board.GameStatusCreated {
		fs.closeMatch(id)
	}
	return nil
}

func (fs *fileStore) PushFrame(ctx context.Context, id string, f *board.Frame) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	if _, err := fs.requireGame(id); err != nil {
		return err
	}
	return fs.appendFrame(id, f)
}

func (fs *fileStore) ListFrames(ctx context.Context, id string, limit, offset int) ([]*board.Frame, error) {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	if _, err := fs.requireGame(id); err != nil {
		return nil, err
	}
	frames, err := fs.requireFrames(id)
	if err != nil {
		return nil, err
	}
	return replay.SliceFrames(frames, limit, offset), nil
}

func (fs *fileStore) GetMatch(ctx context.Context, id string) (*board.Game, error) {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	g, err := fs.requireGame(id)
	if err != nil {
		return nil, err
	}
	clone := *g
	return &clone, nil
}

func (fs *fileStore) requireGame(id string) (*board.Game, error) {
	if g, ok := fs.games[id]; ok {
		return g, nil
	}
	g, err := readGameInfo(fs.directory, id)
	if err != nil {
		return nil, err
	}
	fs.games[id] = g
	return g, nil
}

func (fs *fileStore) requireFrames(id string) ([]*board.Frame, error) {
	if frames, ok := fs.frames[id]; ok {
		return frames, nil
	}
	frames, err := readFrames(fs.directory, id)
	if err != nil {
		return nil, err
	}
	fs.frames[id] = frames
	return frames, nil
}

// requireHandle returns an open append handle for the match, writing the
// game header if the archive file does not exist yet.
func (fs *fileStore) requireHandle(id string) (writer, error) {
	if w, ok := fs.writers[id]; ok {
		return w, nil
	}
	_, statErr := os.Stat(getFilePath(fs.directory, id))
	isNew := os.IsNotExist(statErr)
	handle, err := openFileWriter(fs.directory, id, isNew)
	if err != nil {
		return nil, err
	}
	if isNew {
		if err := writeGameInfo(handle, fs.games[id]); err != nil {
			handle.Close()
			return nil, err
		}
	}
	fs.writers[id] = handle
	return handle, nil
}

func (fs *fileStore) appendFrame(id string, f *board.Frame) error {
	frames, ok := fs.frames[id]
	if !ok {
		loaded, err := readFrames(fs.directory, id)
		if err != nil && err != replay.ErrNotFound {
			return err
		}
		frames = loaded
		fs.frames[id] = frames
	}
	if int(f.Turn) != len(frames) {
		return replay.ErrInvalidSequence
	}

	handle, err := fs.requireHandle(id)
	if err != nil {
		return err
	}
	fs.frames[id] = append(frames, f)
	return writeFrame(handle, f)
}

func getFilePath(directory, id string) string {
	return path.Join(directory, id) + ".json"
}
