package filestore

import (
	"bufio"
	"encoding/json"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/snakearena/arena/board"
	"github.com/snakearena/arena/replay"
)

var openFileReader = func(directory, id string) (io.ReadCloser, error) {
	f, err := os.Open(getFilePath(directory, id))
	if os.IsNotExist(err) {
		return nil, replay.ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "unable to open archive file")
	}
	return f, nil
}

func readArchive(directory, id string) (*board.Game, []*board.Frame, error) {
	r, err := openFileReader(directory, id)
	if err != nil {
		return nil, nil, err
	}
	defer r.Close()

	var game *board.Game
	var frames []*board.Frame
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		var rec record
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			return nil, nil, errors.Wrap(err, "corrupt archive record")
		}
		switch {
		case rec.Game != nil:
			game = rec.Game
		case rec.Frame != nil:
			frames = append(frames, rec.Frame)
		case rec.Status != nil:
			if game != nil {
				game.Status = *rec.Status
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, errors.Wrap(err, "unable to read archive")
	}
	if game == nil {
		return nil, nil, errors.New("archive is missing its game record")
	}
	return game, frames, nil
}

func readGameInfo(directory, id string) (*board.Game, error) {
	game, _, err := readArchive(directory, id)
	return game, err
}

func readFrames(directory, id string) ([]*board.Frame, error) {
	_, frames, err := readArchive(directory, id)
	return frames, err
}
