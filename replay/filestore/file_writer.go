package filestore

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"

	"github.com/snakearena/arena/board"
)

// record is one line of a match archive. Exactly one field is set.
type record struct {
	Game   *board.Game       `json:"game,omitempty"`
	Frame  *board.Frame      `json:"frame,omitempty"`
	Status *board.GameStatus `json:"status,omitempty"`
}

var openFileWriter = appendOnlyFileWriter

type writer interface {
	WriteString(s string) (int, error)
	Close() error
}

func appendOnlyFileWriter(directory, id string, mustBeNew bool) (writer, error) {
	if err := os.MkdirAll(directory, 0775); err != nil {
		return nil, errors.Wrap(err, "unable to create archive directory")
	}
	flags := os.O_APPEND | os.O_CREATE | os.O_WRONLY
	if mustBeNew {
		flags |= os.O_EXCL
	}
	f, err := os.OpenFile(getFilePath(directory, id), flags, 0644)
	if err != nil {
		return nil, errors.Wrap(err, "unable to open archive file")
	}
	return f, nil
}

func writeLine(w writer, rec record) error {
	j, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	_, err = w.WriteString(string(j) + "\n")
	return err
}

func writeGameInfo(w writer, game *board.Game) error {
	return writeLine(w, record{Game: game})
}

func writeFrame(w writer, frame *board.Frame) error {
	return writeLine(w, record{Frame: frame})
}

func writeStatus(w writer, status board.GameStatus) error {
	return writeLine(w, record{Status: &status})
}
