package commands

import (
	"sync"

	"github.com/snakearena/arena/board"
)

// frameHolder buffers frames arriving over the websocket while the
// renderer walks through them at its own pace.
type frameHolder struct {
	sync.RWMutex
	frames []*board.Frame
	ffc    chan *board.Frame
}

func (fh *frameHolder) append(frame *board.Frame) {
	fh.Lock()
	defer fh.Unlock()

	if len(fh.frames) == 0 {
		if fh.ffc == nil {
			fh.ffc = make(chan *board.Frame)
		}
		fh.ffc <- frame
		close(fh.ffc)
	}

	fh.frames = append(fh.frames, frame)
}

func (fh *frameHolder) get(index int) *board.Frame {
	fh.RLock()
	defer fh.RUnlock()

	if index < 0 || index >= len(fh.frames) {
		return nil
	}

	return fh.frames[index]
}

func (fh *frameHolder) initialFrame() <-chan *board.Frame {
	if fh.ffc == nil {
		fh.ffc = make(chan *board.Frame)
	}
	return fh.ffc
}

func (fh *frameHolder) count() int {
	fh.RLock()
	defer fh.RUnlock()

	return len(fh.frames)
}
