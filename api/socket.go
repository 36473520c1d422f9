package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/snakearena/arena/board"
	"github.com/snakearena/arena/config"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

const streamBatchSize = 100

// streamFrames sends every frame of a match as a JSON text message, in
// turn order, then closes normally once the match has left the running
// state and the archive is drained. Frames that arrive while the client
// is connected are streamed live, paced by the configured stream rate.
func (s *Server) streamFrames(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	if _, err := s.store.GetMatch(r.Context(), id); err != nil {
		writeStoreError(w, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).Error("websocket upgrade failed")
		return
	}
	defer func() {
		if err := conn.Close(); err != nil {
			log.WithError(err).Error("unable to close websocket")
		}
	}()

	limiter := rate.NewLimiter(config.StreamRate, config.StreamBurst)
	offset := 0
	for {
		if err := limiter.Wait(r.Context()); err != nil {
			return
		}

		frames, err := s.store.ListFrames(r.Context(), id, streamBatchSize, offset)
		if err != nil {
			log.WithError(err).WithField("game", id).Error("unable to list frames for stream")
			return
		}
		for _, f := range frames {
			j, err := json.Marshal(f)
			if err != nil {
				log.WithError(err).Error("unable to marshal frame")
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, j); err != nil {
				return
			}
		}
		offset += len(frames)

		if len(frames) < streamBatchSize {
			game, err := s.store.GetMatch(r.Context(), id)
			if err != nil {
				return
			}
			if done(game.Status) {
				closeMsg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "match over")
				deadline := time.Now().Add(time.Second)
				if err := conn.WriteControl(websocket.CloseMessage, closeMsg, deadline); err != nil {
					log.WithError(err).Error("unable to close websocket stream")
				}
				return
			}
		}
	}
}

func done(status board.GameStatus) bool {
	return status != board.GameStatusCreated && status != board.GameStatusRunning
}
