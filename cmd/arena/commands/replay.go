package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	termbox "github.com/nsf/termbox-go"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/snakearena/arena/api"
	"github.com/snakearena/arena/board"
)

func init() {
	replayCmd.Flags().StringVarP(&matchID, "match-id", "g", "", "the match id of the match to replay")
}

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "replays an existing match from the arena engine",
	Args: func(c *cobra.Command, args []string) error {
		if len(matchID) == 0 {
			return errors.New("match id is required")
		}
		return nil
	},
	Run: func(*cobra.Command, []string) {
		replayMatch()
	},
}

func moveFrameForwards(frameIndex int, frames *frameHolder) (int, *board.Frame, bool) {
	frameIndex++
	if frameIndex >= frames.count() {
		return frameIndex, nil, true
	}
	return frameIndex, frames.get(frameIndex), false
}

func moveFrameBackwards(frameIndex int, frames *frameHolder) (int, *board.Frame) {
	frameIndex--
	if frameIndex <= 0 {
		frameIndex = 0
	}
	return frameIndex, frames.get(frameIndex)
}

func loadMatch() (*board.Game, *frameHolder, error) {
	client := &http.Client{
		Timeout: 5 * time.Second,
	}

	resp, err := client.Get(fmt.Sprintf("%s/matches/%s", apiAddr, matchID))
	if err != nil {
		fmt.Println("error while getting status", err)
		return nil, nil, err
	}
	s := &api.StatusResponse{}
	err = json.NewDecoder(resp.Body).Decode(s)
	if err != nil {
		fmt.Println("error while getting status", err)
		return nil, nil, err
	}

	err = resp.Body.Close()
	if err != nil {
		fmt.Println("error while closing body", err)
	}

	frames := &frameHolder{}

	u := url.URL{Scheme: "ws", Host: strings.Replace(apiAddr, "http://", "", 1), Path: fmt.Sprintf("/socket/%s", matchID)}
	log.Infof("connecting to %s", u.String())

	c, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatalf("dial: %v", err)
	}

	go func() {
		defer func() {
			err := c.Close()
			if err != nil {
				log.Fatalf("failure to close websocket connection: %v", err)
			}
		}()

		for {
			mt, message, err := c.ReadMessage()
			if err != nil {
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
					log.WithError(err).Error("read failed")
				}
				return
			}

			switch mt {
			case websocket.TextMessage:
				frame := &board.Frame{}
				err = json.Unmarshal(message, frame)
				if err != nil {
					log.WithError(err).Error("unmarshal frame failed")
					return
				}

				frames.append(frame)
			case websocket.CloseMessage:
				return
			default:
				log.Infof("unhandled message type: %d", mt)
			}
		}
	}()

	return s.Game, frames, nil
}

func replayMatch() {
	game, frames, err := loadMatch()
	if err != nil {
		panic(err)
	}

	if err = termbox.Init(); err != nil {
		panic(err)
	}
	defer termbox.Close()

	eventQueue := setupEventQueue()
	currentFrame := getInitialFrame(frames)

	cycle := time.NewTicker(200 * time.Millisecond)
	frameIndex := 0
	paused := false
	done := false

	for {
		if done {
			break
		}

		select {
		case ev := <-eventQueue:
			if ev.Type == termbox.EventKey {
				switch ev.Key {
				case termbox.KeyEsc:
					done = true
				case termbox.KeySpace:
					paused = !paused
					if paused {
						cycle.Stop()
					} else {
						cycle = time.NewTicker(200 * time.Millisecond)
					}

				case termbox.KeyArrowLeft:
					paused = true
					frameIndex, currentFrame = moveFrameBackwards(frameIndex, frames)
					if err = render(game, currentFrame); err != nil {
						panic(err)
					}
				case termbox.KeyArrowRight:
					paused = true
					frameIndex, currentFrame, done = moveFrameForwards(frameIndex, frames)
					if err = render(game, currentFrame); err != nil {
						panic(err)
					}
				}
			}
		case <-cycle.C:
			if paused {
				continue
			}
			if err = render(game, currentFrame); err != nil {
				panic(err)
			}
			frameIndex, currentFrame, done = moveFrameForwards(frameIndex, frames)
		}
	}

	if frameIndex >= frames.count() {
		tbprint(0, 0, defaultColor, defaultColor, "Press any key to exit...")
		if err := termbox.Flush(); err != nil {
			log.Fatalf("Error while flushing termbox: %v", err)
		}
		termbox.PollEvent()
	}
}

func setupEventQueue() <-chan termbox.Event {
	eventQueue := make(chan termbox.Event)
	go func(ev chan<- termbox.Event) {
		for {
			ev <- termbox.PollEvent()
		}
	}(eventQueue)
	return eventQueue
}

func getInitialFrame(frames *frameHolder) *board.Frame {
	var currentFrame *board.Frame
	select {
	case currentFrame = <-frames.initialFrame():
	case <-time.After(time.Second):
		log.Fatal("unable to find initial frame for match")
	}
	return currentFrame
}
