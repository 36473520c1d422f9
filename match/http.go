package match

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	nu "net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/snakearena/arena/board"
)

// MoveResponse is the message format of the move response from a snake
// server call.
type MoveResponse struct {
	Move string `json:"move"`
}

// SnakeRequest is the message sent for all snake server calls.
type SnakeRequest struct {
	Game  GameRef     `json:"game"`
	Turn  int32       `json:"turn"`
	Board BoardState  `json:"board"`
	You   board.Snake `json:"you"`
}

// GameRef identifies the match in a snake request.
type GameRef struct {
	ID string `json:"id"`
}

// BoardState carries the full frame contents in a snake request.
type BoardState struct {
	Width  int32          `json:"width"`
	Height int32          `json:"height"`
	Wrap   bool           `json:"wrap"`
	Food   []*board.Point `json:"food"`
	Snakes []board.Snake  `json:"snakes"`
}

// HTTPProvider queries each snake's configured URL for its move. The
// transport details live here; the controller only sees the MoveProvider
// interface.
type HTTPProvider struct {
	Client *http.Client
}

// NewHTTPProvider returns a provider using a default http client. The
// per-move deadline comes from the request context, not the client.
func NewHTTPProvider() *HTTPProvider {
	return &HTTPProvider{Client: &http.Client{}}
}

// ProvideMove posts the frame snapshot to the snake's /move endpoint and
// parses the direction out of the response.
func (p *HTTPProvider) ProvideMove(ctx context.Context, game *board.Game, frame *board.Frame, snakeID string) (board.Direction, error) {
	snake := frame.FindSnake(snakeID)
	if snake == nil {
		return "", errors.Errorf("unknown snake %q", snakeID)
	}
	if !isValidURL(snake.URL) {
		return "", errors.Errorf("invalid snake url %q", snake.URL)
	}

	data, err := p.post(ctx, getURL(snake.URL, "move"), buildSnakeRequest(game, frame, snake))
	if err != nil {
		return "", err
	}

	mr := MoveResponse{}
	if err := json.Unmarshal(data, &mr); err != nil {
		return "", errors.Wrap(err, "unable to decode move response")
	}
	return board.ParseDirection(mr.Move)
}

// NotifyStart posts the initial frame to every snake's /start endpoint.
// Snake servers get a generous deadline here in case they are waking up.
func (p *HTTPProvider) NotifyStart(ctx context.Context, game *board.Game, frame *board.Frame) {
	p.notify(ctx, game, frame, "start", 5*time.Second)
}

// NotifyEnd posts the final frame to every snake's /end endpoint.
func (p *HTTPProvider) NotifyEnd(ctx context.Context, game *board.Game, frame *board.Frame) {
	p.notify(ctx, game, frame, "end", 200*time.Millisecond)
}

func (p *HTTPProvider) notify(ctx context.Context, game *board.Game, frame *board.Frame, endpoint string, timeout time.Duration) {
	for _, s := range frame.Snakes {
		if !isValidURL(s.URL) {
			continue
		}
		notifyCtx, cancel := context.WithTimeout(ctx, timeout)
		_, err := p.post(notifyCtx, getURL(s.URL, endpoint), buildSnakeRequest(game, frame, s))
		cancel()
		if err != nil {
			log.WithError(err).WithFields(log.Fields{
				"GameID":   game.ID,
				"SnakeID":  s.ID,
				"Endpoint": endpoint,
			}).Warn("snake notification failed")
		}
	}
}

func (p *HTTPProvider) post(ctx context.Context, url string, req SnakeRequest) ([]byte, error) {
	data, err := json.Marshal(req)
	if err != nil {
		return nil, errors.Wrap(err, "unable to marshal snake request")
	}
	httpReq, err := http.NewRequest(http.MethodPost, url, bytes.NewBuffer(data))
	if err != nil {
		return nil, err
	}
	httpReq = httpReq.WithContext(ctx)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.Client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			log.WithError(cerr).Warn("failed to close response body")
		}
	}()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errors.Errorf("unexpected response code %d from %s", resp.StatusCode, url)
	}
	return ioutil.ReadAll(resp.Body)
}

func buildSnakeRequest(game *board.Game, frame *board.Frame, you *board.Snake) SnakeRequest {
	snakes := make([]board.Snake, 0, len(frame.Snakes))
	for _, s := range frame.AliveSnakes() {
		snakes = append(snakes, *s)
	}
	return SnakeRequest{
		Game: GameRef{ID: game.ID},
		Turn: frame.Turn,
		Board: BoardState{
			Width:  game.Grid.Width,
			Height: game.Grid.Height,
			Wrap:   game.Grid.Wrap,
			Food:   frame.Food,
			Snakes: snakes,
		},
		You: *you,
	}
}

func isValidURL(url string) bool {
	if len(url) == 0 {
		return false
	}
	parsed, err := nu.Parse(url)
	if err != nil {
		return false
	}
	return len(parsed.Scheme) != 0
}

func cleanURL(url string) string {
	if !strings.HasSuffix(url, "/") {
		return fmt.Sprintf("%s/", url)
	}
	return url
}

func getURL(url, path string) string {
	return fmt.Sprintf("%s%s", cleanURL(url), path)
}
