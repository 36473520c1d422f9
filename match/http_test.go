package match

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/snakearena/arena/board"
)

type snakeServer struct {
	mu     sync.Mutex
	move   string
	status int
	starts int
	ends   int
	lastRq SnakeRequest
}

func (ss *snakeServer) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/move", func(w http.ResponseWriter, r *http.Request) {
		ss.mu.Lock()
		defer ss.mu.Unlock()
		_ = json.NewDecoder(r.Body).Decode(&ss.lastRq)
		if ss.status != 0 {
			w.WriteHeader(ss.status)
			return
		}
		_ = json.NewEncoder(w).Encode(MoveResponse{Move: ss.move})
	})
	mux.HandleFunc("/start", func(w http.ResponseWriter, r *http.Request) {
		ss.mu.Lock()
		defer ss.mu.Unlock()
		ss.starts++
	})
	mux.HandleFunc("/end", func(w http.ResponseWriter, r *http.Request) {
		ss.mu.Lock()
		defer ss.mu.Unlock()
		ss.ends++
	})
	return mux
}

func httpGameAndFrame(url string) (*board.Game, *board.Frame) {
	game := &board.Game{ID: "http-test", Grid: board.Grid{Width: 11, Height: 11}}
	frame := &board.Frame{
		Turn: 4,
		Snakes: []*board.Snake{
			{ID: "a", Name: "a", URL: url, Health: 88, Body: []*board.Point{{X: 1, Y: 1}, {X: 1, Y: 2}}},
		},
		Food: []*board.Point{{X: 3, Y: 3}},
	}
	return game, frame
}

func TestHTTPProviderProvideMove(t *testing.T) {
	ss := &snakeServer{move: "left"}
	server := httptest.NewServer(ss.handler())
	defer server.Close()

	game, frame := httpGameAndFrame(server.URL)
	provider := NewHTTPProvider()

	move, err := provider.ProvideMove(context.Background(), game, frame, "a")
	require.NoError(t, err)
	require.Equal(t, board.DirectionLeft, move)

	// The server saw the full snapshot.
	require.Equal(t, "http-test", ss.lastRq.Game.ID)
	require.Equal(t, int32(4), ss.lastRq.Turn)
	require.Equal(t, int32(11), ss.lastRq.Board.Width)
	require.Len(t, ss.lastRq.Board.Snakes, 1)
	require.Equal(t, "a", ss.lastRq.You.ID)
	require.Equal(t, int32(88), ss.lastRq.You.Health)
}

func TestHTTPProviderRejectsInvalidMove(t *testing.T) {
	ss := &snakeServer{move: "diagonal"}
	server := httptest.NewServer(ss.handler())
	defer server.Close()

	game, frame := httpGameAndFrame(server.URL)
	_, err := NewHTTPProvider().ProvideMove(context.Background(), game, frame, "a")
	require.Error(t, err)
}

func TestHTTPProviderRejectsBadStatus(t *testing.T) {
	ss := &snakeServer{move: "up", status: http.StatusInternalServerError}
	server := httptest.NewServer(ss.handler())
	defer server.Close()

	game, frame := httpGameAndFrame(server.URL)
	_, err := NewHTTPProvider().ProvideMove(context.Background(), game, frame, "a")
	require.Error(t, err)
}

func TestHTTPProviderInvalidURL(t *testing.T) {
	game, frame := httpGameAndFrame("not a url")
	_, err := NewHTTPProvider().ProvideMove(context.Background(), game, frame, "a")
	require.Error(t, err)
}

func TestHTTPProviderRespectsContextDeadline(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(time.Second)
	}))
	defer slow.Close()

	game, frame := httpGameAndFrame(slow.URL)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := NewHTTPProvider().ProvideMove(ctx, game, frame, "a")
	require.Error(t, err)
}

func TestHTTPProviderNotifications(t *testing.T) {
	ss := &snakeServer{move: "up"}
	server := httptest.NewServer(ss.handler())
	defer server.Close()

	game, frame := httpGameAndFrame(server.URL)
	provider := NewHTTPProvider()
	provider.NotifyStart(context.Background(), game, frame)
	provider.NotifyEnd(context.Background(), game, frame)

	ss.mu.Lock()
	defer ss.mu.Unlock()
	require.Equal(t, 1, ss.starts)
	require.Equal(t, 1, ss.ends)
}
