package replay

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/snakearena/arena/board"
)

// InstrumentStore wraps all store methods to instrument the underlying calls.
func InstrumentStore(s Store) Store { return &metrics{s} }

var storeCalls = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: "arena",
		Subsystem: "replay",
		Name:      "calls",
		Help:      "Calls processed by the replay store.",
	},
	[]string{"method"},
)

func instrument(method string) func() {
	t := prometheus.NewTimer(storeCalls.WithLabelValues(method))
	return func() { t.ObserveDuration() }
}

func init() {
	prometheus.MustRegister(storeCalls)
}

type metrics struct{ s Store }

func (m *metrics) CreateMatch(ctx context.Context, g *board.Game, frames []*board.Frame) error {
	defer instrument("CreateMatch")()
	return m.s.CreateMatch(ctx, g, frames)
}

func (m *metrics) SetMatchStatus(ctx context.Context, id string, status board.GameStatus) error {
	defer instrument("SetMatchStatus")()
	return m.s.SetMatchStatus(ctx, id, status)
}

func (m *metrics) PushFrame(ctx context.Context, id string, f *board.Frame) error {
	defer instrument("PushFrame")()
	return m.s.PushFrame(ctx, id, f)
}

func (m *metrics) ListFrames(ctx context.Context, id string, limit, offset int) ([]*board.Frame, error) {
	defer instrument("ListFrames")()
	return m.s.ListFrames(ctx, id, limit, offset)
}

func (m *metrics) GetMatch(ctx context.Context, id string) (*board.Game, error) {
	defer instrument("GetMatch")()
	return m.s.GetMatch(ctx, id)
}
