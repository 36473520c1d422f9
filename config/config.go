package config

import (
	"os"
	"strconv"

	"golang.org/x/time/rate"
)

// Configuration variables. These aren't user facing but useful for tuning the
// details of engine performance.
var (
	MaxOpenConns = getEnvInt("MAX_OPEN_CONNS", 20)
	MaxIdleConns = getEnvInt("MAX_IDLE_CONNS", 20)

	// TurnRate caps how many turns per second a match controller will
	// advance when pacing is enabled.
	TurnRate  = rate.Limit(getEnvInt("TURNS_PER_SECOND", 20))
	TurnBurst = getEnvInt("TURN_BURST", 1)

	// StreamRate caps the frames per second sent to replay websocket
	// clients.
	StreamRate  = rate.Limit(getEnvInt("STREAM_FPS", 20))
	StreamBurst = getEnvInt("STREAM_BURST", 5)
)

func getEnvInt(varName string, defaults int) int {
	val := os.Getenv(varName)
	if val == "" {
		return defaults
	}
	intVal, err := strconv.ParseInt(val, 10, 32)
	if err != nil {
		return defaults
	}
	return int(intVal)
}
