package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/snakearena/arena/board"
	"github.com/snakearena/arena/config"
	"github.com/snakearena/arena/match"
	"github.com/snakearena/arena/replay"
	"github.com/snakearena/arena/rules"
)

var runPaced bool

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "runs a single match locally and prints the result",
	Args: func(c *cobra.Command, args []string) error {
		data, err := ioutil.ReadFile(configFile) // nolint: gosec
		if err != nil {
			return err
		}
		return json.Unmarshal(data, gameConfig)
	},
	Run: func(*cobra.Command, []string) {
		result, err := runMatch(gameConfig)
		if err != nil {
			log.WithError(err).Error("match failed")
			os.Exit(1)
		}
		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			log.WithError(err).Error("unable to marshal result")
			os.Exit(1)
		}
		fmt.Println(string(out))
	},
}

func init() {
	runCmd.Flags().StringVarP(&configFile, "config", "c", "match-config.json", "specify the location of the match config file")
	runCmd.Flags().BoolVar(&runPaced, "paced", false, "pace turns at the configured turns per second")
}

func runMatch(game *board.Game) (*board.Result, error) {
	rules.ApplyDefaults(game)

	c, err := match.NewController(game, match.NewHTTPProvider(), replay.InMemStore())
	if err != nil {
		return nil, err
	}
	if runPaced {
		c.SetTurnLimiter(rate.NewLimiter(config.TurnRate, config.TurnBurst))
	}
	return c.Run(context.Background())
}
