package commands

import (
	"io"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/snakearena/arena/api"
	"github.com/snakearena/arena/replay"
	"github.com/snakearena/arena/replay/filestore"
	"github.com/snakearena/arena/replay/redisstore"
	"github.com/snakearena/arena/replay/sqlstore"
)

var (
	apiListen   = ":3005"
	backend     = "inmem"
	backendArgs = ""
	promEnable  = true
	promListen  = ":9000"
)

func init() {
	serverCmd.Flags().StringVarP(&apiListen, "listen", "l", apiListen, "api address to listen on")
	serverCmd.Flags().StringVarP(&backend, "backend", "b", backend, "replay backend, as one of: [inmem, file, redis, sql]")
	serverCmd.Flags().StringVarP(&backendArgs, "backend-args", "a", backendArgs, "options to pass to the backend being used")
	serverCmd.Flags().BoolVar(&promEnable, "prometheus", promEnable, "enable prometheus metrics")
	serverCmd.Flags().StringVar(&promListen, "prometheus-listen", promListen, "prometheus http endpoint")
}

var serverCmd = &cobra.Command{
	Use:    "server",
	Short:  "serve the arena game engine",
	PreRun: func(c *cobra.Command, args []string) { prometheus() },
	Run: func(c *cobra.Command, args []string) {
		var store replay.Store
		var err error
		switch backend {
		case "inmem":
			store = replay.InMemStore()
		case "file":
			store = filestore.NewFileStore(backendArgs)
		case "redis":
			store, err = redisstore.NewStore(backendArgs)
		case "sql":
			store, err = sqlstore.NewSQLStore(backendArgs)
		default:
			log.WithField("backend", backend).Fatal("invalid backend")
		}
		if err != nil {
			log.WithError(err).Error("unable to start up backend store")
			os.Exit(1)
		}

		if c, ok := store.(io.Closer); ok {
			defer func() {
				if err := c.Close(); err != nil {
					log.WithError(err).Error("unable to close store")
				}
			}()
		}

		srv := api.New(apiListen, replay.InstrumentStore(store))
		srv.WaitForExit()
	},
}

func prometheus() {
	if !promEnable {
		log.Info("prometheus exporter not enabled")
		return
	}

	log.WithField("addr", promListen).Info("starting prometheus exporter")
	go func() {
		r := http.NewServeMux()
		r.Handle("/metrics", promhttp.Handler())
		if err := http.ListenAndServe(promListen, r); err != nil {
			log.WithError(err).Warn("prometheus failed to listen")
		}
	}()
}
