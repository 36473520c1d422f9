package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/ioutil"
	"net/http"
	"time"

	"github.com/davecgh/go-spew/spew"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/snakearena/arena/api"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "gets the status of a match from the arena engine",
	Args: func(c *cobra.Command, args []string) error {
		if len(matchID) == 0 {
			return errors.New("match id is required")
		}
		return nil
	},
	Run: func(*cobra.Command, []string) {
		spew.Dump(getStatus(matchID))
	},
}

var (
	matchID string
)

func init() {
	statusCmd.Flags().StringVarP(&matchID, "match-id", "g", "", "the match id of the match to get the status of")
}

func getStatus(id string) *api.StatusResponse {
	client := &http.Client{
		Timeout: 5 * time.Second,
	}

	resp, err := client.Get(fmt.Sprintf("%s/matches/%s", apiAddr, id))
	if err != nil {
		fmt.Println("error while getting from status endpoint", err)
		return nil
	}
	defer resp.Body.Close()

	data, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		fmt.Println("unable to read response body", err)
		return nil
	}

	sr := &api.StatusResponse{}
	if err := json.Unmarshal(data, sr); err != nil {
		log.WithFields(log.Fields{
			"resp": string(data),
			"id":   id,
		}).Infof("unable to unmarshal status response: %s", string(data))
		return nil
	}
	return sr
}
