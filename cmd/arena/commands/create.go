package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/snakearena/arena/board"
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "creates a new match on the arena engine",
	Args: func(c *cobra.Command, args []string) error {
		data, err := ioutil.ReadFile(configFile) // nolint: gosec
		if err != nil {
			return err
		}
		return json.Unmarshal(data, gameConfig)
	},
	Run: func(*cobra.Command, []string) {
		id := createMatch()
		if id != "" {
			fmt.Printf(`{"id": "%s"}`, id)
		}
	},
}

var (
	configFile string
	gameConfig = &board.Game{}
)

func init() {
	createCmd.Flags().StringVarP(&configFile, "config", "c", "match-config.json", "specify the location of the match config file")
}

func createMatch() string {
	client := &http.Client{
		Timeout: 5 * time.Second,
	}

	data, err := json.Marshal(gameConfig)
	if err != nil {
		fmt.Println("unable to marshal request", err)
		return ""
	}
	resp, err := client.Post(fmt.Sprintf("%s/matches", apiAddr), "application/json", bytes.NewBuffer(data))
	if err != nil {
		fmt.Println("error while posting to create endpoint", err)
		return ""
	}
	defer resp.Body.Close()

	var created struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		fmt.Println("unable to unmarshal create response", err)
		return ""
	}
	return created.ID
}
