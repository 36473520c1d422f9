package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"
	"runtime"
	"sort"
	"strings"
	"sync"
	"text/tabwriter"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/snakearena/arena/board"
	"github.com/snakearena/arena/match"
	"github.com/snakearena/arena/replay"
	"github.com/snakearena/arena/rules"
)

var (
	simGames    int
	simSeed     int64
	simParallel int
	simJSON     bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "runs many seeded matches and aggregates the outcomes",
	Long: `Simulate runs the same match configuration repeatedly, incrementing
the seed by one for each match, and reports win counts per snake along
with the reasons losing snakes died.`,
	Args: func(c *cobra.Command, args []string) error {
		data, err := ioutil.ReadFile(configFile) // nolint: gosec
		if err != nil {
			return err
		}
		return json.Unmarshal(data, gameConfig)
	},
	Run: func(*cobra.Command, []string) {
		if err := simulate(gameConfig); err != nil {
			log.WithError(err).Error("simulation failed")
			os.Exit(1)
		}
	},
}

func init() {
	simulateCmd.Flags().StringVarP(&configFile, "config", "c", "match-config.json", "specify the location of the match config file")
	simulateCmd.Flags().IntVarP(&simGames, "games", "n", 100, "number of matches to simulate")
	simulateCmd.Flags().Int64VarP(&simSeed, "seed", "s", 1, "starting seed, incremented by 1 for each match")
	simulateCmd.Flags().IntVarP(&simParallel, "parallel", "p", runtime.NumCPU(), "matches to run concurrently")
	simulateCmd.Flags().BoolVar(&simJSON, "json", false, "print aggregated results as JSON")
}

// reasonStat counts one losing death cause and remembers example seeds
// so interesting matches can be replayed.
type reasonStat struct {
	Count int     `json:"count"`
	Seeds []int64 `json:"seeds"`
}

type simState struct {
	mu       sync.Mutex
	nextSeed int64
	lastSeed int64

	wins        map[string]int
	loseReasons map[string]map[string]*reasonStat
}

func (st *simState) claimSeed() (int64, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.nextSeed > st.lastSeed {
		return 0, false
	}
	seed := st.nextSeed
	st.nextSeed++
	return seed, true
}

func (st *simState) record(seed int64, winner, reason string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.wins[winner]++
	if reason == "" {
		return
	}
	reasons, ok := st.loseReasons[winner]
	if !ok {
		reasons = map[string]*reasonStat{}
		st.loseReasons[winner] = reasons
	}
	stat, ok := reasons[reason]
	if !ok {
		stat = &reasonStat{}
		reasons[reason] = stat
	}
	stat.Count++
	if len(stat.Seeds) < 5 {
		stat.Seeds = append(stat.Seeds, seed)
	}
}

func simulate(base *board.Game) error {
	if simGames < 1 {
		return fmt.Errorf("at least one game is required")
	}
	if !simJSON {
		fmt.Printf("Running %d games with %d workers\n", simGames, simParallel)
	}

	st := &simState{
		nextSeed:    simSeed,
		lastSeed:    simSeed + int64(simGames) - 1,
		wins:        map[string]int{},
		loseReasons: map[string]map[string]*reasonStat{},
	}

	workers := simParallel
	if workers < 1 {
		workers = 1
	}
	wg := &sync.WaitGroup{}
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for {
				seed, ok := st.claimSeed()
				if !ok {
					return
				}
				runSeed(st, base, seed)
			}
		}()
	}
	wg.Wait()

	if simJSON {
		out, err := json.MarshalIndent(map[string]interface{}{
			"games":       simGames,
			"wins":        st.wins,
			"loseReasons": st.loseReasons,
		}, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	printSummary(st)
	return nil
}

func runSeed(st *simState, base *board.Game, seed int64) {
	game := cloneConfig(base)
	game.Seed = seed
	rules.ApplyDefaults(game)

	c, err := match.NewController(game, match.NewHTTPProvider(), replay.InMemStore())
	if err != nil {
		log.WithError(err).WithField("seed", seed).Error("unable to create match")
		st.record(seed, "error", "")
		return
	}
	result, err := c.Run(context.Background())
	if err != nil {
		log.WithError(err).WithField("seed", seed).Error("match failed")
		st.record(seed, "error", "")
		return
	}

	winner := winnerKey(game, result)
	reason := loseReason(c.CurrentFrame())
	st.record(seed, winner, reason)

	if !simJSON {
		fmt.Printf("%05d = %s (turns %05d) %s\n", seed, winner, result.Turns, reason)
	}
}

func cloneConfig(base *board.Game) *board.Game {
	data, err := json.Marshal(base)
	if err != nil {
		panic(err)
	}
	game := &board.Game{}
	if err := json.Unmarshal(data, game); err != nil {
		panic(err)
	}
	game.ID = ""
	return game
}

func winnerKey(game *board.Game, result *board.Result) string {
	switch result.Outcome {
	case board.OutcomeWinner:
		for _, spec := range game.Snakes {
			if spec.ID == result.WinnerID && spec.Name != "" {
				return spec.Name
			}
		}
		return result.WinnerID
	case board.OutcomeDraw:
		return "tie"
	case board.OutcomeAllEliminated:
		return "none"
	default:
		return string(result.Outcome)
	}
}

// loseReason is why the last snake died: the causes of the deaths on the
// highest turn, joined when several snakes died together.
func loseReason(frame *board.Frame) string {
	if frame == nil {
		return ""
	}
	var lastTurn int32 = -1
	for _, s := range frame.DeadSnakes() {
		if s.Death.Turn > lastTurn {
			lastTurn = s.Death.Turn
		}
	}
	if lastTurn < 0 {
		return ""
	}
	causes := []string{}
	seen := map[string]bool{}
	for _, s := range frame.DeadSnakes() {
		if s.Death.Turn == lastTurn && !seen[s.Death.Cause] {
			seen[s.Death.Cause] = true
			causes = append(causes, s.Death.Cause)
		}
	}
	sort.Strings(causes)
	return strings.Join(causes, ",")
}

func printSummary(st *simState) {
	fmt.Println("\n===== RESULTS =====")
	fmt.Printf("GAMES SIMULATED: %d\n", simGames)

	winners := make([]string, 0, len(st.wins))
	for w := range st.wins {
		winners = append(winners, w)
	}
	sort.Strings(winners)
	for _, w := range winners {
		count := st.wins[w]
		fmt.Printf("%s WINS: %d (%.1f%%)\n", strings.ToUpper(w), count,
			float64(count)*100.0/float64(simGames))
	}

	for _, w := range winners {
		reasons := st.loseReasons[w]
		if len(reasons) == 0 {
			continue
		}
		fmt.Printf("\n%s wins by lose reason (why the last snake died)\n", strings.ToUpper(w))
		printReasonTable(reasons)
	}
}

func printReasonTable(reasons map[string]*reasonStat) {
	type row struct {
		reason string
		stat   *reasonStat
	}
	rows := make([]row, 0, len(reasons))
	for reason, stat := range reasons {
		rows = append(rows, row{reason, stat})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].stat.Count != rows[j].stat.Count {
			return rows[i].stat.Count > rows[j].stat.Count
		}
		return rows[i].reason < rows[j].reason
	})

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Reason\tCount\tSeed Examples")
	for _, r := range rows {
		examples := make([]string, 0, len(r.stat.Seeds))
		for _, s := range r.stat.Seeds {
			examples = append(examples, fmt.Sprintf("%d", s))
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\n", r.reason, r.stat.Count, strings.Join(examples, ", "))
	}
	if err := tw.Flush(); err != nil {
		log.WithError(err).Error("unable to print table")
	}
}
