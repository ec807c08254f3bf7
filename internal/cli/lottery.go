package cli

import (
	"fmt"
	"math/rand"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jtladams423-replit/degen-gm/internal/lottery"
)

func newLotteryCmd(v *viper.Viper) *cobra.Command {
	var seed int64

	cmd := &cobra.Command{
		Use:   "lottery TEAM...",
		Short: "Run the weighted draft lottery",
		Long: `Run the lottery for up to 14 teams, worst record first. The first four
slots are drawn by weight; the rest keep record order.`,
		Args: cobra.RangeArgs(1, lottery.MaxTeams),
		RunE: func(cmd *cobra.Command, args []string) error {
			var rng lottery.Source
			if cmd.Flags().Changed("seed") {
				rng = rand.New(rand.NewSource(seed))
			}
			results := lottery.Simulate(args, rng)

			rows := make([][]string, 0, len(results))
			for _, r := range results {
				rows = append(rows, []string{
					strconv.Itoa(r.NewSlot),
					r.TeamCode,
					strconv.Itoa(r.OriginalSlot),
					fmt.Sprintf("%+d", r.Movement),
					r.Odds,
				})
			}
			return render(cmd.OutOrStdout(), v, output{
				data:    results,
				headers: []string{"Slot", "Team", "Was", "Move", "Odds"},
				rows:    rows,
			})
		},
	}
	cmd.Flags().Int64Var(&seed, "seed", 0, "seed for a repeatable draw")
	return cmd
}
