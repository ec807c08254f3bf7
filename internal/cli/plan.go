package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jtladams423-replit/degen-gm/internal/draft"
	"github.com/jtladams423-replit/degen-gm/internal/slots"
)

func newPlanCmd(v *viper.Viper) *cobra.Command {
	var (
		rounds int
		comp   bool
		trades []string
	)

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Print the pick order for the board",
		Example: `  draftctl plan -b nfl-2025.yaml --rounds 2
  draftctl plan -b nfl-2025.yaml --trade 7:CLE:NYG`,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := loadBoard(v)
			if err != nil {
				return err
			}
			parsed, err := parseTrades(trades)
			if err != nil {
				return err
			}
			if err := slots.ValidateTrades(parsed); err != nil {
				return err
			}

			plan := b.Slots(rounds, comp, parsed)
			rows := make([][]string, 0, len(plan))
			for _, s := range plan {
				rows = append(rows, []string{
					strconv.Itoa(s.Overall),
					strconv.Itoa(s.Round),
					strconv.Itoa(s.PickInRound),
					s.TeamCode,
					s.OriginalTeamCode,
				})
			}
			return render(cmd.OutOrStdout(), v, output{
				data:    plan,
				headers: []string{"Overall", "Round", "Pick", "Team", "Via"},
				rows:    rows,
			})
		},
	}
	cmd.Flags().IntVarP(&rounds, "rounds", "r", 1, "number of rounds")
	cmd.Flags().BoolVar(&comp, "comp", false, "include compensatory picks")
	cmd.Flags().StringSliceVar(&trades, "trade", nil, "pick trade as OVERALL:FROM:TO (repeatable)")
	return cmd
}

func parseTrades(in []string) ([]draft.Trade, error) {
	out := make([]draft.Trade, 0, len(in))
	for _, s := range in {
		parts := strings.Split(s, ":")
		if len(parts) != 3 {
			return nil, fmt.Errorf("trade %q: want OVERALL:FROM:TO", s)
		}
		overall, err := strconv.Atoi(parts[0])
		if err != nil || overall <= 0 {
			return nil, fmt.Errorf("trade %q: bad pick number", s)
		}
		out = append(out, draft.Trade{
			PickOverall: overall,
			FromTeam:    strings.ToUpper(parts[1]),
			ToTeam:      strings.ToUpper(parts[2]),
		})
	}
	return out, nil
}
