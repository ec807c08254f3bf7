package cli

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jtladams423-replit/degen-gm/internal/board"
	"github.com/jtladams423-replit/degen-gm/internal/draft"
)

func newAdviseCmd(v *viper.Viper) *cobra.Command {
	var (
		drafted []string
		gone    []string
		cpu     bool
	)

	cmd := &cobra.Command{
		Use:   "advise TEAM",
		Short: "Suggest players for a team on the clock",
		Long: `Rank the board for TEAM. --drafted lists players TEAM already took, which
fills needs; --gone lists players taken by anyone else.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := loadBoard(v)
			if err != nil {
				return err
			}
			team := strings.ToUpper(args[0])

			picks, err := teamPicks(b, team, drafted)
			if err != nil {
				return err
			}
			taken := append(slices.Clone(drafted), gone...)
			available := slices.DeleteFunc(b.PlayerIDs(), func(id string) bool {
				return slices.Contains(taken, id)
			})

			if cpu {
				p, err := b.CPUPick(team, picks, available)
				if err != nil {
					return err
				}
				return render(cmd.OutOrStdout(), v, output{
					data:    p,
					headers: playerHeaders("Pick"),
					rows:    [][]string{playerRow("cpu", p)},
				})
			}

			s, err := b.Suggest(team, picks, available)
			if err != nil {
				return err
			}
			var rows [][]string
			for _, p := range s.BestAvailable {
				rows = append(rows, playerRow("best available", p))
			}
			for _, p := range s.BestByNeed {
				rows = append(rows, playerRow("need", p))
			}
			if s.Recommended != nil {
				rows = append(rows, playerRow("recommended", *s.Recommended))
			}
			if err := render(cmd.OutOrStdout(), v, output{
				data:    s,
				headers: playerHeaders("Why"),
				rows:    rows,
			}); err != nil {
				return err
			}
			if v.GetString("format") == formatTable {
				fmt.Fprintf(cmd.OutOrStdout(), "Needs: %s\n", strings.Join(s.RemainingNeeds, ", "))
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&drafted, "drafted", nil, "player ids TEAM has drafted")
	cmd.Flags().StringSliceVar(&gone, "gone", nil, "player ids drafted by other teams")
	cmd.Flags().BoolVar(&cpu, "cpu", false, "show only the pick a CPU team would make")
	return cmd
}

func teamPicks(b *board.Board, team string, ids []string) ([]draft.Pick, error) {
	picks := make([]draft.Pick, 0, len(ids))
	for _, id := range ids {
		p, ok := b.Player(id)
		if !ok {
			return nil, fmt.Errorf("unknown player %q", id)
		}
		picks = append(picks, draft.Pick{Team: team, Player: p})
	}
	return picks, nil
}

func playerHeaders(first string) []string {
	return []string{first, "Player", "Pos", "College", "Grade"}
}

func playerRow(why string, p draft.Player) []string {
	return []string{why, p.Name, p.Position, p.College, fmt.Sprintf("%.1f", p.Grade)}
}
