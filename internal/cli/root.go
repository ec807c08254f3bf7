// Package cli implements draftctl, the operator tool for running lotteries,
// planning pick order and asking the advisor outside a live session.
package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jtladams423-replit/degen-gm/internal/board"
)

const (
	formatTable = "table"
	formatJSON  = "json"
)

var errNoBoard = errors.New("no board file: pass --board or set DRAFTCTL_BOARD")

// NewRootCmd builds the command tree. Each call gets its own viper so tests
// can run commands side by side.
func NewRootCmd() *cobra.Command {
	v := viper.New()

	root := &cobra.Command{
		Use:   "draftctl",
		Short: "Draft lottery, pick order and advisor tools",
		Long: `draftctl runs the pieces of the draft engine that need no live session:
the weighted lottery, the slot planner and the pick advisor.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			switch f := v.GetString("format"); f {
			case formatTable, formatJSON:
				return nil
			default:
				return fmt.Errorf("unknown format %q", f)
			}
		},
	}

	// Global flags
	root.PersistentFlags().StringP("board", "b", "", "draft board YAML file")
	root.PersistentFlags().StringP("format", "o", formatTable, "output format: table or json")
	_ = v.BindPFlag("board", root.PersistentFlags().Lookup("board"))
	_ = v.BindPFlag("format", root.PersistentFlags().Lookup("format"))

	v.SetEnvPrefix("DRAFTCTL")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	root.AddCommand(
		newLotteryCmd(v),
		newPlanCmd(v),
		newAdviseCmd(v),
	)
	return root
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}

func loadBoard(v *viper.Viper) (*board.Board, error) {
	path := v.GetString("board")
	if path == "" {
		return nil, errNoBoard
	}
	return board.Load(path)
}
