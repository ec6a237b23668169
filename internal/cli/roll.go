package cli

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"
)

func newRollCmd() *cobra.Command {
	var (
		name string
		dc   int
	)

	cmd := &cobra.Command{
		Use:   "roll <code> <formula>",
		Short: "Roll dice in a room",
		Long: `Roll a dice formula in a room and broadcast the result to everyone in it.

Formulas combine NdS dice terms and integers with + - * / and parentheses,
for example 1d20+5, 4d6-1d4 or (2d8+3)*2. At most 100 dice of 1000 sides.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{
				"formula":     args[1],
				"player_name": name,
			}
			if cfg.PlayerID != "" {
				req["player_id"] = cfg.PlayerID
			}
			if cmd.Flags().Changed("dc") {
				req["dc"] = dc
			}

			var result RollRecord

			if err := client.Post(cmd.Context(), roomPath(args[0], "rolls"), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Your display name (required)")
	cmd.Flags().IntVar(&dc, "dc", 0, "Difficulty class to check the total against")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newHistoryCmd() *cobra.Command {
	var offset, limit int

	cmd := &cobra.Command{
		Use:   "history <code>",
		Short: "Show a room's roll history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := url.Values{}
			if offset > 0 {
				query.Set("offset", fmt.Sprint(offset))
			}
			if limit > 0 {
				query.Set("limit", fmt.Sprint(limit))
			}
			path := roomPath(args[0], "rolls")
			if len(query) > 0 {
				path += "?" + query.Encode()
			}

			var result RollHistory

			if err := client.Get(cmd.Context(), path, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&offset, "offset", 0, "Number of rolls to skip")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum rolls to show (default: server page size)")

	return cmd
}
