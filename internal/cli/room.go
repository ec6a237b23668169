package cli

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"
)

func newRoomCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "room",
		Short: "Room management commands",
	}

	cmd.AddCommand(newRoomCreateCmd())
	cmd.AddCommand(newRoomGetCmd())
	cmd.AddCommand(newRoomJoinCmd())
	cmd.AddCommand(newRoomCapacityCmd())
	cmd.AddCommand(newRoomDisconnectedCmd())
	cmd.AddCommand(newRoomStatusCmd())

	return cmd
}

func roomPath(code string, parts ...string) string {
	p := "/api/v1/rooms/" + url.PathEscape(code)
	for _, part := range parts {
		p += "/" + url.PathEscape(part)
	}
	return p
}

func newRoomCreateCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new room",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{
				"player_name": name,
				"player_id":   cfg.PlayerID,
			}

			var result Room

			if err := client.Post(cmd.Context(), "/api/v1/rooms", req, &result); err != nil {
				return err
			}
			if err := cfg.SavePlayerID(result.CurrentPlayerID); err != nil {
				return fmt.Errorf("failed to save player ID: %w", err)
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Your display name (required)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newRoomGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <code>",
		Short: "Get room details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Room

			if err := client.Get(cmd.Context(), roomPath(args[0]), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newRoomJoinCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "join <code>",
		Short: "Join a room",
		Long: `Join a room by its code. Joining a room you are already in with the
same player ID marks you connected again.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{
				"player_name": name,
				"player_id":   cfg.PlayerID,
			}

			var result Room

			if err := client.Post(cmd.Context(), roomPath(args[0], "join"), req, &result); err != nil {
				return err
			}
			if err := cfg.SavePlayerID(result.CurrentPlayerID); err != nil {
				return fmt.Errorf("failed to save player ID: %w", err)
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Your display name (required)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newRoomCapacityCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "capacity <code>",
		Short: "Show how full a room is",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Capacity

			if err := client.Get(cmd.Context(), roomPath(args[0], "capacity"), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newRoomDisconnectedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "disconnected <code>",
		Short: "List disconnected players in a room",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result PlayerList

			if err := client.Get(cmd.Context(), roomPath(args[0], "players", "disconnected"), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newRoomStatusCmd() *cobra.Command {
	var connected bool

	cmd := &cobra.Command{
		Use:   "status <code> [player-id]",
		Short: "Mark a player connected or disconnected",
		Long: `Set a player's connection flag. The player defaults to your own
saved player ID.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			playerID := cfg.PlayerID
			if len(args) == 2 {
				playerID = args[1]
			}
			if playerID == "" {
				return fmt.Errorf("no player ID: pass one or join a room first")
			}

			req := map[string]bool{"connected": connected}
			if err := client.Patch(cmd.Context(), roomPath(args[0], "players", playerID), req, nil); err != nil {
				return err
			}

			state := "disconnected"
			if connected {
				state = "connected"
			}
			out := NewOutput(cfg.Output)
			out.PrintMessage(fmt.Sprintf("Player %s marked %s", playerID, state))
			return nil
		},
	}

	cmd.Flags().BoolVar(&connected, "connected", false, "Mark the player connected")

	return cmd
}
