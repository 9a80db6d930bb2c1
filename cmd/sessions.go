package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/zhubert/sessionhop/internal/socket"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Inspect or replace the daemon's session roster",
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the roster with positions",
	Args:  cobra.NoArgs,
	RunE:  runSessionsList,
}

var sessionsSetCmd = &cobra.Command{
	Use:   "set [name]...",
	Short: "Report the full set of live sessions",
	Long: `Sends a session update listing every live session. Known sessions keep
their positions, missing ones are dropped and new ones are appended.

Examples:
  sessionhop sessions set main work scratch
  sessionhop sessions set            # no live sessions`,
	RunE: runSessionsSet,
}

func init() {
	sessionsCmd.AddCommand(sessionsListCmd)
	sessionsCmd.AddCommand(sessionsSetCmd)
	rootCmd.AddCommand(sessionsCmd)
}

func dialDaemon() (*socket.Client, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	client, err := socket.NewClient(cfg.GetSocketPath())
	if err != nil {
		return nil, fmt.Errorf("is the daemon running? %w", err)
	}
	return client, nil
}

func runSessionsList(cmd *cobra.Command, args []string) error {
	client, err := dialDaemon()
	if err != nil {
		return err
	}
	defer client.Close()

	sessions, err := client.ListSessions()
	if err != nil {
		return err
	}
	printRoster(cmd, sessions)
	return nil
}

func runSessionsSet(cmd *cobra.Command, args []string) error {
	client, err := dialDaemon()
	if err != nil {
		return err
	}
	defer client.Close()

	res, err := client.SendSessionUpdate(args)
	if err != nil {
		return err
	}
	printRoster(cmd, res.Sessions)
	return nil
}

func printRoster(cmd *cobra.Command, sessions []string) {
	out := cmd.OutOrStdout()
	if len(sessions) == 0 {
		fmt.Fprintln(out, "No sessions.")
		return
	}
	for i, name := range sessions {
		fmt.Fprintf(out, "%3d  %s\n", i, name)
	}
}
