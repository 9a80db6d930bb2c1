package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/zhubert/sessionhop/internal/plugin"
)

var resolveSessions string

var resolveCmd = &cobra.Command{
	Use:   "resolve <command>...",
	Short: "Show what a command would switch to, without a daemon",
	Long: `Parses and resolves a command against a roster given on the command
line. Nothing is executed.

Examples:
  sessionhop resolve --sessions a,b,c -- 1 --layout work --cwd /tmp
  sessionhop resolve "--target myroom"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runResolve,
}

func init() {
	resolveCmd.Flags().StringVar(&resolveSessions, "sessions", "", "Comma separated roster, in order")
	rootCmd.AddCommand(resolveCmd)
}

func runResolve(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	state := plugin.NewState(nil, plugin.WithReservedWords(cfg.GetReservedWords()))
	state.Update(splitRoster(resolveSessions))

	out := cmd.OutOrStdout()
	action, ok := state.Pipe(joinPayload(args))
	if !ok {
		fmt.Fprintln(out, "No switch.")
		return nil
	}
	fmt.Fprintf(out, "Would switch to %s\n", action)
	return nil
}

func splitRoster(s string) []string {
	var names []string
	for _, part := range strings.Split(s, ",") {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, name)
		}
	}
	return names
}
