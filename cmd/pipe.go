package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/zhubert/sessionhop/internal/socket"
)

var pipeCmd = &cobra.Command{
	Use:   "pipe <command>...",
	Short: "Send a command to the running daemon",
	Long: `Delivers a command payload to the daemon, which may switch sessions.

The payload is either a single quoted string or the words after "--".

Examples:
  sessionhop pipe 2
  sessionhop pipe "work --layout dev --cwd ~/src"
  sessionhop pipe -- --target scratch --layout compact`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPipe,
}

func init() {
	rootCmd.AddCommand(pipeCmd)
}

func runPipe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	client, err := socket.NewClient(cfg.GetSocketPath())
	if err != nil {
		return fmt.Errorf("is the daemon running? %w", err)
	}
	defer client.Close()

	res, err := client.SendPipe(joinPayload(args))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if res.Switched && res.Action != nil {
		fmt.Fprintf(out, "Switching to %s\n", res.Action)
		return nil
	}
	fmt.Fprintln(out, "No matching session.")
	return nil
}

// joinPayload rebuilds a single payload from command line words, quoting
// words that would otherwise split differently.
func joinPayload(args []string) string {
	if len(args) == 1 {
		return args[0]
	}
	quoted := make([]string, len(args))
	for i, a := range args {
		quoted[i] = quoteWord(a)
	}
	return strings.Join(quoted, " ")
}

func quoteWord(w string) string {
	if w != "" && !strings.ContainsAny(w, " \t\n'\"\\#") {
		return w
	}
	return "'" + strings.ReplaceAll(w, "'", `'\''`) + "'"
}
