package cmd

import (
	"bufio"
	"fmt"
	"io"
	"net"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/zhubert/sessionhop/internal/logger"
)

var skipConfirm bool

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove a stale daemon socket and the debug log",
	Long: `Removes the socket file left behind by a daemon that did not shut down
cleanly, and truncates the debug log.

A socket that still answers is left alone. The command prompts for
confirmation unless --yes is given.`,
	Args: cobra.NoArgs,
	RunE: runClean,
}

func init() {
	cleanCmd.Flags().BoolVarP(&skipConfirm, "yes", "y", false, "Skip confirmation prompt")
	rootCmd.AddCommand(cleanCmd)
}

func runClean(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logPath := logger.Path()
	if logPath == "" {
		logPath = logger.DefaultLogPath
	}
	return runCleanWithReader(cmd.InOrStdin(), cmd.OutOrStdout(), cfg.GetSocketPath(), logPath)
}

// runCleanWithReader allows injecting input and paths for testing
func runCleanWithReader(input io.Reader, out io.Writer, socketPath, logPath string) error {
	staleSocket := false
	if _, err := os.Stat(socketPath); err == nil {
		if conn, err := net.DialTimeout("unix", socketPath, time.Second); err == nil {
			conn.Close()
			fmt.Fprintf(out, "Daemon is running on %s, leaving socket in place.\n", socketPath)
		} else {
			staleSocket = true
		}
	}

	logSize := int64(0)
	if info, err := os.Stat(logPath); err == nil {
		logSize = info.Size()
	}

	if !staleSocket && logSize == 0 {
		fmt.Fprintln(out, "Nothing to clean.")
		return nil
	}

	fmt.Fprintln(out, "This will clean:")
	if staleSocket {
		fmt.Fprintf(out, "  - stale socket %s\n", socketPath)
	}
	if logSize > 0 {
		fmt.Fprintf(out, "  - debug log %s (%d bytes)\n", logPath, logSize)
	}

	if !skipConfirm {
		if !confirm(input, out, "Continue?") {
			fmt.Fprintln(out, "Aborted.")
			return nil
		}
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Cleaned:")
	if staleSocket {
		if err := os.Remove(socketPath); err != nil && !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Warning: error removing socket: %v\n", err)
		} else {
			fmt.Fprintln(out, "  - stale socket removed")
		}
	}
	if logSize > 0 {
		if err := os.Truncate(logPath, 0); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: error truncating log: %v\n", err)
		} else {
			fmt.Fprintln(out, "  - debug log truncated")
		}
	}
	return nil
}

// confirm prompts the user for y/n confirmation
func confirm(input io.Reader, out io.Writer, prompt string) bool {
	reader := bufio.NewReader(input)
	fmt.Fprintf(out, "%s [y/N]: ", prompt)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes"
}
