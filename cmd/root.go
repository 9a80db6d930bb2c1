package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/zhubert/sessionhop/internal/config"
	"github.com/zhubert/sessionhop/internal/logger"
)

var (
	debugMode             bool
	quietMode             bool
	logFile               string
	socketOverride        string
	version, commit, date string
)

// SetVersionInfo sets version information from ldflags
func SetVersionInfo(v, c, d string) {
	version, commit, date = v, c, d
}

var rootCmd = &cobra.Command{
	Use:   "sessionhop",
	Short: "Jump between terminal multiplexer sessions by name or position",
	Long: `sessionhop keeps an ordered directory of live multiplexer sessions and
turns short commands like "2" or "--target work --layout dev" into session
switches.

Run "sessionhop serve" to start the daemon, then send it commands with
"sessionhop pipe".`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVarP(&quietMode, "quiet", "q", false, "Reduce logging to warnings and errors")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Log file (default "+logger.DefaultLogPath+")")
	rootCmd.PersistentFlags().StringVar(&socketOverride, "socket", "", "Daemon socket path (overrides config)")
}

func initConfig() {
	if logFile != "" {
		if err := logger.Init(logFile); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}
	switch {
	case quietMode:
		logger.SetLevel(logger.LevelWarn)
	case debugMode:
		logger.SetDebug(true)
	}
}

// loadConfig loads the config file and applies command line overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}
	if socketOverride != "" {
		cfg.SetSocketPath(socketOverride)
	}
	return cfg, nil
}

// Execute runs the root command
func Execute() error {
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(versionTemplate())
	return rootCmd.Execute()
}

func versionTemplate() string {
	if commit != "none" && commit != "" {
		return fmt.Sprintf("sessionhop %s\n  commit: %s\n  built:  %s\n", version, commit, date)
	}
	return fmt.Sprintf("sessionhop %s\n", version)
}
