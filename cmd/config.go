package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or edit the configuration file",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configReserveCmd = &cobra.Command{
	Use:   "reserve <word>",
	Short: "Add a word that is never treated as a session target",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigReserve,
}

var configUnreserveCmd = &cobra.Command{
	Use:   "unreserve <word>",
	Short: "Remove a reserved word",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigUnreserve,
}

var configNotificationsCmd = &cobra.Command{
	Use:       "notifications <on|off>",
	Short:     "Toggle desktop notifications for failed switches",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"on", "off"},
	RunE:      runConfigNotifications,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configReserveCmd)
	configCmd.AddCommand(configUnreserveCmd)
	configCmd.AddCommand(configNotificationsCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "file:            %s\n", cfg.Path())
	fmt.Fprintf(out, "socket:          %s\n", cfg.GetSocketPath())
	fmt.Fprintf(out, "reserved words:  %s\n", strings.Join(cfg.GetReservedWords(), ", "))
	fmt.Fprintf(out, "switch command:  %s\n", strings.Join(cfg.GetSwitchCommand(), " "))
	if list := cfg.GetListCommand(); len(list) > 0 {
		fmt.Fprintf(out, "list command:    %s\n", strings.Join(list, " "))
	} else {
		fmt.Fprintln(out, "list command:    (polling disabled)")
	}
	fmt.Fprintf(out, "poll interval:   %s\n", cfg.GetPollInterval())
	fmt.Fprintf(out, "switch timeout:  %s\n", cfg.GetSwitchTimeout())
	fmt.Fprintf(out, "notifications:   %t\n", cfg.GetNotificationsEnabled())
	return nil
}

func runConfigReserve(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if !cfg.AddReservedWord(args[0]) {
		fmt.Fprintf(cmd.OutOrStdout(), "%q is already reserved.\n", args[0])
		return nil
	}
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("error saving config: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Reserved %q. Restart the daemon to apply.\n", args[0])
	return nil
}

func runConfigUnreserve(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if !cfg.RemoveReservedWord(args[0]) {
		fmt.Fprintf(cmd.OutOrStdout(), "%q is not reserved.\n", args[0])
		return nil
	}
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("error saving config: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Unreserved %q. Restart the daemon to apply.\n", args[0])
	return nil
}

func runConfigNotifications(cmd *cobra.Command, args []string) error {
	var enabled bool
	switch args[0] {
	case "on":
		enabled = true
	case "off":
	default:
		return fmt.Errorf("expected on or off, got %q", args[0])
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cfg.SetNotificationsEnabled(enabled)
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("error saving config: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Notifications %s.\n", args[0])
	return nil
}
