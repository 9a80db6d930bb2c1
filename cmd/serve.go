package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	pexec "github.com/zhubert/sessionhop/internal/exec"
	"github.com/zhubert/sessionhop/internal/logger"
	"github.com/zhubert/sessionhop/internal/plugin"
	"github.com/zhubert/sessionhop/internal/poller"
	"github.com/zhubert/sessionhop/internal/socket"
	"github.com/zhubert/sessionhop/internal/switcher"
)

var serveNoPoll bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the session directory daemon",
	Long: `Starts the daemon that owns the session roster.

Hosts report live sessions and deliver commands over the unix socket. Unless
--no-poll is given (or list_command is empty), the daemon also runs the
configured list command on an interval to keep the roster current. Sending
the daemon SIGHUP triggers an immediate refresh.

Examples:
  sessionhop serve
  sessionhop serve --no-poll --socket /tmp/hop.sock`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&serveNoPoll, "no-poll", false, "Do not run the list command; rely on sessionUpdate messages")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	defer logger.Close()

	log := logger.ComponentLogger("serve")
	executor := pexec.NewRealExecutor()

	sw := switcher.New(executor, cfg.GetSwitchCommand(),
		switcher.WithTimeout(cfg.GetSwitchTimeout()),
		switcher.WithNotifications(cfg.GetNotificationsEnabled()))
	state := plugin.NewState(sw, plugin.WithReservedWords(cfg.GetReservedWords()))
	host := plugin.NewHost(state)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hostDone := make(chan error, 1)
	go func() { hostDone <- host.Run(ctx) }()

	srv, err := socket.NewServer(cfg.GetSocketPath(), host)
	if err != nil {
		cancel()
		<-hostDone
		return fmt.Errorf("error starting server: %w", err)
	}
	srv.Start()

	if !serveNoPoll {
		p := poller.New(executor, cfg.GetListCommand(), cfg.GetPollInterval(), host)
		go p.Run(ctx)

		// SIGHUP polls right away instead of waiting for the next tick
		hupCh := make(chan os.Signal, 1)
		signal.Notify(hupCh, syscall.SIGHUP)
		defer signal.Stop(hupCh)
		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case <-hupCh:
					log.Info("received SIGHUP, refreshing sessions")
					_ = p.PollOnce(ctx)
				}
			}
		}()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		sig := <-sigCh
		log.Info("received signal, shutting down gracefully", "signal", sig)
		cancel()
		// On second signal, force exit
		sig = <-sigCh
		log.Warn("received second signal, force exiting", "signal", sig)
		os.Exit(1)
	}()

	fmt.Printf("sessionhop listening on %s\n", srv.SocketPath())
	log.Info("daemon started", "socket", srv.SocketPath(), "config", cfg.Path(), "polling", !serveNoPoll)

	<-ctx.Done()

	if err := srv.Close(); err != nil {
		log.Warn("error closing socket server", "error", err)
	}
	<-hostDone
	sw.Wait()
	log.Info("daemon stopped")
	return nil
}
