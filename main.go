package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"PerfectCircle/internal/config"
	circlenet "PerfectCircle/internal/net"
	"PerfectCircle/internal/tui"
	"PerfectCircle/internal/ui"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "perfectcircle",
		Short:         "Draw a circle around the red dot and see how perfect it is",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := config.New(configPath)
			if err != nil {
				return err
			}
			log.Println("Starting desktop window")
			ui.RunApp(cfg)
			return nil
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath, "YAML config file")

	root.AddCommand(newWebCmd(&configPath))
	root.AddCommand(newTUICmd(&configPath))
	root.AddCommand(newDiscoverCmd())
	return root
}

func newWebCmd(configPath *string) *cobra.Command {
	var addr string
	var advertise bool

	cmd := &cobra.Command{
		Use:   "web",
		Short: "Serve the game to browsers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.New(*configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Addr = addr
			}
			if cmd.Flags().Changed("advertise") {
				cfg.Advertise = advertise
			}
			return runWeb(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", config.DefaultAddr, "listen address")
	cmd.Flags().BoolVar(&advertise, "advertise", false, "announce the game on the local network over mDNS")
	return cmd
}

func runWeb(ctx context.Context, cfg config.Config) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", cfg.Addr, err)
	}

	shareURL, port, err := circlenet.ShareURL(ln.Addr().String(), nil)
	if err != nil {
		log.Printf("[WEB] Could not build share link: %v", err)
	} else {
		log.Printf("[WEB] Open %s in a browser", shareURL)
	}

	if cfg.Advertise && port != 0 {
		server, err := circlenet.Advertise(cfg.ServiceName, port)
		if err != nil {
			log.Printf("[MDNS] %v", err)
		} else {
			defer server.Shutdown()
		}
	}

	return circlenet.NewServer(cfg).Serve(ctx, ln)
}

func newTUICmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Play in the terminal with the mouse",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := config.New(*configPath)
			if err != nil {
				return err
			}
			// log lines would tear the alt screen
			if f, err := os.CreateTemp("", "perfectcircle-*.log"); err == nil {
				defer f.Close()
				log.SetOutput(f)
			}
			return tui.Run(cfg)
		},
	}
}

func newDiscoverCmd() *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "discover",
		Short: "List games served on the local network",
		RunE: func(cmd *cobra.Command, _ []string) error {
			found := 0
			err := circlenet.Browse(timeout, func(h circlenet.Host) {
				found++
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", h.Name, h.URL())
			})
			if err != nil {
				return err
			}
			if found == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no games found")
			}
			return nil
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", 2*time.Second, "how long to listen for answers")
	return cmd
}
