package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/SmitUplenchwar2687/Retrace/internal/clock"
	"github.com/SmitUplenchwar2687/Retrace/internal/server"
	"github.com/SmitUplenchwar2687/Retrace/internal/storage"
)

func newServeCmd() *cobra.Command {
	var (
		opts  sessionOptions
		addr  string
		watch bool
	)

	cmd := &cobra.Command{
		Use:   "serve [name]",
		Short: "Start the review server with the browser dashboard",
		Long: `Starts an HTTP server that replays a recorded session in the browser.

Endpoints:
  GET  /                 Server info
  GET  /health           Health check
  GET  /api/timeline     Loaded timeline with stats
  GET  /api/timelines    Stored timeline names
  POST /api/load         Switch to another stored timeline
  GET  /api/state        Transport state
  POST /api/control      play, pause, toggle, stop, seek
  GET  /dashboard/       Review dashboard
  WS   /ws               Live transport state and commands`,
		Example: `  retrace serve
  retrace serve save_3 --addr :9090
  retrace serve --watch --storage-dir ./saves
  retrace serve --config retrace.yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}
			name := cfg.Replay.Name
			if len(args) == 1 {
				name = args[0]
				if err := storage.ValidateName(name); err != nil {
					return err
				}
			}

			st, err := storage.Open(cfg.Storage)
			if err != nil {
				return err
			}
			defer st.Close()

			var w *server.Watcher
			if watch {
				fs, ok := st.(*storage.FileStorage)
				if !ok {
					return fmt.Errorf("--watch requires the file storage backend, got %q", cfg.Storage.Backend)
				}
				if w, err = server.NewWatcher(fs.Dir(), nil); err != nil {
					return fmt.Errorf("watching %s: %w", fs.Dir(), err)
				}
				defer w.Close()
			}

			// Graceful shutdown on SIGINT/SIGTERM.
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			clk := clock.NewRealClock()
			session := server.NewSession(st, cfg.Recording.Interval, nil)
			// A missing timeline leaves an empty session; Load logs it.
			_ = session.Load(ctx, name)

			srv := server.New(cfg.Server.Addr, session, st, clk, server.Options{})

			log.Printf("Dashboard: http://localhost%s/dashboard/", cfg.Server.Addr)
			log.Printf("API:       http://localhost%s/api/state", cfg.Server.Addr)

			go func() {
				if err := session.Run(ctx, clk, cfg.Loop.Frame); err != nil {
					log.Printf("[replay] loop stopped: %v", err)
				}
			}()
			if w != nil {
				go session.Follow(ctx, w)
			}

			errCh := make(chan error, 1)
			go func() {
				errCh <- srv.Start()
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
				log.Println("shutting down...")
				session.Player().Stop()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				return srv.Shutdown(shutdownCtx)
			}
		},
	}

	opts.addFlags(cmd)
	cmd.Flags().StringVar(&addr, "addr", ":8080", "address to listen on")
	cmd.Flags().BoolVar(&watch, "watch", false, "reload the timeline when its file changes (file backend only)")

	return cmd
}
