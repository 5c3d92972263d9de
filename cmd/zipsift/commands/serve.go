package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/zipsift/zipsift/analyze"
	"github.com/zipsift/zipsift/internal/resultstore"
	"github.com/zipsift/zipsift/server"
)

func NewServeCommand() *cobra.Command {
	var (
		host            string
		port            string
		enableWebSocket bool
		maxUpload       int64
		ttlFlag         time.Duration
		sweepFlag       time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve [flags]",
		Short: "Start the HTTP analysis server",
		Long: `Start the HTTP server

Accepts ZIP uploads on POST /analyze, stores each cleaned archive
under a single-use token and serves it once on GET /download/{token}.
Unretrieved results are evicted after the TTL.`,

		Example: `  # Default: listen on 127.0.0.1:8080
  zipsift serve

  # Public with a 5 minute link lifetime and activity feed
  zipsift serve --host 0.0.0.0 --ttl 5m --websocket`,

		RunE: func(cmd *cobra.Command, args []string) error {
			fc, err := loadFromCommand(cmd)
			if err != nil {
				return err
			}
			cfg, err := fc.PipelineConfig()
			if err != nil {
				return err
			}

			ttl, err := fc.StoreTTL(resultstore.DefaultTTL)
			if err != nil {
				return err
			}
			sweep, err := fc.StoreSweepInterval(resultstore.DefaultSweepInterval)
			if err != nil {
				return err
			}

			// Flags win over the config file.
			if cmd.Flags().Changed("ttl") {
				ttl = ttlFlag
			}
			if cmd.Flags().Changed("sweep-interval") {
				sweep = sweepFlag
			}

			addr := fmt.Sprintf("%s:%s", host, port)
			if fc.Server.Addr != "" && !cmd.Flags().Changed("host") && !cmd.Flags().Changed("port") {
				addr = fc.Server.Addr
			}
			if fc.Server.MaxUploadBytes > 0 && !cmd.Flags().Changed("max-upload") {
				maxUpload = fc.Server.MaxUploadBytes
			}
			if fc.Server.WebSocket && !cmd.Flags().Changed("websocket") {
				enableWebSocket = true
			}

			logger := analyze.NewDefaultLogger()
			cfg.Logger = logger

			store := resultstore.New(
				resultstore.WithTTL(ttl),
				resultstore.WithSweepInterval(sweep),
				resultstore.WithLogger(logger),
			)
			defer store.Close()

			srv := server.New(analyze.NewAnalyzer(cfg), store, &server.Config{
				Addr:            addr,
				MaxUploadBytes:  maxUpload,
				EnableWebSocket: enableWebSocket,
				Logger:          logger,
			})

			fmt.Printf("Starting zipsift HTTP server...\n")
			fmt.Printf("  Address:        http://%s\n", addr)
			fmt.Printf("  Link TTL:       %s\n", ttl)
			fmt.Printf("  Sweep interval: %s\n", sweep)
			fmt.Printf("  Max upload:     %d MB\n", maxUpload/(1024*1024))
			if enableWebSocket {
				fmt.Printf("  WebSocket:      enabled (/ws)\n")
			}
			fmt.Println()

			errCh := make(chan error, 1)
			go func() {
				errCh <- srv.ListenAndServe()
			}()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			select {
			case err := <-errCh:
				return err
			case sig := <-sigCh:
				fmt.Printf("\nReceived %s, shutting down...\n", sig)
				ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				return srv.Shutdown(ctx)
			}
		},
	}

	cmd.Flags().StringVar(&host, "host", "127.0.0.1", "HTTP server host")
	cmd.Flags().StringVar(&port, "port", "8080", "HTTP server port")
	cmd.Flags().BoolVar(&enableWebSocket, "websocket", false, "enable WebSocket activity feed")
	cmd.Flags().Int64Var(&maxUpload, "max-upload", server.DefaultMaxUploadBytes, "max upload size in bytes")
	cmd.Flags().DurationVar(&ttlFlag, "ttl", resultstore.DefaultTTL, "how long download links stay valid")
	cmd.Flags().DurationVar(&sweepFlag, "sweep-interval", resultstore.DefaultSweepInterval, "background eviction period")

	return cmd
}
