package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aretw0/fittrack/internal/httpapi"
	"github.com/aretw0/fittrack/internal/platform"
	"github.com/aretw0/fittrack/pkg/auth"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the JSON API",
	Long: `Serve the JSON API on --addr (default: http.addr of fittrack.yaml or $FITTRACK_ADDR).
Per-user routes use HTTP basic auth.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := openService()
		if err != nil {
			return err
		}
		authn, err := platform.NewAuthenticator(svc, auth.WithLogger(logger))
		if err != nil {
			return err
		}

		addr := cfg.HTTP.Addr
		if serveAddr != "" {
			addr = serveAddr
		}

		ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
		defer stop()

		srv := httpapi.New(svc, authn,
			httpapi.WithLogger(logger),
			httpapi.WithAllowedOrigins(cfg.HTTP.AllowedOrigins...),
		)
		return srv.ListenAndServe(ctx, addr)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address")
	rootCmd.AddCommand(serveCmd)
}
